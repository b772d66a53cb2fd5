package persistence

import (
	"context"

	appbilling "github.com/propman/backend/internal/application/billing"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/property"
	"gorm.io/gorm"
)

// GormBillingTransactionScope implements the billing TransactionScope using a
// GORM transaction. A generation run's bills and contract flag updates commit
// or roll back together.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&billingTxRepositories{tx: tx})
	})
}

// billingTxRepositories provides repositories bound to one open transaction
type billingTxRepositories struct {
	tx *gorm.DB
}

func (r *billingTxRepositories) BillRepo() billing.BillRepository {
	return NewGormBillRepository(r.tx)
}

func (r *billingTxRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *billingTxRepositories) ContractRepo() property.ContractRepository {
	return NewGormContractRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*billingTxRepositories)(nil)
