package persistence

import (
	"context"

	appproperty "github.com/propman/backend/internal/application/property"
	"github.com/propman/backend/internal/domain/property"
	"gorm.io/gorm"
)

// GormPropertyTransactionScope implements the property TransactionScope using
// a GORM transaction. Apartment row locks taken inside the transaction hold
// until commit.
type GormPropertyTransactionScope struct {
	db *gorm.DB
}

// NewGormPropertyTransactionScope creates a new GormPropertyTransactionScope
func NewGormPropertyTransactionScope(db *gorm.DB) *GormPropertyTransactionScope {
	return &GormPropertyTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormPropertyTransactionScope) Execute(ctx context.Context, fn func(repos appproperty.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&propertyTxRepositories{tx: tx})
	})
}

// propertyTxRepositories provides repositories bound to one open transaction
type propertyTxRepositories struct {
	tx *gorm.DB
}

func (r *propertyTxRepositories) ContractRepo() property.ContractRepository {
	return NewGormContractRepository(r.tx)
}

func (r *propertyTxRepositories) ChargeRepo() property.ApartmentChargeRepository {
	return NewGormApartmentChargeRepository(r.tx)
}

func (r *propertyTxRepositories) LinkRepo() property.ContractLinkRepository {
	return NewGormContractLinkRepository(r.tx)
}

func (r *propertyTxRepositories) ApartmentRepo() property.ApartmentRepository {
	return NewGormApartmentRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appproperty.TransactionScope = (*GormPropertyTransactionScope)(nil)
var _ appproperty.TransactionalRepositories = (*propertyTxRepositories)(nil)
