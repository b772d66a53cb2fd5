package persistence

import (
	"context"

	apppayout "github.com/propman/backend/internal/application/payout"
	"github.com/propman/backend/internal/domain/payout"
	"gorm.io/gorm"
)

// GormPayoutTransactionScope implements the payout TransactionScope using a
// GORM transaction.
type GormPayoutTransactionScope struct {
	db *gorm.DB
}

// NewGormPayoutTransactionScope creates a new GormPayoutTransactionScope
func NewGormPayoutTransactionScope(db *gorm.DB) *GormPayoutTransactionScope {
	return &GormPayoutTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormPayoutTransactionScope) Execute(ctx context.Context, fn func(repos apppayout.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&payoutTxRepositories{tx: tx})
	})
}

// payoutTxRepositories provides repositories bound to one open transaction
type payoutTxRepositories struct {
	tx *gorm.DB
}

func (r *payoutTxRepositories) PayoutRepo() payout.OwnerPayoutRepository {
	return NewGormOwnerPayoutRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ apppayout.TransactionScope = (*GormPayoutTransactionScope)(nil)
var _ apppayout.TransactionalRepositories = (*payoutTxRepositories)(nil)
