package payout

import (
	"context"

	"github.com/propman/backend/internal/domain/payout"
)

// TransactionScope provides transactional access to payout repositories so a
// generation run's payouts and items land atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the payout repositories within
// a transaction.
type TransactionalRepositories interface {
	// PayoutRepo returns the payout repository scoped to the current transaction
	PayoutRepo() payout.OwnerPayoutRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	payoutRepo payout.OwnerPayoutRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(payoutRepo payout.OwnerPayoutRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{payoutRepo: payoutRepo}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PayoutRepo returns the payout repository.
func (s *NoOpTransactionScope) PayoutRepo() payout.OwnerPayoutRepository {
	return s.payoutRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
