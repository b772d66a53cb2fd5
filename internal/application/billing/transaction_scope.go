package billing

import (
	"context"

	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/property"
)

// TransactionScope provides transactional access to billing repositories.
// A generation run or a payment application executes inside one scope so its
// writes commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a billing
// transaction touches. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// BillRepo returns the bill repository scoped to the current transaction
	BillRepo() billing.BillRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
	// ContractRepo returns the contract repository scoped to the current
	// transaction; generation marks the security-fee flag through it
	ContractRepo() property.ContractRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	billRepo     billing.BillRepository
	paymentRepo  billing.PaymentRepository
	contractRepo property.ContractRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	contractRepo property.ContractRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		billRepo:     billRepo,
		paymentRepo:  paymentRepo,
		contractRepo: contractRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BillRepo returns the bill repository.
func (s *NoOpTransactionScope) BillRepo() billing.BillRepository {
	return s.billRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// ContractRepo returns the contract repository.
func (s *NoOpTransactionScope) ContractRepo() property.ContractRepository {
	return s.contractRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
