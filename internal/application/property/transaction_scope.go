package property

import (
	"context"

	"github.com/propman/backend/internal/domain/property"
)

// TransactionScope provides transactional access to the property repositories
// so contract, link and charge mutations land atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the property repositories
// within a transaction.
type TransactionalRepositories interface {
	ContractRepo() property.ContractRepository
	ChargeRepo() property.ApartmentChargeRepository
	LinkRepo() property.ContractLinkRepository
	ApartmentRepo() property.ApartmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	contractRepo  property.ContractRepository
	chargeRepo    property.ApartmentChargeRepository
	linkRepo      property.ContractLinkRepository
	apartmentRepo property.ApartmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	contractRepo property.ContractRepository,
	chargeRepo property.ApartmentChargeRepository,
	linkRepo property.ContractLinkRepository,
	apartmentRepo property.ApartmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		contractRepo:  contractRepo,
		chargeRepo:    chargeRepo,
		linkRepo:      linkRepo,
		apartmentRepo: apartmentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ContractRepo returns the contract repository.
func (s *NoOpTransactionScope) ContractRepo() property.ContractRepository {
	return s.contractRepo
}

// ChargeRepo returns the apartment charge repository.
func (s *NoOpTransactionScope) ChargeRepo() property.ApartmentChargeRepository {
	return s.chargeRepo
}

// LinkRepo returns the contract link repository.
func (s *NoOpTransactionScope) LinkRepo() property.ContractLinkRepository {
	return s.linkRepo
}

// ApartmentRepo returns the apartment repository.
func (s *NoOpTransactionScope) ApartmentRepo() property.ApartmentRepository {
	return s.apartmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
