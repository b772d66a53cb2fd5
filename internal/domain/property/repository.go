package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
)

// OwnerRepository provides access to owner records
type OwnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Owner, error)
	Save(ctx context.Context, owner *Owner) error
}

// TenantRepository provides access to tenant records
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// ApartmentRepository provides access to apartment records
type ApartmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Apartment, error)
	// FindByIDForUpdate loads the apartment row with a SELECT ... FOR UPDATE
	// lock; it must be called inside a transaction and serializes concurrent
	// reassignment of the same apartment.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Apartment, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Apartment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Apartment, error)
	Save(ctx context.Context, apartment *Apartment) error
}

// ContractRepository provides access to contract records
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindActive(ctx context.Context) ([]Contract, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contract, error)
	Save(ctx context.Context, contract *Contract) error
}

// ApartmentChargeRepository provides access to the authoritative per-apartment
// charge rows
type ApartmentChargeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ApartmentCharge, error)
	FindActiveByContract(ctx context.Context, contractID uuid.UUID) ([]ApartmentCharge, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]ApartmentCharge, error)
	Save(ctx context.Context, charge *ApartmentCharge) error
}

// ContractLinkRepository provides access to tenant-contract-apartment links
type ContractLinkRepository interface {
	FindActiveByContract(ctx context.Context, contractID uuid.UUID) ([]ContractLink, error)
	FindActiveByApartment(ctx context.Context, apartmentID uuid.UUID) ([]ContractLink, error)
	Save(ctx context.Context, link *ContractLink) error
}
