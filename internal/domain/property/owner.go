package property

import (
	"time"

	"github.com/propman/backend/internal/domain/shared"
)

// Owner represents an apartment owner who receives rent payouts
type Owner struct {
	shared.BaseAggregateRoot
	Name     string
	Phone    string
	Email    string
	CNIC     string // national identity number
	Address  string
	IsActive bool
}

// NewOwner creates a new owner
func NewOwner(name, phone string) (*Owner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Owner name cannot be empty")
	}
	return &Owner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		IsActive:          true,
	}, nil
}

// Deactivate marks the owner inactive
func (o *Owner) Deactivate() {
	o.IsActive = false
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Tenant represents a renter who holds contracts
type Tenant struct {
	shared.BaseAggregateRoot
	Name     string
	Phone    string
	Email    string
	CNIC     string
	IsActive bool
}

// NewTenant creates a new tenant
func NewTenant(name, phone string) (*Tenant, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		IsActive:          true,
	}, nil
}
