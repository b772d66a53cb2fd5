package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
)

// Apartment represents a rentable unit. An apartment may have at most one
// owner at a time; apartments without an owner are skipped by payout runs.
type Apartment struct {
	shared.BaseAggregateRoot
	Number   string
	Floor    string
	Building string
	OwnerID  *uuid.UUID
	IsActive bool
}

// NewApartment creates a new apartment
func NewApartment(number, floor, building string) (*Apartment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Apartment number cannot be empty")
	}
	return &Apartment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Floor:             floor,
		Building:          building,
		IsActive:          true,
	}, nil
}

// AssignOwner sets the apartment's owner
func (a *Apartment) AssignOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	a.OwnerID = &ownerID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// ClearOwner removes the apartment's owner
func (a *Apartment) ClearOwner() {
	a.OwnerID = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// HasOwner reports whether an owner is assigned
func (a *Apartment) HasOwner() bool {
	return a.OwnerID != nil && *a.OwnerID != uuid.Nil
}
