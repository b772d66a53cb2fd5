package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ApartmentCharge is the authoritative rent/service/security split for one
// apartment within one contract. Many rows may exist historically per
// contract; only rows with IsActive=true count toward bill generation.
// Invariant: an active contract has exactly one active charge row per
// currently-assigned apartment.
type ApartmentCharge struct {
	shared.BaseEntity
	ContractID     uuid.UUID
	ApartmentID    uuid.UUID
	Rent           decimal.Decimal
	ServiceCharges decimal.Decimal
	SecurityFees   decimal.Decimal
	IsActive       bool
}

// NewApartmentCharge creates a new active charge row
func NewApartmentCharge(contractID, apartmentID uuid.UUID, rent, serviceCharges, securityFees decimal.Decimal) (*ApartmentCharge, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if rent.IsNegative() || serviceCharges.IsNegative() || securityFees.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Charge amounts cannot be negative")
	}
	return &ApartmentCharge{
		BaseEntity:     shared.NewBaseEntity(),
		ContractID:     contractID,
		ApartmentID:    apartmentID,
		Rent:           rent,
		ServiceCharges: serviceCharges,
		SecurityFees:   securityFees,
		IsActive:       true,
	}, nil
}

// Deactivate retires the charge row, keeping it as history
func (c *ApartmentCharge) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// ContractLink is an active tenant-contract-apartment linking row. Bill
// generation resolves a contract's current apartments through these rows.
type ContractLink struct {
	shared.BaseEntity
	ContractID  uuid.UUID
	TenantID    uuid.UUID
	ApartmentID uuid.UUID
	IsActive    bool
}

// NewContractLink creates an active linking row
func NewContractLink(contractID, tenantID, apartmentID uuid.UUID) (*ContractLink, error) {
	if contractID == uuid.Nil || tenantID == uuid.Nil || apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINK", "Contract, tenant and apartment IDs are all required")
	}
	return &ContractLink{
		BaseEntity:  shared.NewBaseEntity(),
		ContractID:  contractID,
		TenantID:    tenantID,
		ApartmentID: apartmentID,
		IsActive:    true,
	}, nil
}

// Deactivate retires the linking row
func (l *ContractLink) Deactivate() {
	l.IsActive = false
	l.UpdatedAt = time.Now()
}
