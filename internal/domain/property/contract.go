package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Contract represents a rental agreement linking one tenant to one or more
// apartments. The Total* fields are a cached projection of the active
// ApartmentCharge rows; they are recomputed on every charge mutation and
// never hand-written.
type Contract struct {
	shared.BaseAggregateRoot
	TenantID            uuid.UUID
	StartDate           time.Time
	EndDate             *time.Time
	TotalRent           decimal.Decimal
	TotalServiceCharges decimal.Decimal
	TotalSecurityFees   decimal.Decimal
	// SecurityFeeApplied is set transactionally when the contract's first
	// bill is generated; it replaces a count-over-bills query so concurrent
	// generation attempts cannot both charge the fee.
	SecurityFeeApplied bool
	IsActive           bool
	Notes              string
}

// NewContract creates a new contract for a tenant
func NewContract(tenantID uuid.UUID, startDate time.Time) (*Contract, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Contract start date cannot be empty")
	}
	return &Contract{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		TenantID:            tenantID,
		StartDate:           startDate,
		TotalRent:           decimal.Zero,
		TotalServiceCharges: decimal.Zero,
		TotalSecurityFees:   decimal.Zero,
		IsActive:            true,
	}, nil
}

// RecomputeTotals refreshes the cached charge totals from the authoritative
// active charge rows
func (c *Contract) RecomputeTotals(activeCharges []ApartmentCharge) {
	rent, service, security := decimal.Zero, decimal.Zero, decimal.Zero
	for _, charge := range activeCharges {
		if !charge.IsActive {
			continue
		}
		rent = rent.Add(charge.Rent)
		service = service.Add(charge.ServiceCharges)
		security = security.Add(charge.SecurityFees)
	}
	c.TotalRent = rent
	c.TotalServiceCharges = service
	c.TotalSecurityFees = security
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// MarkSecurityFeeApplied records that the one-time security fee has been
// charged on a generated bill
func (c *Contract) MarkSecurityFeeApplied() {
	c.SecurityFeeApplied = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Terminate ends the contract
func (c *Contract) Terminate(endDate time.Time) error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Contract is already terminated")
	}
	if endDate.Before(c.StartDate) {
		return shared.NewDomainError("INVALID_END_DATE", "Contract end date cannot precede start date")
	}
	c.IsActive = false
	c.EndDate = &endDate
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
