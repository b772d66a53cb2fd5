package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayoutStatus represents the disbursement state of an owner payout
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "PENDING"
	PayoutStatusCleared PayoutStatus = "CLEARED"
	PayoutStatusPaid    PayoutStatus = "PAID"
)

// IsValid checks if the status is a valid PayoutStatus
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusCleared, PayoutStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

// OwnerPayout is the rent owed to one owner for one month, assembled from the
// month's bills. Exactly one payout exists per (owner, month). It never
// mutates the bills it was derived from.
type OwnerPayout struct {
	shared.BaseAggregateRoot
	OwnerID            uuid.UUID
	Month              valueobject.Month
	TotalRentCollected decimal.Decimal
	PayoutAmount       decimal.Decimal
	Status             PayoutStatus
	PayoutDate         *time.Time
	Notes              string
	Items              []OwnerPayoutItem
}

// OwnerPayoutItem records one (bill, apartment) rent contribution to a
// payout. Immutable audit trail of how the payout total was assembled.
type OwnerPayoutItem struct {
	shared.BaseEntity
	PayoutID    uuid.UUID
	BillID      uuid.UUID
	ApartmentID uuid.UUID
	ContractID  uuid.UUID
	RentShare   decimal.Decimal
}

// NewOwnerPayout creates a payout for an owner and month. Status starts as
// PENDING when any contributing bill is still unpaid, CLEARED otherwise.
func NewOwnerPayout(ownerID uuid.UUID, month valueobject.Month, hasPendingBills bool) (*OwnerPayout, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Payout month cannot be empty")
	}
	status := PayoutStatusCleared
	if hasPendingBills {
		status = PayoutStatusPending
	}
	return &OwnerPayout{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		OwnerID:            ownerID,
		Month:              month,
		TotalRentCollected: decimal.Zero,
		PayoutAmount:       decimal.Zero,
		Status:             status,
	}, nil
}

// AddItem appends one rent contribution and accumulates the payout totals
func (p *OwnerPayout) AddItem(billID, apartmentID, contractID uuid.UUID, rentShare decimal.Decimal) error {
	if billID == uuid.Nil || apartmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Payout item requires a bill and an apartment")
	}
	p.Items = append(p.Items, OwnerPayoutItem{
		BaseEntity:  shared.NewBaseEntity(),
		PayoutID:    p.ID,
		BillID:      billID,
		ApartmentID: apartmentID,
		ContractID:  contractID,
		RentShare:   rentShare,
	})
	p.TotalRentCollected = p.TotalRentCollected.Add(rentShare)
	p.PayoutAmount = p.TotalRentCollected
	return nil
}

// MarkPending flags the payout as waiting on unpaid contributing bills
func (p *OwnerPayout) MarkPending() {
	if p.Status == PayoutStatusPaid {
		return
	}
	p.Status = PayoutStatusPending
	p.UpdatedAt = time.Now()
}

// Clear promotes a pending payout once every contributing bill is paid
func (p *OwnerPayout) Clear() error {
	if p.Status == PayoutStatusPaid {
		return shared.NewDomainError("PAYOUT_ALREADY_PAID", "Payout has already been paid out")
	}
	p.Status = PayoutStatusCleared
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkPaid records the disbursement. Reachable from both PENDING and CLEARED;
// no re-check against contributing bill status is performed.
func (p *OwnerPayout) MarkPaid(date time.Time, notes string) error {
	if p.Status == PayoutStatusPaid {
		return shared.NewDomainError("PAYOUT_ALREADY_PAID", "Payout has already been paid out")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Payout date cannot be empty")
	}
	p.Status = PayoutStatusPaid
	paidAt := date
	p.PayoutDate = &paidAt
	if notes != "" {
		p.Notes = notes
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsPaid reports whether the payout has been disbursed
func (p *OwnerPayout) IsPaid() bool {
	return p.Status == PayoutStatusPaid
}
