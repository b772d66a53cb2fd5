package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement state of a bill
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// UtilityRates carries the per-unit rates used by one generation run
type UtilityRates struct {
	Electric  decimal.Decimal `json:"electric"`
	Generator decimal.Decimal `json:"generator"`
	Water     decimal.Decimal `json:"water"`
}

// Validate rejects negative rates
func (r UtilityRates) Validate() error {
	if r.Electric.IsNegative() || r.Generator.IsNegative() || r.Water.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Utility rates cannot be negative")
	}
	return nil
}

// UtilityLine is one utility's consumption, rate and resulting amount on a bill
type UtilityLine struct {
	Units  decimal.Decimal `json:"units"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// NewUtilityLine computes amount = units x rate
func NewUtilityLine(units, rate decimal.Decimal) UtilityLine {
	return UtilityLine{Units: units, Rate: rate, Amount: units.Mul(rate)}
}

// Bill is one month's financial obligation for a contract. Charge values are
// copied from the active ApartmentCharge rows at generation time, not
// live-joined. Invariant: TotalAmount = electric + generator + water +
// service + rent + security + arrears + additional charges.
type Bill struct {
	shared.BaseAggregateRoot
	ContractID        uuid.UUID
	IssueMonth        valueobject.Month
	IssueDate         time.Time
	DueDate           time.Time
	Electric          UtilityLine
	Generator         UtilityLine
	Water             UtilityLine
	Rent              decimal.Decimal
	ServiceCharges    decimal.Decimal
	SecurityFees      decimal.Decimal // non-zero only on the contract's first bill
	Arrears           decimal.Decimal
	AdditionalCharges decimal.Decimal
	TotalAmount       decimal.Decimal
	AmountReceived    decimal.Decimal
	PaymentStatus     PaymentStatus
	Paid              bool
	PaidAt            *time.Time
}

// NewBill assembles a bill from its generation-time components
func NewBill(
	contractID uuid.UUID,
	issueMonth valueobject.Month,
	issueDate, dueDate time.Time,
	electric, generator, water UtilityLine,
	rent, serviceCharges, securityFees, arrears decimal.Decimal,
) (*Bill, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if issueMonth.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Issue month cannot be empty")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede issue date")
	}

	b := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		IssueMonth:        issueMonth,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Electric:          electric,
		Generator:         generator,
		Water:             water,
		Rent:              rent,
		ServiceCharges:    serviceCharges,
		SecurityFees:      securityFees,
		Arrears:           arrears,
		AdditionalCharges: decimal.Zero,
		AmountReceived:    decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
	}
	b.TotalAmount = b.ComputeTotal()
	return b, nil
}

// ComputeTotal returns the documented component sum. It is always computed
// fresh from the stored components, never from the cached TotalAmount.
func (b *Bill) ComputeTotal() decimal.Decimal {
	return b.Electric.Amount.
		Add(b.Generator.Amount).
		Add(b.Water.Amount).
		Add(b.ServiceCharges).
		Add(b.Rent).
		Add(b.SecurityFees).
		Add(b.Arrears).
		Add(b.AdditionalCharges)
}

// SetAdditionalCharges updates the manual adjustment and refreshes the total
func (b *Bill) SetAdditionalCharges(amount decimal.Decimal) {
	b.AdditionalCharges = amount
	b.TotalAmount = b.ComputeTotal()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetDueDate updates the due date
func (b *Bill) SetDueDate(dueDate time.Time) error {
	if dueDate.Before(b.IssueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede issue date")
	}
	b.DueDate = dueDate
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// RefreshPaymentState re-derives the settlement state from the given sum of
// all payments. Status becomes PAID when received >= total (overpayment is
// accepted uncapped), PARTIAL when 0 < received < total, UNPAID otherwise.
// The paid flag and timestamp are set only on the transition into PAID and
// are never cleared afterwards.
func (b *Bill) RefreshPaymentState(totalReceived decimal.Decimal, at time.Time) {
	b.AmountReceived = totalReceived
	total := b.ComputeTotal()
	b.TotalAmount = total

	switch {
	case totalReceived.GreaterThanOrEqual(total):
		b.PaymentStatus = PaymentStatusPaid
		if !b.Paid {
			b.Paid = true
			paidAt := at
			b.PaidAt = &paidAt
		}
	case totalReceived.IsPositive():
		b.PaymentStatus = PaymentStatusPartial
	default:
		b.PaymentStatus = PaymentStatusUnpaid
	}

	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// MarkPaid forces the bill into the paid state (operator action)
func (b *Bill) MarkPaid(at time.Time) {
	b.PaymentStatus = PaymentStatusPaid
	if !b.Paid {
		b.Paid = true
		paidAt := at
		b.PaidAt = &paidAt
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// IsPaid reports whether the bill is fully settled
func (b *Bill) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// Outstanding returns total minus received, floored at zero
func (b *Bill) Outstanding() decimal.Decimal {
	out := b.ComputeTotal().Sub(b.AmountReceived)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// IsFirstBill reports whether this bill carried the one-time security fee
func (b *Bill) IsFirstBill() bool {
	return b.SecurityFees.IsPositive()
}
