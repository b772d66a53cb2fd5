package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodOnline:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is one append-only receipt against a bill. Payments are never
// edited or deleted; corrections are made by recording a further payment.
type Payment struct {
	shared.BaseEntity
	BillID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   string
	Notes       string
	ReceivedBy  string
}

// NewPayment records a receipt against a bill
func NewPayment(billID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, reference, notes, receivedBy string) (*Payment, error) {
	if billID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		BillID:      billID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Method:      method,
		Reference:   reference,
		Notes:       notes,
		ReceivedBy:  receivedBy,
	}, nil
}
