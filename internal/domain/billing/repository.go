package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillFilter narrows bill listings. The embedded Search term matches tenant
// identifiers (name, CNIC, phone) through the bill's contract.
type BillFilter struct {
	shared.Filter
	Month         *valueobject.Month
	ContractID    *uuid.UUID
	PaymentStatus *PaymentStatus
}

// BillRepository provides access to the bill ledger
type BillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	FindByContractAndMonth(ctx context.Context, contractID uuid.UUID, month valueobject.Month) (*Bill, error)
	// ExistsForMonth reports whether any bill was already issued for the month
	ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error)
	FindByMonth(ctx context.Context, month valueobject.Month) ([]Bill, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]Bill, error)
	FindAll(ctx context.Context, filter BillFilter) (*shared.Paginated[Bill], error)
	// SumUnpaidBefore returns the summed TotalAmount of the contract's bills
	// issued strictly before the month that are not fully paid. Used as the
	// arrears component of a new bill.
	SumUnpaidBefore(ctx context.Context, contractID uuid.UUID, month valueobject.Month) (decimal.Decimal, error)
	Save(ctx context.Context, bill *Bill) error
	// SaveAll persists a batch of bills; callers wrap it in a transaction so a
	// generation run lands atomically.
	SaveAll(ctx context.Context, bills []*Bill) error
}

// PaymentRepository provides access to the append-only payment ledger
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByBill(ctx context.Context, billID uuid.UUID) ([]Payment, error)
	// SumByBill returns the total of all payments recorded against the bill
	SumByBill(ctx context.Context, billID uuid.UUID) (decimal.Decimal, error)
	Create(ctx context.Context, payment *Payment) error
}
