package payout

import (
	"context"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared/valueobject"
)

// OwnerPayoutRepository provides access to payouts and their line items
type OwnerPayoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OwnerPayout, error)
	FindByOwnerAndMonth(ctx context.Context, ownerID uuid.UUID, month valueobject.Month) (*OwnerPayout, error)
	FindByMonth(ctx context.Context, month valueobject.Month) ([]OwnerPayout, error)
	// ExistsForMonth reports whether any payout was already generated for the month
	ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error)
	FindItems(ctx context.Context, payoutID uuid.UUID) ([]OwnerPayoutItem, error)
	Save(ctx context.Context, payout *OwnerPayout) error
	// SaveAll persists a batch of payouts with their items; callers wrap it in
	// a transaction so a generation run lands atomically.
	SaveAll(ctx context.Context, payouts []*OwnerPayout) error
}
