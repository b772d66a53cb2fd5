package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/payout"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOwnerPayoutRepository implements OwnerPayoutRepository using GORM.
// A payout's line items are persisted alongside the payout row; Save writes
// items only when the aggregate carries them (generation), later status
// updates leave the immutable items untouched.
type GormOwnerPayoutRepository struct {
	db *gorm.DB
}

// NewGormOwnerPayoutRepository creates a new GormOwnerPayoutRepository
func NewGormOwnerPayoutRepository(db *gorm.DB) *GormOwnerPayoutRepository {
	return &GormOwnerPayoutRepository{db: db}
}

// FindByID finds a payout by its ID
func (r *GormOwnerPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*payout.OwnerPayout, error) {
	var model models.OwnerPayoutModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwnerAndMonth finds the owner's payout for one month
func (r *GormOwnerPayoutRepository) FindByOwnerAndMonth(ctx context.Context, ownerID uuid.UUID, month valueobject.Month) (*payout.OwnerPayout, error) {
	var model models.OwnerPayoutModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND month = ?", ownerID, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMonth finds all payouts for the month, in stable creation order
func (r *GormOwnerPayoutRepository) FindByMonth(ctx context.Context, month valueobject.Month) ([]payout.OwnerPayout, error) {
	var payoutModels []models.OwnerPayoutModel
	if err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("created_at ASC").
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}

	payouts := make([]payout.OwnerPayout, len(payoutModels))
	for i, model := range payoutModels {
		payouts[i] = *model.ToDomain()
	}
	return payouts, nil
}

// ExistsForMonth reports whether any payout was already generated for the month
func (r *GormOwnerPayoutRepository) ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OwnerPayoutModel{}).
		Where("month = ?", month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindItems finds the payout's line items
func (r *GormOwnerPayoutRepository) FindItems(ctx context.Context, payoutID uuid.UUID) ([]payout.OwnerPayoutItem, error) {
	var itemModels []models.OwnerPayoutItemModel
	if err := r.db.WithContext(ctx).
		Where("payout_id = ?", payoutID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]payout.OwnerPayoutItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a payout together with any items it carries
func (r *GormOwnerPayoutRepository) Save(ctx context.Context, p *payout.OwnerPayout) error {
	model := models.OwnerPayoutModelFromDomain(p)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	return r.saveItems(ctx, p)
}

// SaveAll persists a batch of payouts with their items
func (r *GormOwnerPayoutRepository) SaveAll(ctx context.Context, payouts []*payout.OwnerPayout) error {
	if len(payouts) == 0 {
		return nil
	}
	for _, p := range payouts {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormOwnerPayoutRepository) saveItems(ctx context.Context, p *payout.OwnerPayout) error {
	if len(p.Items) == 0 {
		return nil
	}
	itemModels := make([]*models.OwnerPayoutItemModel, len(p.Items))
	for i := range p.Items {
		itemModels[i] = models.OwnerPayoutItemModelFromDomain(&p.Items[i])
	}
	return r.db.WithContext(ctx).Save(itemModels).Error
}

// Ensure GormOwnerPayoutRepository implements OwnerPayoutRepository
var _ payout.OwnerPayoutRepository = (*GormOwnerPayoutRepository)(nil)
