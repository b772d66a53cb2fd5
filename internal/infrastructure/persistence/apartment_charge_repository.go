package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApartmentChargeRepository implements ApartmentChargeRepository using GORM
type GormApartmentChargeRepository struct {
	db *gorm.DB
}

// NewGormApartmentChargeRepository creates a new GormApartmentChargeRepository
func NewGormApartmentChargeRepository(db *gorm.DB) *GormApartmentChargeRepository {
	return &GormApartmentChargeRepository{db: db}
}

// FindByID finds a charge row by its ID
func (r *GormApartmentChargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.ApartmentCharge, error) {
	var model models.ApartmentChargeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByContract finds the contract's active charge rows
func (r *GormApartmentChargeRepository) FindActiveByContract(ctx context.Context, contractID uuid.UUID) ([]property.ApartmentCharge, error) {
	var chargeModels []models.ApartmentChargeModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND is_active = ?", contractID, true).
		Order("created_at ASC").
		Find(&chargeModels).Error; err != nil {
		return nil, err
	}

	charges := make([]property.ApartmentCharge, len(chargeModels))
	for i, model := range chargeModels {
		charges[i] = *model.ToDomain()
	}
	return charges, nil
}

// FindByContract finds all of the contract's charge rows including history
func (r *GormApartmentChargeRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]property.ApartmentCharge, error) {
	var chargeModels []models.ApartmentChargeModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&chargeModels).Error; err != nil {
		return nil, err
	}

	charges := make([]property.ApartmentCharge, len(chargeModels))
	for i, model := range chargeModels {
		charges[i] = *model.ToDomain()
	}
	return charges, nil
}

// Save creates or updates a charge row
func (r *GormApartmentChargeRepository) Save(ctx context.Context, charge *property.ApartmentCharge) error {
	model := models.ApartmentChargeModelFromDomain(charge)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormApartmentChargeRepository implements ApartmentChargeRepository
var _ property.ApartmentChargeRepository = (*GormApartmentChargeRepository)(nil)
