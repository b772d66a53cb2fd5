package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMeterRepository implements MeterRepository using GORM
type GormMeterRepository struct {
	db *gorm.DB
}

// NewGormMeterRepository creates a new GormMeterRepository
func NewGormMeterRepository(db *gorm.DB) *GormMeterRepository {
	return &GormMeterRepository{db: db}
}

// FindByID finds a meter by its ID
func (r *GormMeterRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Meter, error) {
	var model models.MeterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByApartment finds all meters of an apartment
func (r *GormMeterRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]metering.Meter, error) {
	var meterModels []models.MeterModel
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		Order("type ASC").
		Find(&meterModels).Error; err != nil {
		return nil, err
	}

	meters := make([]metering.Meter, len(meterModels))
	for i, model := range meterModels {
		meters[i] = *model.ToDomain()
	}
	return meters, nil
}

// FindByApartmentAndType finds the apartment's active meter of one type
func (r *GormMeterRepository) FindByApartmentAndType(ctx context.Context, apartmentID uuid.UUID, meterType metering.MeterType) (*metering.Meter, error) {
	var model models.MeterModel
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ? AND type = ? AND is_active = ?", apartmentID, meterType, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a meter
func (r *GormMeterRepository) Save(ctx context.Context, meter *metering.Meter) error {
	model := models.MeterModelFromDomain(meter)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormMeterRepository implements MeterRepository
var _ metering.MeterRepository = (*GormMeterRepository)(nil)
