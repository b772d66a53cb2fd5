package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// defaultReadingLimit bounds unpaginated history queries
const defaultReadingLimit = 100

// GormReadingRepository implements ReadingRepository using GORM
type GormReadingRepository struct {
	db *gorm.DB
}

// NewGormReadingRepository creates a new GormReadingRepository
func NewGormReadingRepository(db *gorm.DB) *GormReadingRepository {
	return &GormReadingRepository{db: db}
}

// FindByID finds a reading by its ID
func (r *GormReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Reading, error) {
	var model models.ReadingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestBefore finds the most recent reading strictly before the date,
// skipping excludeID when set
func (r *GormReadingRepository) FindLatestBefore(ctx context.Context, meterID uuid.UUID, date time.Time, excludeID uuid.UUID) (*metering.Reading, error) {
	query := r.db.WithContext(ctx).
		Where("meter_id = ? AND reading_date < ?", meterID, date)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var model models.ReadingModel
	if err := query.
		Order("reading_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForMonth finds the latest reading within the month
func (r *GormReadingRepository) FindForMonth(ctx context.Context, meterID uuid.UUID, month valueobject.Month) (*metering.Reading, error) {
	var model models.ReadingModel
	if err := r.db.WithContext(ctx).
		Where("meter_id = ? AND reading_date >= ? AND reading_date <= ?", meterID, month.Start(), month.End()).
		Order("reading_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsOnDate reports whether a reading exists for the meter on the calendar date
func (r *GormReadingRepository) ExistsOnDate(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReadingModel{}).
		Where("meter_id = ? AND reading_date >= ? AND reading_date < ?", meterID, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPrior reports whether any reading exists for the meter before the date
func (r *GormReadingRepository) HasPrior(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReadingModel{}).
		Where("meter_id = ? AND reading_date < ?", meterID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByMeter finds the meter's reading history, most recent first
func (r *GormReadingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID, limit int) ([]metering.Reading, error) {
	if limit <= 0 {
		limit = defaultReadingLimit
	}

	var readingModels []models.ReadingModel
	if err := r.db.WithContext(ctx).
		Where("meter_id = ?", meterID).
		Order("reading_date DESC").
		Limit(limit).
		Find(&readingModels).Error; err != nil {
		return nil, err
	}

	readings := make([]metering.Reading, len(readingModels))
	for i, model := range readingModels {
		readings[i] = *model.ToDomain()
	}
	return readings, nil
}

// FindByApartment finds readings across all meters of an apartment
func (r *GormReadingRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID, limit int) ([]metering.Reading, error) {
	if limit <= 0 {
		limit = defaultReadingLimit
	}

	var readingModels []models.ReadingModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN meters ON meters.id = meter_readings.meter_id").
		Where("meters.apartment_id = ?", apartmentID).
		Order("meter_readings.reading_date DESC").
		Limit(limit).
		Find(&readingModels).Error; err != nil {
		return nil, err
	}

	readings := make([]metering.Reading, len(readingModels))
	for i, model := range readingModels {
		readings[i] = *model.ToDomain()
	}
	return readings, nil
}

// Save creates or updates a reading
func (r *GormReadingRepository) Save(ctx context.Context, reading *metering.Reading) error {
	model := models.ReadingModelFromDomain(reading)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormReadingRepository implements ReadingRepository
var _ metering.ReadingRepository = (*GormReadingRepository)(nil)
