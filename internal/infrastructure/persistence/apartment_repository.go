package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormApartmentRepository implements ApartmentRepository using GORM
type GormApartmentRepository struct {
	db *gorm.DB
}

// NewGormApartmentRepository creates a new GormApartmentRepository
func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

// FindByID finds an apartment by its ID
func (r *GormApartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Apartment, error) {
	var model models.ApartmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads the apartment row with a SELECT ... FOR UPDATE lock.
// Must run inside a transaction; concurrent assignment of the same apartment
// serializes on this lock.
func (r *GormApartmentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*property.Apartment, error) {
	var model models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple apartments by their IDs
func (r *GormApartmentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]property.Apartment, error) {
	if len(ids) == 0 {
		return []property.Apartment{}, nil
	}

	var apartmentModels []models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&apartmentModels).Error; err != nil {
		return nil, err
	}

	apartments := make([]property.Apartment, len(apartmentModels))
	for i, model := range apartmentModels {
		apartments[i] = *model.ToDomain()
	}
	return apartments, nil
}

// FindAll finds all apartments matching the filter
func (r *GormApartmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Apartment, error) {
	var apartmentModels []models.ApartmentModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.ApartmentModel{}), filter, "building ASC, number ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR building ILIKE ?", pattern, pattern)
	}

	if err := query.Find(&apartmentModels).Error; err != nil {
		return nil, err
	}

	apartments := make([]property.Apartment, len(apartmentModels))
	for i, model := range apartmentModels {
		apartments[i] = *model.ToDomain()
	}
	return apartments, nil
}

// Save creates or updates an apartment
func (r *GormApartmentRepository) Save(ctx context.Context, apartment *property.Apartment) error {
	model := models.ApartmentModelFromDomain(apartment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormApartmentRepository implements ApartmentRepository
var _ property.ApartmentRepository = (*GormApartmentRepository)(nil)
