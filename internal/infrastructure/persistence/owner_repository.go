package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOwnerRepository implements OwnerRepository using GORM
type GormOwnerRepository struct {
	db *gorm.DB
}

// NewGormOwnerRepository creates a new GormOwnerRepository
func NewGormOwnerRepository(db *gorm.DB) *GormOwnerRepository {
	return &GormOwnerRepository{db: db}
}

// FindByID finds an owner by its ID
func (r *GormOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Owner, error) {
	var model models.OwnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all owners matching the filter
func (r *GormOwnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Owner, error) {
	var ownerModels []models.OwnerModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.OwnerModel{}), filter, "name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR cnic ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Find(&ownerModels).Error; err != nil {
		return nil, err
	}

	owners := make([]property.Owner, len(ownerModels))
	for i, model := range ownerModels {
		owners[i] = *model.ToDomain()
	}
	return owners, nil
}

// Save creates or updates an owner
func (r *GormOwnerRepository) Save(ctx context.Context, owner *property.Owner) error {
	model := models.OwnerModelFromDomain(owner)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilter applies pagination and ordering shared by the property repositories
func applyFilter(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}

// Ensure GormOwnerRepository implements OwnerRepository
var _ property.OwnerRepository = (*GormOwnerRepository)(nil)
