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

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tenants matching the filter
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Tenant, error) {
	var tenantModels []models.TenantModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.TenantModel{}), filter, "name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR cnic ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Find(&tenantModels).Error; err != nil {
		return nil, err
	}

	tenants := make([]property.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = *model.ToDomain()
	}
	return tenants, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *property.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTenantRepository implements TenantRepository
var _ property.TenantRepository = (*GormTenantRepository)(nil)
