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

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active contracts, in stable creation order
func (r *GormContractRepository) FindActive(ctx context.Context) ([]property.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]property.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// FindAll finds all contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Contract, error) {
	var contractModels []models.ContractModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter, "created_at DESC")

	for key, value := range filter.Filters {
		switch key {
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]property.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *property.Contract) error {
	model := models.ContractModelFromDomain(contract)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormContractRepository implements ContractRepository
var _ property.ContractRepository = (*GormContractRepository)(nil)
