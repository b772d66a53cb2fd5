package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractLinkRepository implements ContractLinkRepository using GORM
type GormContractLinkRepository struct {
	db *gorm.DB
}

// NewGormContractLinkRepository creates a new GormContractLinkRepository
func NewGormContractLinkRepository(db *gorm.DB) *GormContractLinkRepository {
	return &GormContractLinkRepository{db: db}
}

// FindActiveByContract finds the contract's active linking rows
func (r *GormContractLinkRepository) FindActiveByContract(ctx context.Context, contractID uuid.UUID) ([]property.ContractLink, error) {
	var linkModels []models.ContractLinkModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND is_active = ?", contractID, true).
		Order("created_at ASC").
		Find(&linkModels).Error; err != nil {
		return nil, err
	}

	links := make([]property.ContractLink, len(linkModels))
	for i, model := range linkModels {
		links[i] = *model.ToDomain()
	}
	return links, nil
}

// FindActiveByApartment finds active linking rows pointing at the apartment
func (r *GormContractLinkRepository) FindActiveByApartment(ctx context.Context, apartmentID uuid.UUID) ([]property.ContractLink, error) {
	var linkModels []models.ContractLinkModel
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ? AND is_active = ?", apartmentID, true).
		Find(&linkModels).Error; err != nil {
		return nil, err
	}

	links := make([]property.ContractLink, len(linkModels))
	for i, model := range linkModels {
		links[i] = *model.ToDomain()
	}
	return links, nil
}

// Save creates or updates a linking row
func (r *GormContractLinkRepository) Save(ctx context.Context, link *property.ContractLink) error {
	model := models.ContractLinkModelFromDomain(link)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormContractLinkRepository implements ContractLinkRepository
var _ property.ContractLinkRepository = (*GormContractLinkRepository)(nil)
