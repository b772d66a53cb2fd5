package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by its ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContractAndMonth finds the contract's bill for one month
func (r *GormBillRepository) FindByContractAndMonth(ctx context.Context, contractID uuid.UUID, month valueobject.Month) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND issue_month = ?", contractID, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsForMonth reports whether any bill was already issued for the month
func (r *GormBillRepository) ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("issue_month = ?", month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByMonth finds all bills issued for the month, in stable creation order
func (r *GormBillRepository) FindByMonth(ctx context.Context, month valueobject.Month) ([]billing.Bill, error) {
	var billModels []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("issue_month = ?", month).
		Order("created_at ASC").
		Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.Bill, len(billModels))
	for i, model := range billModels {
		bills[i] = *model.ToDomain()
	}
	return bills, nil
}

// FindByContract finds the contract's bill history, newest first
func (r *GormBillRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.Bill, error) {
	var billModels []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("issue_month DESC").
		Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.Bill, len(billModels))
	for i, model := range billModels {
		bills[i] = *model.ToDomain()
	}
	return bills, nil
}

// FindAll finds bills matching the filter, paginated. A search term matches
// the billed tenant's name, CNIC or phone through the contract.
func (r *GormBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) (*shared.Paginated[billing.Bill], error) {
	query := r.db.WithContext(ctx).Model(&models.BillModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN contracts ON contracts.id = bills.contract_id").
			Joins("JOIN tenants ON tenants.id = contracts.tenant_id").
			Where("LOWER(tenants.name) LIKE LOWER(?) OR LOWER(tenants.cnic) LIKE LOWER(?) OR LOWER(tenants.phone) LIKE LOWER(?)",
				pattern, pattern, pattern)
	}
	if filter.Month != nil {
		query = query.Where("bills.issue_month = ?", *filter.Month)
	}
	if filter.ContractID != nil {
		query = query.Where("bills.contract_id = ?", *filter.ContractID)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("bills.payment_status = ?", *filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var billModels []models.BillModel
	if err := query.
		Order("bills.issue_month DESC, bills.created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.Bill, len(billModels))
	for i, model := range billModels {
		bills[i] = *model.ToDomain()
	}

	result := shared.NewPaginated(bills, total, page, pageSize)
	return &result, nil
}

// SumUnpaidBefore sums the TotalAmount of the contract's not-fully-paid bills
// issued strictly before the month. Bills paid out of order drop out of the
// sum, so arrears always reflect the current unpaid set.
func (r *GormBillRepository) SumUnpaidBefore(ctx context.Context, contractID uuid.UUID, month valueobject.Month) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("contract_id = ? AND issue_month < ? AND payment_status <> ?",
			contractID, month, billing.PaymentStatusPaid).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	model := models.BillModelFromDomain(bill)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll persists a batch of bills
func (r *GormBillRepository) SaveAll(ctx context.Context, bills []*billing.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	billModels := make([]*models.BillModel, len(bills))
	for i, b := range bills {
		billModels[i] = models.BillModelFromDomain(b)
	}
	return r.db.WithContext(ctx).Save(billModels).Error
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
