package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM.
// Payments are append-only, so only Create exists as a write path.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBill finds all payments recorded against a bill, oldest first
func (r *GormPaymentRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("payment_date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]billing.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// SumByBill returns the total of all payments recorded against the bill
func (r *GormPaymentRepository) SumByBill(ctx context.Context, billID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("bill_id = ?", billID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Create appends a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Create(model).Error
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
