package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for the Bill aggregate root.
// The unique index on (contract_id, issue_month) backstops duplicate
// generation runs racing past the application-level existence check.
type BillModel struct {
	AggregateModel
	ContractID        uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_bill_contract_month,priority:1"`
	IssueMonth        valueobject.Month     `gorm:"type:char(7);not null;uniqueIndex:idx_bill_contract_month,priority:2;index"`
	IssueDate         time.Time             `gorm:"not null"`
	DueDate           time.Time             `gorm:"not null"`
	ElectricUnits     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ElectricRate      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ElectricAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GeneratorUnits    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GeneratorRate     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GeneratorAmount   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	WaterUnits        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	WaterRate         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	WaterAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Rent              decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ServiceCharges    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	SecurityFees      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Arrears           decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AdditionalCharges decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus     billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	Paid              bool                  `gorm:"not null;default:false"`
	PaidAt            *time.Time
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill entity.
func (m *BillModel) ToDomain() *billing.Bill {
	return &billing.Bill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractID:        m.ContractID,
		IssueMonth:        m.IssueMonth,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Electric:          billing.UtilityLine{Units: m.ElectricUnits, Rate: m.ElectricRate, Amount: m.ElectricAmount},
		Generator:         billing.UtilityLine{Units: m.GeneratorUnits, Rate: m.GeneratorRate, Amount: m.GeneratorAmount},
		Water:             billing.UtilityLine{Units: m.WaterUnits, Rate: m.WaterRate, Amount: m.WaterAmount},
		Rent:              m.Rent,
		ServiceCharges:    m.ServiceCharges,
		SecurityFees:      m.SecurityFees,
		Arrears:           m.Arrears,
		AdditionalCharges: m.AdditionalCharges,
		TotalAmount:       m.TotalAmount,
		AmountReceived:    m.AmountReceived,
		PaymentStatus:     m.PaymentStatus,
		Paid:              m.Paid,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Bill entity.
func (m *BillModel) FromDomain(b *billing.Bill) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ContractID = b.ContractID
	m.IssueMonth = b.IssueMonth
	m.IssueDate = b.IssueDate
	m.DueDate = b.DueDate
	m.ElectricUnits = b.Electric.Units
	m.ElectricRate = b.Electric.Rate
	m.ElectricAmount = b.Electric.Amount
	m.GeneratorUnits = b.Generator.Units
	m.GeneratorRate = b.Generator.Rate
	m.GeneratorAmount = b.Generator.Amount
	m.WaterUnits = b.Water.Units
	m.WaterRate = b.Water.Rate
	m.WaterAmount = b.Water.Amount
	m.Rent = b.Rent
	m.ServiceCharges = b.ServiceCharges
	m.SecurityFees = b.SecurityFees
	m.Arrears = b.Arrears
	m.AdditionalCharges = b.AdditionalCharges
	m.TotalAmount = b.TotalAmount
	m.AmountReceived = b.AmountReceived
	m.PaymentStatus = b.PaymentStatus
	m.Paid = b.Paid
	m.PaidAt = b.PaidAt
}

// BillModelFromDomain creates a new persistence model from a domain Bill entity.
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(b)
	return m
}

// PaymentModel is the persistence model for the Payment entity. Payments are
// append-only; no update path exists.
type PaymentModel struct {
	BaseModel
	BillID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time             `gorm:"not null"`
	Method      billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference   string                `gorm:"type:varchar(100)"`
	Notes       string                `gorm:"type:text"`
	ReceivedBy  string                `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "bill_payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		BillID:      m.BillID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Method:      m.Method,
		Reference:   m.Reference,
		Notes:       m.Notes,
		ReceivedBy:  m.ReceivedBy,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.BillID = p.BillID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.ReceivedBy = p.ReceivedBy
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
