package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/payout"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OwnerPayoutModel is the persistence model for the OwnerPayout aggregate root.
// The unique index on (owner_id, month) enforces one payout per owner per month.
type OwnerPayoutModel struct {
	AggregateModel
	OwnerID            uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_payout_owner_month,priority:1"`
	Month              valueobject.Month   `gorm:"type:char(7);not null;uniqueIndex:idx_payout_owner_month,priority:2;index"`
	TotalRentCollected decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PayoutAmount       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status             payout.PayoutStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PayoutDate         *time.Time
	Notes              string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OwnerPayoutModel) TableName() string {
	return "owner_payouts"
}

// ToDomain converts the persistence model to a domain OwnerPayout entity.
// Items are loaded separately by the repository.
func (m *OwnerPayoutModel) ToDomain() *payout.OwnerPayout {
	return &payout.OwnerPayout{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		OwnerID:            m.OwnerID,
		Month:              m.Month,
		TotalRentCollected: m.TotalRentCollected,
		PayoutAmount:       m.PayoutAmount,
		Status:             m.Status,
		PayoutDate:         m.PayoutDate,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain OwnerPayout entity.
func (m *OwnerPayoutModel) FromDomain(p *payout.OwnerPayout) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.OwnerID = p.OwnerID
	m.Month = p.Month
	m.TotalRentCollected = p.TotalRentCollected
	m.PayoutAmount = p.PayoutAmount
	m.Status = p.Status
	m.PayoutDate = p.PayoutDate
	m.Notes = p.Notes
}

// OwnerPayoutModelFromDomain creates a new persistence model from a domain OwnerPayout entity.
func OwnerPayoutModelFromDomain(p *payout.OwnerPayout) *OwnerPayoutModel {
	m := &OwnerPayoutModel{}
	m.FromDomain(p)
	return m
}

// OwnerPayoutItemModel is the persistence model for the OwnerPayoutItem entity.
type OwnerPayoutItemModel struct {
	BaseModel
	PayoutID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ApartmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContractID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	RentShare   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OwnerPayoutItemModel) TableName() string {
	return "owner_payout_items"
}

// ToDomain converts the persistence model to a domain OwnerPayoutItem entity.
func (m *OwnerPayoutItemModel) ToDomain() *payout.OwnerPayoutItem {
	return &payout.OwnerPayoutItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		PayoutID:    m.PayoutID,
		BillID:      m.BillID,
		ApartmentID: m.ApartmentID,
		ContractID:  m.ContractID,
		RentShare:   m.RentShare,
	}
}

// FromDomain populates the persistence model from a domain OwnerPayoutItem entity.
func (m *OwnerPayoutItemModel) FromDomain(i *payout.OwnerPayoutItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.PayoutID = i.PayoutID
	m.BillID = i.BillID
	m.ApartmentID = i.ApartmentID
	m.ContractID = i.ContractID
	m.RentShare = i.RentShare
}

// OwnerPayoutItemModelFromDomain creates a new persistence model from a domain OwnerPayoutItem entity.
func OwnerPayoutItemModelFromDomain(i *payout.OwnerPayoutItem) *OwnerPayoutItemModel {
	m := &OwnerPayoutItemModel{}
	m.FromDomain(i)
	return m
}
