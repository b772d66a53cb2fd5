package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/shopspring/decimal"
)

// MeterModel is the persistence model for the Meter aggregate root.
type MeterModel struct {
	AggregateModel
	ApartmentID uuid.UUID          `gorm:"type:uuid;not null;index:idx_meter_apartment_type,priority:1"`
	Type        metering.MeterType `gorm:"type:varchar(20);not null;index:idx_meter_apartment_type,priority:2"`
	SerialNo    string             `gorm:"type:varchar(100)"`
	IsActive    bool               `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (MeterModel) TableName() string {
	return "meters"
}

// ToDomain converts the persistence model to a domain Meter entity.
func (m *MeterModel) ToDomain() *metering.Meter {
	return &metering.Meter{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		Type:              m.Type,
		SerialNo:          m.SerialNo,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Meter entity.
func (m *MeterModel) FromDomain(meter *metering.Meter) {
	m.FromDomainAggregateRoot(meter.BaseAggregateRoot)
	m.ApartmentID = meter.ApartmentID
	m.Type = meter.Type
	m.SerialNo = meter.SerialNo
	m.IsActive = meter.IsActive
}

// MeterModelFromDomain creates a new persistence model from a domain Meter entity.
func MeterModelFromDomain(meter *metering.Meter) *MeterModel {
	m := &MeterModel{}
	m.FromDomain(meter)
	return m
}

// ReadingModel is the persistence model for the Reading entity.
// The unique index on (meter_id, reading_date) enforces one reading per meter
// per calendar date.
type ReadingModel struct {
	BaseModel
	MeterID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reading_meter_date,priority:1"`
	ReadingDate   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_reading_meter_date,priority:2"`
	CurrentUnits  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ConsumedUnits decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReadingModel) TableName() string {
	return "meter_readings"
}

// ToDomain converts the persistence model to a domain Reading entity.
func (m *ReadingModel) ToDomain() *metering.Reading {
	return &metering.Reading{
		BaseEntity:    m.BaseModel.ToDomain(),
		MeterID:       m.MeterID,
		ReadingDate:   m.ReadingDate,
		CurrentUnits:  m.CurrentUnits,
		ConsumedUnits: m.ConsumedUnits,
	}
}

// FromDomain populates the persistence model from a domain Reading entity.
func (m *ReadingModel) FromDomain(r *metering.Reading) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.MeterID = r.MeterID
	m.ReadingDate = r.ReadingDate
	m.CurrentUnits = r.CurrentUnits
	m.ConsumedUnits = r.ConsumedUnits
}

// ReadingModelFromDomain creates a new persistence model from a domain Reading entity.
func ReadingModelFromDomain(r *metering.Reading) *ReadingModel {
	m := &ReadingModel{}
	m.FromDomain(r)
	return m
}
