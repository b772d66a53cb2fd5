package metering

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
)

// MeterType represents the utility a physical meter measures
type MeterType string

const (
	MeterTypeElectric  MeterType = "ELECTRIC_GRID"
	MeterTypeGenerator MeterType = "GENERATOR"
	MeterTypeWater     MeterType = "WATER"
)

// IsValid checks if the meter type is valid
func (t MeterType) IsValid() bool {
	switch t {
	case MeterTypeElectric, MeterTypeGenerator, MeterTypeWater:
		return true
	}
	return false
}

// String returns the string representation of MeterType
func (t MeterType) String() string {
	return string(t)
}

// AllMeterTypes lists every supported meter type, in billing column order
func AllMeterTypes() []MeterType {
	return []MeterType{MeterTypeElectric, MeterTypeGenerator, MeterTypeWater}
}

// Meter identifies a physical utility meter. A meter belongs to exactly one
// apartment; it is created once, rarely updated and never auto-deleted.
type Meter struct {
	shared.BaseAggregateRoot
	ApartmentID uuid.UUID
	Type        MeterType
	SerialNo    string
	IsActive    bool
}

// NewMeter creates a new meter attached to an apartment
func NewMeter(apartmentID uuid.UUID, meterType MeterType, serialNo string) (*Meter, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if !meterType.IsValid() {
		return nil, shared.NewDomainError("INVALID_METER_TYPE", "Meter type is not valid")
	}
	return &Meter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       apartmentID,
		Type:              meterType,
		SerialNo:          serialNo,
		IsActive:          true,
	}, nil
}

// Retire marks the meter inactive without deleting its reading history
func (m *Meter) Retire() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
