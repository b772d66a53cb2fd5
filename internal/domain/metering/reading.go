package metering

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Reading is a time-stamped unit reading for one meter. ConsumedUnits is
// derived from the most recent reading with an earlier date for the same
// meter and is recomputed only when this reading itself (or its position in
// the chronological order) is edited.
type Reading struct {
	shared.BaseEntity
	MeterID       uuid.UUID
	ReadingDate   time.Time
	CurrentUnits  decimal.Decimal
	ConsumedUnits decimal.Decimal
}

// NewReading creates a reading with its consumption already derived.
// Derivation rule: consumed = current - prior reading's units; if no prior
// reading exists and a baseline hint is supplied, consumed = current - hint;
// with neither, the reading is the meter's baseline and consumed = current.
func NewReading(meterID uuid.UUID, date time.Time, currentUnits decimal.Decimal, prior *Reading, baselineHint *decimal.Decimal) (*Reading, error) {
	if meterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_METER", "Meter ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Reading date cannot be empty")
	}
	if currentUnits.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNITS", "Current units cannot be negative")
	}
	return &Reading{
		BaseEntity:    shared.NewBaseEntity(),
		MeterID:       meterID,
		ReadingDate:   date,
		CurrentUnits:  currentUnits,
		ConsumedUnits: DeriveConsumption(currentUnits, prior, baselineHint),
	}, nil
}

// DeriveConsumption applies the consumption derivation rule. The result may
// be negative when the current reading is lower than the prior one; callers
// decide whether to accept that (see ReadingService).
func DeriveConsumption(currentUnits decimal.Decimal, prior *Reading, baselineHint *decimal.Decimal) decimal.Decimal {
	if prior != nil {
		return currentUnits.Sub(prior.CurrentUnits)
	}
	if baselineHint != nil {
		return currentUnits.Sub(*baselineHint)
	}
	return currentUnits
}

// Reposition moves the reading to a new date with new units, re-deriving
// consumption against the prior reading at the new position. Later readings
// that chained off the original position are NOT recomputed.
func (r *Reading) Reposition(newDate time.Time, newCurrentUnits decimal.Decimal, prior *Reading) error {
	if newDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Reading date cannot be empty")
	}
	if newCurrentUnits.IsNegative() {
		return shared.NewDomainError("INVALID_UNITS", "Current units cannot be negative")
	}
	r.ReadingDate = newDate
	r.CurrentUnits = newCurrentUnits
	r.ConsumedUnits = DeriveConsumption(newCurrentUnits, prior, nil)
	r.UpdatedAt = time.Now()
	return nil
}

// IsBaseline reports whether this reading was stored without a prior reading
// (consumed equals current)
func (r *Reading) IsBaseline() bool {
	return r.ConsumedUnits.Equal(r.CurrentUnits)
}
