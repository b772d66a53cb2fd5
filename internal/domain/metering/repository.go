package metering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared/valueobject"
)

// MeterRepository provides access to meter records
type MeterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Meter, error)
	FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]Meter, error)
	FindByApartmentAndType(ctx context.Context, apartmentID uuid.UUID, meterType MeterType) (*Meter, error)
	Save(ctx context.Context, meter *Meter) error
}

// ReadingRepository provides access to the append-mostly reading ledger
type ReadingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reading, error)
	// FindLatestBefore returns the most recent reading for the meter with a
	// date strictly before the given date, or shared.ErrNotFound. A non-nil
	// excludeID leaves that reading out of the search, so a reading being
	// repositioned cannot act as its own prior.
	FindLatestBefore(ctx context.Context, meterID uuid.UUID, date time.Time, excludeID uuid.UUID) (*Reading, error)
	// FindForMonth returns the latest reading for the meter within the month,
	// or shared.ErrNotFound when the meter was not read that month.
	FindForMonth(ctx context.Context, meterID uuid.UUID, month valueobject.Month) (*Reading, error)
	// ExistsOnDate reports whether a reading already exists for the meter on
	// the given calendar date.
	ExistsOnDate(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error)
	// HasPrior reports whether any reading exists for the meter before the
	// given date.
	HasPrior(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error)
	// FindByMeter returns the meter's history, most recent first, bounded by
	// limit (0 means repository default).
	FindByMeter(ctx context.Context, meterID uuid.UUID, limit int) ([]Reading, error)
	FindByApartment(ctx context.Context, apartmentID uuid.UUID, limit int) ([]Reading, error)
	Save(ctx context.Context, reading *Reading) error
}
