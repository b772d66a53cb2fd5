package metering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// ReadingService handles meter reading recording and consumption derivation
type ReadingService struct {
	meterRepo   metering.MeterRepository
	readingRepo metering.ReadingRepository
	// allowNegativeConsumption permits readings whose derived consumption is
	// negative (meter rollover or replacement)
	allowNegativeConsumption bool
}

// NewReadingService creates a new ReadingService
func NewReadingService(
	meterRepo metering.MeterRepository,
	readingRepo metering.ReadingRepository,
	allowNegativeConsumption bool,
) *ReadingService {
	return &ReadingService{
		meterRepo:                meterRepo,
		readingRepo:              readingRepo,
		allowNegativeConsumption: allowNegativeConsumption,
	}
}

// RecordReadingRequest represents a request to record a meter reading
type RecordReadingRequest struct {
	MeterID      uuid.UUID
	ReadingDate  time.Time
	CurrentUnits decimal.Decimal
	// BaselineHint seeds the derivation when the meter has no prior reading,
	// e.g. the opening units noted at meter installation
	BaselineHint *decimal.Decimal
}

// RecordReading stores a reading with its consumption derived from the most
// recent reading before it. At most one reading may exist per meter per date.
func (s *ReadingService) RecordReading(ctx context.Context, req RecordReadingRequest) (*metering.Reading, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "metering", "record_reading")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrMeterID, req.MeterID.String(),
		"reading_date", req.ReadingDate.Format("2006-01-02"),
	)

	meter, err := s.meterRepo.FindByID(ctx, req.MeterID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get meter: %w", err)
	}
	if !meter.IsActive {
		err := shared.NewDomainError("METER_RETIRED", "Cannot record readings for a retired meter")
		telemetry.RecordError(span, err)
		return nil, err
	}

	exists, err := s.readingRepo.ExistsOnDate(ctx, req.MeterID, req.ReadingDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check existing reading: %w", err)
	}
	if exists {
		err := shared.NewDomainError("READING_EXISTS", "A reading already exists for this meter on this date")
		telemetry.RecordError(span, err)
		return nil, err
	}

	prior, err := s.findPrior(ctx, req.MeterID, req.ReadingDate, uuid.Nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	reading, err := metering.NewReading(req.MeterID, req.ReadingDate, req.CurrentUnits, prior, req.BaselineHint)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.checkConsumption(reading.ConsumedUnits); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.readingRepo.Save(ctx, reading); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save reading: %w", err)
	}

	return reading, nil
}

// EditReadingRequest represents a request to correct an existing reading
type EditReadingRequest struct {
	ReadingID    uuid.UUID
	ReadingDate  time.Time
	CurrentUnits decimal.Decimal
}

// EditReading corrects a reading's date or units. Consumption is re-derived
// for the edited reading only; later readings that chained off its original
// value keep their stored consumption.
func (s *ReadingService) EditReading(ctx context.Context, req EditReadingRequest) (*metering.Reading, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "metering", "edit_reading")
	defer span.End()

	telemetry.SetAttribute(span, "reading_id", req.ReadingID.String())

	reading, err := s.readingRepo.FindByID(ctx, req.ReadingID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}

	// The edited reading is excluded from the prior lookup so the derivation
	// falls back to the next-earlier reading, not to baseline
	prior, err := s.findPrior(ctx, reading.MeterID, req.ReadingDate, reading.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := reading.Reposition(req.ReadingDate, req.CurrentUnits, prior); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.checkConsumption(reading.ConsumedUnits); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.readingRepo.Save(ctx, reading); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save reading: %w", err)
	}

	return reading, nil
}

// GetReading returns one reading by ID
func (s *ReadingService) GetReading(ctx context.Context, id uuid.UUID) (*metering.Reading, error) {
	return s.readingRepo.FindByID(ctx, id)
}

// ListReadingsByMeter returns a meter's reading history, most recent first
func (s *ReadingService) ListReadingsByMeter(ctx context.Context, meterID uuid.UUID, limit int) ([]metering.Reading, error) {
	if _, err := s.meterRepo.FindByID(ctx, meterID); err != nil {
		return nil, fmt.Errorf("failed to get meter: %w", err)
	}
	return s.readingRepo.FindByMeter(ctx, meterID, limit)
}

// ListReadingsByApartment returns readings across all meters of an apartment
func (s *ReadingService) ListReadingsByApartment(ctx context.Context, apartmentID uuid.UUID, limit int) ([]metering.Reading, error) {
	return s.readingRepo.FindByApartment(ctx, apartmentID, limit)
}

// LatestForMonth returns the latest reading for a meter within the month
func (s *ReadingService) LatestForMonth(ctx context.Context, meterID uuid.UUID, month valueobject.Month) (*metering.Reading, error) {
	if _, err := s.meterRepo.FindByID(ctx, meterID); err != nil {
		return nil, fmt.Errorf("failed to get meter: %w", err)
	}
	return s.readingRepo.FindForMonth(ctx, meterID, month)
}

// HasPriorReading reports whether the meter has any reading before the date.
// Operators use this to decide whether a baseline hint is needed.
func (s *ReadingService) HasPriorReading(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error) {
	return s.readingRepo.HasPrior(ctx, meterID, date)
}

// findPrior loads the most recent reading before the date, mapping not-found
// to a nil prior
func (s *ReadingService) findPrior(ctx context.Context, meterID uuid.UUID, date time.Time, excludeID uuid.UUID) (*metering.Reading, error) {
	prior, err := s.readingRepo.FindLatestBefore(ctx, meterID, date, excludeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prior reading: %w", err)
	}
	return prior, nil
}

func (s *ReadingService) checkConsumption(consumed decimal.Decimal) error {
	if consumed.IsNegative() && !s.allowNegativeConsumption {
		return shared.NewDomainError("NEGATIVE_CONSUMPTION",
			"Derived consumption is negative; enable billing.allow_negative_consumption to accept meter rollovers")
	}
	return nil
}
