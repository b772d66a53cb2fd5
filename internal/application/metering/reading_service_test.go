package metering

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMeterRepository struct {
	mock.Mock
}

func (m *MockMeterRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Meter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Meter), args.Error(1)
}

func (m *MockMeterRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]metering.Meter, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]metering.Meter), args.Error(1)
}

func (m *MockMeterRepository) FindByApartmentAndType(ctx context.Context, apartmentID uuid.UUID, meterType metering.MeterType) (*metering.Meter, error) {
	args := m.Called(ctx, apartmentID, meterType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Meter), args.Error(1)
}

func (m *MockMeterRepository) Save(ctx context.Context, meter *metering.Meter) error {
	args := m.Called(ctx, meter)
	return args.Error(0)
}

type MockReadingRepository struct {
	mock.Mock
}

func (m *MockReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Reading, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindLatestBefore(ctx context.Context, meterID uuid.UUID, date time.Time, excludeID uuid.UUID) (*metering.Reading, error) {
	args := m.Called(ctx, meterID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindForMonth(ctx context.Context, meterID uuid.UUID, month valueobject.Month) (*metering.Reading, error) {
	args := m.Called(ctx, meterID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) ExistsOnDate(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, meterID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockReadingRepository) HasPrior(ctx context.Context, meterID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, meterID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockReadingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID, limit int) ([]metering.Reading, error) {
	args := m.Called(ctx, meterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID, limit int) ([]metering.Reading, error) {
	args := m.Called(ctx, apartmentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) Save(ctx context.Context, reading *metering.Reading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func activeMeter(t *testing.T) *metering.Meter {
	t.Helper()
	m, err := metering.NewMeter(uuid.New(), metering.MeterTypeElectric, "E-101")
	require.NoError(t, err)
	return m
}

func TestRecordReading(t *testing.T) {
	ctx := context.Background()
	readingDate := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("derives consumption from prior reading", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meter := activeMeter(t)
		prior, err := metering.NewReading(meter.ID, readingDate.AddDate(0, -1, 0), decimal.NewFromInt(100), nil, nil)
		require.NoError(t, err)

		meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)
		readingRepo.On("ExistsOnDate", ctx, meter.ID, readingDate).Return(false, nil)
		readingRepo.On("FindLatestBefore", ctx, meter.ID, readingDate, uuid.Nil).Return(prior, nil)
		readingRepo.On("Save", ctx, mock.AnythingOfType("*metering.Reading")).Return(nil)

		reading, err := svc.RecordReading(ctx, RecordReadingRequest{
			MeterID:      meter.ID,
			ReadingDate:  readingDate,
			CurrentUnits: decimal.NewFromInt(140),
		})

		require.NoError(t, err)
		assert.Equal(t, "40", reading.ConsumedUnits.String())
		readingRepo.AssertExpectations(t)
	})

	t.Run("first reading becomes baseline", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meter := activeMeter(t)
		meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)
		readingRepo.On("ExistsOnDate", ctx, meter.ID, readingDate).Return(false, nil)
		readingRepo.On("FindLatestBefore", ctx, meter.ID, readingDate, uuid.Nil).Return(nil, shared.ErrNotFound)
		readingRepo.On("Save", ctx, mock.AnythingOfType("*metering.Reading")).Return(nil)

		reading, err := svc.RecordReading(ctx, RecordReadingRequest{
			MeterID:      meter.ID,
			ReadingDate:  readingDate,
			CurrentUnits: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, "100", reading.ConsumedUnits.String())
	})

	t.Run("rejects duplicate date with conflict", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meter := activeMeter(t)
		meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)
		readingRepo.On("ExistsOnDate", ctx, meter.ID, readingDate).Return(true, nil)

		_, err := svc.RecordReading(ctx, RecordReadingRequest{
			MeterID:      meter.ID,
			ReadingDate:  readingDate,
			CurrentUnits: decimal.NewFromInt(140),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "READING_EXISTS", domainErr.Code)
		readingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative consumption by default", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meter := activeMeter(t)
		prior, _ := metering.NewReading(meter.ID, readingDate.AddDate(0, -1, 0), decimal.NewFromInt(200), nil, nil)

		meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)
		readingRepo.On("ExistsOnDate", ctx, meter.ID, readingDate).Return(false, nil)
		readingRepo.On("FindLatestBefore", ctx, meter.ID, readingDate, uuid.Nil).Return(prior, nil)

		_, err := svc.RecordReading(ctx, RecordReadingRequest{
			MeterID:      meter.ID,
			ReadingDate:  readingDate,
			CurrentUnits: decimal.NewFromInt(140),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NEGATIVE_CONSUMPTION", domainErr.Code)
	})

	t.Run("accepts negative consumption when allowed", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, true)

		meter := activeMeter(t)
		prior, _ := metering.NewReading(meter.ID, readingDate.AddDate(0, -1, 0), decimal.NewFromInt(200), nil, nil)

		meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)
		readingRepo.On("ExistsOnDate", ctx, meter.ID, readingDate).Return(false, nil)
		readingRepo.On("FindLatestBefore", ctx, meter.ID, readingDate, uuid.Nil).Return(prior, nil)
		readingRepo.On("Save", ctx, mock.AnythingOfType("*metering.Reading")).Return(nil)

		reading, err := svc.RecordReading(ctx, RecordReadingRequest{
			MeterID:      meter.ID,
			ReadingDate:  readingDate,
			CurrentUnits: decimal.NewFromInt(140),
		})

		require.NoError(t, err)
		assert.Equal(t, "-60", reading.ConsumedUnits.String())
	})

	t.Run("rejects retired meter", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meter := activeMeter(t)
		meter.Retire()
		meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)

		_, err := svc.RecordReading(ctx, RecordReadingRequest{
			MeterID:      meter.ID,
			ReadingDate:  readingDate,
			CurrentUnits: decimal.NewFromInt(140),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "METER_RETIRED", domainErr.Code)
	})
}

func TestEditReading(t *testing.T) {
	ctx := context.Background()
	readingDate := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("re-derives consumption without cascading", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meterID := uuid.New()
		prior, _ := metering.NewReading(meterID, readingDate.AddDate(0, -1, 0), decimal.NewFromInt(100), nil, nil)
		reading, _ := metering.NewReading(meterID, readingDate, decimal.NewFromInt(140), prior, nil)

		newDate := readingDate.AddDate(0, 0, 1)
		readingRepo.On("FindByID", ctx, reading.ID).Return(reading, nil)
		readingRepo.On("FindLatestBefore", ctx, meterID, newDate, reading.ID).Return(prior, nil)
		readingRepo.On("Save", ctx, reading).Return(nil)

		updated, err := svc.EditReading(ctx, EditReadingRequest{
			ReadingID:    reading.ID,
			ReadingDate:  newDate,
			CurrentUnits: decimal.NewFromInt(150),
		})

		require.NoError(t, err)
		assert.Equal(t, "50", updated.ConsumedUnits.String())
		assert.Equal(t, newDate, updated.ReadingDate)
	})

	t.Run("moving the latest reading derives against the next-earlier one", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meterID := uuid.New()
		september, _ := metering.NewReading(meterID, readingDate.AddDate(0, -1, 0), decimal.NewFromInt(100), nil, nil)
		october, _ := metering.NewReading(meterID, readingDate, decimal.NewFromInt(140), september, nil)

		// The repository lookup excludes the edited reading, so the prior at
		// the new date is the September one even though October is later
		newDate := readingDate.AddDate(0, 0, 1)
		readingRepo.On("FindByID", ctx, october.ID).Return(october, nil)
		readingRepo.On("FindLatestBefore", ctx, meterID, newDate, october.ID).Return(september, nil)
		readingRepo.On("Save", ctx, october).Return(nil)

		updated, err := svc.EditReading(ctx, EditReadingRequest{
			ReadingID:    october.ID,
			ReadingDate:  newDate,
			CurrentUnits: decimal.NewFromInt(150),
		})

		require.NoError(t, err)
		assert.Equal(t, "50", updated.ConsumedUnits.String())
		readingRepo.AssertExpectations(t)
	})

	t.Run("sole reading falls back to baseline", func(t *testing.T) {
		meterRepo := new(MockMeterRepository)
		readingRepo := new(MockReadingRepository)
		svc := NewReadingService(meterRepo, readingRepo, false)

		meterID := uuid.New()
		reading, _ := metering.NewReading(meterID, readingDate, decimal.NewFromInt(140), nil, nil)

		newDate := readingDate.AddDate(0, 0, 5)
		readingRepo.On("FindByID", ctx, reading.ID).Return(reading, nil)
		readingRepo.On("FindLatestBefore", ctx, meterID, newDate, reading.ID).Return(nil, shared.ErrNotFound)
		readingRepo.On("Save", ctx, reading).Return(nil)

		updated, err := svc.EditReading(ctx, EditReadingRequest{
			ReadingID:    reading.ID,
			ReadingDate:  newDate,
			CurrentUnits: decimal.NewFromInt(160),
		})

		require.NoError(t, err)
		assert.Equal(t, "160", updated.ConsumedUnits.String())
	})
}

func TestHasPriorReading(t *testing.T) {
	ctx := context.Background()
	meterRepo := new(MockMeterRepository)
	readingRepo := new(MockReadingRepository)
	svc := NewReadingService(meterRepo, readingRepo, false)

	meterID := uuid.New()
	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	readingRepo.On("HasPrior", ctx, meterID, date).Return(true, nil)

	has, err := svc.HasPriorReading(ctx, meterID, date)
	require.NoError(t, err)
	assert.True(t, has)
}
