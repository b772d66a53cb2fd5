package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meteringapp "github.com/propman/backend/internal/application/metering"
	propertyapp "github.com/propman/backend/internal/application/property"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/shared"
)

func TestReadingConstraints(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	apartment, err := svc.directory.CreateApartment(ctx, propertyapp.CreateApartmentRequest{
		Number:   "5D",
		Floor:    "5",
		Building: "Crescent Heights",
	})
	require.NoError(t, err)

	meter, err := svc.directory.RegisterMeter(ctx, propertyapp.RegisterMeterRequest{
		ApartmentID: apartment.ID,
		Type:        metering.MeterTypeWater,
		SerialNo:    "WT-2001",
	})
	require.NoError(t, err)

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err = svc.reading.RecordReading(ctx, meteringapp.RecordReadingRequest{
		MeterID:      meter.ID,
		ReadingDate:  date,
		CurrentUnits: dec("500"),
	})
	require.NoError(t, err)

	var domainErr *shared.DomainError

	// One reading per meter per date
	_, err = svc.reading.RecordReading(ctx, meteringapp.RecordReadingRequest{
		MeterID:      meter.ID,
		ReadingDate:  date,
		CurrentUnits: dec("510"),
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "READING_EXISTS", domainErr.Code)

	// A later reading below the prior one derives negative consumption,
	// which the default configuration rejects
	_, err = svc.reading.RecordReading(ctx, meteringapp.RecordReadingRequest{
		MeterID:      meter.ID,
		ReadingDate:  date.AddDate(0, 1, 0),
		CurrentUnits: dec("490"),
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NEGATIVE_CONSUMPTION", domainErr.Code)

	// A registered meter type cannot be doubled up on the same apartment
	_, err = svc.directory.RegisterMeter(ctx, propertyapp.RegisterMeterRequest{
		ApartmentID: apartment.ID,
		Type:        metering.MeterTypeWater,
		SerialNo:    "WT-2002",
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "METER_EXISTS", domainErr.Code)
}

func TestEditReadingKeepsNextEarlierPrior(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	apartment, err := svc.directory.CreateApartment(ctx, propertyapp.CreateApartmentRequest{
		Number:   "6A",
		Floor:    "6",
		Building: "Crescent Heights",
	})
	require.NoError(t, err)

	meter, err := svc.directory.RegisterMeter(ctx, propertyapp.RegisterMeterRequest{
		ApartmentID: apartment.ID,
		Type:        metering.MeterTypeElectric,
		SerialNo:    "EL-6001",
	})
	require.NoError(t, err)

	septDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.reading.RecordReading(ctx, meteringapp.RecordReadingRequest{
		MeterID:      meter.ID,
		ReadingDate:  septDate,
		CurrentUnits: dec("100"),
	})
	require.NoError(t, err)

	october, err := svc.reading.RecordReading(ctx, meteringapp.RecordReadingRequest{
		MeterID:      meter.ID,
		ReadingDate:  septDate.AddDate(0, 1, 0),
		CurrentUnits: dec("140"),
	})
	require.NoError(t, err)
	require.Equal(t, "40", october.ConsumedUnits.String())

	// Moving the latest reading re-derives against the September reading,
	// not against itself and not as a fresh baseline
	edited, err := svc.reading.EditReading(ctx, meteringapp.EditReadingRequest{
		ReadingID:    october.ID,
		ReadingDate:  septDate.AddDate(0, 1, 1),
		CurrentUnits: dec("150"),
	})
	require.NoError(t, err)
	assert.Equal(t, "50", edited.ConsumedUnits.String())
}

func TestApartmentSingleActiveContract(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := context.Background()

	tenantA, err := svc.directory.CreateTenant(ctx, propertyapp.CreateTenantRequest{
		Name:  "Hassan Ali",
		Phone: "+92-300-7770001",
	})
	require.NoError(t, err)
	tenantB, err := svc.directory.CreateTenant(ctx, propertyapp.CreateTenantRequest{
		Name:  "Zara Shaikh",
		Phone: "+92-300-7770002",
	})
	require.NoError(t, err)

	apartment, err := svc.directory.CreateApartment(ctx, propertyapp.CreateApartmentRequest{
		Number:   "2E",
		Floor:    "2",
		Building: "Crescent Heights",
	})
	require.NoError(t, err)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.contract.CreateContract(ctx, propertyapp.CreateContractRequest{
		TenantID:  tenantA.ID,
		StartDate: start,
		Assignments: []propertyapp.ApartmentAssignment{{
			ApartmentID: apartment.ID,
			Rent:        dec("18000"),
		}},
	})
	require.NoError(t, err)

	// The apartment is held by an active contract
	var domainErr *shared.DomainError
	_, err = svc.contract.CreateContract(ctx, propertyapp.CreateContractRequest{
		TenantID:  tenantB.ID,
		StartDate: start.AddDate(0, 1, 0),
		Assignments: []propertyapp.ApartmentAssignment{{
			ApartmentID: apartment.ID,
			Rent:        dec("19000"),
		}},
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "APARTMENT_ASSIGNED", domainErr.Code)

	// Termination frees it for the next tenancy
	_, err = svc.contract.TerminateContract(ctx, first.ID, start.AddDate(0, 2, 0))
	require.NoError(t, err)

	_, err = svc.contract.CreateContract(ctx, propertyapp.CreateContractRequest{
		TenantID:  tenantB.ID,
		StartDate: start.AddDate(0, 3, 0),
		Assignments: []propertyapp.ApartmentAssignment{{
			ApartmentID: apartment.ID,
			Rent:        dec("19000"),
		}},
	})
	require.NoError(t, err)
}
