package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type billServiceFixture struct {
	svc          *BillService
	billRepo     *MockBillRepository
	paymentRepo  *MockPaymentRepository
	contractRepo *MockContractRepository
	chargeRepo   *MockChargeRepository
	linkRepo     *MockLinkRepository
	meterRepo    *MockMeterRepository
	readingRepo  *MockReadingRepository
	runLock      *cache.InMemoryRunLock
}

func newBillServiceFixture(t *testing.T) *billServiceFixture {
	t.Helper()
	f := &billServiceFixture{
		billRepo:     new(MockBillRepository),
		paymentRepo:  new(MockPaymentRepository),
		contractRepo: new(MockContractRepository),
		chargeRepo:   new(MockChargeRepository),
		linkRepo:     new(MockLinkRepository),
		meterRepo:    new(MockMeterRepository),
		readingRepo:  new(MockReadingRepository),
		runLock:      cache.NewInMemoryRunLock(),
	}
	t.Cleanup(func() { _ = f.runLock.Close() })

	txScope := NewNoOpTransactionScope(f.billRepo, f.paymentRepo, f.contractRepo)
	f.svc = NewBillService(
		txScope,
		f.billRepo, f.contractRepo, f.chargeRepo, f.linkRepo,
		f.meterRepo, f.readingRepo,
		f.runLock, time.Minute, zap.NewNop(),
	)
	return f
}

// singleApartmentContract wires one contract with one linked apartment,
// rent 20000, service 2000, security 5000 and one electric meter.
func (f *billServiceFixture) singleApartmentContract(t *testing.T, month valueobject.Month, consumedUnits int64, securityApplied bool, arrears decimal.Decimal) *property.Contract {
	t.Helper()
	ctx := context.Background()

	contract, err := property.NewContract(uuid.New(), month.Start().AddDate(0, -1, 0))
	require.NoError(t, err)
	if securityApplied {
		contract.MarkSecurityFeeApplied()
	}

	apartmentID := uuid.New()
	charge, err := property.NewApartmentCharge(contract.ID, apartmentID,
		decimal.NewFromInt(20000), decimal.NewFromInt(2000), decimal.NewFromInt(5000))
	require.NoError(t, err)
	link, err := property.NewContractLink(contract.ID, contract.TenantID, apartmentID)
	require.NoError(t, err)

	electric, err := metering.NewMeter(apartmentID, metering.MeterTypeElectric, "E-1")
	require.NoError(t, err)
	reading, err := metering.NewReading(electric.ID, month.Start(), decimal.NewFromInt(consumedUnits), nil, nil)
	require.NoError(t, err)

	f.contractRepo.On("FindActive", ctx).Return([]property.Contract{*contract}, nil)
	f.chargeRepo.On("FindActiveByContract", ctx, contract.ID).Return([]property.ApartmentCharge{*charge}, nil)
	f.linkRepo.On("FindActiveByContract", ctx, contract.ID).Return([]property.ContractLink{*link}, nil)
	f.meterRepo.On("FindByApartmentAndType", ctx, apartmentID, metering.MeterTypeElectric).Return(electric, nil)
	f.meterRepo.On("FindByApartmentAndType", ctx, apartmentID, metering.MeterTypeGenerator).Return(nil, shared.ErrNotFound)
	f.meterRepo.On("FindByApartmentAndType", ctx, apartmentID, metering.MeterTypeWater).Return(nil, shared.ErrNotFound)
	f.readingRepo.On("FindForMonth", ctx, electric.ID, month).Return(reading, nil)
	f.billRepo.On("SumUnpaidBefore", ctx, contract.ID, month).Return(arrears, nil)

	return contract
}

func genRequest(t *testing.T, monthStr string) GenerateBillsRequest {
	t.Helper()
	month, err := valueobject.ParseMonth(monthStr)
	require.NoError(t, err)
	return GenerateBillsRequest{
		Month: month,
		Rates: billing.UtilityRates{
			Electric:  decimal.NewFromInt(10),
			Generator: decimal.NewFromInt(20),
			Water:     decimal.NewFromInt(5),
		},
		IssueDate: month.Start(),
		DueDate:   month.Start().AddDate(0, 0, 10),
	}
}

func TestGenerateForMonth(t *testing.T) {
	ctx := context.Background()

	t.Run("first bill includes security fee and totals 27500", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")

		f.billRepo.On("ExistsForMonth", ctx, req.Month).Return(false, nil)
		contract := f.singleApartmentContract(t, req.Month, 50, false, decimal.Zero)
		f.billRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*billing.Bill")).Return(nil)
		f.contractRepo.On("Save", ctx, mock.AnythingOfType("*property.Contract")).Return(nil)

		result, err := f.svc.GenerateForMonth(ctx, req)

		require.NoError(t, err)
		require.Equal(t, 1, result.Count)
		bill := result.Bills[0]
		assert.Equal(t, contract.ID, bill.ContractID)
		assert.Equal(t, "500", bill.Electric.Amount.String())
		assert.Equal(t, "5000", bill.SecurityFees.String())
		assert.Equal(t, "27500", bill.TotalAmount.String())
		f.contractRepo.AssertCalled(t, "Save", ctx, mock.AnythingOfType("*property.Contract"))
	})

	t.Run("second month carries arrears and no security fee", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-11")

		f.billRepo.On("ExistsForMonth", ctx, req.Month).Return(false, nil)
		f.singleApartmentContract(t, req.Month, 60, true, decimal.NewFromInt(27500))
		f.billRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*billing.Bill")).Return(nil)

		result, err := f.svc.GenerateForMonth(ctx, req)

		require.NoError(t, err)
		require.Equal(t, 1, result.Count)
		bill := result.Bills[0]
		assert.True(t, bill.SecurityFees.IsZero())
		assert.Equal(t, "27500", bill.Arrears.String())
		assert.Equal(t, "50100", bill.TotalAmount.String())
		f.contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("conflicts when bills already exist for the month", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")

		f.billRepo.On("ExistsForMonth", ctx, req.Month).Return(true, nil)

		_, err := f.svc.GenerateForMonth(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BILLS_EXIST", domainErr.Code)
		f.billRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("conflicts when another run holds the month lock", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")

		acquired, err := f.runLock.Acquire(ctx, "bills:2025-10", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		_, err = f.svc.GenerateForMonth(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "GENERATION_IN_PROGRESS", domainErr.Code)
	})

	t.Run("releases the lock after a completed run", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")

		f.billRepo.On("ExistsForMonth", ctx, req.Month).Return(false, nil)
		f.contractRepo.On("FindActive", ctx).Return([]property.Contract{}, nil)
		f.billRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*billing.Bill")).Return(nil)

		_, err := f.svc.GenerateForMonth(ctx, req)
		require.NoError(t, err)

		acquired, err := f.runLock.Acquire(ctx, "bills:2025-10", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("dry run persists nothing", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")
		req.DryRun = true

		f.billRepo.On("ExistsForMonth", ctx, req.Month).Return(false, nil)
		f.singleApartmentContract(t, req.Month, 50, false, decimal.Zero)

		result, err := f.svc.GenerateForMonth(ctx, req)

		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, "27500", result.Bills[0].TotalAmount.String())
		f.billRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
		f.contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips contracts without active charges", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")

		contract, err := property.NewContract(uuid.New(), time.Now())
		require.NoError(t, err)

		f.billRepo.On("ExistsForMonth", ctx, req.Month).Return(false, nil)
		f.contractRepo.On("FindActive", ctx).Return([]property.Contract{*contract}, nil)
		f.chargeRepo.On("FindActiveByContract", ctx, contract.ID).Return([]property.ApartmentCharge{}, nil)
		f.billRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*billing.Bill")).Return(nil)

		result, err := f.svc.GenerateForMonth(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("rejects negative rates", func(t *testing.T) {
		f := newBillServiceFixture(t)
		req := genRequest(t, "2025-10")
		req.Rates.Electric = decimal.NewFromInt(-1)

		_, err := f.svc.GenerateForMonth(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RATE", domainErr.Code)
	})
}

func TestUpdateBill(t *testing.T) {
	ctx := context.Background()
	month, _ := valueobject.ParseMonth("2025-10")

	newTestBill := func(t *testing.T) *billing.Bill {
		t.Helper()
		bill, err := billing.NewBill(uuid.New(), month, month.Start(), month.Start().AddDate(0, 0, 10),
			billing.UtilityLine{}, billing.UtilityLine{}, billing.UtilityLine{},
			decimal.NewFromInt(20000), decimal.NewFromInt(2000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		return bill
	}

	t.Run("adjusting charges refreshes total and status", func(t *testing.T) {
		f := newBillServiceFixture(t)
		bill := newTestBill(t)

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		f.paymentRepo.On("SumByBill", ctx, bill.ID).Return(decimal.NewFromInt(22000), nil)
		f.billRepo.On("Save", ctx, bill).Return(nil)

		extra := decimal.NewFromInt(1500)
		updated, err := f.svc.UpdateBill(ctx, UpdateBillRequest{BillID: bill.ID, AdditionalCharges: &extra})

		require.NoError(t, err)
		assert.Equal(t, "23500", updated.TotalAmount.String())
		assert.Equal(t, billing.PaymentStatusPartial, updated.PaymentStatus)
	})

	t.Run("mark paid forces paid state", func(t *testing.T) {
		f := newBillServiceFixture(t)
		bill := newTestBill(t)

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		f.billRepo.On("Save", ctx, bill).Return(nil)

		updated, err := f.svc.MarkPaid(ctx, bill.ID)

		require.NoError(t, err)
		assert.True(t, updated.IsPaid())
		require.NotNil(t, updated.PaidAt)
	})
}
