package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByContractAndMonth(ctx context.Context, contractID uuid.UUID, month valueobject.Month) (*billing.Bill, error) {
	args := m.Called(ctx, contractID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error) {
	args := m.Called(ctx, month)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) FindByMonth(ctx context.Context, month valueobject.Month) ([]billing.Bill, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.Bill, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) (*shared.Paginated[billing.Bill], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Bill]), args.Error(1)
}

func (m *MockBillRepository) SumUnpaidBefore(ctx context.Context, contractID uuid.UUID, month valueobject.Month) (decimal.Decimal, error) {
	args := m.Called(ctx, contractID, month)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) SaveAll(ctx context.Context, bills []*billing.Bill) error {
	args := m.Called(ctx, bills)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByBill(ctx context.Context, billID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActive(ctx context.Context) ([]property.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Contract, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *property.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

type MockChargeRepository struct {
	mock.Mock
}

func (m *MockChargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.ApartmentCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.ApartmentCharge), args.Error(1)
}

func (m *MockChargeRepository) FindActiveByContract(ctx context.Context, contractID uuid.UUID) ([]property.ApartmentCharge, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.ApartmentCharge), args.Error(1)
}

func (m *MockChargeRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]property.ApartmentCharge, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.ApartmentCharge), args.Error(1)
}

func (m *MockChargeRepository) Save(ctx context.Context, charge *property.ApartmentCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) FindActiveByContract(ctx context.Context, contractID uuid.UUID) ([]property.ContractLink, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.ContractLink), args.Error(1)
}

func (m *MockLinkRepository) FindActiveByApartment(ctx context.Context, apartmentID uuid.UUID) ([]property.ContractLink, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.ContractLink), args.Error(1)
}

func (m *MockLinkRepository) Save(ctx context.Context, link *property.ContractLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

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
