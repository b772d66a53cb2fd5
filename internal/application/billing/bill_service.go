package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BillService generates monthly bills and manages their lifecycle
type BillService struct {
	txScope      TransactionScope
	billRepo     billing.BillRepository
	contractRepo property.ContractRepository
	chargeRepo   property.ApartmentChargeRepository
	linkRepo     property.ContractLinkRepository
	meterRepo    metering.MeterRepository
	readingRepo  metering.ReadingRepository
	runLock      shared.RunLock
	lockTTL      time.Duration
	logger       *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(
	txScope TransactionScope,
	billRepo billing.BillRepository,
	contractRepo property.ContractRepository,
	chargeRepo property.ApartmentChargeRepository,
	linkRepo property.ContractLinkRepository,
	meterRepo metering.MeterRepository,
	readingRepo metering.ReadingRepository,
	runLock shared.RunLock,
	lockTTL time.Duration,
	logger *zap.Logger,
) *BillService {
	if lockTTL == 0 {
		lockTTL = shared.DefaultRunLockConfig().TTL
	}
	return &BillService{
		txScope:      txScope,
		billRepo:     billRepo,
		contractRepo: contractRepo,
		chargeRepo:   chargeRepo,
		linkRepo:     linkRepo,
		meterRepo:    meterRepo,
		readingRepo:  readingRepo,
		runLock:      runLock,
		lockTTL:      lockTTL,
		logger:       logger,
	}
}

// GenerateBillsRequest represents a request to generate bills for a month
type GenerateBillsRequest struct {
	Month     valueobject.Month
	Rates     billing.UtilityRates
	IssueDate time.Time
	DueDate   time.Time
	// DryRun assembles and returns the bills without persisting anything,
	// letting operators inspect amounts before committing
	DryRun bool
}

// GenerationResult represents the outcome of a generation run
type GenerationResult struct {
	Month  valueobject.Month `json:"month"`
	Count  int               `json:"count"`
	DryRun bool              `json:"dry_run"`
	Bills  []*billing.Bill   `json:"bills"`
}

// GenerateForMonth creates one bill per active contract for the month. The
// whole run is serialized behind a per-month lock and lands in a single
// transaction, so a mid-run failure leaves no partial bills behind. A month
// that already has bills is rejected with a conflict; generation is
// idempotent by rejection, not by merge.
func (s *BillService) GenerateForMonth(ctx context.Context, req GenerateBillsRequest) (*GenerationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "generate_bills")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrMonth, req.Month.String(),
		telemetry.SpanAttrDryRun, req.DryRun,
	)

	if req.Month.IsZero() {
		err := shared.NewDomainError("INVALID_MONTH", "Generation month is required")
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := req.Rates.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.IssueDate.IsZero() {
		req.IssueDate = req.Month.Start()
	}
	if req.DueDate.IsZero() {
		req.DueDate = req.IssueDate.AddDate(0, 0, 10)
	}

	// Dry runs write nothing and can proceed under a concurrent real run
	if !req.DryRun {
		lockKey := "bills:" + req.Month.String()
		acquired, err := s.runLock.Acquire(ctx, lockKey, s.lockTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to acquire generation lock: %w", err)
		}
		if !acquired {
			err := shared.NewDomainError("GENERATION_IN_PROGRESS", "Another bill generation run for this month is in progress")
			telemetry.RecordError(span, err)
			return nil, err
		}
		defer func() {
			if err := s.runLock.Release(ctx, lockKey); err != nil {
				s.logger.Warn("failed to release generation lock", zap.String("key", lockKey), zap.Error(err))
			}
		}()
	}

	exists, err := s.billRepo.ExistsForMonth(ctx, req.Month)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check existing bills: %w", err)
	}
	if exists {
		err := shared.NewDomainError("BILLS_EXIST", "Bills have already been generated for this month")
		telemetry.RecordError(span, err)
		return nil, err
	}

	contracts, err := s.contractRepo.FindActive(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list active contracts: %w", err)
	}

	bills := make([]*billing.Bill, 0, len(contracts))
	var firstBilled []*property.Contract

	for i := range contracts {
		contract := &contracts[i]

		bill, err := s.assembleBill(ctx, contract, req)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if bill == nil {
			// Contract has no active charges; nothing to bill
			continue
		}

		bills = append(bills, bill)
		if bill.SecurityFees.IsPositive() {
			firstBilled = append(firstBilled, contract)
		}
	}

	result := &GenerationResult{
		Month:  req.Month,
		Count:  len(bills),
		DryRun: req.DryRun,
		Bills:  bills,
	}

	if req.DryRun {
		return result, nil
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.BillRepo().SaveAll(ctx, bills); err != nil {
			return fmt.Errorf("failed to save bills: %w", err)
		}
		for _, contract := range firstBilled {
			contract.MarkSecurityFeeApplied()
			if err := repos.ContractRepo().Save(ctx, contract); err != nil {
				return fmt.Errorf("failed to mark security fee applied: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("generated bills",
		zap.String("month", req.Month.String()),
		zap.Int("count", len(bills)),
	)

	return result, nil
}

// assembleBill builds one contract's bill from readings, charges and arrears.
// Returns nil when the contract has no active charge rows.
func (s *BillService) assembleBill(ctx context.Context, contract *property.Contract, req GenerateBillsRequest) (*billing.Bill, error) {
	charges, err := s.chargeRepo.FindActiveByContract(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load charges for contract %s: %w", contract.ID, err)
	}
	if len(charges) == 0 {
		return nil, nil
	}

	links, err := s.linkRepo.FindActiveByContract(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load links for contract %s: %w", contract.ID, err)
	}

	// Sum consumed units across the contract's apartments, per utility
	units := map[metering.MeterType]decimal.Decimal{
		metering.MeterTypeElectric:  decimal.Zero,
		metering.MeterTypeGenerator: decimal.Zero,
		metering.MeterTypeWater:     decimal.Zero,
	}
	for _, link := range links {
		for _, meterType := range metering.AllMeterTypes() {
			meter, err := s.meterRepo.FindByApartmentAndType(ctx, link.ApartmentID, meterType)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to find meter: %w", err)
			}
			reading, err := s.readingRepo.FindForMonth(ctx, meter.ID, req.Month)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to find reading: %w", err)
			}
			units[meterType] = units[meterType].Add(reading.ConsumedUnits)
		}
	}

	rent, service, security := decimal.Zero, decimal.Zero, decimal.Zero
	for _, charge := range charges {
		rent = rent.Add(charge.Rent)
		service = service.Add(charge.ServiceCharges)
		security = security.Add(charge.SecurityFees)
	}
	// One-time security fee: charged only on the contract's first bill
	if contract.SecurityFeeApplied {
		security = decimal.Zero
	}

	arrears, err := s.billRepo.SumUnpaidBefore(ctx, contract.ID, req.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to sum arrears for contract %s: %w", contract.ID, err)
	}

	return billing.NewBill(
		contract.ID,
		req.Month,
		req.IssueDate,
		req.DueDate,
		billing.NewUtilityLine(units[metering.MeterTypeElectric], req.Rates.Electric),
		billing.NewUtilityLine(units[metering.MeterTypeGenerator], req.Rates.Generator),
		billing.NewUtilityLine(units[metering.MeterTypeWater], req.Rates.Water),
		rent, service, security, arrears,
	)
}

// GetBill returns one bill by ID
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return s.billRepo.FindByID(ctx, id)
}

// ListBills returns bills matching the filter
func (s *BillService) ListBills(ctx context.Context, filter billing.BillFilter) (*shared.Paginated[billing.Bill], error) {
	return s.billRepo.FindAll(ctx, filter)
}

// UpdateBillRequest represents an operator adjustment of a bill
type UpdateBillRequest struct {
	BillID            uuid.UUID
	AdditionalCharges *decimal.Decimal
	DueDate           *time.Time
	MarkPaid          bool
}

// UpdateBill applies operator adjustments. Changing additional charges
// refreshes the total and re-derives the payment status from the payments
// already received; the paid flag never regresses.
func (s *BillService) UpdateBill(ctx context.Context, req UpdateBillRequest) (*billing.Bill, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "update_bill")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrBillID, req.BillID.String())

	var updated *billing.Bill
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByID(ctx, req.BillID)
		if err != nil {
			return fmt.Errorf("failed to get bill: %w", err)
		}

		if req.AdditionalCharges != nil {
			bill.SetAdditionalCharges(*req.AdditionalCharges)

			received, err := repos.PaymentRepo().SumByBill(ctx, bill.ID)
			if err != nil {
				return fmt.Errorf("failed to sum payments: %w", err)
			}
			bill.RefreshPaymentState(received, time.Now())
		}
		if req.DueDate != nil {
			if err := bill.SetDueDate(*req.DueDate); err != nil {
				return err
			}
		}
		if req.MarkPaid {
			bill.MarkPaid(time.Now())
		}

		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return fmt.Errorf("failed to save bill: %w", err)
		}
		updated = bill
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return updated, nil
}

// MarkPaid forces a bill into the paid state
func (s *BillService) MarkPaid(ctx context.Context, billID uuid.UUID) (*billing.Bill, error) {
	return s.UpdateBill(ctx, UpdateBillRequest{BillID: billID, MarkPaid: true})
}
