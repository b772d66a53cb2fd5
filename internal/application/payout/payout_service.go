package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/payout"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/propman/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PayoutService distributes each month's collected rent to apartment owners.
// It reads bills and ownership data but never mutates bill rows.
type PayoutService struct {
	txScope       TransactionScope
	payoutRepo    payout.OwnerPayoutRepository
	billRepo      billing.BillRepository
	chargeRepo    property.ApartmentChargeRepository
	apartmentRepo property.ApartmentRepository
	runLock       shared.RunLock
	lockTTL       time.Duration
	logger        *zap.Logger
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(
	txScope TransactionScope,
	payoutRepo payout.OwnerPayoutRepository,
	billRepo billing.BillRepository,
	chargeRepo property.ApartmentChargeRepository,
	apartmentRepo property.ApartmentRepository,
	runLock shared.RunLock,
	lockTTL time.Duration,
	logger *zap.Logger,
) *PayoutService {
	if lockTTL == 0 {
		lockTTL = shared.DefaultRunLockConfig().TTL
	}
	return &PayoutService{
		txScope:       txScope,
		payoutRepo:    payoutRepo,
		billRepo:      billRepo,
		chargeRepo:    chargeRepo,
		apartmentRepo: apartmentRepo,
		runLock:       runLock,
		lockTTL:       lockTTL,
		logger:        logger,
	}
}

// ownerAccumulator collects one owner's rent contributions during a run
type ownerAccumulator struct {
	payout     *payout.OwnerPayout
	hasPending bool
}

// GeneratePayouts walks every bill issued in the month and creates one payout
// per owner with line-item detail. An owner's payout starts as PENDING when
// any contributing bill is unpaid, CLEARED otherwise. The whole run lands in
// a single transaction behind a per-month lock.
func (s *PayoutService) GeneratePayouts(ctx context.Context, month valueobject.Month) ([]payout.OwnerPayout, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "generate_payouts")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrMonth, month.String())

	if month.IsZero() {
		err := shared.NewDomainError("INVALID_MONTH", "Payout month is required")
		telemetry.RecordError(span, err)
		return nil, err
	}

	lockKey := "payouts:" + month.String()
	acquired, err := s.runLock.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to acquire payout lock: %w", err)
	}
	if !acquired {
		err := shared.NewDomainError("GENERATION_IN_PROGRESS", "Another payout generation run for this month is in progress")
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer func() {
		if err := s.runLock.Release(ctx, lockKey); err != nil {
			s.logger.Warn("failed to release payout lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	exists, err := s.payoutRepo.ExistsForMonth(ctx, month)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check existing payouts: %w", err)
	}
	if exists {
		err := shared.NewDomainError("PAYOUTS_EXIST", "Payouts have already been generated for this month")
		telemetry.RecordError(span, err)
		return nil, err
	}

	bills, err := s.billRepo.FindByMonth(ctx, month)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load bills for month: %w", err)
	}

	// First pass accumulates per-owner contributions; owner order follows
	// first appearance so runs are deterministic
	accumulators := make(map[uuid.UUID]*ownerAccumulator)
	var ownerOrder []uuid.UUID

	type contribution struct {
		ownerID uuid.UUID
		bill    *billing.Bill
		charge  *property.ApartmentCharge
	}
	var contributions []contribution

	for i := range bills {
		bill := &bills[i]

		charges, err := s.chargeRepo.FindActiveByContract(ctx, bill.ContractID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to load charges for contract %s: %w", bill.ContractID, err)
		}

		for j := range charges {
			charge := &charges[j]

			apartment, err := s.apartmentRepo.FindByID(ctx, charge.ApartmentID)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to load apartment %s: %w", charge.ApartmentID, err)
			}
			// Apartments without an assigned owner earn no payout
			if !apartment.HasOwner() {
				continue
			}

			ownerID := *apartment.OwnerID
			if _, ok := accumulators[ownerID]; !ok {
				accumulators[ownerID] = &ownerAccumulator{}
				ownerOrder = append(ownerOrder, ownerID)
			}
			if !bill.IsPaid() {
				accumulators[ownerID].hasPending = true
			}
			contributions = append(contributions, contribution{ownerID: ownerID, bill: bill, charge: charge})
		}
	}

	payouts := make([]*payout.OwnerPayout, 0, len(ownerOrder))
	for _, ownerID := range ownerOrder {
		acc := accumulators[ownerID]
		p, err := payout.NewOwnerPayout(ownerID, month, acc.hasPending)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		acc.payout = p
		payouts = append(payouts, p)
	}

	for _, c := range contributions {
		acc := accumulators[c.ownerID]
		if err := acc.payout.AddItem(c.bill.ID, c.charge.ApartmentID, c.bill.ContractID, c.charge.Rent); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.PayoutRepo().SaveAll(ctx, payouts); err != nil {
			return fmt.Errorf("failed to save payouts: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("generated payouts",
		zap.String("month", month.String()),
		zap.Int("count", len(payouts)),
	)

	result := make([]payout.OwnerPayout, len(payouts))
	for i, p := range payouts {
		result[i] = *p
	}
	return result, nil
}

// GetPayout returns one payout by ID
func (s *PayoutService) GetPayout(ctx context.Context, id uuid.UUID) (*payout.OwnerPayout, error) {
	return s.payoutRepo.FindByID(ctx, id)
}

// ListPayouts returns all payouts for a month
func (s *PayoutService) ListPayouts(ctx context.Context, month valueobject.Month) ([]payout.OwnerPayout, error) {
	return s.payoutRepo.FindByMonth(ctx, month)
}

// GetPayoutItems returns the line items recording how a payout was assembled
func (s *PayoutService) GetPayoutItems(ctx context.Context, payoutID uuid.UUID) ([]payout.OwnerPayoutItem, error) {
	if _, err := s.payoutRepo.FindByID(ctx, payoutID); err != nil {
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return s.payoutRepo.FindItems(ctx, payoutID)
}

// MarkPaid records the disbursement of a payout. No re-check against
// contributing bill status is performed.
func (s *PayoutService) MarkPaid(ctx context.Context, payoutID uuid.UUID, date time.Time, notes string) (*payout.OwnerPayout, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "mark_paid")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrPayoutID, payoutID.String())

	p, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}

	if err := p.MarkPaid(date, notes); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.payoutRepo.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save payout: %w", err)
	}

	return p, nil
}

// UpdateStatusForMonth promotes PENDING payouts to CLEARED once every
// contributing bill has been paid. It is an explicit maintenance operation,
// not triggered automatically by bill payment. Returns the number of payouts
// promoted.
func (s *PayoutService) UpdateStatusForMonth(ctx context.Context, month valueobject.Month) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "update_status_for_month")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrMonth, month.String())

	payouts, err := s.payoutRepo.FindByMonth(ctx, month)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("failed to load payouts: %w", err)
	}

	promoted := 0
	for i := range payouts {
		p := &payouts[i]
		if p.Status != payout.PayoutStatusPending {
			continue
		}

		items, err := s.payoutRepo.FindItems(ctx, p.ID)
		if err != nil {
			telemetry.RecordError(span, err)
			return promoted, fmt.Errorf("failed to load payout items: %w", err)
		}

		allPaid := true
		for _, item := range items {
			bill, err := s.billRepo.FindByID(ctx, item.BillID)
			if err != nil {
				telemetry.RecordError(span, err)
				return promoted, fmt.Errorf("failed to load bill %s: %w", item.BillID, err)
			}
			if !bill.IsPaid() {
				allPaid = false
				break
			}
		}
		if !allPaid {
			continue
		}

		if err := p.Clear(); err != nil {
			telemetry.RecordError(span, err)
			return promoted, err
		}
		if err := s.payoutRepo.Save(ctx, p); err != nil {
			telemetry.RecordError(span, err)
			return promoted, fmt.Errorf("failed to save payout: %w", err)
		}
		promoted++
	}

	return promoted, nil
}
