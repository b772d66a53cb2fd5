package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService appends payments to bills and is the sole writer of a
// bill's derived payment fields
type PaymentService struct {
	txScope     TransactionScope
	billRepo    billing.BillRepository
	paymentRepo billing.PaymentRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	txScope TransactionScope,
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		txScope:     txScope,
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// ApplyPaymentRequest represents a request to record a payment against a bill
type ApplyPaymentRequest struct {
	BillID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      billing.PaymentMethod
	Reference   string
	Notes       string
	ReceivedBy  string
}

// ApplyPayment appends a payment and re-derives the bill's settlement state
// from the full payment sum. The append and the bill update land in one
// transaction. Overpayment is accepted uncapped.
func (s *PaymentService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*billing.Bill, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "apply_payment")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillID, req.BillID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	payment, err := billing.NewPayment(req.BillID, req.Amount, req.PaymentDate, req.Method, req.Reference, req.Notes, req.ReceivedBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var updated *billing.Bill
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByID(ctx, req.BillID)
		if err != nil {
			return fmt.Errorf("failed to get bill: %w", err)
		}

		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		received, err := repos.PaymentRepo().SumByBill(ctx, bill.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		bill.RefreshPaymentState(received, req.PaymentDate)

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

	s.logger.Info("payment applied",
		zap.String("bill_id", req.BillID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", updated.PaymentStatus.String()),
	)

	return updated, nil
}

// ListPayments returns all payments recorded against a bill
func (s *PaymentService) ListPayments(ctx context.Context, billID uuid.UUID) ([]billing.Payment, error) {
	if _, err := s.billRepo.FindByID(ctx, billID); err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return s.paymentRepo.FindByBill(ctx, billID)
}
