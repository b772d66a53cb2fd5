package property

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ContractService manages rental contracts and their apartment assignments.
// Contract totals are never written directly; every charge mutation recomputes
// them from the active charge rows inside the same transaction.
type ContractService struct {
	txScope      TransactionScope
	contractRepo property.ContractRepository
	tenantRepo   property.TenantRepository
	chargeRepo   property.ApartmentChargeRepository
	linkRepo     property.ContractLinkRepository
	logger       *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(
	txScope TransactionScope,
	contractRepo property.ContractRepository,
	tenantRepo property.TenantRepository,
	chargeRepo property.ApartmentChargeRepository,
	linkRepo property.ContractLinkRepository,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		txScope:      txScope,
		contractRepo: contractRepo,
		tenantRepo:   tenantRepo,
		chargeRepo:   chargeRepo,
		linkRepo:     linkRepo,
		logger:       logger,
	}
}

// ApartmentAssignment is one apartment's charge split within a contract
type ApartmentAssignment struct {
	ApartmentID    uuid.UUID
	Rent           decimal.Decimal
	ServiceCharges decimal.Decimal
	SecurityFees   decimal.Decimal
}

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	TenantID    uuid.UUID
	StartDate   time.Time
	Notes       string
	Assignments []ApartmentAssignment
}

// CreateContract creates a contract with its apartment links and charge rows
// in one transaction. Each apartment may appear in at most one active contract.
func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest) (*property.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "create_contract")
	defer span.End()

	if _, err := s.tenantRepo.FindByID(ctx, req.TenantID); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if len(req.Assignments) == 0 {
		err := shared.NewDomainError("INVALID_ASSIGNMENT", "A contract needs at least one apartment")
		telemetry.RecordError(span, err)
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(req.Assignments))
	for _, a := range req.Assignments {
		if seen[a.ApartmentID] {
			err := shared.NewDomainError("DUPLICATE_APARTMENT", "The same apartment appears twice in the request")
			telemetry.RecordError(span, err)
			return nil, err
		}
		seen[a.ApartmentID] = true
	}

	contract, err := property.NewContract(req.TenantID, req.StartDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	contract.Notes = req.Notes

	charges := make([]*property.ApartmentCharge, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		charge, err := property.NewApartmentCharge(contract.ID, a.ApartmentID, a.Rent, a.ServiceCharges, a.SecurityFees)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		charges = append(charges, charge)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		active := make([]property.ApartmentCharge, 0, len(charges))
		for _, charge := range charges {
			active = append(active, *charge)
		}
		// Contract row goes first; links and charges reference it
		contract.RecomputeTotals(active)
		if err := repos.ContractRepo().Save(ctx, contract); err != nil {
			return fmt.Errorf("failed to save contract: %w", err)
		}
		for i, a := range req.Assignments {
			if err := s.assignLocked(ctx, repos, contract, req.TenantID, a); err != nil {
				return err
			}
			if err := repos.ChargeRepo().Save(ctx, charges[i]); err != nil {
				return fmt.Errorf("failed to save charge: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("created contract",
		zap.String("contract_id", contract.ID.String()),
		zap.String("tenant_id", req.TenantID.String()),
		zap.Int("apartments", len(req.Assignments)),
	)
	return contract, nil
}

// AssignApartment adds one apartment to an existing active contract
func (s *ContractService) AssignApartment(ctx context.Context, contractID uuid.UUID, assignment ApartmentAssignment) (*property.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "assign_apartment")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, contractID.String())

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if !contract.IsActive {
		err := shared.NewDomainError("INVALID_STATE", "Cannot assign apartments to a terminated contract")
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.assignLocked(ctx, repos, contract, contract.TenantID, assignment); err != nil {
			return err
		}
		charge, err := property.NewApartmentCharge(contract.ID, assignment.ApartmentID,
			assignment.Rent, assignment.ServiceCharges, assignment.SecurityFees)
		if err != nil {
			return err
		}
		if err := repos.ChargeRepo().Save(ctx, charge); err != nil {
			return fmt.Errorf("failed to save charge: %w", err)
		}
		return s.recomputeLocked(ctx, repos, contract)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return contract, nil
}

// assignLocked verifies and records one apartment assignment inside an open
// transaction. The apartment row is locked FOR UPDATE so two concurrent
// assignments of the same apartment serialize instead of both succeeding.
func (s *ContractService) assignLocked(ctx context.Context, repos TransactionalRepositories, contract *property.Contract, tenantID uuid.UUID, a ApartmentAssignment) error {
	apartment, err := repos.ApartmentRepo().FindByIDForUpdate(ctx, a.ApartmentID)
	if err != nil {
		return fmt.Errorf("failed to lock apartment %s: %w", a.ApartmentID, err)
	}
	if !apartment.IsActive {
		return shared.NewDomainError("INVALID_APARTMENT", "Apartment is not active")
	}

	existing, err := repos.LinkRepo().FindActiveByApartment(ctx, a.ApartmentID)
	if err != nil {
		return fmt.Errorf("failed to check apartment links: %w", err)
	}
	if len(existing) > 0 {
		return shared.NewDomainError("APARTMENT_ASSIGNED", "Apartment is already assigned to an active contract")
	}

	link, err := property.NewContractLink(contract.ID, tenantID, a.ApartmentID)
	if err != nil {
		return err
	}
	if err := repos.LinkRepo().Save(ctx, link); err != nil {
		return fmt.Errorf("failed to save contract link: %w", err)
	}
	return nil
}

// UpdateChargeRequest adjusts the charge split of one apartment on a contract
type UpdateChargeRequest struct {
	ContractID     uuid.UUID
	ApartmentID    uuid.UUID
	Rent           decimal.Decimal
	ServiceCharges decimal.Decimal
	SecurityFees   decimal.Decimal
}

// UpdateCharge retires the apartment's active charge row and writes a new one,
// keeping history. Contract totals are recomputed in the same transaction.
func (s *ContractService) UpdateCharge(ctx context.Context, req UpdateChargeRequest) (*property.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "update_charge")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, req.ContractID.String())

	contract, err := s.contractRepo.FindByID(ctx, req.ContractID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		active, err := repos.ChargeRepo().FindActiveByContract(ctx, req.ContractID)
		if err != nil {
			return fmt.Errorf("failed to load charges: %w", err)
		}
		var current *property.ApartmentCharge
		for i := range active {
			if active[i].ApartmentID == req.ApartmentID {
				current = &active[i]
				break
			}
		}
		if current == nil {
			return shared.ErrNotFound
		}

		current.Deactivate()
		if err := repos.ChargeRepo().Save(ctx, current); err != nil {
			return fmt.Errorf("failed to retire charge: %w", err)
		}
		replacement, err := property.NewApartmentCharge(req.ContractID, req.ApartmentID,
			req.Rent, req.ServiceCharges, req.SecurityFees)
		if err != nil {
			return err
		}
		if err := repos.ChargeRepo().Save(ctx, replacement); err != nil {
			return fmt.Errorf("failed to save charge: %w", err)
		}
		return s.recomputeLocked(ctx, repos, contract)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return contract, nil
}

// TerminateContract ends the contract and retires its links and charges
func (s *ContractService) TerminateContract(ctx context.Context, contractID uuid.UUID, endDate time.Time) (*property.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "terminate_contract")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, contractID.String())

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if err := contract.Terminate(endDate); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		links, err := repos.LinkRepo().FindActiveByContract(ctx, contractID)
		if err != nil {
			return fmt.Errorf("failed to load links: %w", err)
		}
		for i := range links {
			links[i].Deactivate()
			if err := repos.LinkRepo().Save(ctx, &links[i]); err != nil {
				return fmt.Errorf("failed to retire link: %w", err)
			}
		}
		charges, err := repos.ChargeRepo().FindActiveByContract(ctx, contractID)
		if err != nil {
			return fmt.Errorf("failed to load charges: %w", err)
		}
		for i := range charges {
			charges[i].Deactivate()
			if err := repos.ChargeRepo().Save(ctx, &charges[i]); err != nil {
				return fmt.Errorf("failed to retire charge: %w", err)
			}
		}
		if err := repos.ContractRepo().Save(ctx, contract); err != nil {
			return fmt.Errorf("failed to save contract: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("terminated contract", zap.String("contract_id", contractID.String()))
	return contract, nil
}

// GetContract returns one contract by ID
func (s *ContractService) GetContract(ctx context.Context, id uuid.UUID) (*property.Contract, error) {
	return s.contractRepo.FindByID(ctx, id)
}

// ListContracts returns contracts matching the filter
func (s *ContractService) ListContracts(ctx context.Context, filter shared.Filter) ([]property.Contract, error) {
	return s.contractRepo.FindAll(ctx, filter)
}

// GetContractCharges returns a contract's active charge rows
func (s *ContractService) GetContractCharges(ctx context.Context, contractID uuid.UUID) ([]property.ApartmentCharge, error) {
	if _, err := s.contractRepo.FindByID(ctx, contractID); err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return s.chargeRepo.FindActiveByContract(ctx, contractID)
}

// recomputeLocked refreshes the contract totals from the active charge rows
// and saves the contract, all inside the caller's transaction
func (s *ContractService) recomputeLocked(ctx context.Context, repos TransactionalRepositories, contract *property.Contract) error {
	active, err := repos.ChargeRepo().FindActiveByContract(ctx, contract.ID)
	if err != nil {
		return fmt.Errorf("failed to load charges: %w", err)
	}
	contract.RecomputeTotals(active)
	if err := repos.ContractRepo().Save(ctx, contract); err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}
