package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DirectoryService covers the collaborator records billing depends on:
// owners, tenants, apartments and their meters.
type DirectoryService struct {
	ownerRepo     property.OwnerRepository
	tenantRepo    property.TenantRepository
	apartmentRepo property.ApartmentRepository
	meterRepo     metering.MeterRepository
	logger        *zap.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(
	ownerRepo property.OwnerRepository,
	tenantRepo property.TenantRepository,
	apartmentRepo property.ApartmentRepository,
	meterRepo metering.MeterRepository,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		ownerRepo:     ownerRepo,
		tenantRepo:    tenantRepo,
		apartmentRepo: apartmentRepo,
		meterRepo:     meterRepo,
		logger:        logger,
	}
}

// CreateOwnerRequest represents a request to create an owner
type CreateOwnerRequest struct {
	Name    string
	Phone   string
	Email   string
	CNIC    string
	Address string
}

// CreateOwner creates a new owner
func (s *DirectoryService) CreateOwner(ctx context.Context, req CreateOwnerRequest) (*property.Owner, error) {
	owner, err := property.NewOwner(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	owner.Email = req.Email
	owner.CNIC = req.CNIC
	owner.Address = req.Address
	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to save owner: %w", err)
	}
	return owner, nil
}

// GetOwner returns one owner by ID
func (s *DirectoryService) GetOwner(ctx context.Context, id uuid.UUID) (*property.Owner, error) {
	return s.ownerRepo.FindByID(ctx, id)
}

// ListOwners returns owners matching the filter
func (s *DirectoryService) ListOwners(ctx context.Context, filter shared.Filter) ([]property.Owner, error) {
	return s.ownerRepo.FindAll(ctx, filter)
}

// CreateTenantRequest represents a request to create a tenant
type CreateTenantRequest struct {
	Name  string
	Phone string
	Email string
	CNIC  string
}

// CreateTenant creates a new tenant
func (s *DirectoryService) CreateTenant(ctx context.Context, req CreateTenantRequest) (*property.Tenant, error) {
	tenant, err := property.NewTenant(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	tenant.Email = req.Email
	tenant.CNIC = req.CNIC
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}
	return tenant, nil
}

// GetTenant returns one tenant by ID
func (s *DirectoryService) GetTenant(ctx context.Context, id uuid.UUID) (*property.Tenant, error) {
	return s.tenantRepo.FindByID(ctx, id)
}

// ListTenants returns tenants matching the filter
func (s *DirectoryService) ListTenants(ctx context.Context, filter shared.Filter) ([]property.Tenant, error) {
	return s.tenantRepo.FindAll(ctx, filter)
}

// CreateApartmentRequest represents a request to create an apartment
type CreateApartmentRequest struct {
	Number   string
	Floor    string
	Building string
	OwnerID  *uuid.UUID
}

// CreateApartment creates a new apartment, optionally assigned to an owner
func (s *DirectoryService) CreateApartment(ctx context.Context, req CreateApartmentRequest) (*property.Apartment, error) {
	apartment, err := property.NewApartment(req.Number, req.Floor, req.Building)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != nil {
		if _, err := s.ownerRepo.FindByID(ctx, *req.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to get owner: %w", err)
		}
		if err := apartment.AssignOwner(*req.OwnerID); err != nil {
			return nil, err
		}
	}
	if err := s.apartmentRepo.Save(ctx, apartment); err != nil {
		return nil, fmt.Errorf("failed to save apartment: %w", err)
	}
	return apartment, nil
}

// AssignApartmentOwner changes which owner receives the apartment's payouts
func (s *DirectoryService) AssignApartmentOwner(ctx context.Context, apartmentID, ownerID uuid.UUID) (*property.Apartment, error) {
	apartment, err := s.apartmentRepo.FindByID(ctx, apartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}
	if _, err := s.ownerRepo.FindByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if err := apartment.AssignOwner(ownerID); err != nil {
		return nil, err
	}
	if err := s.apartmentRepo.Save(ctx, apartment); err != nil {
		return nil, fmt.Errorf("failed to save apartment: %w", err)
	}
	s.logger.Info("assigned apartment owner",
		zap.String("apartment_id", apartmentID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return apartment, nil
}

// GetApartment returns one apartment by ID
func (s *DirectoryService) GetApartment(ctx context.Context, id uuid.UUID) (*property.Apartment, error) {
	return s.apartmentRepo.FindByID(ctx, id)
}

// ListApartments returns apartments matching the filter
func (s *DirectoryService) ListApartments(ctx context.Context, filter shared.Filter) ([]property.Apartment, error) {
	return s.apartmentRepo.FindAll(ctx, filter)
}

// RegisterMeterRequest represents a request to attach a meter to an apartment
type RegisterMeterRequest struct {
	ApartmentID uuid.UUID
	Type        metering.MeterType
	SerialNo    string
}

// RegisterMeter attaches a utility meter to an apartment. An apartment carries
// at most one active meter per type.
func (s *DirectoryService) RegisterMeter(ctx context.Context, req RegisterMeterRequest) (*metering.Meter, error) {
	if _, err := s.apartmentRepo.FindByID(ctx, req.ApartmentID); err != nil {
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}

	existing, err := s.meterRepo.FindByApartmentAndType(ctx, req.ApartmentID, req.Type)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing meters: %w", err)
	}
	if existing != nil && existing.IsActive {
		return nil, shared.NewDomainError("METER_EXISTS", "Apartment already has an active meter of this type")
	}

	meter, err := metering.NewMeter(req.ApartmentID, req.Type, req.SerialNo)
	if err != nil {
		return nil, err
	}
	if err := s.meterRepo.Save(ctx, meter); err != nil {
		return nil, fmt.Errorf("failed to save meter: %w", err)
	}
	return meter, nil
}

// ListMeters returns an apartment's meters
func (s *DirectoryService) ListMeters(ctx context.Context, apartmentID uuid.UUID) ([]metering.Meter, error) {
	return s.meterRepo.FindByApartment(ctx, apartmentID)
}

// RetireMeter marks a meter inactive, keeping its reading history
func (s *DirectoryService) RetireMeter(ctx context.Context, meterID uuid.UUID) (*metering.Meter, error) {
	meter, err := s.meterRepo.FindByID(ctx, meterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meter: %w", err)
	}
	meter.Retire()
	if err := s.meterRepo.Save(ctx, meter); err != nil {
		return nil, fmt.Errorf("failed to save meter: %w", err)
	}
	return meter, nil
}
