package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	propertyapp "github.com/propman/backend/internal/application/property"
	"github.com/propman/backend/internal/domain/property"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContractHandler handles rental contract API endpoints
type ContractHandler struct {
	BaseHandler
	contractService *propertyapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *propertyapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// ApartmentAssignmentRequest is one apartment's charge split within a contract
type ApartmentAssignmentRequest struct {
	ApartmentID    string `json:"apartment_id" binding:"required,uuid"`
	Rent           string `json:"rent" binding:"required"`
	ServiceCharges string `json:"service_charges"`
	SecurityFees   string `json:"security_fees"`
}

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	TenantID    string                       `json:"tenant_id" binding:"required,uuid"`
	StartDate   string                       `json:"start_date" binding:"required,datetime=2006-01-02"`
	Notes       string                       `json:"notes"`
	Assignments []ApartmentAssignmentRequest `json:"assignments" binding:"required,min=1,dive"`
}

// UpdateChargeRequest adjusts the charge split of one apartment on a contract
type UpdateChargeRequest struct {
	ApartmentID    string `json:"apartment_id" binding:"required,uuid"`
	Rent           string `json:"rent" binding:"required"`
	ServiceCharges string `json:"service_charges"`
	SecurityFees   string `json:"security_fees"`
}

// TerminateContractRequest represents a request to end a contract
type TerminateContractRequest struct {
	EndDate string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                  string  `json:"id"`
	TenantID            string  `json:"tenant_id"`
	StartDate           string  `json:"start_date"`
	EndDate             *string `json:"end_date,omitempty"`
	TotalRent           string  `json:"total_rent"`
	TotalServiceCharges string  `json:"total_service_charges"`
	TotalSecurityFees   string  `json:"total_security_fees"`
	SecurityFeeApplied  bool    `json:"security_fee_applied"`
	IsActive            bool    `json:"is_active"`
	Notes               string  `json:"notes,omitempty"`
}

// ChargeResponse represents one apartment's charge row
type ChargeResponse struct {
	ID             string `json:"id"`
	ContractID     string `json:"contract_id"`
	ApartmentID    string `json:"apartment_id"`
	Rent           string `json:"rent"`
	ServiceCharges string `json:"service_charges"`
	SecurityFees   string `json:"security_fees"`
	IsActive       bool   `json:"is_active"`
}

func toContractResponse(ct *property.Contract) ContractResponse {
	resp := ContractResponse{
		ID:                  ct.ID.String(),
		TenantID:            ct.TenantID.String(),
		StartDate:           ct.StartDate.Format("2006-01-02"),
		TotalRent:           ct.TotalRent.String(),
		TotalServiceCharges: ct.TotalServiceCharges.String(),
		TotalSecurityFees:   ct.TotalSecurityFees.String(),
		SecurityFeeApplied:  ct.SecurityFeeApplied,
		IsActive:            ct.IsActive,
		Notes:               ct.Notes,
	}
	if ct.EndDate != nil {
		end := ct.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}

func toChargeResponse(charge *property.ApartmentCharge) ChargeResponse {
	return ChargeResponse{
		ID:             charge.ID.String(),
		ContractID:     charge.ContractID.String(),
		ApartmentID:    charge.ApartmentID.String(),
		Rent:           charge.Rent.String(),
		ServiceCharges: charge.ServiceCharges.String(),
		SecurityFees:   charge.SecurityFees.String(),
		IsActive:       charge.IsActive,
	}
}

func parseAssignment(req ApartmentAssignmentRequest) (propertyapp.ApartmentAssignment, error) {
	apartmentID, err := uuid.Parse(req.ApartmentID)
	if err != nil {
		return propertyapp.ApartmentAssignment{}, err
	}
	rent, err := decimal.NewFromString(req.Rent)
	if err != nil {
		return propertyapp.ApartmentAssignment{}, err
	}
	service := decimal.Zero
	if req.ServiceCharges != "" {
		if service, err = decimal.NewFromString(req.ServiceCharges); err != nil {
			return propertyapp.ApartmentAssignment{}, err
		}
	}
	security := decimal.Zero
	if req.SecurityFees != "" {
		if security, err = decimal.NewFromString(req.SecurityFees); err != nil {
			return propertyapp.ApartmentAssignment{}, err
		}
	}
	return propertyapp.ApartmentAssignment{
		ApartmentID:    apartmentID,
		Rent:           rent,
		ServiceCharges: service,
		SecurityFees:   security,
	}, nil
}

// Create handles POST /property/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start date")
		return
	}

	assignments := make([]propertyapp.ApartmentAssignment, len(req.Assignments))
	for i, a := range req.Assignments {
		assignment, err := parseAssignment(a)
		if err != nil {
			h.BadRequest(c, "Invalid apartment assignment")
			return
		}
		assignments[i] = assignment
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), propertyapp.CreateContractRequest{
		TenantID:    tenantID,
		StartDate:   startDate,
		Notes:       req.Notes,
		Assignments: assignments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toContractResponse(contract))
}

// Get handles GET /property/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(contract))
}

// List handles GET /property/contracts
func (h *ContractHandler) List(c *gin.Context) {
	filter := listFilterFromQuery(c)
	if tenantID := c.Query("tenant_id"); tenantID != "" {
		filter.Filters["tenant_id"] = tenantID
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	contracts, err := h.contractService.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = toContractResponse(&contracts[i])
	}
	h.Success(c, responses)
}

// GetCharges handles GET /property/contracts/:id/charges
func (h *ContractHandler) GetCharges(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	charges, err := h.contractService.GetContractCharges(c.Request.Context(), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ChargeResponse, len(charges))
	for i := range charges {
		responses[i] = toChargeResponse(&charges[i])
	}
	h.Success(c, responses)
}

// AssignApartment handles POST /property/contracts/:id/apartments
func (h *ContractHandler) AssignApartment(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	var req ApartmentAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	assignment, err := parseAssignment(req)
	if err != nil {
		h.BadRequest(c, "Invalid apartment assignment")
		return
	}

	contract, err := h.contractService.AssignApartment(c.Request.Context(), contractID, assignment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(contract))
}

// UpdateCharge handles PUT /property/contracts/:id/charges
func (h *ContractHandler) UpdateCharge(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	var req UpdateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	assignment, err := parseAssignment(ApartmentAssignmentRequest(req))
	if err != nil {
		h.BadRequest(c, "Invalid charge values")
		return
	}

	contract, err := h.contractService.UpdateCharge(c.Request.Context(), propertyapp.UpdateChargeRequest{
		ContractID:     contractID,
		ApartmentID:    assignment.ApartmentID,
		Rent:           assignment.Rent,
		ServiceCharges: assignment.ServiceCharges,
		SecurityFees:   assignment.SecurityFees,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(contract))
}

// Terminate handles POST /property/contracts/:id/terminate
func (h *ContractHandler) Terminate(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	var req TerminateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end date")
		return
	}

	contract, err := h.contractService.TerminateContract(c.Request.Context(), contractID, endDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(contract))
}

// listFilterFromQuery builds a shared.Filter from common query parameters
func listFilterFromQuery(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	var req struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&req); err == nil {
		if req.Page > 0 {
			filter.Page = req.Page
		}
		if req.PageSize > 0 && req.PageSize <= 100 {
			filter.PageSize = req.PageSize
		}
		filter.Search = req.Search
	}
	return filter
}

// RegisterRoutes registers all contract routes
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/property/contracts")
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.List)
		contracts.GET("/:id", h.Get)
		contracts.GET("/:id/charges", h.GetCharges)
		contracts.POST("/:id/apartments", h.AssignApartment)
		contracts.PUT("/:id/charges", h.UpdateCharge)
		contracts.POST("/:id/terminate", h.Terminate)
	}
}
