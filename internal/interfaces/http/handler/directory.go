package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	propertyapp "github.com/propman/backend/internal/application/property"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/property"
)

// DirectoryHandler handles owner, tenant, apartment and meter API endpoints
type DirectoryHandler struct {
	BaseHandler
	directoryService *propertyapp.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directoryService *propertyapp.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// CreateOwnerRequest represents a request to create an owner
type CreateOwnerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"required,max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	CNIC    string `json:"cnic" binding:"max=30"`
	Address string `json:"address" binding:"max=500"`
}

// CreateTenantRequest represents a request to create a tenant
type CreateTenantRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"required,max=50"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	CNIC  string `json:"cnic" binding:"max=30"`
}

// CreateApartmentRequest represents a request to create an apartment
type CreateApartmentRequest struct {
	Number   string `json:"number" binding:"required,min=1,max=50"`
	Floor    string `json:"floor" binding:"max=20"`
	Building string `json:"building" binding:"max=100"`
	OwnerID  string `json:"owner_id" binding:"omitempty,uuid"`
}

// AssignOwnerRequest represents a request to reassign an apartment's owner
type AssignOwnerRequest struct {
	OwnerID string `json:"owner_id" binding:"required,uuid"`
}

// RegisterMeterRequest represents a request to attach a meter to an apartment
type RegisterMeterRequest struct {
	Type     string `json:"type" binding:"required,oneof=ELECTRIC_GRID GENERATOR WATER"`
	SerialNo string `json:"serial_no" binding:"max=100"`
}

// OwnerResponse represents an owner in API responses
type OwnerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	CNIC     string `json:"cnic,omitempty"`
	Address  string `json:"address,omitempty"`
	IsActive bool   `json:"is_active"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	CNIC     string `json:"cnic,omitempty"`
	IsActive bool   `json:"is_active"`
}

// ApartmentResponse represents an apartment in API responses
type ApartmentResponse struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Floor    string  `json:"floor,omitempty"`
	Building string  `json:"building,omitempty"`
	OwnerID  *string `json:"owner_id,omitempty"`
	IsActive bool    `json:"is_active"`
}

// MeterResponse represents a meter in API responses
type MeterResponse struct {
	ID          string `json:"id"`
	ApartmentID string `json:"apartment_id"`
	Type        string `json:"type"`
	SerialNo    string `json:"serial_no,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func toOwnerResponse(o *property.Owner) OwnerResponse {
	return OwnerResponse{
		ID:       o.ID.String(),
		Name:     o.Name,
		Phone:    o.Phone,
		Email:    o.Email,
		CNIC:     o.CNIC,
		Address:  o.Address,
		IsActive: o.IsActive,
	}
}

func toTenantResponse(t *property.Tenant) TenantResponse {
	return TenantResponse{
		ID:       t.ID.String(),
		Name:     t.Name,
		Phone:    t.Phone,
		Email:    t.Email,
		CNIC:     t.CNIC,
		IsActive: t.IsActive,
	}
}

func toApartmentResponse(a *property.Apartment) ApartmentResponse {
	resp := ApartmentResponse{
		ID:       a.ID.String(),
		Number:   a.Number,
		Floor:    a.Floor,
		Building: a.Building,
		IsActive: a.IsActive,
	}
	if a.OwnerID != nil {
		id := a.OwnerID.String()
		resp.OwnerID = &id
	}
	return resp
}

func toMeterResponse(m *metering.Meter) MeterResponse {
	return MeterResponse{
		ID:          m.ID.String(),
		ApartmentID: m.ApartmentID.String(),
		Type:        m.Type.String(),
		SerialNo:    m.SerialNo,
		IsActive:    m.IsActive,
	}
}

// CreateOwner handles POST /property/owners
func (h *DirectoryHandler) CreateOwner(c *gin.Context) {
	var req CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	owner, err := h.directoryService.CreateOwner(c.Request.Context(), propertyapp.CreateOwnerRequest{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		CNIC:    req.CNIC,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOwnerResponse(owner))
}

// GetOwner handles GET /property/owners/:id
func (h *DirectoryHandler) GetOwner(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	owner, err := h.directoryService.GetOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOwnerResponse(owner))
}

// ListOwners handles GET /property/owners
func (h *DirectoryHandler) ListOwners(c *gin.Context) {
	owners, err := h.directoryService.ListOwners(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OwnerResponse, len(owners))
	for i := range owners {
		responses[i] = toOwnerResponse(&owners[i])
	}
	h.Success(c, responses)
}

// CreateTenant handles POST /property/tenants
func (h *DirectoryHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.directoryService.CreateTenant(c.Request.Context(), propertyapp.CreateTenantRequest{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		CNIC:  req.CNIC,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTenantResponse(tenant))
}

// GetTenant handles GET /property/tenants/:id
func (h *DirectoryHandler) GetTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.directoryService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenantResponse(tenant))
}

// ListTenants handles GET /property/tenants
func (h *DirectoryHandler) ListTenants(c *gin.Context) {
	tenants, err := h.directoryService.ListTenants(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = toTenantResponse(&tenants[i])
	}
	h.Success(c, responses)
}

// CreateApartment handles POST /property/apartments
func (h *DirectoryHandler) CreateApartment(c *gin.Context) {
	var req CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := propertyapp.CreateApartmentRequest{
		Number:   req.Number,
		Floor:    req.Floor,
		Building: req.Building,
	}
	if req.OwnerID != "" {
		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID")
			return
		}
		appReq.OwnerID = &ownerID
	}

	apartment, err := h.directoryService.CreateApartment(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toApartmentResponse(apartment))
}

// GetApartment handles GET /property/apartments/:id
func (h *DirectoryHandler) GetApartment(c *gin.Context) {
	apartmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid apartment ID")
		return
	}

	apartment, err := h.directoryService.GetApartment(c.Request.Context(), apartmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toApartmentResponse(apartment))
}

// ListApartments handles GET /property/apartments
func (h *DirectoryHandler) ListApartments(c *gin.Context) {
	apartments, err := h.directoryService.ListApartments(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ApartmentResponse, len(apartments))
	for i := range apartments {
		responses[i] = toApartmentResponse(&apartments[i])
	}
	h.Success(c, responses)
}

// AssignOwner handles PUT /property/apartments/:id/owner
func (h *DirectoryHandler) AssignOwner(c *gin.Context) {
	apartmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid apartment ID")
		return
	}

	var req AssignOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	apartment, err := h.directoryService.AssignApartmentOwner(c.Request.Context(), apartmentID, ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toApartmentResponse(apartment))
}

// RegisterMeter handles POST /property/apartments/:id/meters
func (h *DirectoryHandler) RegisterMeter(c *gin.Context) {
	apartmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid apartment ID")
		return
	}

	var req RegisterMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	meter, err := h.directoryService.RegisterMeter(c.Request.Context(), propertyapp.RegisterMeterRequest{
		ApartmentID: apartmentID,
		Type:        metering.MeterType(req.Type),
		SerialNo:    req.SerialNo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toMeterResponse(meter))
}

// ListMeters handles GET /property/apartments/:id/meters
func (h *DirectoryHandler) ListMeters(c *gin.Context) {
	apartmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid apartment ID")
		return
	}

	meters, err := h.directoryService.ListMeters(c.Request.Context(), apartmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MeterResponse, len(meters))
	for i := range meters {
		responses[i] = toMeterResponse(&meters[i])
	}
	h.Success(c, responses)
}

// RetireMeter handles POST /property/meters/:id/retire
func (h *DirectoryHandler) RetireMeter(c *gin.Context) {
	meterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}

	meter, err := h.directoryService.RetireMeter(c.Request.Context(), meterID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMeterResponse(meter))
}

// RegisterRoutes registers all directory routes
func (h *DirectoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prop := rg.Group("/property")
	{
		prop.POST("/owners", h.CreateOwner)
		prop.GET("/owners", h.ListOwners)
		prop.GET("/owners/:id", h.GetOwner)

		prop.POST("/tenants", h.CreateTenant)
		prop.GET("/tenants", h.ListTenants)
		prop.GET("/tenants/:id", h.GetTenant)

		prop.POST("/apartments", h.CreateApartment)
		prop.GET("/apartments", h.ListApartments)
		prop.GET("/apartments/:id", h.GetApartment)
		prop.PUT("/apartments/:id/owner", h.AssignOwner)
		prop.POST("/apartments/:id/meters", h.RegisterMeter)
		prop.GET("/apartments/:id/meters", h.ListMeters)

		prop.POST("/meters/:id/retire", h.RetireMeter)
	}
}
