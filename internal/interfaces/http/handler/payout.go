package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payoutapp "github.com/propman/backend/internal/application/payout"
	"github.com/propman/backend/internal/domain/payout"
	"github.com/propman/backend/internal/domain/shared/valueobject"
)

// PayoutHandler handles owner payout API endpoints
type PayoutHandler struct {
	BaseHandler
	payoutService *payoutapp.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService *payoutapp.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// GeneratePayoutsRequest represents a request to generate payouts for a month
type GeneratePayoutsRequest struct {
	Month string `json:"month" binding:"required,month"`
}

// MarkPayoutPaidRequest represents a request to record a payout disbursement
type MarkPayoutPaidRequest struct {
	PayoutDate string `json:"payout_date" binding:"required,datetime=2006-01-02"`
	Notes      string `json:"notes"`
}

// UpdatePayoutStatusRequest represents a request to promote cleared payouts
type UpdatePayoutStatusRequest struct {
	Month string `json:"month" binding:"required,month"`
}

// PayoutResponse represents an owner payout in API responses
type PayoutResponse struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	Month              string     `json:"month"`
	TotalRentCollected string     `json:"total_rent_collected"`
	PayoutAmount       string     `json:"payout_amount"`
	Status             string     `json:"status"`
	PayoutDate         *time.Time `json:"payout_date,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

// PayoutItemResponse represents one payout line item
type PayoutItemResponse struct {
	ID          string `json:"id"`
	PayoutID    string `json:"payout_id"`
	BillID      string `json:"bill_id"`
	ApartmentID string `json:"apartment_id"`
	ContractID  string `json:"contract_id"`
	RentShare   string `json:"rent_share"`
}

func toPayoutResponse(p *payout.OwnerPayout) PayoutResponse {
	return PayoutResponse{
		ID:                 p.ID.String(),
		OwnerID:            p.OwnerID.String(),
		Month:              p.Month.String(),
		TotalRentCollected: p.TotalRentCollected.String(),
		PayoutAmount:       p.PayoutAmount.String(),
		Status:             p.Status.String(),
		PayoutDate:         p.PayoutDate,
		Notes:              p.Notes,
	}
}

func toPayoutItemResponse(i *payout.OwnerPayoutItem) PayoutItemResponse {
	return PayoutItemResponse{
		ID:          i.ID.String(),
		PayoutID:    i.PayoutID.String(),
		BillID:      i.BillID.String(),
		ApartmentID: i.ApartmentID.String(),
		ContractID:  i.ContractID.String(),
		RentShare:   i.RentShare.String(),
	}
}

// Generate handles POST /payouts/generate
func (h *PayoutHandler) Generate(c *gin.Context) {
	var req GeneratePayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	month, err := valueobject.ParseMonth(req.Month)
	if err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	payouts, err := h.payoutService.GeneratePayouts(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		responses[i] = toPayoutResponse(&payouts[i])
	}
	h.Created(c, responses)
}

// Get handles GET /payouts/:id
func (h *PayoutHandler) Get(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID")
		return
	}

	p, err := h.payoutService.GetPayout(c.Request.Context(), payoutID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPayoutResponse(p))
}

// List handles GET /payouts?month=YYYY-MM
func (h *PayoutHandler) List(c *gin.Context) {
	month, err := valueobject.ParseMonth(c.Query("month"))
	if err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	payouts, err := h.payoutService.ListPayouts(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		responses[i] = toPayoutResponse(&payouts[i])
	}
	h.Success(c, responses)
}

// GetItems handles GET /payouts/:id/items
func (h *PayoutHandler) GetItems(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID")
		return
	}

	items, err := h.payoutService.GetPayoutItems(c.Request.Context(), payoutID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PayoutItemResponse, len(items))
	for i := range items {
		responses[i] = toPayoutItemResponse(&items[i])
	}
	h.Success(c, responses)
}

// MarkPaid handles POST /payouts/:id/mark-paid
func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID")
		return
	}

	var req MarkPayoutPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.PayoutDate)
	if err != nil {
		h.BadRequest(c, "Invalid payout date")
		return
	}

	p, err := h.payoutService.MarkPaid(c.Request.Context(), payoutID, date, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPayoutResponse(p))
}

// UpdateStatus handles POST /payouts/update-status
func (h *PayoutHandler) UpdateStatus(c *gin.Context) {
	var req UpdatePayoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	month, err := valueobject.ParseMonth(req.Month)
	if err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	promoted, err := h.payoutService.UpdateStatusForMonth(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"month": month.String(), "promoted": promoted})
}

// RegisterRoutes registers all payout routes
func (h *PayoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payouts := rg.Group("/payouts")
	{
		payouts.POST("/generate", h.Generate)
		payouts.POST("/update-status", h.UpdateStatus)
		payouts.GET("", h.List)
		payouts.GET("/:id", h.Get)
		payouts.GET("/:id/items", h.GetItems)
		payouts.POST("/:id/mark-paid", h.MarkPaid)
	}
}
