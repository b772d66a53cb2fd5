package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/propman/backend/internal/application/billing"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles bill payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ApplyPaymentRequest represents a request to record a payment against a bill
type ApplyPaymentRequest struct {
	Amount      string `json:"amount" binding:"required"`
	PaymentDate string `json:"payment_date" binding:"required,datetime=2006-01-02"`
	Method      string `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE ONLINE"`
	Reference   string `json:"reference" binding:"max=100"`
	Notes       string `json:"notes"`
	ReceivedBy  string `json:"received_by" binding:"max=100"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          string `json:"id"`
	BillID      string `json:"bill_id"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
	Method      string `json:"method"`
	Reference   string `json:"reference,omitempty"`
	Notes       string `json:"notes,omitempty"`
	ReceivedBy  string `json:"received_by,omitempty"`
}

func toPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		BillID:      p.BillID.String(),
		Amount:      p.Amount.String(),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
		Method:      p.Method.String(),
		Reference:   p.Reference,
		Notes:       p.Notes,
		ReceivedBy:  p.ReceivedBy,
	}
}

// Apply handles POST /billing/bills/:id/payments
func (h *PaymentHandler) Apply(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.BadRequest(c, "Invalid amount")
		return
	}
	date, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		h.BadRequest(c, "Invalid payment date")
		return
	}

	bill, err := h.paymentService.ApplyPayment(c.Request.Context(), billingapp.ApplyPaymentRequest{
		BillID:      billID,
		Amount:      amount,
		PaymentDate: date,
		Method:      billing.PaymentMethod(req.Method),
		Reference:   req.Reference,
		Notes:       req.Notes,
		ReceivedBy:  req.ReceivedBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toBillResponse(bill))
}

// List handles GET /billing/bills/:id/payments
func (h *PaymentHandler) List(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = toPaymentResponse(&payments[i])
	}
	h.Success(c, responses)
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/billing")
	{
		payments.POST("/bills/:id/payments", h.Apply)
		payments.GET("/bills/:id/payments", h.List)
	}
}
