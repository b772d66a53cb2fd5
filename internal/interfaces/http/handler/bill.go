package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/propman/backend/internal/application/billing"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillHandler handles billing API endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// GenerateBillsRequest represents a request to generate bills for a month
type GenerateBillsRequest struct {
	Month         string `json:"month" binding:"required,month"`
	ElectricRate  string `json:"electric_rate" binding:"required"`
	GeneratorRate string `json:"generator_rate" binding:"required"`
	WaterRate     string `json:"water_rate" binding:"required"`
	IssueDate     string `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate       string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DryRun        bool   `json:"dry_run"`
}

// UpdateBillRequest represents an operator adjustment of a bill
type UpdateBillRequest struct {
	AdditionalCharges *string `json:"additional_charges"`
	DueDate           *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	MarkPaid          bool    `json:"mark_paid"`
}

// UtilityLineResponse represents one utility line on a bill
type UtilityLineResponse struct {
	Units  string `json:"units"`
	Rate   string `json:"rate"`
	Amount string `json:"amount"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID                string              `json:"id"`
	ContractID        string              `json:"contract_id"`
	IssueMonth        string              `json:"issue_month"`
	IssueDate         string              `json:"issue_date"`
	DueDate           string              `json:"due_date"`
	Electric          UtilityLineResponse `json:"electric"`
	Generator         UtilityLineResponse `json:"generator"`
	Water             UtilityLineResponse `json:"water"`
	Rent              string              `json:"rent"`
	ServiceCharges    string              `json:"service_charges"`
	SecurityFees      string              `json:"security_fees"`
	Arrears           string              `json:"arrears"`
	AdditionalCharges string              `json:"additional_charges"`
	TotalAmount       string              `json:"total_amount"`
	AmountReceived    string              `json:"amount_received"`
	PaymentStatus     string              `json:"payment_status"`
	Paid              bool                `json:"paid"`
	PaidAt            *time.Time          `json:"paid_at,omitempty"`
}

func toUtilityLineResponse(l billing.UtilityLine) UtilityLineResponse {
	return UtilityLineResponse{
		Units:  l.Units.String(),
		Rate:   l.Rate.String(),
		Amount: l.Amount.String(),
	}
}

func toBillResponse(b *billing.Bill) BillResponse {
	return BillResponse{
		ID:                b.ID.String(),
		ContractID:        b.ContractID.String(),
		IssueMonth:        b.IssueMonth.String(),
		IssueDate:         b.IssueDate.Format("2006-01-02"),
		DueDate:           b.DueDate.Format("2006-01-02"),
		Electric:          toUtilityLineResponse(b.Electric),
		Generator:         toUtilityLineResponse(b.Generator),
		Water:             toUtilityLineResponse(b.Water),
		Rent:              b.Rent.String(),
		ServiceCharges:    b.ServiceCharges.String(),
		SecurityFees:      b.SecurityFees.String(),
		Arrears:           b.Arrears.String(),
		AdditionalCharges: b.AdditionalCharges.String(),
		TotalAmount:       b.TotalAmount.String(),
		AmountReceived:    b.AmountReceived.String(),
		PaymentStatus:     b.PaymentStatus.String(),
		Paid:              b.Paid,
		PaidAt:            b.PaidAt,
	}
}

// GenerationResultResponse represents the outcome of a generation run
type GenerationResultResponse struct {
	Month  string         `json:"month"`
	Count  int            `json:"count"`
	DryRun bool           `json:"dry_run"`
	Bills  []BillResponse `json:"bills"`
}

// Generate handles POST /billing/bills/generate
func (h *BillHandler) Generate(c *gin.Context) {
	var req GenerateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	month, err := valueobject.ParseMonth(req.Month)
	if err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}
	rates, err := parseRates(req.ElectricRate, req.GeneratorRate, req.WaterRate)
	if err != nil {
		h.BadRequest(c, "Invalid utility rate")
		return
	}

	appReq := billingapp.GenerateBillsRequest{
		Month:  month,
		Rates:  rates,
		DryRun: req.DryRun,
	}
	if req.IssueDate != "" {
		appReq.IssueDate, _ = time.Parse("2006-01-02", req.IssueDate)
	}
	if req.DueDate != "" {
		appReq.DueDate, _ = time.Parse("2006-01-02", req.DueDate)
	}

	result, err := h.billService.GenerateForMonth(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	bills := make([]BillResponse, len(result.Bills))
	for i, b := range result.Bills {
		bills[i] = toBillResponse(b)
	}
	h.Created(c, GenerationResultResponse{
		Month:  result.Month.String(),
		Count:  result.Count,
		DryRun: result.DryRun,
		Bills:  bills,
	})
}

func parseRates(electric, generator, water string) (billing.UtilityRates, error) {
	var rates billing.UtilityRates
	var err error
	if rates.Electric, err = decimal.NewFromString(electric); err != nil {
		return rates, err
	}
	if rates.Generator, err = decimal.NewFromString(generator); err != nil {
		return rates, err
	}
	if rates.Water, err = decimal.NewFromString(water); err != nil {
		return rates, err
	}
	return rates, nil
}

// Get handles GET /billing/bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillResponse(bill))
}

// ListBillsRequest represents bill listing query parameters
type ListBillsRequest struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Month         string `form:"month" binding:"omitempty,month"`
	ContractID    string `form:"contract_id" binding:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=UNPAID PARTIAL PAID"`
	Search        string `form:"search" binding:"omitempty,max=200"`
}

// List handles GET /billing/bills
func (h *BillHandler) List(c *gin.Context) {
	var req ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := billing.BillFilter{Filter: shared.DefaultFilter()}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	if req.Month != "" {
		month, err := valueobject.ParseMonth(req.Month)
		if err != nil {
			h.BadRequest(c, "Invalid month, expected YYYY-MM")
			return
		}
		filter.Month = &month
	}
	if req.ContractID != "" {
		contractID, err := uuid.Parse(req.ContractID)
		if err != nil {
			h.BadRequest(c, "Invalid contract ID")
			return
		}
		filter.ContractID = &contractID
	}
	if req.PaymentStatus != "" {
		status := billing.PaymentStatus(req.PaymentStatus)
		filter.PaymentStatus = &status
	}

	page, err := h.billService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	bills := make([]BillResponse, len(page.Items))
	for i := range page.Items {
		bills[i] = toBillResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, bills, page.Total, page.Page, page.PageSize)
}

// Update handles PATCH /billing/bills/:id
func (h *BillHandler) Update(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := billingapp.UpdateBillRequest{
		BillID:   billID,
		MarkPaid: req.MarkPaid,
	}
	if req.AdditionalCharges != nil {
		charges, err := decimal.NewFromString(*req.AdditionalCharges)
		if err != nil {
			h.BadRequest(c, "Invalid additional charges")
			return
		}
		appReq.AdditionalCharges = &charges
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			h.BadRequest(c, "Invalid due date")
			return
		}
		appReq.DueDate = &due
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillResponse(bill))
}

// MarkPaid handles POST /billing/bills/:id/mark-paid
func (h *BillHandler) MarkPaid(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.MarkPaid(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillResponse(bill))
}

// RegisterRoutes registers all bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/billing")
	{
		bills.POST("/bills/generate", h.Generate)
		bills.GET("/bills", h.List)
		bills.GET("/bills/:id", h.Get)
		bills.PATCH("/bills/:id", h.Update)
		bills.POST("/bills/:id/mark-paid", h.MarkPaid)
	}
}
