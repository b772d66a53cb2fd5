package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	meteringapp "github.com/propman/backend/internal/application/metering"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReadingHandler handles meter reading API endpoints
type ReadingHandler struct {
	BaseHandler
	readingService *meteringapp.ReadingService
}

// NewReadingHandler creates a new ReadingHandler
func NewReadingHandler(readingService *meteringapp.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingService: readingService}
}

// RecordReadingRequest represents a request to record a meter reading
type RecordReadingRequest struct {
	MeterID      string  `json:"meter_id" binding:"required,uuid"`
	ReadingDate  string  `json:"reading_date" binding:"required,datetime=2006-01-02"`
	CurrentUnits string  `json:"current_units" binding:"required"`
	BaselineHint *string `json:"baseline_hint"`
}

// EditReadingRequest represents a request to correct a reading
type EditReadingRequest struct {
	ReadingDate  string `json:"reading_date" binding:"required,datetime=2006-01-02"`
	CurrentUnits string `json:"current_units" binding:"required"`
}

// ReadingResponse represents a meter reading in API responses. Baseline marks
// readings whose consumption was not derived from a prior reading.
type ReadingResponse struct {
	ID            string `json:"id"`
	MeterID       string `json:"meter_id"`
	ReadingDate   string `json:"reading_date"`
	CurrentUnits  string `json:"current_units"`
	ConsumedUnits string `json:"consumed_units"`
	Baseline      bool   `json:"baseline"`
}

func toReadingResponse(r *metering.Reading) ReadingResponse {
	return ReadingResponse{
		ID:            r.ID.String(),
		MeterID:       r.MeterID.String(),
		ReadingDate:   r.ReadingDate.Format("2006-01-02"),
		CurrentUnits:  r.CurrentUnits.String(),
		ConsumedUnits: r.ConsumedUnits.String(),
		Baseline:      r.IsBaseline(),
	}
}

// Record handles POST /metering/readings
func (h *ReadingHandler) Record(c *gin.Context) {
	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	meterID, err := uuid.Parse(req.MeterID)
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}
	date, err := time.Parse("2006-01-02", req.ReadingDate)
	if err != nil {
		h.BadRequest(c, "Invalid reading date")
		return
	}
	units, err := decimal.NewFromString(req.CurrentUnits)
	if err != nil {
		h.BadRequest(c, "Invalid current units")
		return
	}

	appReq := meteringapp.RecordReadingRequest{
		MeterID:      meterID,
		ReadingDate:  date,
		CurrentUnits: units,
	}
	if req.BaselineHint != nil {
		hint, err := decimal.NewFromString(*req.BaselineHint)
		if err != nil {
			h.BadRequest(c, "Invalid baseline hint")
			return
		}
		appReq.BaselineHint = &hint
	}

	reading, err := h.readingService.RecordReading(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toReadingResponse(reading))
}

// Edit handles PUT /metering/readings/:id
func (h *ReadingHandler) Edit(c *gin.Context) {
	readingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reading ID")
		return
	}

	var req EditReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.ReadingDate)
	if err != nil {
		h.BadRequest(c, "Invalid reading date")
		return
	}
	units, err := decimal.NewFromString(req.CurrentUnits)
	if err != nil {
		h.BadRequest(c, "Invalid current units")
		return
	}

	reading, err := h.readingService.EditReading(c.Request.Context(), meteringapp.EditReadingRequest{
		ReadingID:    readingID,
		ReadingDate:  date,
		CurrentUnits: units,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toReadingResponse(reading))
}

// Get handles GET /metering/readings/:id
func (h *ReadingHandler) Get(c *gin.Context) {
	readingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reading ID")
		return
	}

	reading, err := h.readingService.GetReading(c.Request.Context(), readingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toReadingResponse(reading))
}

// ListByMeter handles GET /metering/meters/:id/readings
func (h *ReadingHandler) ListByMeter(c *gin.Context) {
	meterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	readings, err := h.readingService.ListReadingsByMeter(c.Request.Context(), meterID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ReadingResponse, len(readings))
	for i := range readings {
		responses[i] = toReadingResponse(&readings[i])
	}
	h.Success(c, responses)
}

// LatestForMonth handles GET /metering/meters/:id/readings/latest
func (h *ReadingHandler) LatestForMonth(c *gin.Context) {
	meterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}
	month, err := valueobject.ParseMonth(c.Query("month"))
	if err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	reading, err := h.readingService.LatestForMonth(c.Request.Context(), meterID, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toReadingResponse(reading))
}

// HasPrior handles GET /metering/meters/:id/readings/has-prior
func (h *ReadingHandler) HasPrior(c *gin.Context) {
	meterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	hasPrior, err := h.readingService.HasPriorReading(c.Request.Context(), meterID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"has_prior": hasPrior})
}

// ListByApartment handles GET /metering/apartments/:id/readings
func (h *ReadingHandler) ListByApartment(c *gin.Context) {
	apartmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid apartment ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	readings, err := h.readingService.ListReadingsByApartment(c.Request.Context(), apartmentID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ReadingResponse, len(readings))
	for i := range readings {
		responses[i] = toReadingResponse(&readings[i])
	}
	h.Success(c, responses)
}

// RegisterRoutes registers all reading routes
func (h *ReadingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	readings := rg.Group("/metering")
	{
		readings.POST("/readings", h.Record)
		readings.GET("/readings/:id", h.Get)
		readings.PUT("/readings/:id", h.Edit)
		readings.GET("/meters/:id/readings", h.ListByMeter)
		readings.GET("/meters/:id/readings/latest", h.LatestForMonth)
		readings.GET("/meters/:id/readings/has-prior", h.HasPrior)
		readings.GET("/apartments/:id/readings", h.ListByApartment)
	}
}
