package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/ingestion"
	"github.com/guttosm/tradepulse/internal/report"
	"github.com/guttosm/tradepulse/internal/service"
)

// Handler provides HTTP handlers for the report and trade-entry endpoints.
//
// Responsibilities:
//   - Validate query parameters and request bodies
//   - Delegate to the report and trade services
//   - Translate results into response DTOs with the right status codes
type Handler struct {
	reports service.ReportService
	trades  service.TradeService
}

// NewHandler constructs a new Handler instance.
func NewHandler(reports service.ReportService, trades service.TradeService) *Handler {
	return &Handler{reports: reports, trades: trades}
}

// GetReport handles GET /api/v1/report requests.
//
// A fresh report is computed on every call; nothing is cached or persisted.
//
// GetReport godoc
// @Summary      Get profit/loss report
// @Description  Reconstructs positions from the trade log and returns completed trades, open positions and the win rate
// @Tags         report
// @Produce      json
// @Produce      plain
// @Param        format  query     string  false  "json (default), text or markdown"  Enums(json, text, markdown)
// @Success      200     {object}  dto.ReportResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse   "Bad Request"
// @Failure      500     {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/report [get]
func (h *Handler) GetReport(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "json")))
	switch format {
	case "json", "text", "markdown":
	default:
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid format, expected json, text or markdown", nil))
		return
	}

	r, err := h.reports.Generate(c.Request.Context())
	if err != nil {
		msg := "failed to generate report"
		if errors.Is(err, ingestion.ErrStructure) {
			msg = "trade log is malformed"
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(msg, err))
		return
	}

	switch format {
	case "text":
		c.String(http.StatusOK, report.Text(r))
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(r)))
	default:
		c.JSON(http.StatusOK, dto.NewReportResponse(r))
	}
}

// PostTrade handles POST /api/v1/trades requests.
//
// PostTrade godoc
// @Summary      Append a trade-log row
// @Description  Validates date (YYYY/MM/DD), code and action (BUY, SELL, REDUCE, KEEP) and appends the row. An empty or "null" value means "use the market close".
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        trade  body      dto.TradeRequest   true  "Trade row"
// @Success      201    {object}  dto.TradeResponse  "Created"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/trades [post]
func (h *Handler) PostTrade(c *gin.Context) {
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	e, err := h.trades.Record(c.Request.Context(), req.Date, req.Code, req.Action, req.Value)
	if err != nil {
		if errors.Is(err, ingestion.ErrInvalidEntry) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid trade", err))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to store trade", err))
		return
	}

	c.JSON(http.StatusCreated, dto.TradeResponse{
		Date:   e.Date.Format(ingestion.DateLayout),
		Code:   e.Code,
		Action: string(e.Action),
		Value:  e.RawValue,
	})
}
