package dto

import (
	"time"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

const dateLayout = "2006/01/02"

// LotResponse is one buy fill as exposed by the API.
type LotResponse struct {
	Date  string  `json:"date" example:"2025/01/10"`
	Price float64 `json:"price" example:"600"`
}

// CompletedTradeResponse mirrors models.CompletedTrade for the API contract.
type CompletedTradeResponse struct {
	Code        string        `json:"code" example:"2330"`
	CompanyName *string       `json:"company_name" example:"台積電"`
	Lots        []LotResponse `json:"lots"`
	SellDate    string        `json:"sell_date" example:"2025/02/03"`
	AverageCost float64       `json:"average_cost" example:"550"`
	SellPrice   float64       `json:"sell_price" example:"660"`
	PercentGain float64       `json:"percent_gain" example:"20"`
}

// OpenPositionResponse mirrors models.OpenPosition for the API contract.
type OpenPositionResponse struct {
	Code         string        `json:"code" example:"1234"`
	CompanyName  *string       `json:"company_name"`
	Symbol       string        `json:"symbol" example:"1234.TW"`
	Lots         []LotResponse `json:"lots"`
	AverageCost  float64       `json:"average_cost" example:"100"`
	CurrentClose float64       `json:"current_close" example:"120"`
	PercentGain  float64       `json:"percent_gain" example:"20"`
}

// SummaryResponse carries the aggregate win rate.
type SummaryResponse struct {
	Total       int     `json:"total" example:"2"`
	Wins        int     `json:"wins" example:"1"`
	WinRate     float64 `json:"win_rate" example:"50"`
	AverageGain float64 `json:"average_gain" example:"7.5"`
}

// ReportResponse represents the JSON structure returned by GET /api/v1/report.
type ReportResponse struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Completed   []CompletedTradeResponse `json:"completed"`
	Open        []OpenPositionResponse   `json:"open"`
	Summary     SummaryResponse          `json:"summary"`
}

// NewReportResponse converts a domain report into its API shape.
// Collections are never nil so clients always see JSON arrays.
func NewReportResponse(r *models.Report) ReportResponse {
	out := ReportResponse{
		GeneratedAt: r.GeneratedAt,
		Completed:   make([]CompletedTradeResponse, 0, len(r.Completed)),
		Open:        make([]OpenPositionResponse, 0, len(r.Open)),
		Summary: SummaryResponse{
			Total:       r.Summary.Total,
			Wins:        r.Summary.Wins,
			WinRate:     r.Summary.WinRate,
			AverageGain: r.Summary.AverageGain,
		},
	}
	for _, t := range r.Completed {
		out.Completed = append(out.Completed, CompletedTradeResponse{
			Code:        t.Code,
			CompanyName: t.CompanyName,
			Lots:        lotsResponse(t.Lots),
			SellDate:    t.SellDate.Format(dateLayout),
			AverageCost: t.AverageCost,
			SellPrice:   t.SellPrice,
			PercentGain: t.PercentGain,
		})
	}
	for _, p := range r.Open {
		out.Open = append(out.Open, OpenPositionResponse{
			Code:         p.Code,
			CompanyName:  p.CompanyName,
			Symbol:       p.Symbol,
			Lots:         lotsResponse(p.Lots),
			AverageCost:  p.AverageCost,
			CurrentClose: p.CurrentClose,
			PercentGain:  p.PercentGain,
		})
	}
	return out
}

func lotsResponse(lots []models.Lot) []LotResponse {
	out := make([]LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, LotResponse{Date: l.Date.Format(dateLayout), Price: l.Price})
	}
	return out
}
