// Package report turns ledger output into a Report and renders it as plain
// text, markdown, or chat-sized messages.
package report

import (
	"time"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// DateLayout is the date format used in every rendering.
const DateLayout = "2006/01/02"

const unknownCompany = "Unknown Company"

// New assembles a Report and its Summary.
func New(completed []models.CompletedTrade, open []models.OpenPosition, generatedAt time.Time) *models.Report {
	return &models.Report{
		GeneratedAt: generatedAt,
		Completed:   completed,
		Open:        open,
		Summary:     Summarize(completed, open),
	}
}

// Summarize counts wins across completed trades and open positions.
// A record wins when its PercentGain is strictly positive; break-even is not a win.
func Summarize(completed []models.CompletedTrade, open []models.OpenPosition) models.Summary {
	var s models.Summary
	var gain float64
	for _, t := range completed {
		s.Total++
		gain += t.PercentGain
		if t.PercentGain > 0 {
			s.Wins++
		}
	}
	for _, p := range open {
		s.Total++
		gain += p.PercentGain
		if p.PercentGain > 0 {
			s.Wins++
		}
	}
	if s.Total > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Total) * 100
		s.AverageGain = gain / float64(s.Total)
	}
	return s
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return unknownCompany
	}
	return *name
}
