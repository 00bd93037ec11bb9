package models

import "time"

// Quote is the last close returned by a price resolver together with the
// market-qualified symbol that produced it (e.g. "2330.TW", "6488.TWO").
type Quote struct {
	Price  float64
	Symbol string
}

// Lot is one buy fill held by a position until the position is cleared.
type Lot struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// CompletedTrade is emitted when a SELL or REDUCE clears a non-empty position.
type CompletedTrade struct {
	Code        string
	CompanyName *string
	Lots        []Lot
	SellDate    time.Time
	AverageCost float64
	SellPrice   float64
	PercentGain float64
}

// OpenPosition is emitted at end of run for every position still holding lots.
type OpenPosition struct {
	Code         string
	CompanyName  *string
	Symbol       string
	Lots         []Lot
	AverageCost  float64
	CurrentClose float64
	PercentGain  float64
}

// Summary aggregates every emitted record.
//
// Fields:
//   - Total:       completed trades + open positions.
//   - Wins:        records with PercentGain > 0.
//   - WinRate:     Wins / Total * 100, or 0 when Total is 0.
//   - AverageGain: mean PercentGain over all records, or 0 when Total is 0.
type Summary struct {
	Total       int
	Wins        int
	WinRate     float64
	AverageGain float64
}

// Report is the full output of one run. It is never persisted.
type Report struct {
	GeneratedAt time.Time
	Completed   []CompletedTrade
	Open        []OpenPosition
	Summary     Summary
}
