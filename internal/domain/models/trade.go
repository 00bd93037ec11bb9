package models

import (
	"strings"
	"time"
)

// Action is the verb recorded on one row of the trade log.
//
// Known values:
//   - BUY:    open (or add to) a position at the logged price.
//   - KEEP:   open (or add to) a position at the current market close.
//   - SELL:   close the whole position.
//   - REDUCE: close the whole position (never date-gated).
//
// Any other value is preserved verbatim and ignored by the ledger engine.
type Action string

const (
	ActionBuy    Action = "BUY"
	ActionSell   Action = "SELL"
	ActionReduce Action = "REDUCE"
	ActionKeep   Action = "KEEP"
)

// ParseAction normalizes a raw action cell (trimmed, case-insensitive).
// Unknown verbs are returned upper-cased so they survive a round trip.
func ParseAction(s string) Action {
	return Action(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether the action is one of BUY, SELL, REDUCE or KEEP.
func (a Action) Known() bool {
	switch a {
	case ActionBuy, ActionSell, ActionReduce, ActionKeep:
		return true
	}
	return false
}

// Opens reports whether the action appends a lot (BUY or KEEP).
func (a Action) Opens() bool { return a == ActionBuy || a == ActionKeep }

// Closes reports whether the action liquidates a position (SELL or REDUCE).
func (a Action) Closes() bool { return a == ActionSell || a == ActionReduce }

// TradeLogEntry represents a single row of the trade log.
//
// Column order in the canonical CSV:
//  1. date   → Date
//  2. code   → Code
//  3. action → Action
//  4. value  → RawValue
//
// RawValue is kept as text: it is either a decimal price or one of the
// "use market price" sentinels ("null", "none", empty).
type TradeLogEntry struct {
	Line     int // 1-based data line in the source; 0 when not file-backed
	Date     time.Time
	Code     string
	Action   Action
	RawValue string
}
