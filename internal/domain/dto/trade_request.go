package dto

// TradeRequest is the body accepted by POST /api/v1/trades.
// It carries the same four fields as one trade-log row.
type TradeRequest struct {
	Date   string `json:"date" binding:"required" example:"2025/01/10"`
	Code   string `json:"code" binding:"required" example:"2330"`
	Action string `json:"action" binding:"required" example:"BUY"`
	Value  string `json:"value" example:"600"`
}

// TradeResponse echoes the stored row.
type TradeResponse struct {
	Date   string `json:"date" example:"2025/01/10"`
	Code   string `json:"code" example:"2330"`
	Action string `json:"action" example:"BUY"`
	Value  string `json:"value" example:"600"`
}
