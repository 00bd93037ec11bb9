package dto

import "time"

// ErrorResponse is the standard JSON error body returned by every endpoint.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid request body"`
	ErrorDetails string    `json:"error_details,omitempty" example:"unknown action \"HOLD\""`
	Timestamp    time.Time `json:"timestamp" example:"2025-01-10T08:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse, copying err's text into ErrorDetails when non-nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface so the response can travel through c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
