package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON error body
// when the handler did not write a response itself.
//
// Behavior:
//   - Runs after the rest of the chain (c.Next()).
//   - Uses the last attached error; the status is the one already set when
//     it is an error code, 500 otherwise.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last()
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().
		Err(last.Err).
		Str("request_id", toString(rid)).
		Int("status", status).
		Msg("request failed")

	var resp dto.ErrorResponse
	if errors.As(last.Err, &resp) {
		c.JSON(status, resp)
		return
	}
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError stops the chain and writes a standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
