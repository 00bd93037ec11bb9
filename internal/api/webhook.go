package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/ingestion"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/notify"
	"github.com/guttosm/tradepulse/internal/service"
)

// maxWebhookBody bounds the LINE webhook payload read into memory.
const maxWebhookBody = 1 << 20

// Replier answers a chat event.
type Replier interface {
	Reply(ctx context.Context, replyToken string, texts ...string) error
}

// WebhookHandler receives LINE chat messages of the form
// "date, code, action, value" and appends them to the trade log.
type WebhookHandler struct {
	secret string
	trades service.TradeService
	reply  Replier
}

// NewWebhookHandler builds the LINE callback handler.
func NewWebhookHandler(secret string, trades service.TradeService, reply Replier) *WebhookHandler {
	return &WebhookHandler{secret: secret, trades: trades, reply: reply}
}

// Callback handles POST /callback requests.
//
// Callback godoc
// @Summary      LINE webhook
// @Description  Verifies X-Line-Signature, then records every text message "date, code, action, value" and replies with the outcome
// @Tags         webhook
// @Accept       json
// @Produce      plain
// @Param        X-Line-Signature  header    string  true  "base64 HMAC-SHA256 of the body"
// @Success      200               {string}  string  "OK"
// @Failure      400               {object}  dto.ErrorResponse  "Bad Request"
// @Router       /callback [post]
func (h *WebhookHandler) Callback(c *gin.Context) {
	sig := c.GetHeader(notify.SignatureHeader)
	if sig == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("missing signature", nil))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("unreadable body", err))
		return
	}
	if err := notify.ValidateSignature(h.secret, body, sig); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid signature", err))
		return
	}

	events, err := notify.ParseEvents(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid webhook body", err))
		return
	}

	ctx := c.Request.Context()
	for _, ev := range events {
		if !ev.IsText() {
			continue
		}
		text := h.handleText(ctx, strings.TrimSpace(ev.Message.Text))
		if err := h.reply.Reply(ctx, ev.ReplyToken, text); err != nil {
			logger.L().Error().Err(err).Str("user", ev.Source.UserID).Msg("line reply failed")
		}
	}

	c.String(http.StatusOK, "OK")
}

// handleText records one chat line and returns the reply text.
func (h *WebhookHandler) handleText(ctx context.Context, text string) string {
	reply := "收到：" + text + "\n"

	e, err := h.trades.RecordText(ctx, text)
	switch {
	case err == nil:
		return reply + "\n✔ 已記錄 " + e.Date.Format(ingestion.DateLayout) + " " + e.Code + " " + string(e.Action)
	case errors.Is(err, ingestion.ErrInvalidEntry):
		logger.L().Info().Err(err).Msg("rejected chat entry")
		return reply + "\n⚠️ 格式錯誤，需為：\n日期(YYYY/MM/DD), 代號, 動作(BUY/SELL/REDUCE/KEEP), 價格\n" + err.Error()
	default:
		logger.L().Error().Err(err).Msg("chat entry not stored")
		return reply + "\n❌ 錯誤：" + err.Error()
	}
}
