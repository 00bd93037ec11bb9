package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Line-Signature"

// ErrBadSignature marks a webhook body whose signature does not verify.
var ErrBadSignature = errors.New("invalid line signature")

// ValidateSignature checks base64(HMAC-SHA256(secret, body)) against the header value.
func ValidateSignature(secret string, body []byte, signature string) error {
	if secret == "" || signature == "" {
		return ErrBadSignature
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return ErrBadSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrBadSignature
	}
	return nil
}

// Sign computes the signature LINE would send for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Event is the subset of a LINE webhook event the bot uses.
type Event struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

// IsText reports whether the event is an incoming text message.
func (e Event) IsText() bool {
	return e.Type == "message" && e.Message.Type == "text"
}

type webhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// ParseEvents decodes a webhook body. An empty event list (LINE's URL
// verification call) is valid.
func ParseEvents(body []byte) ([]Event, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	return wb.Events, nil
}
