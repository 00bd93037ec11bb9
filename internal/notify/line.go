// Package notify delivers reports over the LINE Messaging API and parses the
// webhook events LINE posts back.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIBase = "https://api.line.me"

	// maxMessagesPerRequest is LINE's cap on messages in one push or reply.
	maxMessagesPerRequest = 5
)

// ErrNotConfigured is returned when credentials or the recipient are missing.
var ErrNotConfigured = errors.New("line client not configured")

// LineClient sends text messages with a channel access token.
type LineClient struct {
	Token   string
	BaseURL string
	HTTP    *http.Client
}

// NewLineClient returns a client for the public LINE API.
func NewLineClient(token string, timeout time.Duration) *LineClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LineClient{Token: token, BaseURL: defaultAPIBase, HTTP: &http.Client{Timeout: timeout}}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// APIError is a non-2xx answer from the LINE API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("line api http %d: %s", e.StatusCode, e.Body)
}

// Push sends texts to a user, group or room id. More than five texts are
// sent as consecutive requests.
func (c *LineClient) Push(ctx context.Context, to string, texts ...string) error {
	if c.Token == "" || to == "" {
		return fmt.Errorf("%w: missing channel token or recipient", ErrNotConfigured)
	}
	for _, batch := range batches(texts) {
		if err := c.post(ctx, "/v2/bot/message/push", pushRequest{To: to, Messages: batch}); err != nil {
			return err
		}
	}
	return nil
}

// Reply answers a webhook event. A reply token is single-use, so at most
// five texts are sent and the rest are dropped.
func (c *LineClient) Reply(ctx context.Context, replyToken string, texts ...string) error {
	if c.Token == "" || replyToken == "" {
		return fmt.Errorf("%w: missing channel token or reply token", ErrNotConfigured)
	}
	b := batches(texts)
	if len(b) == 0 {
		return nil
	}
	return c.post(ctx, "/v2/bot/message/reply", replyRequest{ReplyToken: replyToken, Messages: b[0]})
}

func (c *LineClient) post(ctx context.Context, path string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	base := c.BaseURL
	if base == "" {
		base = defaultAPIBase
	}
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

func batches(texts []string) [][]textMessage {
	var out [][]textMessage
	var cur []textMessage
	for _, t := range texts {
		if t == "" {
			continue
		}
		cur = append(cur, textMessage{Type: "text", Text: t})
		if len(cur) == maxMessagesPerRequest {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
