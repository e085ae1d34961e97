package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"evenza/pkg/logger"

	"go.uber.org/zap"
)

type JoinEmail struct {
	RecipientEmail string `json:"recipientEmail"`
	EventTitle     string `json:"eventTitle"`
	EventDate      string `json:"eventDate,omitempty"`
	EventLocation  string `json:"eventLocation,omitempty"`
	OrganizerEmail string `json:"organizerEmail,omitempty"`
}

type CancellationEmail struct {
	Recipients     []string `json:"recipients"`
	EventTitle     string   `json:"eventTitle"`
	EventDate      string   `json:"eventDate,omitempty"`
	EventLocation  string   `json:"eventLocation,omitempty"`
	OrganizerEmail string   `json:"organizerEmail,omitempty"`
}

type VerificationEmail struct {
	RecipientEmail string `json:"recipientEmail"`
	Code           string `json:"code"`
}

// Client 呼叫 mail relay 的 HTTP client。通知寄送是 best-effort：
// 任何失敗只記 log,不回傳錯誤,不影響呼叫方流程。
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SendJoinEmail(ctx context.Context, payload JoinEmail) {
	c.post(ctx, "/email/join", payload)
}

func (c *Client) SendCancellationEmail(ctx context.Context, payload CancellationEmail) {
	c.post(ctx, "/email/cancellation", payload)
}

func (c *Client) SendVerificationEmail(ctx context.Context, payload VerificationEmail) {
	c.post(ctx, "/email/verification", payload)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) {
	log := logger.WithComponent("mailer").With(zap.String("path", path))

	if c.baseURL == "" {
		log.Warn("EMAIL_API_URL is not configured, skipping notification email")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Warn("Failed to encode email payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		log.Warn("Failed to build email request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn("Unable to reach mail relay", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Warn("Mail relay rejected request", zap.Int("status", resp.StatusCode))
	}
}
