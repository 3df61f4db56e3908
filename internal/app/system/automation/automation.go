// internal/app/system/automation/automation.go
package automation

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when the webhook URL for an action is empty.
var ErrNotConfigured = errors.New("automation webhook not configured")

// RelayError is returned when a webhook answers with a non-2xx status.
type RelayError struct {
	Endpoint string
	Status   int
	Body     string // truncated preview
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("automation: %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

// Config holds the webhook endpoints.
type Config struct {
	CompetitorURL string        // competitor ingestion webhook
	ContentURL    string        // content workflow webhook
	Timeout       time.Duration // per-call client timeout (default 30s)
}

// Response is the webhook acknowledgment. JSON is set when the body parsed
// as a JSON object; Text always holds the raw body.
type Response struct {
	Status    int
	RequestID string
	JSON      map[string]any
	Text      string
}

// Message returns a human-readable message from the acknowledgment, if any.
func (r Response) Message() string {
	if r.JSON != nil {
		if m, ok := r.JSON["message"].(string); ok {
			return m
		}
	}
	return ""
}

// Client relays payloads to the external workflow webhooks. Calls are
// never retried: a failed relay is reported and the user re-triggers it.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New creates a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Relay POSTs payload as JSON to endpoint and returns the acknowledgment.
func (c *Client) Relay(ctx context.Context, endpoint string, payload any) (Response, error) {
	if endpoint == "" {
		return Response{}, ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("encode payload: %w", err)
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("automation relay failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", reqID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Response{RequestID: reqID}, fmt.Errorf("relay to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{Status: resp.StatusCode, RequestID: reqID}, fmt.Errorf("read response: %w", err)
	}

	out := Response{Status: resp.StatusCode, RequestID: reqID, Text: string(raw)}
	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		out.JSON = obj
	}

	c.logger.Info("automation relay",
		zap.String("endpoint", endpoint),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &RelayError{Endpoint: endpoint, Status: resp.StatusCode, Body: preview(out.Text, 300)}
	}
	return out, nil
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
