// Package newsletter relays captured signups to the ConvertKit email-list
// API. Relay is best-effort: the signup is already persisted locally, so a
// provider outage never fails the user-facing request.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when no provider credentials are set.
var ErrNotConfigured = errors.New("newsletter provider not configured")

// Client talks to the ConvertKit v3 API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger

	apiKey  string
	formID  string
	baseURL string
}

// Config holds the provider credentials and endpoint.
type Config struct {
	APIKey  string
	FormID  string
	BaseURL string
	Logger  *slog.Logger
}

// NewClient creates a newsletter relay client.
// Rate limited to stay well inside ConvertKit's published quota.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 2 requests per second with a small burst is far below quota.
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		logger:      cfg.Logger,
		apiKey:      cfg.APIKey,
		formID:      cfg.FormID,
		baseURL:     cfg.BaseURL,
	}
}

// Enabled reports whether provider credentials are configured. When false,
// signups are stored locally but never relayed.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.formID != ""
}

type subscribeRequest struct {
	APIKey string `json:"api_key"`
	Email  string `json:"email"`
}

type subscribeResponse struct {
	Subscription struct {
		ID    int64  `json:"id"`
		State string `json:"state"`
	} `json:"subscription"`
}

// Subscribe relays a signup to the configured form.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(subscribeRequest{APIKey: c.apiKey, Email: email})
	if err != nil {
		return fmt.Errorf("encode subscribe request: %w", err)
	}

	url := fmt.Sprintf("%s/forms/%s/subscribe", c.baseURL, c.formID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build subscribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("subscribe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("subscribe failed: status %d", resp.StatusCode)
	}

	var sr subscribeResponse
	if err := json.UnmarshalRead(resp.Body, &sr); err != nil {
		return fmt.Errorf("decode subscribe response: %w", err)
	}

	c.logger.Debug("relayed newsletter signup",
		"subscription_id", sr.Subscription.ID,
		"state", sr.Subscription.State,
	)
	return nil
}
