// Package lifeapp is the HTTP client for the Life app backend: lifecycle
// event submission plus the read-only status and product listing queries.
package lifeapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the Life app API.
type Client struct {
	baseURL   string
	botSecret string
	client    *http.Client
	now       func() time.Time
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each backend call. Expiry surfaces as a synthetic
// failure outcome on submissions, like any other transport error.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithClock overrides the wall clock (used by tests).
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a Life app API client. The bot secret is sent with
// every submission so the backend can authenticate the bot.
func NewClient(baseURL, botSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		botSecret: botSecret,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitEvent reports one lifecycle event. The timestamp is taken at call
// time, not at conversation start. This method never returns an error: any
// transport or decode failure becomes a synthetic failure outcome, so the
// dialog layer always has something to render.
func (c *Client) SubmitEvent(ctx context.Context, telegramID, text, imageBase64 string) *EventOutcome {
	payload := eventRequest{
		TelegramID:  telegramID,
		Text:        text,
		BotToken:    c.botSecret,
		Timestamp:   c.now().Unix(),
		ImageBase64: imageBase64,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failureOutcome(fmt.Errorf("marshalling event: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lifecycle/telegram-event", bytes.NewReader(body))
	if err != nil {
		return failureOutcome(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return failureOutcome(fmt.Errorf("submitting event: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failureOutcome(fmt.Errorf("reading response: %w", err))
	}

	var outcome EventOutcome
	if err := json.Unmarshal(respBody, &outcome); err != nil {
		return failureOutcome(fmt.Errorf("unmarshalling response (status %d): %w", resp.StatusCode, err))
	}
	return &outcome
}

// failureOutcome converts a transport-level error into the failure shape.
func failureOutcome(err error) *EventOutcome {
	return &EventOutcome{
		Success: false,
		Error:   err.Error(),
		Message: "Could not reach the Life app service. Please try again later.",
	}
}

// Status fetches the account-linking status for a Telegram user. Callers
// degrade errors to the unlinked rendering.
func (c *Client) Status(ctx context.Context, telegramID string) (*StatusInfo, error) {
	var info StatusInfo
	if err := c.get(ctx, "/telegram/status", telegramID, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Products fetches the tracked products for a Telegram user.
func (c *Client) Products(ctx context.Context, telegramID string) (*ProductsInfo, error) {
	var info ProductsInfo
	if err := c.get(ctx, "/telegram/products", telegramID, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path, telegramID string, out any) error {
	endpoint := c.baseURL + path + "?telegramId=" + url.QueryEscape(telegramID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshalling %s response (status %d): %w", path, resp.StatusCode, err)
	}
	return nil
}
