package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/driftwatch/sleepdrift/pkg/httpcache"
)

const defaultBaseURL = "https://api.ouraring.com/v2/usercollection/sleep"

// Config carries the Oura API credentials.
type Config struct {
	Token string `env:"OURA_ACCESS_TOKEN,required"`
}

// Client talks to the Oura sleep endpoint.
type Client struct {
	cfg     Config
	http    *httpcache.Client
	logger  *slog.Logger
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient builds a client from an explicit config.
func NewClient(cfg Config, httpClient *httpcache.Client, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		http:    httpClient,
		logger:  logger,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSleep retrieves every sleep record whose day falls in [start, end],
// both YYYY-MM-DD. The API's end_date is exclusive, so one day is added
// before the call. Any non-200 status aborts the whole range; Oura has no
// per-day recovery path.
func (c *Client) FetchSleep(ctx context.Context, start, end string) ([]SleepRecord, error) {
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", endDate.AddDate(0, 0, 1).Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching oura sleep data: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("oura API returned status %d (failed to read response)", resp.StatusCode)
		}
		return nil, fmt.Errorf("oura API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []SleepRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Debug("oura sleep data fetched", "start", start, "end", end, "records", len(result.Data))
	return result.Data, nil
}
