package ultrahuman

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

const defaultBaseURL = "https://partner.ultrahuman.com/api/v1/metrics"

// Config carries the Ultrahuman partner API credentials. The token is sent
// verbatim in the Authorization header; this API does not use a Bearer
// prefix.
type Config struct {
	Token string `env:"ULTRAHUMAN_AUTHORIZATION_TOKEN,required"`
	Email string `env:"ULTRAHUMAN_EMAIL,required"`
}

// Client talks to the Ultrahuman metrics endpoint.
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

// FetchSleep retrieves the sleep metric for every day in [start, end], one
// request per day. Unlike the Oura fetch, a failed day is logged and
// skipped: one bad day must not sink the rest of the range.
func (c *Client) FetchSleep(ctx context.Context, start, end string) ([]SleepRecord, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	var records []SleepRecord
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		rec, err := c.fetchDay(ctx, day)
		if err != nil {
			c.logger.Error("failed to fetch ultrahuman sleep data", "date", day, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) fetchDay(ctx context.Context, day string) (SleepRecord, error) {
	params := url.Values{}
	params.Set("email", c.cfg.Email)
	params.Set("date", day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return SleepRecord{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.Token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return SleepRecord{}, fmt.Errorf("fetching metrics: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return SleepRecord{}, fmt.Errorf("ultrahuman API returned status %d (failed to read response)", resp.StatusCode)
		}
		return SleepRecord{}, fmt.Errorf("ultrahuman API returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope metricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return SleepRecord{}, fmt.Errorf("decoding response: %w", err)
	}

	for _, m := range envelope.Data.MetricData {
		if m.Type != sleepMetricType {
			continue
		}
		var rec SleepRecord
		if err := json.Unmarshal(m.Object, &rec); err != nil {
			return SleepRecord{}, fmt.Errorf("decoding sleep metric: %w", err)
		}
		c.logger.Debug("ultrahuman sleep data fetched", "date", day,
			"segments", len(rec.SleepGraph.Data), "stages", len(rec.SleepStages))
		return rec, nil
	}
	return SleepRecord{}, fmt.Errorf("no sleep metric in response")
}
