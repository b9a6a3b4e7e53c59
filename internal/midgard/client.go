package midgard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"runeScope/internal/model"
)

// Endpoint families, each paced independently.
const (
	FamilyEarnings = "earnings"
	FamilyRunePool = "runepool"
	FamilySwaps    = "swaps"
	FamilyDepths   = "depths"
)

// DefaultBaseURL is the public Midgard endpoint.
const DefaultBaseURL = "https://midgard.ninerealms.com/v2"

// StatusError reports a non-2xx response from Midgard.
type StatusError struct {
	Family     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("midgard %s: unexpected status %d", e.Family, e.StatusCode)
}

// Client fetches history payloads from Midgard, pacing each endpoint
// family. It performs no retries; callers decide what a failure means.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pacer      *Pacer
}

// ClientConfig holds client construction settings.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RateDelay      time.Duration
}

// NewClient builds a Midgard client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rateDelay := cfg.RateDelay
	if rateDelay < 0 {
		rateDelay = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		pacer:      NewPacer(rateDelay),
	}
}

// Earnings fetches network and per-pool earnings for the window.
func (c *Client) Earnings(ctx context.Context, w model.Window) (*EarningsHistory, error) {
	var out EarningsHistory
	if err := c.get(ctx, FamilyEarnings, "/history/earnings", windowQuery(w), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunePool fetches rune pool membership for the window.
func (c *Client) RunePool(ctx context.Context, w model.Window) (*RunePoolHistory, error) {
	var out RunePoolHistory
	if err := c.get(ctx, FamilyRunePool, "/history/runepool", windowQuery(w), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Swaps fetches swap counters for one pool and window.
func (c *Client) Swaps(ctx context.Context, pool model.Pool, w model.Window) (*SwapHistory, error) {
	q := windowQuery(w)
	q.Set("pool", pool.Asset)
	var out SwapHistory
	if err := c.get(ctx, FamilySwaps, "/history/swaps", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Depths fetches depth/price state for one pool and window.
func (c *Client) Depths(ctx context.Context, pool model.Pool, w model.Window) (*DepthHistory, error) {
	var out DepthHistory
	path := "/history/depths/" + url.PathEscape(pool.Asset)
	if err := c.get(ctx, FamilyDepths, path, windowQuery(w), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, family, path string, query url.Values, out any) error {
	if err := c.pacer.Wait(ctx, family); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", family, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", family, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Family: family, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", family, err)
	}
	return nil
}

func windowQuery(w model.Window) url.Values {
	q := url.Values{}
	q.Set("from", strconv.FormatInt(w.Start.Unix(), 10))
	q.Set("to", strconv.FormatInt(w.End.Unix(), 10))
	return q
}
