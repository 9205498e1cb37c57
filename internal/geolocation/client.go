// Package geolocation resolves the reporter's device position through an
// external provider. One-shot lookups only: no caching, no retries. When
// the provider is unreachable the caller falls back to manual entry.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/villagegrid/powerline-alerts/internal/geo"
)

// ErrUnavailable means the position could not be determined; the UI
// prompts for manual coordinates.
var ErrUnavailable = errors.New("location unavailable")

const DefaultTimeout = 5 * time.Second

type Config struct {
	Enabled      bool
	ProviderURL  string
	Timeout      time.Duration
	HighAccuracy bool
}

type Client struct {
	cfg  Config
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: resty.New().SetTimeout(cfg.Timeout),
	}
}

type providerResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolve asks the provider for the current position. It resolves or
// fails exactly once per call; stale results are never reused.
func (c *Client) Resolve(ctx context.Context) (geo.Point, error) {
	if !c.cfg.Enabled || c.cfg.ProviderURL == "" {
		return geo.Point{}, ErrUnavailable
	}

	var out providerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("high_accuracy", strconv.FormatBool(c.cfg.HighAccuracy)).
		SetResult(&out).
		Get(c.cfg.ProviderURL)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return geo.Point{}, fmt.Errorf("%w: provider returned %s", ErrUnavailable, resp.Status())
	}

	return geo.Point{Latitude: out.Latitude, Longitude: out.Longitude}, nil
}
