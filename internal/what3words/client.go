// Package what3words provides a client for the what3words API.
package what3words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gridfix/gridfix/internal/coordinate"
	"github.com/gridfix/gridfix/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the what3words API.
	DefaultBaseURL = "https://api.what3words.com/v3"

	// ProviderName identifies this provider.
	ProviderName = "what3words"
)

// ErrNotConfigured is returned when no API key is set. The conversion service
// treats this as "resolver absent" and passes three-word addresses through.
var ErrNotConfigured = errors.New("what3words: api key not configured")

// ClientConfig holds configuration for the what3words client.
type ClientConfig struct {
	// APIKey authenticates requests. Required for resolution.
	APIKey string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ HTTPDoer = (*resilience.Client)(nil)

// Client is a what3words API client. It implements converter.Resolver.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new what3words client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types (from the what3words API).

type coordinatesData struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type convertResponse struct {
	Coordinates coordinatesData `json:"coordinates"`
	Words       string          `json:"words"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Resolve converts a three-word address to a geographic point.
func (c *Client) Resolve(ctx context.Context, words string) (coordinate.LatLong, error) {
	if c.apiKey == "" {
		return coordinate.LatLong{}, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/convert-to-coordinates?words=%s&key=%s",
		c.baseURL, url.QueryEscape(words), url.QueryEscape(c.apiKey))

	var result convertResponse
	if err := c.get(ctx, endpoint, &result); err != nil {
		return coordinate.LatLong{}, fmt.Errorf("resolve %q: %w", words, err)
	}

	return coordinate.LatLong{Lat: result.Coordinates.Lat, Lng: result.Coordinates.Lng}, nil
}

// ReverseResolve converts a geographic point to its three-word address.
func (c *Client) ReverseResolve(ctx context.Context, lat, lng float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/convert-to-3wa?coordinates=%s&key=%s",
		c.baseURL, url.QueryEscape(fmt.Sprintf("%f,%f", lat, lng)), url.QueryEscape(c.apiKey))

	var result convertResponse
	if err := c.get(ctx, endpoint, &result); err != nil {
		return "", fmt.Errorf("reverse resolve %f,%f: %w", lat, lng, err)
	}

	return result.Words, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("api error %s: %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
