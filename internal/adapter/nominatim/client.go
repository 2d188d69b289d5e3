package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/observability"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// maxBodyBytes caps how much of a provider response is decoded.
const maxBodyBytes = 2 << 20

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
	RateLimit float64 // requests per second; <= 0 disables limiting
}

// Client implements domain.Geocoder against the Nominatim search and reverse APIs.
type Client struct {
	baseURL    string
	userAgent  string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  opts.UserAgent,
		language:   opts.Language,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		metrics:    metrics,
		logger:     logger,
	}
}

// Search runs a free-text forward lookup with address details. A blank query
// returns no results without calling the provider.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []domain.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{
		"q":              {q},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {strconv.Itoa(limit)},
	}

	body, err := c.get(ctx, "search", "/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	// Anything other than a JSON array is treated as "no results".
	var items []searchItem
	if err := json.Unmarshal(body, &items); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			c.observe("search", "error")
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		c.logger.Debug("search response is not a list", "query", q)
		items = nil
	}

	results := make([]domain.SearchResult, 0, len(items))
	for _, it := range items {
		results = append(results, domain.SearchResult{
			ID:          it.PlaceID.String(),
			DisplayName: strings.TrimSpace(it.DisplayName),
			Latitude:    it.Lat,
			Longitude:   it.Lon,
		})
	}

	if len(results) == 0 {
		c.observe("search", "empty")
	} else {
		c.observe("search", "success")
	}
	return results, nil
}

// Reverse resolves a coordinate into a place with structured address parts.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	params := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"json"},
		"addressdetails": {"1"},
	}

	body, err := c.get(ctx, "reverse", "/reverse?"+params.Encode())
	if err != nil {
		return domain.Place{}, err
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.observe("reverse", "error")
		return domain.Place{}, fmt.Errorf("decode reverse response: %w", err)
	}
	// Nominatim answers 200 with an error field when nothing is near the point.
	if resp.Error != "" {
		c.observe("reverse", "empty")
		return domain.Place{}, fmt.Errorf("nominatim reverse: %s", resp.Error)
	}

	c.observe("reverse", "success")
	return resp.place(), nil
}

// CheckReadiness reports whether the provider answers its status endpoint.
func (c *Client) CheckReadiness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status?format=json", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim status: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, method, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limit wait: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe(method, "error")
		return nil, fmt.Errorf("%s geocode request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.observe(method, "error")
		return nil, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observe(method, "error")
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	return body, nil
}

func (c *Client) observe(method, outcome string) {
	c.metrics.GeocodeRequests.WithLabelValues(method, outcome).Inc()
}
