package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is BigDataCloud's keyless client-side reverse geocoder.
	DefaultBaseURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	userAgent      = "TravelTerminal/1.0"
)

// ErrNotACity is reported when the picked point does not resolve to a country,
// e.g. a click in the middle of an ocean.
var ErrNotACity = errors.New("Kindly click on the city")

// GeocodeError is returned by Lookup for every failure. Its message is what
// the user sees.
type GeocodeError struct {
	Lat, Lng float64
	Err      error
}

func (e *GeocodeError) Error() string {
	if errors.Is(e.Err, ErrNotACity) {
		return ErrNotACity.Error()
	}
	return fmt.Sprintf("reverse geocoding %.4f, %.4f: %v", e.Lat, e.Lng, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// Result is what a coordinate resolved to.
type Result struct {
	City        string
	Locality    string
	CountryName string
	CountryCode string
}

// Client reverse-geocodes coordinates with one HTTP call per lookup.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit paces outbound lookups. perSecond <= 0 disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a reverse geocoder against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// reverseResponse is the subset of the BigDataCloud payload we read
type reverseResponse struct {
	City        string `json:"city"`
	Locality    string `json:"locality"`
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
}

// Lookup resolves lat/lng into a city and country.
func (c *Client) Lookup(ctx context.Context, lat, lng float64) (*Result, error) {
	fail := func(err error) (*Result, error) {
		return nil, &GeocodeError{Lat: lat, Lng: lng, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fail(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("geocoding API returned status %d", resp.StatusCode))
	}

	var data reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fail(fmt.Errorf("decoding response: %w", err))
	}

	c.logger.Debug("reverse geocoded",
		slog.Float64("lat", lat),
		slog.Float64("lng", lng),
		slog.String("locality", data.Locality),
		slog.String("country_code", data.CountryCode))

	if data.CountryCode == "" {
		return fail(ErrNotACity)
	}

	return &Result{
		City:        data.City,
		Locality:    data.Locality,
		CountryName: data.CountryName,
		CountryCode: data.CountryCode,
	}, nil
}
