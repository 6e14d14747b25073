package cities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// Remote is the city collection resource the store synchronizes with.
type Remote interface {
	ListCities(ctx context.Context) ([]models.City, error)
	GetCity(ctx context.Context, id models.ID) (models.City, error)
	CreateCity(ctx context.Context, draft models.City) (models.City, error)
	DeleteCity(ctx context.Context, id models.ID) error
}

// HTTPClient implements Remote against a JSON /cities resource.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the resource rooted at baseURL
// (e.g. http://localhost:9000).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) cityURL(id models.ID) string {
	return fmt.Sprintf("%s/cities/%s", c.baseURL, url.PathEscape(string(id)))
}

// ListCities fetches the whole collection.
func (c *HTTPClient) ListCities(ctx context.Context) ([]models.City, error) {
	var out []models.City
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/cities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCity fetches a single city.
func (c *HTTPClient) GetCity(ctx context.Context, id models.ID) (models.City, error) {
	var out models.City
	if err := c.do(ctx, http.MethodGet, c.cityURL(id), nil, &out); err != nil {
		return models.City{}, err
	}
	return out, nil
}

// CreateCity posts a draft and returns the stored record with its id.
func (c *HTTPClient) CreateCity(ctx context.Context, draft models.City) (models.City, error) {
	body, err := json.Marshal(draft.Draft())
	if err != nil {
		return models.City{}, fmt.Errorf("encoding city: %w", err)
	}

	var out models.City
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/cities", body, &out); err != nil {
		return models.City{}, err
	}
	if out.ID == "" {
		return models.City{}, fmt.Errorf("server response carried no id")
	}
	return out, nil
}

// DeleteCity removes a city. The response body is ignored.
func (c *HTTPClient) DeleteCity(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, c.cityURL(id), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, reqURL string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", method, reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
