package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/eventdesk/accessd/internal/config"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// HTTPGeoResolver resolves a client IP to a place name using an external
// geolocation HTTP API. The lookup is best effort; callers fall back to a
// placeholder when it fails.
type HTTPGeoResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGeoResolver creates a resolver against the configured lookup URL.
// The HTTP client timeout bounds each request.
func NewHTTPGeoResolver(cfg *config.Config) *HTTPGeoResolver {
	return &HTTPGeoResolver{
		baseURL: cfg.GeoLookupURL,
		client:  &http.Client{Timeout: cfg.GeoLookupTimeout},
	}
}

// geoResponse is the subset of the lookup API's payload we care about.
type geoResponse struct {
	City    string `json:"city"`
	Region  string `json:"regionName"`
	Country string `json:"country"`
}

// Resolve returns a "City, Country" style description for the IP.
func (g *HTTPGeoResolver) Resolve(ctx context.Context, ip string) (string, error) {
	if g.baseURL == "" {
		return "", apperrors.New("geo lookup is not configured")
	}

	lookupURL, err := url.JoinPath(g.baseURL, ip)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build geo lookup url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build geo lookup request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, "geo lookup request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(fmt.Sprintf("geo lookup returned status %d", resp.StatusCode))
	}

	var payload geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.Wrap(err, "failed to decode geo lookup response")
	}

	return formatLocation(payload), nil
}

// formatLocation joins the non-empty place parts into a readable string.
func formatLocation(payload geoResponse) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{payload.City, payload.Region, payload.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
