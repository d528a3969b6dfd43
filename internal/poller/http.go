package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/errors"
)

// maxPayloadBytes bounds how much of a response body is read.
const maxPayloadBytes = 4 << 20

// AllMetricsPath is the endpoint, relative to the API base, that returns
// every metric in one payload.
const AllMetricsPath = "metrics/all"

// Endpoint resolves the all-metrics URL from the server origin and the API
// base. An absolute base URL ignores server.
func Endpoint(server, apiBase string) (string, error) {
	base, err := url.Parse(apiBase)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid API base URL: %s", apiBase),
			"Use a path like /api or a full URL like http://host:5000/api")
	}

	if base.IsAbs() {
		return url.JoinPath(apiBase, AllMetricsPath)
	}

	origin, err := url.Parse(server)
	if err != nil || !origin.IsAbs() || origin.Host == "" {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid server URL: %q", server),
			"Use a full URL like http://localhost:5000")
	}
	return url.JoinPath(server, apiBase, AllMetricsPath)
}

// HTTPFetcher fetches payloads from the metrics API over HTTP.
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
	now      func() time.Time
}

// NewHTTPFetcher creates a fetcher for endpoint. A nil client uses
// http.DefaultClient; the per-request timeout comes from the poller's context.
func NewHTTPFetcher(endpoint string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		endpoint: endpoint,
		client:   client,
		now:      time.Now,
	}
}

// Endpoint returns the URL being polled.
func (f *HTTPFetcher) Endpoint() string {
	return f.endpoint
}

// Fetch performs one GET and decodes the response.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*api.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't build request for %s", f.endpoint),
			"Check dashboard.server and dashboard.api_base_url")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrNetwork,
			fmt.Sprintf("Can't reach metrics API at %s", f.endpoint),
			"Check the API is running: sysinsight serve")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, errors.New(errors.ErrHTTP,
			fmt.Sprintf("HTTP %d", resp.StatusCode),
			"Check the metrics API logs")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrNetwork,
			"Metrics API response was cut off", "")
	}

	return api.Decode(body, f.now())
}
