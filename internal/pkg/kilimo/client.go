// Package kilimo is a typed HTTP client for the Kilimostat service: endpoint
// discovery, paginated page fetching and full-collection retrieval.
package kilimo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"
)

// Logical resource names in the discovery document.
const (
	ResourceCounties       = "counties"
	ResourceSubsectors     = "subsectors"
	ResourceDomains        = "domains"
	ResourceSubDomains     = "subdomains"
	ResourceElements       = "elements"
	ResourceItemCategories = "itemcategories"
	ResourceItems          = "items"
	ResourceUnits          = "units"
	ResourceRecords        = "kilimodata_pagination"
)

// Endpoints maps logical resource names to reachable URLs.
type Endpoints map[string]string

type Config struct {
	// BaseURL is the externally reachable service root, e.g. "/kilimostat-api"
	// behind a proxy or a full origin.
	BaseURL string
	// InternalOrigin and InternalPathPrefix describe the private address the
	// service embeds in the URLs it returns; together they are rewritten to
	// BaseURL so a returned link never points at an unreachable host.
	InternalOrigin     string
	InternalPathPrefix string
	// RatePerSecond caps outgoing requests. Zero means 10.
	RatePerSecond int
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
}

type Client struct {
	baseURL      string
	internalBase string
	http         *http.Client
	limiter      *rate.Limiter

	mu        sync.Mutex
	endpoints Endpoints
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 10
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		internalBase: strings.TrimRight(cfg.InternalOrigin, "/") + cfg.InternalPathPrefix,
		http:         httpClient,
		limiter:      rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

// StatusError is a non-2xx upstream response, carrying the status and URL.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("kilimostat upstream returned %d for %s", e.StatusCode, e.URL)
}

// Rewrite translates a URL embedded in an upstream response from the internal
// origin to the externally reachable base. Other URLs pass through unchanged.
func (c *Client) Rewrite(u string) string {
	if c.internalBase != "" && strings.HasPrefix(u, c.internalBase) {
		return c.baseURL + strings.TrimPrefix(u, c.internalBase)
	}
	return u
}

// Endpoints discovers the service's resource URLs. The result is memoized
// after the first success; a failed discovery is not cached, so the next call
// retries.
func (c *Client) Endpoints(ctx context.Context) (Endpoints, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endpoints != nil {
		return c.endpoints, nil
	}

	discoveryURL := c.baseURL + "/"
	body, err := c.get(ctx, discoveryURL)
	if err != nil {
		return nil, fmt.Errorf("endpoint discovery %s: %w", discoveryURL, err)
	}

	var raw map[string]string
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("endpoint discovery %s: decode: %w", discoveryURL, err)
	}

	endpoints := make(Endpoints, len(raw))
	for name, u := range raw {
		endpoints[name] = c.Rewrite(u)
	}

	c.endpoints = endpoints
	return endpoints, nil
}

// ResourceURL resolves one logical resource name through discovery.
func (c *Client) ResourceURL(ctx context.Context, name string) (string, error) {
	endpoints, err := c.Endpoints(ctx)
	if err != nil {
		return "", err
	}

	u, ok := endpoints[name]
	if !ok {
		return "", fmt.Errorf("resource %q not present in discovery document", name)
	}
	return u, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return body, nil
}
