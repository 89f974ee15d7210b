package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"golistarr/internal/config"
	"golistarr/internal/metrics"
)

const (
	maxRetries       = 3
	requestTimeout   = 30 * time.Second
	personCacheTTL   = 24 * time.Hour
	personCachePurge = 1 * time.Hour
)

// ErrNotFound is returned when the catalog has no record for an id
var ErrNotFound = errors.New("catalog record not found")

// Client handles communication with the external catalog API.
// All requests share one token bucket so concurrent import batches cannot
// collectively exceed the provider's request budget.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	limiter     *rate.Limiter
	personCache *gocache.Cache
	logger      *logrus.Logger
}

// NewClient creates a new catalog API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.CatalogURL == "" {
		return nil, fmt.Errorf("catalog URL is required")
	}

	return &Client{
		baseURL:     cfg.CatalogURL,
		token:       cfg.CatalogToken,
		httpClient:  &http.Client{Timeout: requestTimeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.CatalogRateLimit), cfg.CatalogBurst),
		personCache: gocache.New(personCacheTTL, personCachePurge),
		logger:      logger,
	}, nil
}

// doRequest performs one rate-limited GET against the catalog API, retrying
// transient failures with exponential backoff
func (c *Client) doRequest(ctx context.Context, endpoint, path string, query url.Values, result interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"url":      fullURL,
	}).Debug("Making catalog API request")

	operation := func() error {
		// Each attempt pays a token so retries stay inside the budget
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		metrics.CatalogRequests.WithLabelValues(endpoint).Inc()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			bodyBytes, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			bodyBytes, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(operation, policy)
}
