// Package taxonomy provides a client for the external business-category
// lookup service. The orchestrator consumes it through the TaxonomyLookup
// interface and treats every failure as "not found".
package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// Config holds taxonomy API configuration.
type Config struct {
	APIKey          string
	BaseURL         string
	DefaultLocation string
	Timeout         time.Duration
	CacheTTL        time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.yelp.com/v3",
		DefaultLocation: "San Francisco, CA",
		Timeout:         5 * time.Second,
		CacheTTL:        15 * time.Minute,
	}
}

// Client queries the business search API for a merchant's canonical name and
// category labels. Responses are cached with a TTL so repeated lookups for
// the same business within a window cost one request.
type Client struct {
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *slog.Logger
	config     Config
}

// NewClient creates a new taxonomy client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: taxonomy API key", common.ErrMissingConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = DefaultConfig().DefaultLocation
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  gocache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger: slog.Default().With("component", "taxonomy"),
	}, nil
}

// searchResponse mirrors the business search API payload.
type searchResponse struct {
	Businesses []struct {
		Name       string `json:"name"`
		Categories []struct {
			Title string `json:"title"`
		} `json:"categories"`
	} `json:"businesses"`
}

// cachedMatch wraps a lookup result so negative outcomes are cacheable too.
type cachedMatch struct {
	match *model.BusinessMatch
}

// Lookup searches for a business by name and returns its canonical name and
// ordered category labels, or (nil, nil) when there is no match. The request
// is bounded by the client timeout in addition to any deadline on ctx.
func (c *Client) Lookup(ctx context.Context, businessName, locationHint string) (*model.BusinessMatch, error) {
	if businessName == "" {
		return nil, nil
	}
	if locationHint == "" {
		locationHint = c.config.DefaultLocation
	}

	cacheKey := businessName + "|" + locationHint
	if entry, found := c.cache.Get(cacheKey); found {
		c.logger.Debug("taxonomy cache hit", "business", businessName)
		return entry.(cachedMatch).match, nil
	}

	params := url.Values{}
	params.Set("term", businessName)
	params.Set("location", locationHint)
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/businesses/search?%s", c.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build taxonomy request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTaxonomyUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", common.ErrTaxonomyUnavailable, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy response: %w", err)
	}

	match := matchFromResponse(&payload)
	c.cache.Set(cacheKey, cachedMatch{match: match}, gocache.DefaultExpiration)

	if match == nil {
		c.logger.Debug("no taxonomy match", "business", businessName)
	} else {
		c.logger.Debug("taxonomy match",
			"business", businessName,
			"canonical", match.Name,
			"categories", len(match.Categories))
	}

	return match, nil
}

func matchFromResponse(payload *searchResponse) *model.BusinessMatch {
	if len(payload.Businesses) == 0 {
		return nil
	}

	business := payload.Businesses[0]
	labels := make([]string, 0, len(business.Categories))
	for _, cat := range business.Categories {
		labels = append(labels, cat.Title)
	}

	return &model.BusinessMatch{
		Name:       business.Name,
		Categories: labels,
	}
}
