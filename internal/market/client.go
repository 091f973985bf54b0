// Package market is the typed accessor over the player-market provider.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/cache"
	"github.com/tennoware/companion/internal/models"
)

// DefaultBaseURL is the public market provider endpoint.
const DefaultBaseURL = "https://api.warframe.market/v1"

// defaultProbeURL is an unrelated lightweight endpoint used purely to test
// reachability.
const defaultProbeURL = "https://api.warframestat.us/pc"

// Client fetches catalog, order-book and price-statistics data. All reads go
// through the shared TTL cache.
type Client struct {
	baseURL     string
	probeURL    string
	httpClient  *resty.Client
	probeClient *resty.Client
	cache       *cache.Cache
	log         logrus.FieldLogger
}

// NewClient builds a market client. timeout bounds data calls; probeTimeout
// bounds the connectivity probe only.
func NewClient(baseURL string, timeout, probeTimeout time.Duration, c *cache.Cache, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Client{
		baseURL:     baseURL,
		probeURL:    defaultProbeURL,
		httpClient:  resty.New().SetTimeout(timeout),
		probeClient: resty.New().SetTimeout(probeTimeout),
		cache:       c,
		log:         log,
	}
}

// Items returns the full market catalog.
func (c *Client) Items(ctx context.Context) ([]models.MarketItem, error) {
	return cache.Fetch(ctx, c.cache, "market-items", func(ctx context.Context) ([]models.MarketItem, error) {
		var envelope struct {
			Payload struct {
				Items []models.MarketItem `json:"items"`
			} `json:"payload"`
		}
		if err := c.get(ctx, "/items", &envelope); err != nil {
			return nil, err
		}
		return envelope.Payload.Items, nil
	})
}

// Orders returns the order book for one item.
func (c *Client) Orders(ctx context.Context, urlName string) ([]models.MarketOrder, error) {
	key := fmt.Sprintf("market-orders-%s", urlName)
	return cache.Fetch(ctx, c.cache, key, func(ctx context.Context) ([]models.MarketOrder, error) {
		var envelope struct {
			Payload struct {
				Orders []models.MarketOrder `json:"orders"`
			} `json:"payload"`
		}
		if err := c.get(ctx, fmt.Sprintf("/items/%s/orders", urlName), &envelope); err != nil {
			return nil, err
		}
		return envelope.Payload.Orders, nil
	})
}

// Statistics returns the live price statistics for one item.
func (c *Client) Statistics(ctx context.Context, urlName string) ([]models.MarketStatistic, error) {
	key := fmt.Sprintf("market-stats-%s", urlName)
	return cache.Fetch(ctx, c.cache, key, func(ctx context.Context) ([]models.MarketStatistic, error) {
		var envelope struct {
			Payload struct {
				StatisticsLive []models.MarketStatistic `json:"statistics_live"`
			} `json:"payload"`
		}
		if err := c.get(ctx, fmt.Sprintf("/items/%s/statistics", urlName), &envelope); err != nil {
			return nil, err
		}
		return envelope.Payload.StatisticsLive, nil
	})
}

// AveragePrice returns the item's latest average price, or 0 when the item
// has no statistics or the fetch fails.
func (c *Client) AveragePrice(ctx context.Context, urlName string) float64 {
	stats, err := c.Statistics(ctx, urlName)
	if err != nil {
		c.log.WithError(err).WithField("item", urlName).Warn("failed to fetch price statistics")
		return 0
	}
	if len(stats) == 0 {
		return 0
	}
	return stats[0].AvgPrice
}

// SearchItems performs a case-insensitive substring search over the catalog.
// A catalog fetch failure yields an empty result set, not an error.
func (c *Client) SearchItems(ctx context.Context, query string) []models.MarketItem {
	items, err := c.Items(ctx)
	if err != nil {
		c.log.WithError(err).Warn("failed to fetch market catalog for search")
		return nil
	}

	query = strings.ToLower(query)
	var matches []models.MarketItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.ItemName), query) {
			matches = append(matches, item)
		}
	}
	return matches
}

// CheckConnection probes provider reachability with a short timeout. It
// reports false on any failure and never returns an error.
func (c *Client) CheckConnection(ctx context.Context) bool {
	resp, err := c.probeClient.R().SetContext(ctx).Get(c.probeURL)
	if err != nil {
		return false
	}
	return resp.StatusCode() == http.StatusOK
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.httpClient.R().SetContext(ctx).Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
