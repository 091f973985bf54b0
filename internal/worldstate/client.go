// Package worldstate is the typed accessor over the game-state provider.
// Every read is routed through the shared TTL cache under a key derived from
// the resource and its platform/language parameters.
package worldstate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/cache"
	"github.com/tennoware/companion/internal/models"
)

// DefaultBaseURL is the public game-state provider endpoint.
const DefaultBaseURL = "https://api.warframestat.us"

// Client fetches live game-state data for one provider endpoint.
type Client struct {
	baseURL    string
	httpClient *resty.Client
	cache      *cache.Cache
	log        logrus.FieldLogger
}

// NewClient builds a worldstate client with a bounded per-request timeout.
func NewClient(baseURL string, timeout time.Duration, c *cache.Cache, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: resty.New().SetTimeout(timeout),
		cache:      c,
		log:        log,
	}
}

// Worldstate returns the combined live feed for a platform.
func (c *Client) Worldstate(ctx context.Context, platform models.Platform, language string) (*models.Worldstate, error) {
	return fetch[*models.Worldstate](ctx, c, "worldstate", "", platform, language)
}

// Alerts returns the active alert missions.
func (c *Client) Alerts(ctx context.Context, platform models.Platform, language string) ([]models.Alert, error) {
	return fetch[[]models.Alert](ctx, c, "alerts", "/alerts", platform, language)
}

// Fissures returns the open void fissures.
func (c *Client) Fissures(ctx context.Context, platform models.Platform, language string) ([]models.Fissure, error) {
	return fetch[[]models.Fissure](ctx, c, "fissures", "/fissures", platform, language)
}

// Invasions returns the running faction invasions.
func (c *Client) Invasions(ctx context.Context, platform models.Platform, language string) ([]models.Invasion, error) {
	return fetch[[]models.Invasion](ctx, c, "invasions", "/invasions", platform, language)
}

// Nightwave returns the seasonal challenge rotation.
func (c *Client) Nightwave(ctx context.Context, platform models.Platform, language string) (*models.Nightwave, error) {
	return fetch[*models.Nightwave](ctx, c, "nightwave", "/nightwave", platform, language)
}

// Sortie returns the daily mission rotation.
func (c *Client) Sortie(ctx context.Context, platform models.Platform, language string) (*models.Sortie, error) {
	return fetch[*models.Sortie](ctx, c, "sortie", "/sortie", platform, language)
}

// Baro returns the special vendor rotation.
func (c *Client) Baro(ctx context.Context, platform models.Platform, language string) (*models.VoidTrader, error) {
	return fetch[*models.VoidTrader](ctx, c, "baro", "/baro", platform, language)
}

// fetch routes one resource read through the cache. Distinct
// platform/language combinations cache independently.
func fetch[T any](ctx context.Context, c *Client, resource, path string, platform models.Platform, language string) (T, error) {
	key := fmt.Sprintf("%s-%s-%s", resource, platform, language)
	return cache.Fetch(ctx, c.cache, key, func(ctx context.Context) (T, error) {
		var out T
		if err := c.get(ctx, fmt.Sprintf("/%s%s", platform, path), language, &out); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	})
}

func (c *Client) get(ctx context.Context, path, language string, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("language", language).
		Get(c.baseURL + path)
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
