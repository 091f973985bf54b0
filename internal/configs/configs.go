// Package configs loads the companion configuration from the environment,
// with an optional .env file for local development.
package configs

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/tennoware/companion/internal/models"
)

// Config is the full companion configuration.
type Config struct {
	Game      GameConfig      `env:", prefix=GAME_"`
	Providers ProvidersConfig `env:", prefix=PROVIDER_"`
	Auth      AuthConfig      `env:", prefix=AUTH_"`
	Cache     CacheConfig     `env:", prefix=CACHE_"`
	Sync      SyncConfig      `env:", prefix=SYNC_"`
	Storage   StorageConfig   `env:", prefix=STORAGE_"`
	Logging   LoggingConfig   `env:", prefix=LOG_"`
}

// GameConfig selects which platform and locale to fetch data for.
type GameConfig struct {
	Platform string `env:"PLATFORM, default=pc"`
	Language string `env:"LANGUAGE, default=en"`
}

// ProvidersConfig holds the external data source endpoints and bounds.
type ProvidersConfig struct {
	WorldstateURL  string        `env:"WORLDSTATE_URL, default=https://api.warframestat.us"`
	MarketURL      string        `env:"MARKET_URL, default=https://api.warframe.market/v1"`
	TradesURL      string        `env:"TRADES_URL, default=https://api.warframestat.us"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`
	ProbeTimeout   time.Duration `env:"PROBE_TIMEOUT, default=5s"`
}

// AuthConfig is the identity-provider contract for the OAuth code exchange.
type AuthConfig struct {
	URL         string `env:"URL, default=https://api.warframestat.us/oauth"`
	ClientID    string `env:"CLIENT_ID, default=warframe-companion-pro"`
	RedirectURI string `env:"REDIRECT_URI, default=http://localhost:5173/auth/callback"`
}

// CacheConfig bounds the memoized-fetch layer.
type CacheConfig struct {
	TTL time.Duration `env:"TTL, default=5m"`
}

// SyncConfig controls the background poller.
type SyncConfig struct {
	Interval time.Duration `env:"INTERVAL, default=5m"`
}

// StorageConfig locates the durable local store.
type StorageConfig struct {
	Path string `env:"PATH, default=./data/companion.db"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `env:"LEVEL, default=info"`
	Format string `env:"FORMAT, default=text"`
}

// Load reads configuration with priority: environment > .env file > defaults.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the providers would not accept.
func (c *Config) Validate() error {
	if !models.Platform(c.Game.Platform).Valid() {
		return fmt.Errorf("invalid platform %q: must be one of pc, ps4, xbox, switch", c.Game.Platform)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", c.Sync.Interval)
	}
	return nil
}
