package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/analytics"
	"github.com/tennoware/companion/internal/appstate"
	"github.com/tennoware/companion/internal/cache"
	"github.com/tennoware/companion/internal/configs"
	"github.com/tennoware/companion/internal/logging"
	"github.com/tennoware/companion/internal/market"
	"github.com/tennoware/companion/internal/models"
	"github.com/tennoware/companion/internal/poller"
	"github.com/tennoware/companion/internal/session"
	"github.com/tennoware/companion/internal/storage"
	syncsvc "github.com/tennoware/companion/internal/sync"
	"github.com/tennoware/companion/internal/worldstate"
)

func main() {
	ctx := context.Background()

	cfg, err := configs.Load(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure logging")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o700); err != nil {
		log.WithError(err).Fatal("failed to prepare storage directory")
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to open local store")
	}
	defer store.Close()

	dataCache := cache.New(cfg.Cache.TTL, logging.WithComponent(log, "cache"))

	worldstateClient := worldstate.NewClient(
		cfg.Providers.WorldstateURL,
		cfg.Providers.RequestTimeout,
		dataCache,
		logging.WithComponent(log, "worldstate"),
	)
	marketClient := market.NewClient(
		cfg.Providers.MarketURL,
		cfg.Providers.RequestTimeout,
		cfg.Providers.ProbeTimeout,
		dataCache,
		logging.WithComponent(log, "market"),
	)

	remote := session.NewRemoteClient(session.RemoteConfig{
		BaseURL:     cfg.Providers.TradesURL,
		AuthURL:     cfg.Auth.URL,
		ClientID:    cfg.Auth.ClientID,
		RedirectURI: cfg.Auth.RedirectURI,
		Timeout:     cfg.Providers.RequestTimeout,
	})
	sessions := session.NewManager(store, remote, logging.WithComponent(log, "session"))

	state := appstate.New(store, logging.WithComponent(log, "appstate"))
	settings := state.Settings()

	platform := models.Platform(cfg.Game.Platform)
	language := cfg.Game.Language
	if settings.Platform.Valid() {
		platform = settings.Platform
	}
	if settings.Language != "" {
		language = settings.Language
	}

	syncer := syncsvc.NewService(worldstateClient, marketClient, logging.WithComponent(log, "sync"))
	refresher := poller.New(worldstateClient, logging.WithComponent(log, "poller"))

	log.WithFields(logrus.Fields{
		"platform": platform,
		"language": language,
	}).Info("companion starting")

	if snapshot, err := syncer.Sync(ctx, platform, language); err != nil {
		log.WithError(err).Warn("initial sync failed")
	} else {
		log.WithFields(logrus.Fields{
			"events":    len(snapshot.Events),
			"synced_at": snapshot.SyncedAt,
		}).Info("initial sync completed")
	}

	trades := sessions.TradeHistory(ctx, 100)
	stats := analytics.Stats(trades)
	insights := analytics.Insights(trades)
	log.WithFields(logrus.Fields{
		"trades":        stats.TotalTrades,
		"profit_margin": insights.ProfitMargin,
		"market_trend":  insights.Trend,
		"best_selling":  insights.BestSellingItem,
	}).Info("trading dashboard ready")

	refresher.Start(platform, language, cfg.Sync.Interval)
	defer refresher.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("companion shutting down")
}
