// Package poller re-primes the live-data caches on a recurring schedule so
// the dashboard stays warm between UI-driven syncs.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/models"
)

// tickTimeout bounds one full re-prime pass.
const tickTimeout = time.Minute

// Source is the slice of the worldstate client the poller re-primes.
type Source interface {
	Worldstate(ctx context.Context, platform models.Platform, language string) (*models.Worldstate, error)
	Alerts(ctx context.Context, platform models.Platform, language string) ([]models.Alert, error)
	Fissures(ctx context.Context, platform models.Platform, language string) ([]models.Fissure, error)
	Invasions(ctx context.Context, platform models.Platform, language string) ([]models.Invasion, error)
}

// Poller owns the recurring refresh loop. Ticks run sequentially in one
// goroutine, so a slow tick delays the next instead of overlapping it.
type Poller struct {
	source Source
	log    logrus.FieldLogger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New builds a poller over the given source.
func New(source Source, log logrus.FieldLogger) *Poller {
	return &Poller{source: source, log: log}
}

// Start arms the refresh loop. Calling Start while a loop is active replaces
// it: the old loop is stopped first, so at most one is ever running.
func (p *Poller) Start(platform models.Platform, language string, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	p.Stop()

	p.mu.Lock()
	p.running = true
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	stopCh, done := p.stopCh, p.done
	p.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				p.tick(platform, language)
			}
		}
	}()

	p.log.WithFields(logrus.Fields{
		"platform": platform,
		"language": language,
		"interval": interval,
	}).Info("auto-sync started")
}

// Stop cancels the active loop. It is a no-op when nothing is running.
// In-flight fetches from the last tick are not cancelled; their results still
// land in the cache.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	done := p.done
	p.mu.Unlock()

	<-done
	p.log.Info("auto-sync stopped")
}

// Running reports whether a refresh loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// tick re-primes the four sync resources. Failures are logged per resource
// and never abort the remaining re-primes or future ticks.
func (p *Poller) tick(platform models.Platform, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	refreshes := []struct {
		name string
		fn   func() error
	}{
		{"worldstate", func() error { _, err := p.source.Worldstate(ctx, platform, language); return err }},
		{"alerts", func() error { _, err := p.source.Alerts(ctx, platform, language); return err }},
		{"fissures", func() error { _, err := p.source.Fissures(ctx, platform, language); return err }},
		{"invasions", func() error { _, err := p.source.Invasions(ctx, platform, language); return err }},
	}

	for _, r := range refreshes {
		if err := r.fn(); err != nil {
			p.log.WithError(err).WithField("resource", r.name).Warn("background refresh failed")
		}
	}
}
