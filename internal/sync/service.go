// Package sync turns the live provider feeds into the event stream the
// dashboard renders, and remembers the last successful snapshot.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/models"
)

// Feed is the slice of the worldstate client a sync reads.
type Feed interface {
	Alerts(ctx context.Context, platform models.Platform, language string) ([]models.Alert, error)
	Fissures(ctx context.Context, platform models.Platform, language string) ([]models.Fissure, error)
	Invasions(ctx context.Context, platform models.Platform, language string) ([]models.Invasion, error)
}

// Prober reports provider reachability.
type Prober interface {
	CheckConnection(ctx context.Context) bool
}

// Snapshot is the result of one sync.
type Snapshot struct {
	Events   []models.Event
	SyncedAt time.Time
}

// Service orchestrates UI-driven syncs.
type Service struct {
	feed   Feed
	prober Prober
	log    logrus.FieldLogger

	mu       sync.Mutex
	events   []models.Event
	lastSync time.Time

	now func() time.Time
}

// NewService builds a sync service.
func NewService(feed Feed, prober Prober, log logrus.FieldLogger) *Service {
	return &Service{
		feed:   feed,
		prober: prober,
		log:    log,
		now:    time.Now,
	}
}

// Sync fetches alerts, fissures and invasions concurrently and merges them
// into display events, replacing the previous snapshot wholesale. A resource
// that fails contributes nothing; the sync itself fails only when every
// resource does.
func (s *Service) Sync(ctx context.Context, platform models.Platform, language string) (*Snapshot, error) {
	var (
		alerts    []models.Alert
		fissures  []models.Fissure
		invasions []models.Invasion
		failures  int

		mu sync.Mutex
		wg sync.WaitGroup
	)

	fail := func(resource string, err error) {
		mu.Lock()
		failures++
		mu.Unlock()
		s.log.WithError(err).WithField("resource", resource).Warn("sync fetch failed")
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		result, err := s.feed.Alerts(ctx, platform, language)
		if err != nil {
			fail("alerts", err)
			return
		}
		alerts = result
	}()
	go func() {
		defer wg.Done()
		result, err := s.feed.Fissures(ctx, platform, language)
		if err != nil {
			fail("fissures", err)
			return
		}
		fissures = result
	}()
	go func() {
		defer wg.Done()
		result, err := s.feed.Invasions(ctx, platform, language)
		if err != nil {
			fail("invasions", err)
			return
		}
		invasions = result
	}()
	wg.Wait()

	if failures == 3 {
		return nil, fmt.Errorf("sync failed: no resource reachable")
	}

	events := buildEvents(alerts, fissures, invasions)
	snapshot := &Snapshot{Events: events, SyncedAt: s.now()}

	s.mu.Lock()
	s.events = events
	s.lastSync = snapshot.SyncedAt
	s.mu.Unlock()

	s.log.WithField("events", len(events)).Info("sync completed")
	return snapshot, nil
}

// Events returns a copy of the last synced event stream. The stored snapshot
// changes only through Sync.
func (s *Service) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]models.Event, len(s.events))
	copy(events, s.events)
	return events
}

// LastSync returns when the last successful sync finished, zero when none
// has.
func (s *Service) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Online probes provider reachability.
func (s *Service) Online(ctx context.Context) bool {
	return s.prober.CheckConnection(ctx)
}

// buildEvents merges the three feeds into one display stream: alerts first,
// then fissures, then invasions, each keeping provider order.
func buildEvents(alerts []models.Alert, fissures []models.Fissure, invasions []models.Invasion) []models.Event {
	events := make([]models.Event, 0, len(alerts)+len(fissures)+len(invasions))

	for _, a := range alerts {
		events = append(events, models.Event{
			ID:       a.ID,
			Title:    a.Mission.Type,
			Type:     models.EventAlert,
			Location: a.Mission.Node,
			Reward:   a.Mission.Reward.AsString,
			Expiry:   a.Expiry.Local().Format("15:04:05"),
			Active:   true,
		})
	}

	for _, f := range fissures {
		events = append(events, models.Event{
			ID:       f.ID,
			Title:    fmt.Sprintf("Fissure: %s", f.MissionType),
			Type:     models.EventFissure,
			Location: f.Node,
			Reward:   "Relics",
			Expiry:   f.Expiry.Local().Format("15:04:05"),
			Active:   true,
		})
	}

	for _, inv := range invasions {
		reward := inv.AttackerReward.AsString
		if reward == "" {
			reward = inv.DefenderReward.AsString
		}
		events = append(events, models.Event{
			ID:       inv.ID,
			Title:    fmt.Sprintf("Invasion: %s vs %s", inv.AttackingFaction, inv.DefendingFaction),
			Type:     models.EventInvasion,
			Location: inv.Node,
			Reward:   reward,
			Expiry:   fmt.Sprintf("%.0f%% complete", inv.Completion),
			Active:   true,
		})
	}

	return events
}
