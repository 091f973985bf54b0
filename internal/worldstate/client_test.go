package worldstate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tennoware/companion/internal/cache"
	"github.com/tennoware/companion/internal/models"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func setupTestServer(t *testing.T, path string, response any) (*httptest.Server, *Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(response)
		require.NoError(t, err)
	}))
	t.Cleanup(server.Close)

	log := discardLogger()
	client := NewClient(server.URL, 10*time.Second, cache.New(time.Minute, log), log)
	client.httpClient = resty.NewWithClient(server.Client())

	return server, client, &hits
}

func TestAlerts(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	_, client, hits := setupTestServer(t, "/pc/alerts", []models.Alert{
		{
			ID:     "alert-1",
			Expiry: expiry,
			Active: true,
			Mission: models.AlertMission{
				Type:   "Defense",
				Node:   "Cambria (Earth)",
				Reward: models.MissionReward{AsString: "Orokin Catalyst"},
			},
		},
	})

	alerts, err := client.Alerts(context.Background(), models.PlatformPC, "en")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "alert-1", alerts[0].ID)
	assert.Equal(t, "Defense", alerts[0].Mission.Type)
	assert.Equal(t, "Orokin Catalyst", alerts[0].Mission.Reward.AsString)

	// Second read within the TTL is served from cache.
	_, err = client.Alerts(context.Background(), models.PlatformPC, "en")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFissures(t *testing.T) {
	_, client, _ := setupTestServer(t, "/ps4/fissures", []models.Fissure{
		{ID: "f-1", Node: "Apollo (Lua)", MissionType: "Disruption", Tier: "Axi", Active: true},
	})

	fissures, err := client.Fissures(context.Background(), models.PlatformPS4, "en")
	require.NoError(t, err)
	require.Len(t, fissures, 1)
	assert.Equal(t, "Axi", fissures[0].Tier)
}

func TestInvasions(t *testing.T) {
	_, client, _ := setupTestServer(t, "/pc/invasions", []models.Invasion{
		{
			ID:               "inv-1",
			Node:             "Venera (Venus)",
			AttackingFaction: "Corpus",
			DefendingFaction: "Grineer",
			Completion:       42.5,
		},
	})

	invasions, err := client.Invasions(context.Background(), models.PlatformPC, "en")
	require.NoError(t, err)
	require.Len(t, invasions, 1)
	assert.Equal(t, "Corpus", invasions[0].AttackingFaction)
	assert.InDelta(t, 42.5, invasions[0].Completion, 1e-9)
}

func TestWorldstate(t *testing.T) {
	_, client, _ := setupTestServer(t, "/pc", models.Worldstate{
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Alerts:    []models.Alert{{ID: "a"}},
		Fissures:  []models.Fissure{{ID: "f"}},
	})

	ws, err := client.Worldstate(context.Background(), models.PlatformPC, "en")
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.Len(t, ws.Alerts, 1)
	assert.Len(t, ws.Fissures, 1)
}

func TestSortieAndBaro(t *testing.T) {
	_, client, _ := setupTestServer(t, "/pc/sortie", models.Sortie{
		ID:      "s-1",
		Boss:    "Kela De Thaym",
		Faction: "Grineer",
		Variants: []models.SortieVariant{
			{MissionType: "Assault", Modifier: "Enemy Physical Enhancement", Node: "Nuovo (Ceres)"},
		},
	})

	sortie, err := client.Sortie(context.Background(), models.PlatformPC, "en")
	require.NoError(t, err)
	assert.Equal(t, "Kela De Thaym", sortie.Boss)
	require.Len(t, sortie.Variants, 1)

	_, baroClient, _ := setupTestServer(t, "/pc/baro", models.VoidTrader{
		ID:        "b-1",
		Character: "Baro Ki'Teer",
		Location:  "Kronia Relay (Saturn)",
		Inventory: []models.TraderItem{{Item: "Primed Flow", Ducats: 350, Credits: 110000}},
	})

	baro, err := baroClient.Baro(context.Background(), models.PlatformPC, "en")
	require.NoError(t, err)
	assert.Equal(t, "Baro Ki'Teer", baro.Character)
	require.Len(t, baro.Inventory, 1)
	assert.Equal(t, 350, baro.Inventory[0].Ducats)
}

func TestNonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	log := discardLogger()
	client := NewClient(server.URL, 10*time.Second, cache.New(time.Minute, log), log)
	client.httpClient = resty.NewWithClient(server.Client())

	_, err := client.Alerts(context.Background(), models.PlatformPC, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestPlatformsCacheIndependently(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]models.Alert{{ID: r.URL.Path}})
	}))
	t.Cleanup(server.Close)

	log := discardLogger()
	client := NewClient(server.URL, 10*time.Second, cache.New(time.Minute, log), log)
	client.httpClient = resty.NewWithClient(server.Client())

	ctx := context.Background()
	pc, err := client.Alerts(ctx, models.PlatformPC, "en")
	require.NoError(t, err)
	xbox, err := client.Alerts(ctx, models.PlatformXbox, "en")
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.NotEqual(t, pc[0].ID, xbox[0].ID)
}
