package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tennoware/companion/internal/models"
)

func newRemoteTestClient(t *testing.T, handler http.HandlerFunc) *RemoteClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewRemoteClient(RemoteConfig{
		BaseURL:     server.URL,
		AuthURL:     server.URL + "/oauth",
		ClientID:    "warframe-companion-pro",
		RedirectURI: "http://localhost/callback",
		Timeout:     5 * time.Second,
	})
	client.httpClient = resty.NewWithClient(server.Client())
	return client
}

func TestRemoteHistory(t *testing.T) {
	client := newRemoteTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trades/history", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode([]models.TradeRecord{{ID: "r1", Item: "A"}})
	})

	trades, err := client.History(context.Background(), "access", 50)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "r1", trades[0].ID)
}

func TestRemoteCreate(t *testing.T) {
	client := newRemoteTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trades", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var record models.TradeRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		record.Status = models.TradeCompleted

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(record)
	})

	accepted, err := client.Create(context.Background(), "access", models.TradeRecord{
		ID: "t1", Item: "Forma", Quantity: 1, Price: 11, Type: models.TradeBuy, Status: models.TradePending,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TradeCompleted, accepted.Status)
}

func TestRemoteCreate_NonOKIsError(t *testing.T) {
	client := newRemoteTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Create(context.Background(), "stale", models.TradeRecord{ID: "t1"})
	require.Error(t, err)
}

func TestExchangeCode(t *testing.T) {
	client := newRemoteTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "warframe-companion-pro", body["client_id"])
		assert.Equal(t, "abc123", body["code"])

		_ = json.NewEncoder(w).Encode(models.AuthToken{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
			User:        models.UserProfile{Username: "Tenno"},
		})
	})

	token, err := client.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "Tenno", token.User.Username)
}
