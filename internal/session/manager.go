// Package session owns the authenticated identity and the local trade
// ledger: token lifecycle, remote-sync-with-local-fallback reads, and the
// two-step remote-then-local trade commit.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/models"
	"github.com/tennoware/companion/internal/storage"
)

// BlobStore is the slice of the durable store the session layer uses.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// TradeAPI is the remote session-storage contract for the trade ledger.
type TradeAPI interface {
	History(ctx context.Context, accessToken string, limit int) ([]models.TradeRecord, error)
	Create(ctx context.Context, accessToken string, record models.TradeRecord) (*models.TradeRecord, error)
}

// AuthAPI is the identity-provider contract: exchanging a callback code for
// a session token.
type AuthAPI interface {
	ExchangeCode(ctx context.Context, code string) (*models.AuthToken, error)
}

// CommitPath tags which side of the two-step trade saga succeeded.
type CommitPath string

const (
	CommitRemote CommitPath = "remote"
	CommitLocal  CommitPath = "local"
)

// TradeResult is the outcome of AddTrade: the accepted record and the path
// that accepted it. Exactly one path commits per call.
type TradeResult struct {
	Record    models.TradeRecord
	Committed CommitPath
}

// NewTrade is the caller-supplied part of a trade record.
type NewTrade struct {
	Item     string
	Quantity int
	Price    float64
	Type     models.TradeType
	Trader   string
	Platform string
	Status   models.TradeStatus
}

func (n NewTrade) validate() error {
	if n.Item == "" {
		return fmt.Errorf("trade item must not be empty")
	}
	if n.Quantity <= 0 {
		return fmt.Errorf("trade quantity must be positive, got %d", n.Quantity)
	}
	if n.Price < 0 {
		return fmt.Errorf("trade price must not be negative, got %f", n.Price)
	}
	if n.Type != models.TradeBuy && n.Type != models.TradeSell {
		return fmt.Errorf("trade type must be buy or sell, got %q", n.Type)
	}
	return nil
}

// Manager is the session/trade store.
type Manager struct {
	store  BlobStore
	remote TradeAPI
	log    logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

// NewManager builds a session manager over the given durable store and
// remote trade API.
func NewManager(store BlobStore, remote TradeAPI, log logrus.FieldLogger) *Manager {
	return &Manager{
		store:  store,
		remote: remote,
		log:    log,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Token returns the persisted auth token. A missing, corrupt, or expired
// token reads as absent; expiry and corruption also purge the stored
// credentials and ledger.
func (m *Manager) Token() (*models.AuthToken, bool) {
	raw, err := m.store.Get(storage.KeyAuthToken)
	if err != nil {
		m.log.WithError(err).Warn("failed to read auth token")
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var token models.AuthToken
	if err := json.Unmarshal(raw, &token); err != nil {
		m.log.WithError(err).Warn("stored auth token is corrupt, logging out")
		m.Logout()
		return nil, false
	}

	if token.Expired(m.now()) {
		m.log.WithField("user", token.User.Username).Info("auth token expired, logging out")
		m.Logout()
		return nil, false
	}

	return &token, true
}

// IsAuthenticated reports whether a non-expired token is present.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Token()
	return ok
}

// User returns the authenticated profile, if any.
func (m *Manager) User() (*models.UserProfile, bool) {
	token, ok := m.Token()
	if !ok {
		return nil, false
	}
	return &token.User, true
}

// SaveToken persists the token as the single active session credential.
func (m *Manager) SaveToken(token *models.AuthToken) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to serialize auth token: %w", err)
	}
	if err := m.store.Put(storage.KeyAuthToken, raw); err != nil {
		return fmt.Errorf("failed to persist auth token: %w", err)
	}
	return nil
}

// Login completes the OAuth callback: the code is exchanged for a token,
// which becomes the persisted session credential.
func (m *Manager) Login(ctx context.Context, auth AuthAPI, code string) (*models.AuthToken, error) {
	token, err := auth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if err := m.SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Logout deletes the auth token and the local trade ledger unconditionally.
func (m *Manager) Logout() {
	if err := m.store.Delete(storage.KeyAuthToken); err != nil {
		m.log.WithError(err).Warn("failed to delete auth token")
	}
	if err := m.store.Delete(storage.KeyTradeHistory); err != nil {
		m.log.WithError(err).Warn("failed to delete trade history")
	}
}

// TradeHistory returns the trade ledger, newest first. Authenticated reads
// sync from the remote session storage and overwrite the local copy
// wholesale; on remote failure, or when unauthenticated, the local copy is
// returned instead. Failures never propagate: the worst case is an empty
// ledger.
func (m *Manager) TradeHistory(ctx context.Context, limit int) []models.TradeRecord {
	token, ok := m.Token()
	if !ok {
		return m.localTrades()
	}

	trades, err := m.remote.History(ctx, token.AccessToken, limit)
	if err != nil {
		m.log.WithError(err).Warn("remote trade history unavailable, using local copy")
		return m.localTrades()
	}

	if err := m.saveLocalTrades(trades); err != nil {
		m.log.WithError(err).Warn("failed to persist synced trade history")
	}
	return trades
}

// AddTrade assigns a fresh id and timestamp, then commits through exactly one
// path: the remote API when an authenticated write succeeds, the local ledger
// otherwise.
func (m *Manager) AddTrade(ctx context.Context, input NewTrade) (*TradeResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	record := models.TradeRecord{
		ID:        m.newID(),
		Item:      input.Item,
		Quantity:  input.Quantity,
		Price:     input.Price,
		Type:      input.Type,
		Trader:    input.Trader,
		Timestamp: m.now(),
		Platform:  input.Platform,
		Status:    input.Status,
	}
	if record.Status == "" {
		record.Status = models.TradeCompleted
	}

	if token, ok := m.Token(); ok {
		accepted, err := m.remote.Create(ctx, token.AccessToken, record)
		if err == nil {
			return &TradeResult{Record: *accepted, Committed: CommitRemote}, nil
		}
		m.log.WithError(err).Warn("remote trade write failed, committing locally")
	}

	trades := append([]models.TradeRecord{record}, m.localTrades()...)
	if err := m.saveLocalTrades(trades); err != nil {
		return nil, err
	}
	return &TradeResult{Record: record, Committed: CommitLocal}, nil
}

// localTrades reads the local ledger; malformed or missing data reads as
// empty, never as an error.
func (m *Manager) localTrades() []models.TradeRecord {
	raw, err := m.store.Get(storage.KeyTradeHistory)
	if err != nil {
		m.log.WithError(err).Warn("failed to read local trade history")
		return nil
	}
	if raw == nil {
		return nil
	}

	var trades []models.TradeRecord
	if err := json.Unmarshal(raw, &trades); err != nil {
		m.log.WithError(err).Warn("local trade history is corrupt, treating as empty")
		return nil
	}
	return trades
}

func (m *Manager) saveLocalTrades(trades []models.TradeRecord) error {
	raw, err := json.Marshal(trades)
	if err != nil {
		return fmt.Errorf("failed to serialize trade history: %w", err)
	}
	if err := m.store.Put(storage.KeyTradeHistory, raw); err != nil {
		return fmt.Errorf("failed to persist trade history: %w", err)
	}
	return nil
}
