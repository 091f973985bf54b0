package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tennoware/companion/internal/models"
)

// RemoteClient talks to the remote session storage for the trade ledger and
// to the identity provider for the authorization-code exchange.
type RemoteClient struct {
	baseURL    string
	authURL    string
	clientID   string
	redirect   string
	httpClient *resty.Client
}

// RemoteConfig configures the remote session endpoints.
type RemoteConfig struct {
	BaseURL     string
	AuthURL     string
	ClientID    string
	RedirectURI string
	Timeout     time.Duration
}

// NewRemoteClient builds the remote session client with a bounded
// per-request timeout.
func NewRemoteClient(cfg RemoteConfig) *RemoteClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &RemoteClient{
		baseURL:    cfg.BaseURL,
		authURL:    cfg.AuthURL,
		clientID:   cfg.ClientID,
		redirect:   cfg.RedirectURI,
		httpClient: resty.New().SetTimeout(cfg.Timeout),
	}
}

// History implements TradeAPI.
func (c *RemoteClient) History(ctx context.Context, accessToken string, limit int) ([]models.TradeRecord, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(c.baseURL + "/api/trades/history")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var trades []models.TradeRecord
	if err := json.Unmarshal(resp.Body(), &trades); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return trades, nil
}

// Create implements TradeAPI.
func (c *RemoteClient) Create(ctx context.Context, accessToken string, record models.TradeRecord) (*models.TradeRecord, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Post(c.baseURL + "/api/trades")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var accepted models.TradeRecord
	if err := json.Unmarshal(resp.Body(), &accepted); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &accepted, nil
}

// ExchangeCode swaps an authorization code for an auth token at the identity
// provider's token endpoint.
func (c *RemoteClient) ExchangeCode(ctx context.Context, code string) (*models.AuthToken, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"client_id":    c.clientID,
			"code":         code,
			"redirect_uri": c.redirect,
		}).
		Post(c.authURL + "/token")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var token models.AuthToken
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &token, nil
}

// AuthorizeURL is where the UI sends the user to start the OAuth flow.
func (c *RemoteClient) AuthorizeURL() string {
	return fmt.Sprintf("%s/authorize?client_id=%s&redirect_uri=%s&response_type=code&scope=profile+inventory+trades",
		c.authURL, c.clientID, c.redirect)
}
