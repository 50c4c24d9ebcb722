package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultLoginURL is the Microsoft identity platform endpoint.
	DefaultLoginURL = "https://login.microsoftonline.com"

	graphScope = "https://graph.microsoft.com/.default"

	// tokenExpirySkew refreshes tokens slightly before they lapse
	tokenExpirySkew = 60 * time.Second
)

// Config holds configuration for the Graph client.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// BaseURL and LoginURL override the Graph and token endpoints. Tests
	// point them at a local server.
	BaseURL     string
	LoginURL    string
	HTTPTimeout time.Duration
}

// Client calls Microsoft Graph with an application (client credentials)
// token, caching the token until shortly before expiry.
type Client struct {
	tenantID     string
	clientID     string
	clientSecret string
	baseURL      string
	loginURL     string
	httpClient   *http.Client

	tokenMu  sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient creates a new Graph client for the configured tenant.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.LoginURL == "" {
		config.LoginURL = DefaultLoginURL
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 30 * time.Second
	}

	return &Client{
		tenantID:     config.TenantID,
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		baseURL:      strings.TrimSuffix(config.BaseURL, "/"),
		loginURL:     strings.TrimSuffix(config.LoginURL, "/"),
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached application token, acquiring a fresh one
// from the token endpoint when the cache is empty or near expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-tokenExpirySkew)) {
		return c.token, nil
	}

	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {graphScope},
	}

	tokenURL := c.loginURL + "/" + c.tenantID + "/oauth2/v2.0/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access_token in response")
	}

	c.token = tokenResp.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return c.token, nil
}

// get performs an authenticated GET against an absolute Graph URL and
// decodes the JSON response into out.
func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graph response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse graph response: %w", err)
	}

	return nil
}
