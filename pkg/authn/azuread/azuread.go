package azuread

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the Microsoft identity platform endpoint.
const DefaultBaseURL = "https://login.microsoftonline.com"

var (
	// ErrInvalidToken is returned when the ID token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the ID token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidIssuer is returned when the token issuer does not match the tenant
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrInvalidAudience is returned when the token audience is not the client ID
	ErrInvalidAudience = errors.New("invalid audience")

	// ErrKeySetFetchFailed is returned when the signing key set cannot be fetched
	ErrKeySetFetchFailed = errors.New("failed to fetch signing keys")
)

// Config holds configuration for the Azure AD client.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// BaseURL overrides the Microsoft identity platform endpoint. Tests
	// point it at a local server.
	BaseURL     string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// Client performs the authorization code flow against a single Azure AD
// tenant and validates the ID tokens it issues.
type Client struct {
	tenantID     string
	clientID     string
	clientSecret string
	redirectURI  string
	baseURL      string
	httpClient   *http.Client

	// Cache for the tenant's signing key set
	keysCache    *keySet
	keysCacheExp time.Time
	keysCacheTTL time.Duration
	cacheMu      sync.RWMutex

	// Cache for parsed public keys
	keyCache   map[string]*rsa.PublicKey
	keyCacheMu sync.RWMutex
}

// NewClient creates a new Azure AD client for the configured tenant.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 1 * time.Hour
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 10 * time.Second
	}

	return &Client{
		tenantID:     config.TenantID,
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		redirectURI:  config.RedirectURI,
		baseURL:      strings.TrimSuffix(config.BaseURL, "/"),
		keysCacheTTL: config.CacheTTL,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		keyCache: make(map[string]*rsa.PublicKey),
	}
}

// AuthCodeURL builds the authorization URL the browser is redirected to.
// The state value is echoed back on the callback and guards against CSRF.
func (c *Client) AuthCodeURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"response_mode": {"query"},
		"client_id":     {c.clientID},
		"redirect_uri":  {c.redirectURI},
		"scope":         {"openid profile email"},
		"state":         {state},
	}
	return c.endpoint("oauth2/v2.0/authorize") + "?" + params.Encode()
}

// tokenResponse is the token endpoint response. Only the ID token is used;
// Graph access uses separate client credentials.
type tokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Exchange redeems an authorization code at the token endpoint and returns
// the raw ID token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	if c.tenantID == "" || c.clientID == "" {
		return "", fmt.Errorf("azure ad not configured")
	}

	data := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {c.clientID},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
		"scope":        {"openid profile email"},
	}
	if c.clientSecret != "" {
		data.Set("client_secret", c.clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("oauth2/v2.0/token"), strings.NewReader(data.Encode()))
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
		return "", fmt.Errorf("token exchange failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}

	if tokenResp.IDToken == "" {
		return "", fmt.Errorf("no id_token in response")
	}

	return tokenResp.IDToken, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + c.tenantID + "/" + path
}
