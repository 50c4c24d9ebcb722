package azuread

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// keySet represents the tenant's published JSON Web Key Set
type keySet struct {
	Keys []jsonWebKey `json:"keys"`
}

// jsonWebKey represents a single signing key
type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// idTokenClaims are the raw claims carried by an Azure AD v2.0 ID token.
type idTokenClaims struct {
	jwt.RegisteredClaims
	ObjectID          string `json:"oid"`
	TenantID          string `json:"tid"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// Claims holds the validated identity extracted from an ID token. Email
// falls back to the UPN when the directory carries no mail attribute.
type Claims struct {
	ObjectID  string
	TenantID  string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidateIDToken verifies the signature and claims of a raw ID token and
// returns the identity it asserts.
func (c *Client) ValidateIDToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &idTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}

		publicKey, err := c.publicKey(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("failed to get public key: %w", err)
		}

		return publicKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*idTokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	expectedIssuer := c.baseURL + "/" + c.tenantID + "/v2.0"
	if claims.Issuer != expectedIssuer {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidIssuer, expectedIssuer, claims.Issuer)
	}

	if !containsAudience(claims.Audience, c.clientID) {
		return nil, ErrInvalidAudience
	}

	if claims.ObjectID == "" {
		return nil, fmt.Errorf("%w: missing oid claim", ErrInvalidToken)
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email or preferred_username", ErrInvalidToken)
	}

	parsed := &Claims{
		ObjectID: claims.ObjectID,
		TenantID: claims.TenantID,
		Email:    email,
		Name:     claims.Name,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}

	return parsed, nil
}

// fetchKeySet fetches the tenant's signing keys, caching them for the
// configured TTL.
func (c *Client) fetchKeySet(ctx context.Context) (*keySet, error) {
	c.cacheMu.RLock()
	if c.keysCache != nil && time.Now().Before(c.keysCacheExp) {
		defer c.cacheMu.RUnlock()
		return c.keysCache, nil
	}
	c.cacheMu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("discovery/v2.0/keys"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrKeySetFetchFailed, resp.StatusCode)
	}

	var keys keySet
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		return nil, fmt.Errorf("failed to decode key set: %w", err)
	}

	c.cacheMu.Lock()
	c.keysCache = &keys
	c.keysCacheExp = time.Now().Add(c.keysCacheTTL)
	c.cacheMu.Unlock()

	return &keys, nil
}

// publicKey retrieves the RSA public key for a given kid
func (c *Client) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.keyCacheMu.RLock()
	if key, exists := c.keyCache[kid]; exists {
		c.keyCacheMu.RUnlock()
		return key, nil
	}
	c.keyCacheMu.RUnlock()

	keys, err := c.fetchKeySet(ctx)
	if err != nil {
		return nil, err
	}

	var jwk *jsonWebKey
	for i := range keys.Keys {
		if keys.Keys[i].Kid == kid {
			jwk = &keys.Keys[i]
			break
		}
	}

	if jwk == nil {
		return nil, fmt.Errorf("key with kid %s not found in key set", kid)
	}

	publicKey, err := jwkToRSAPublicKey(jwk)
	if err != nil {
		return nil, fmt.Errorf("failed to convert key: %w", err)
	}

	c.keyCacheMu.Lock()
	c.keyCache[kid] = publicKey
	c.keyCacheMu.Unlock()

	return publicKey, nil
}

// jwkToRSAPublicKey converts a JWK entry to an RSA public key
func jwkToRSAPublicKey(jwk *jsonWebKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}

func containsAudience(audience jwt.ClaimStrings, clientID string) bool {
	for _, aud := range audience {
		if aud == clientID {
			return true
		}
	}
	return false
}
