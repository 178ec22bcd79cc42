package services

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"brokex/config"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/golang-jwt/jwt/v5"
)

// OIDCDiscovery represents the provider's OIDC discovery document.
type OIDCDiscovery struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKS_URI              string `json:"jwks_uri"`
}

// JWK represents a JSON Web Key.
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// Identity is the validated content of a bearer token.
type Identity struct {
	SubjectID  string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Provider   string
	Valid      bool
}

// IdentityService validates bearer tokens against the external identity
// provider. Tokens are verified per request; only the discovery document
// and JWKS are cached.
type IdentityService struct {
	config     config.Config
	log        logger.Logger
	httpClient *http.Client
	issuer     string
	audience   string

	discovery     *OIDCDiscovery
	jwks          *JWKSet
	discoveryMux  sync.RWMutex
	jwksMux       sync.RWMutex
	discoveryTime time.Time
	jwksTime      time.Time
	cacheTTL      time.Duration
}

func NewIdentityService(cfg config.Config) (*IdentityService, error) {
	log := logger.New("IdentityService")

	if cfg.AuthIssuerURL == "" || cfg.AuthAudience == "" {
		return nil, log.ErrMsg(
			"identity configuration required but not provided: missing AuthIssuerURL or AuthAudience",
		)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
		},
	}

	service := &IdentityService{
		config:     cfg,
		log:        log,
		httpClient: httpClient,
		issuer:     cfg.AuthIssuerURL,
		audience:   cfg.AuthAudience,
		cacheTTL:   15 * time.Minute,
	}

	log.Info("identity service initialized", "issuer", cfg.AuthIssuerURL)
	return service, nil
}

// ValidateToken verifies a bearer JWT's signature, issuer, audience, and
// expiry, and extracts the profile claims the platform mirrors locally.
func (is *IdentityService) ValidateToken(ctx context.Context, bearerToken string) (*Identity, error) {
	log := is.log.TraceFromContext(ctx).Function("ValidateToken")

	var claims struct {
		jwt.RegisteredClaims
		Email         string `json:"email"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
		EmailVerified bool   `json:"email_verified"`
	}

	token, err := jwt.ParseWithClaims(
		bearerToken,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, log.ErrMsg(
					"unexpected signing method: " + fmt.Sprintf("%v", token.Header["alg"]),
				)
			}

			kidHeader, ok := token.Header["kid"].(string)
			if !ok {
				return nil, log.ErrMsg("missing or invalid 'kid' in JWT header")
			}

			return is.getPublicKeyForToken(ctx, kidHeader)
		},
	)
	if err != nil {
		return &Identity{Valid: false}, log.Err("JWT signature verification failed", err)
	}

	if !token.Valid {
		return &Identity{Valid: false}, log.ErrMsg("JWT token is invalid")
	}

	expectedIssuer := strings.TrimSuffix(is.issuer, "/")
	if strings.TrimSuffix(claims.Issuer, "/") != expectedIssuer {
		return &Identity{Valid: false}, log.ErrMsg(
			"invalid issuer: expected " + expectedIssuer + ", got " + claims.Issuer,
		)
	}

	if !slices.Contains(claims.Audience, is.audience) {
		return &Identity{Valid: false}, log.ErrMsg(
			"invalid audience: expected " + is.audience + " not found in " + fmt.Sprintf("%v", claims.Audience),
		)
	}

	displayName := claims.Name
	if displayName == "" && (claims.GivenName != "" || claims.FamilyName != "") {
		displayName = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return &Identity{
		SubjectID:  claims.Subject,
		Email:      claims.Email,
		Name:       displayName,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Provider:   expectedIssuer,
		Valid:      true,
	}, nil
}

func (is *IdentityService) getOIDCDiscovery(ctx context.Context) (*OIDCDiscovery, error) {
	log := is.log.TraceFromContext(ctx).Function("getOIDCDiscovery")

	is.discoveryMux.RLock()
	if is.discovery != nil && time.Since(is.discoveryTime) < is.cacheTTL {
		discovery := is.discovery
		is.discoveryMux.RUnlock()
		return discovery, nil
	}
	is.discoveryMux.RUnlock()

	discoveryURL := strings.TrimSuffix(is.issuer, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, "GET", discoveryURL, nil)
	if err != nil {
		return nil, log.Err("failed to create discovery request", err)
	}

	resp, err := is.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch OIDC discovery", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close discovery response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("OIDC discovery request failed", "statusCode", resp.StatusCode)
	}

	var discovery OIDCDiscovery
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return nil, log.Err("failed to decode OIDC discovery", err)
	}

	is.discoveryMux.Lock()
	is.discovery = &discovery
	is.discoveryTime = time.Now()
	is.discoveryMux.Unlock()

	return &discovery, nil
}

func (is *IdentityService) getJWKS(ctx context.Context) (*JWKSet, error) {
	log := is.log.TraceFromContext(ctx).Function("getJWKS")

	is.jwksMux.RLock()
	if is.jwks != nil && time.Since(is.jwksTime) < is.cacheTTL {
		jwks := is.jwks
		is.jwksMux.RUnlock()
		return jwks, nil
	}
	is.jwksMux.RUnlock()

	discovery, err := is.getOIDCDiscovery(ctx)
	if err != nil {
		return nil, log.Err("failed to get OIDC discovery for JWKS", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", discovery.JWKS_URI, nil)
	if err != nil {
		return nil, log.Err("failed to create JWKS request", err)
	}

	resp, err := is.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch JWKS", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close JWKS response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("JWKS request failed", "statusCode", resp.StatusCode)
	}

	var jwks JWKSet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, log.Err("failed to decode JWKS", err)
	}

	if len(jwks.Keys) == 0 {
		return nil, log.ErrMsg("JWKS contains no keys")
	}

	is.jwksMux.Lock()
	is.jwks = &jwks
	is.jwksTime = time.Now()
	is.jwksMux.Unlock()

	return &jwks, nil
}

func (is *IdentityService) getPublicKeyForToken(
	ctx context.Context,
	kidHeader string,
) (*rsa.PublicKey, error) {
	log := is.log.TraceFromContext(ctx).Function("getPublicKeyForToken")

	jwks, err := is.getJWKS(ctx)
	if err != nil {
		return nil, log.Err("failed to get JWKS", err)
	}

	var targetJWK *JWK
	for _, jwk := range jwks.Keys {
		if jwk.Kid == kidHeader {
			targetJWK = &jwk
			break
		}
	}

	if targetJWK == nil {
		return nil, log.ErrMsg("no matching key found: kid " + kidHeader + " not found in JWKS")
	}

	if targetJWK.Kty != "RSA" {
		return nil, log.ErrMsg("unsupported key type: expected RSA, got " + targetJWK.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.N)
	if err != nil {
		return nil, log.Err("failed to decode RSA modulus (n)", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.E)
	if err != nil {
		return nil, log.Err("failed to decode RSA exponent (e)", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	if !e.IsInt64() || e.Int64() > int64(^uint(0)>>1) {
		return nil, log.ErrMsg("RSA exponent too large: " + e.String())
	}

	return &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}, nil
}

func (is *IdentityService) Close() error {
	// No resources to clean up for the HTTP client
	return nil
}
