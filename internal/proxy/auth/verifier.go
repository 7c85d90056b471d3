// Package auth verifies identity provider ID tokens presented to the proxy.
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/partusch-cms/internal/common"
)

// Leeway absorbs clock skew between the identity provider and the proxy.
const Leeway = 30 * time.Second

// Claims are the ID token claims the proxy looks at.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Nonce string `json:"nonce,omitempty"`
}

type Verifier interface {
	Verify(raw string) (*Claims, error)
}

// JWTVerifier checks signature, expiry, issuer and audience. Empty issuer or
// audience are not checked.
type JWTVerifier struct {
	key      any
	method   string
	issuer   string
	audience string
	now      func() time.Time
}

func NewHS256Verifier(secret []byte, issuer, audience string) (*JWTVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty HS256 secret")
	}
	return &JWTVerifier{key: secret, method: jwt.SigningMethodHS256.Alg(), issuer: issuer, audience: audience, now: time.Now}, nil
}

func NewRS256Verifier(pemBytes []byte, issuer, audience string) (*JWTVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse RS256 public key: %w", err)
	}
	return &JWTVerifier{key: key, method: jwt.SigningMethodRS256.Alg(), issuer: issuer, audience: audience, now: time.Now}, nil
}

// NewVerifier prefers the RS256 key file and falls back to the HS256 secret.
func NewVerifier(rsaKeyFile, hmacSecret, issuer, audience string) (*JWTVerifier, error) {
	if rsaKeyFile != "" {
		pemBytes, err := os.ReadFile(rsaKeyFile)
		if err != nil {
			return nil, err
		}
		return NewRS256Verifier(pemBytes, issuer, audience)
	}
	if hmacSecret != "" {
		return NewHS256Verifier([]byte(hmacSecret), issuer, audience)
	}
	return nil, errors.New("no token verification key configured")
}

// Verify parses raw and returns its claims. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func (v *JWTVerifier) Verify(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(Leeway),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
