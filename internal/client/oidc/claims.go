package oidc

import (
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/partusch-cms/internal/common"
)

// Claims are the ID token claims the client looks at.
type Claims struct {
	jwt.RegisteredClaims
	Nonce    string `json:"nonce,omitempty"`
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// ParseIDToken decodes raw without checking its signature.
func ParseIDToken(raw string) (*Claims, error) {
	c := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, c); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return c, nil
}

// Check validates the nonce, audience and expiry. Empty nonce or clientID
// skip the respective check.
func (c *Claims) Check(nonce, clientID string, now time.Time) error {
	if nonce != "" && c.Nonce != nonce {
		return common.ErrNonceMismatch
	}
	if clientID != "" && !slices.Contains(c.Audience, clientID) {
		return fmt.Errorf("%w: audience %v", common.ErrInvalidToken, c.Audience)
	}
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return common.ErrTokenExpired
	}
	return nil
}

// DisplayName is what the CLI greets the user with.
func (c *Claims) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Nickname != "":
		return c.Nickname
	}
	return c.Subject
}
