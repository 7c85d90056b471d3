// Package oidc implements the interactive identity provider login of the
// client: building the authorize URL, obtaining an ID token through the
// browser or by pasting it, and inspecting its claims.
//
// Tokens are not verified here. The proxy verifies them; the client only
// checks that the nonce it generated came back and that the token is fresh.
package oidc

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var (
	ErrLoginCancelled = errors.New("login cancelled")
	ErrStateMismatch  = errors.New("state mismatch")
)

const DefaultScope = "openid profile name"

// Params describe the identity provider application.
type Params struct {
	Domain       string
	ClientID     string
	RedirectURI  string
	Scope        string
	ResponseMode string
}

// AuthorizeURL builds the implicit flow authorize URL asking for an ID token.
func (p Params) AuthorizeURL(nonce, state string) string {
	scope := p.Scope
	if scope == "" {
		scope = DefaultScope
	}

	q := url.Values{}
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", p.RedirectURI)
	q.Set("response_type", "id_token")
	q.Set("scope", scope)
	q.Set("nonce", nonce)
	if state != "" {
		q.Set("state", state)
	}
	if p.ResponseMode != "" {
		q.Set("response_mode", p.ResponseMode)
	}

	return strings.TrimRight(p.Domain, "/") + "/authorize?" + q.Encode()
}

// Result is a successful login.
type Result struct {
	IDToken string
	State   string
}

// Authenticator performs the interactive part of the login. It returns
// ErrLoginCancelled when the user backs out.
type Authenticator interface {
	StartInteractiveLogin(ctx context.Context, authURL string) (Result, error)
}

// stateOf extracts the state parameter an authorize URL was built with.
func stateOf(authURL string) string {
	u, err := url.Parse(authURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("state")
}

// resultFromValues reads a provider response delivered as form values, a
// query string or a URL fragment.
func resultFromValues(v url.Values, wantState string) (Result, error) {
	if e := v.Get("error"); e != "" {
		if e == "access_denied" || e == "login_required" {
			return Result{}, ErrLoginCancelled
		}
		if d := v.Get("error_description"); d != "" {
			return Result{}, errors.New(e + ": " + d)
		}
		return Result{}, errors.New(e)
	}

	tok := v.Get("id_token")
	if tok == "" {
		return Result{}, ErrLoginCancelled
	}
	st := v.Get("state")
	if wantState != "" && st != wantState {
		return Result{}, ErrStateMismatch
	}
	return Result{IDToken: tok, State: st}, nil
}
