package oidc

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// stubBrowser replaces openBrowser with a function posting form to redirect.
func stubBrowser(t *testing.T, redirect string, form url.Values) {
	t.Helper()
	old := openBrowser
	t.Cleanup(func() { openBrowser = old })
	openBrowser = func(string) error {
		go func() {
			resp, err := http.PostForm(redirect, form)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestLoopback_ReceivesFormPost(t *testing.T) {
	redirect := "http://" + freeAddr(t) + "/callback"
	p := Params{Domain: "https://idp", ClientID: "c", RedirectURI: redirect, ResponseMode: "form_post"}
	authURL := p.AuthorizeURL("n", "state-1")

	stubBrowser(t, redirect, url.Values{"id_token": {"the-token"}, "state": {"state-1"}})

	var out bytes.Buffer
	a := &LoopbackAuthenticator{RedirectURI: redirect, Out: &out, Timeout: 5 * time.Second}

	res, err := a.StartInteractiveLogin(context.Background(), authURL)
	require.NoError(t, err)
	assert.Equal(t, "the-token", res.IDToken)
	assert.Contains(t, out.String(), authURL)
}

func TestLoopback_DeniedIsCancel(t *testing.T) {
	redirect := "http://" + freeAddr(t) + "/callback"
	stubBrowser(t, redirect, url.Values{"error": {"access_denied"}})

	a := &LoopbackAuthenticator{RedirectURI: redirect, Timeout: 5 * time.Second}
	_, err := a.StartInteractiveLogin(context.Background(), "https://idp/authorize?state=x")
	require.ErrorIs(t, err, ErrLoginCancelled)
}

func TestLoopback_ContextCancel(t *testing.T) {
	redirect := "http://" + freeAddr(t) + "/callback"
	old := openBrowser
	t.Cleanup(func() { openBrowser = old })
	openBrowser = func(string) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &LoopbackAuthenticator{RedirectURI: redirect}
	_, err := a.StartInteractiveLogin(ctx, "https://idp/authorize")
	require.ErrorIs(t, err, ErrLoginCancelled)
}

func TestLoopback_BadRedirect(t *testing.T) {
	a := &LoopbackAuthenticator{RedirectURI: "not a url"}
	_, err := a.StartInteractiveLogin(context.Background(), "https://idp/authorize")
	require.Error(t, err)
}
