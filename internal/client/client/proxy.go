package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/common"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

// TokenExchanger trades an identity token for CMS credentials.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, idToken string) (models.Credential, error)
	Ping(ctx context.Context) error
}

type ProxyConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logging.Logger
}

// ProxyClient talks to the token exchange proxy.
type ProxyClient struct {
	baseURL string
	t       transport
}

func NewProxyClient(cfg ProxyConfig) *ProxyClient {
	return &ProxyClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		t:       newTransport(cfg.HTTPClient, cfg.Logger),
	}
}

// ExchangeToken issues exactly one GET /user/auth call. It never retries and
// never caches; every failure is an *AuthExchangeError.
func (c *ProxyClient) ExchangeToken(ctx context.Context, idToken string) (models.Credential, error) {
	if strings.TrimSpace(idToken) == "" {
		return models.Credential{}, &AuthExchangeError{Err: common.ErrInvalidToken}
	}

	var cred models.Credential
	err := c.t.do(ctx, request{
		method: http.MethodGet,
		url:    c.baseURL + "/user/auth",
		token:  idToken,
	}, &cred)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return models.Credential{}, &AuthExchangeError{
				StatusCode: apiErr.StatusCode,
				Body:       apiErr.Body,
				Err:        err,
			}
		}
		return models.Credential{}, &AuthExchangeError{Err: err}
	}

	if !cred.Valid() {
		return models.Credential{}, &AuthExchangeError{StatusCode: http.StatusOK, Err: ErrMalformedCredentials}
	}

	c.t.log.Info(ctx, "token exchanged",
		"space_id", cred.SpaceID,
		"token", logging.Fingerprint(cred.AccessToken),
	)
	return cred, nil
}

// Ping checks the proxy health endpoint.
func (c *ProxyClient) Ping(ctx context.Context) error {
	return c.t.do(ctx, request{method: http.MethodGet, url: c.baseURL + "/health"}, nil)
}
