package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/oidc"
	"github.com/dmitrijs2005/partusch-cms/internal/client/session"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

// AuthService fills and clears the session.
//
// Contract:
//   - Login: interactive login, nonce check, token exchange, session begin.
//   - LoginWithToken: same from an ID token obtained elsewhere.
//   - Logout: end the session.
//   - Ping: check that the token exchange proxy is reachable.
//
// A cancelled interactive login returns oidc.ErrLoginCancelled and leaves the
// session untouched.
type AuthService interface {
	Login(ctx context.Context) (string, error)
	LoginWithToken(ctx context.Context, idToken string) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	IsAuthenticated() bool
}

type authService struct {
	sess      *session.Session
	exchanger client.TokenExchanger
	auth      oidc.Authenticator
	params    oidc.Params
	now       func() time.Time
	log       logging.Logger
}

func NewAuthService(sess *session.Session, exchanger client.TokenExchanger, auth oidc.Authenticator,
	params oidc.Params, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		sess:      sess,
		exchanger: exchanger,
		auth:      auth,
		params:    params,
		now:       time.Now,
		log:       log,
	}
}

// Login returns the display name of the logged-in user.
func (a *authService) Login(ctx context.Context) (string, error) {
	nonce, state := uuid.NewString(), uuid.NewString()

	res, err := a.auth.StartInteractiveLogin(ctx, a.params.AuthorizeURL(nonce, state))
	if err != nil {
		if errors.Is(err, oidc.ErrLoginCancelled) {
			a.log.Info(ctx, "login cancelled")
		}
		return "", err
	}

	return a.finish(ctx, res.IDToken, nonce)
}

func (a *authService) LoginWithToken(ctx context.Context, idToken string) (string, error) {
	return a.finish(ctx, idToken, "")
}

func (a *authService) finish(ctx context.Context, idToken, nonce string) (string, error) {
	claims, err := oidc.ParseIDToken(idToken)
	if err != nil {
		return "", err
	}
	if err := claims.Check(nonce, a.params.ClientID, a.now()); err != nil {
		return "", fmt.Errorf("id token: %w", err)
	}

	cred, err := a.exchanger.ExchangeToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	a.sess.Begin(cred)
	a.log.Info(ctx, "logged in", "user", claims.Subject, "space_id", cred.SpaceID)
	return claims.DisplayName(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.sess.End()
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.exchanger.Ping(ctx)
}

func (a *authService) IsAuthenticated() bool {
	return a.sess.IsAuthenticated()
}
