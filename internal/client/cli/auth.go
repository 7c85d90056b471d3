package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/oidc"
)

// Login runs the interactive identity provider login, or exchanges the ID
// token given as the first argument. A cancelled login is not an error.
func (a *App) Login(ctx context.Context, args []string) error {
	var (
		name string
		err  error
	)
	if len(args) > 0 {
		name, err = a.authService.LoginWithToken(ctx, args[0])
	} else {
		name, err = a.authService.Login(ctx)
	}

	switch {
	case errors.Is(err, oidc.ErrLoginCancelled):
		fmt.Fprintln(a.out, "Login cancelled")
		return nil
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ctx, ModeOffline)
		return err
	case err != nil:
		return err
	}

	a.userName = name
	a.setMode(ctx, ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the CMS credentials. The draft is kept.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.entries = nil
	return nil
}
