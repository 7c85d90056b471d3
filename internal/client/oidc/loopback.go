package oidc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"
)

// openBrowser is a test seam.
var openBrowser = func(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	return cmd.Start()
}

const callbackPage = `<!doctype html><html><body><p>%s</p><p>You can close this window.</p></body></html>`

// LoopbackAuthenticator opens the browser and receives the ID token posted
// back to a local listener (response_mode=form_post). The listener address
// and path come from RedirectURI.
type LoopbackAuthenticator struct {
	RedirectURI string
	Out         io.Writer
	Timeout     time.Duration
}

func (a *LoopbackAuthenticator) StartInteractiveLogin(ctx context.Context, authURL string) (Result, error) {
	ru, err := url.Parse(a.RedirectURI)
	if err != nil || ru.Host == "" {
		return Result{}, fmt.Errorf("bad redirect uri %q", a.RedirectURI)
	}
	path := ru.Path
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", ru.Host)
	if err != nil {
		return Result{}, fmt.Errorf("listen on %s: %w", ru.Host, err)
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	want := stateOf(authURL)

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		res, err := resultFromValues(r.Form, want)
		msg := "Login complete."
		if err != nil {
			msg = "Login failed: " + err.Error()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, callbackPage, msg)

		select {
		case done <- outcome{res: res, err: err}:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case done <- outcome{err: err}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if a.Out != nil {
		fmt.Fprintf(a.Out, "Opening browser for login. If nothing happens, open:\n%s\n", authURL)
	}
	if err := openBrowser(authURL); err != nil && a.Out != nil {
		fmt.Fprintf(a.Out, "could not open browser: %v\n", err)
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return Result{}, ErrLoginCancelled
		}
		return Result{}, ctx.Err()
	case o := <-done:
		return o.res, o.err
	}
}
