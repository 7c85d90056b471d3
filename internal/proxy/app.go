// Package proxy runs the token exchange backend: it verifies identity
// provider ID tokens and hands out the CMS credential pair. The REST server
// and the gRPC health server run side by side until a signal arrives.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/logging"
	"github.com/dmitrijs2005/partusch-cms/internal/proxy/auth"
	"github.com/dmitrijs2005/partusch-cms/internal/proxy/config"
	"github.com/dmitrijs2005/partusch-cms/internal/proxy/httpapi"

	gs "github.com/dmitrijs2005/partusch-cms/internal/proxy/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *httpapi.Handler
	ready   bool
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	verifier, err := auth.NewVerifier(c.RSAPublicKeyFile, c.HMACSecret, c.Issuer, c.Audience)
	if err != nil {
		return nil, fmt.Errorf("token verifier: %w", err)
	}

	cred := httpapi.Credential{AccessToken: c.CMSAccessToken, SpaceID: c.CMSSpaceID}
	if cred.AccessToken == "" || cred.SpaceID == "" {
		logger.Warn(context.Background(), "CMS credential not configured, /user/auth will answer 503",
			"env", []string{config.EnvCMSAccessToken, config.EnvCMSSpaceID})
	}

	return &App{
		config:  c,
		logger:  logger,
		handler: httpapi.NewHandler(verifier, cred, logger),
		ready:   cred.AccessToken != "" && cred.SpaceID != "",
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// serveHTTP runs srv on lis and shuts it down when ctx is done.
func (app *App) serveHTTP(ctx context.Context, srv *http.Server, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	lis, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	srv := &http.Server{
		Handler:           httpapi.NewRouter(app.handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := app.serveHTTP(ctx, srv, lis); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.ready)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is done or one of the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(ctx, "Stopped")
}
