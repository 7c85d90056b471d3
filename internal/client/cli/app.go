package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/config"
	"github.com/dmitrijs2005/partusch-cms/internal/client/media"
	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/oidc"
	"github.com/dmitrijs2005/partusch-cms/internal/client/services"
	"github.com/dmitrijs2005/partusch-cms/internal/client/session"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	log          logging.Logger
	db           *sql.DB
	authService  services.AuthService
	assetService services.AssetService
	entryService services.EntryService
	draftService services.DraftService

	draft    models.EntryDraft
	entries  []models.EntrySummary
	userName string

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the object graph from c. The caller owns the returned App
// and must call Close.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	repos := client.NewRepositories(db)

	hc := &http.Client{Timeout: c.RequestTimeout}

	resolver := media.NewResolver(hc)
	if c.S3Region != "" || c.S3BaseEndpoint != "" {
		s3src, err := media.NewS3Source(ctx, media.S3Config{
			Region:          c.S3Region,
			BaseEndpoint:    c.S3BaseEndpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			UsePathStyle:    c.S3UsePathStyle,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 source: %w", err)
		}
		resolver = resolver.WithS3(s3src)
	}

	sess := session.New()
	proxy := client.NewProxyClient(client.ProxyConfig{BaseURL: c.ProxyURL, HTTPClient: hc, Logger: log})
	cms := client.NewCMSClient(client.CMSConfig{
		APIURL:      c.CMSAPIURL,
		UploadURL:   c.CMSUploadURL,
		Environment: c.Environment,
		Locale:      c.Locale,
		ContentType: c.ContentType,
		HTTPClient:  hc,
		Logger:      log,
	})

	params := oidc.Params{Domain: c.AuthDomain, ClientID: c.ClientID, RedirectURI: c.RedirectURI}
	var authenticator oidc.Authenticator
	switch c.LoginMode {
	case config.LoginModePaste:
		authenticator = &oidc.PasteAuthenticator{In: os.Stdin, Out: os.Stdout}
	default:
		params.ResponseMode = "form_post"
		authenticator = &oidc.LoopbackAuthenticator{RedirectURI: c.RedirectURI, Out: os.Stdout}
	}

	return &App{
		config:      c,
		log:         log,
		db:          db,
		authService: services.NewAuthService(sess, proxy, authenticator, params, log),
		assetService: services.NewAssetService(sess, cms, resolver, repos.Assets, services.AssetConfig{
			Locale:            c.Locale,
			PollInterval:      c.PollInterval,
			ProcessingTimeout: c.ProcessingTimeout,
		}, log),
		entryService: services.NewEntryService(sess, cms, services.EntryConfig{Locale: c.Locale}, log),
		draftService: services.NewDraftService(repos.Drafts),
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run restores the saved draft, starts the connectivity watcher and runs the
// REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if d, err := a.draftService.Load(ctx); err != nil {
		a.log.Warn(ctx, "restore draft", "err", err)
	} else {
		a.draft = d
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService != nil && a.authService.IsAuthenticated()
}

// StartOnlineStatusWatcher pings the proxy every interval and flips the
// connectivity mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ping := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.authService.Ping(pctx); err != nil {
			a.setMode(ctx, ModeOffline)
			return
		}
		a.setMode(ctx, ModeOnline)
	}
	ping()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ping()
		case <-ctx.Done():
			return
		}
	}
}
