package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/repforge/repforge/internal/auth"
	"github.com/repforge/repforge/internal/cache"
	"github.com/repforge/repforge/internal/envstruct"
	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/fitness"
	"github.com/repforge/repforge/internal/flightrecorder"
	"github.com/repforge/repforge/internal/logging"
	"github.com/repforge/repforge/internal/sqlite"
	"github.com/repforge/repforge/internal/store"
	"github.com/repforge/repforge/internal/sync"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger         *slog.Logger
	store          *store.Store
	fitnessService fitness.Service
	authenticator  *auth.Authenticator
	syncServer     *sync.Server
	syncClient     *sync.Client
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"REPFORGE_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"REPFORGE_SQLITE_URL" envDefault:"./repforge.sqlite3"`
	// JWTSecret signs the API tokens. Generated at startup when empty, which
	// invalidates existing tokens on restart.
	JWTSecret string `env:"REPFORGE_JWT_SECRET" envDefault:""`
	// SyncUpstreamURL is the base URL of a remote backend to push to and pull
	// from. Empty disables outbound sync; the server still accepts inbound
	// sync from its own clients.
	SyncUpstreamURL string `env:"REPFORGE_SYNC_URL" envDefault:""`
	// SyncToken authenticates against the upstream backend.
	SyncToken string `env:"REPFORGE_SYNC_TOKEN" envDefault:""`
	// SyncInterval is how often the background sync fires after the initial
	// trigger at startup.
	SyncInterval time.Duration `env:"REPFORGE_SYNC_INTERVAL" envDefault:"15m"`
	// CacheTTL bounds the lifetime of memoized analytics entries.
	CacheTTL time.Duration `env:"REPFORGE_CACHE_TTL" envDefault:"1h"`
	// TracesDir is where timeout flight-recorder traces are written. Empty
	// disables trace capture.
	TracesDir string `env:"REPFORGE_TRACES_DIR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		if secret, err = auth.GenerateSigningKey(); err != nil {
			return errors.Wrap(err, "generate signing key")
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "REPFORGE_JWT_SECRET not set, tokens will not survive a restart")
	}

	var recorder *flightrecorder.Service
	if cfg.TracesDir != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			TracesDirectory: cfg.TracesDir,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	st := store.New(db, logger)
	analyticsCache := cache.New(cache.DefaultSizeBytes, cfg.CacheTTL, logger)

	app := application{
		logger:         logger,
		store:          st,
		fitnessService: fitness.NewService(st, logger, fitness.WithCache(analyticsCache)),
		authenticator:  auth.New(secret),
		syncServer:     sync.NewServer(st, logger),
		flightRecorder: recorder,
	}
	if cfg.SyncUpstreamURL != "" {
		app.syncClient = sync.NewClient(cfg.SyncUpstreamURL, cfg.SyncToken, st, logger)
	}

	g, ctx := errgroup.WithContext(ctx)
	if app.syncClient != nil {
		g.Go(func() error {
			app.runSyncLoop(ctx, cfg.SyncInterval)
			return nil
		})
	}
	g.Go(func() error {
		if err := app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
			return errors.Wrap(err, "start server")
		}
		return nil
	})
	return g.Wait()
}

// runSyncLoop pulls the remote dataset once at startup and then keeps the
// devices converging on an interval. Individual failures are logged by the
// client and retried on the next tick.
func (app *application) runSyncLoop(ctx context.Context, interval time.Duration) {
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting background sync",
		slog.Duration("interval", interval))
	app.syncClient.Trigger(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.syncClient.Trigger(ctx)
		}
	}
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
