// Package app assembles the process: configuration, logging, storage,
// services, the HTTP server, and the background sweeper, with graceful
// shutdown on SIGINT/SIGTERM.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/walleto/walleto/internal/api"
	"github.com/walleto/walleto/internal/mailer"
	"github.com/walleto/walleto/internal/service"
	"github.com/walleto/walleto/internal/store/drivers/sqlite"
	"github.com/walleto/walleto/pkg/cryptox"
	"github.com/walleto/walleto/pkg/jwtx"
	"github.com/walleto/walleto/pkg/slogx"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type Application struct {
	cfg    Config
	log    *slog.Logger
	store  *sqlite.Store
	server *http.Server
	sweep  *service.Housekeeping
}

// New builds a fully wired application from cfg.
func New(cfg Config) (*Application, error) {
	log := slogx.New(slogx.Config{
		Service: "walleto",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	cryptox.SetPepperPath(cfg.PepperFile)

	st, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	signer, err := jwtx.NewHS256(cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init signer: %w", err)
	}

	var mail mailer.Mailer
	switch cfg.Mailer {
	case "smtp":
		mail = mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	default:
		mail = mailer.NewLog()
	}

	auth := service.NewAuthService(st, signer, mail, cfg.BaseURL, cfg.Issuer)
	auth.TokenTTL = cfg.TokenTTL

	handler := api.NewRouter(api.Config{
		Logger:   log,
		Verifier: signer,
		Auth:     auth,
		Expenses: service.NewExpenseService(st),
		Store:    st,
	})

	return &Application{
		cfg:   cfg,
		log:   log,
		store: st,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		sweep: service.NewHousekeeping(st, cfg.HousekeepingInterval),
	}, nil
}

// Run serves until ctx is cancelled or a signal arrives, then drains the
// server within the configured grace period.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Error("close store", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := a.sweep.Run(slogx.WithContext(ctx, a.log)); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down", "grace_period", a.cfg.ShutdownGracePeriod)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
