package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-exchange-client/app"
	"github.com/jrsteele09/go-exchange-client/internal/config"
	"github.com/jrsteele09/go-exchange-client/pin"
	"github.com/jrsteele09/go-exchange-client/server"
	"github.com/jrsteele09/go-exchange-client/session"
	"github.com/jrsteele09/go-exchange-client/storage"
	"github.com/jrsteele09/go-exchange-client/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const pinIdleCheckInterval = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running client")
	}
	log.Info().Msg("Client stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(c.GetDataFolder(), 0o700); err != nil {
		return fmt.Errorf("create data folder: %w", err)
	}
	repo, err := storage.NewSQLiteRepo(c.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("storage.NewSQLiteRepo: %w", err)
	}
	defer repo.Close()

	st := store.New(store.State{})
	reg := prometheus.NewRegistry()

	reconciler := app.New(st, newRefresher(ctx, c),
		app.WithMetrics(app.NewCollector(reg)),
		app.WithNotifier(app.NotifierFunc(func(n app.Notice) {
			fmt.Fprintln(os.Stdout, renderNotice(n))
		})),
		app.WithModeChange(func(_, to app.Mode) {
			fmt.Fprintln(os.Stdout, renderScreen(to))
		}),
	)
	pins := pin.NewManager(st, c)

	reconciler.Start(ctx)
	defer reconciler.Stop()

	persister := store.NewPersister(st, repo)
	persister.Start(ctx)
	defer persister.Stop()

	if addr := c.GetStatusAddr(); addr != "" {
		statusServer := &http.Server{Addr: addr, Handler: server.New(c, reconciler, st, reg)}
		go listenAndServe(statusServer)
		defer shutdown(statusServer)
	}

	go watchPinIdle(ctx, pins)

	sh := newShell(os.Stdin, os.Stdout, st, reconciler, pins)
	shellDone := make(chan struct{})
	go func() {
		defer close(shellDone)
		sh.run()
	}()

	select {
	case <-ctx.Done():
	case <-shellDone:
	}
	return nil
}

func newRefresher(ctx context.Context, c config.Config) *session.Refresher {
	var opts []session.RefresherOption
	if issuer := c.GetIssuer(); issuer != "" {
		verifier, err := session.NewOIDCVerifier(ctx, issuer, c.GetClientID())
		if err != nil {
			log.Err(err).Str("issuer", issuer).Msg("ID token verification disabled")
		} else {
			opts = append(opts, session.WithIDTokenVerifier(verifier))
		}
	}
	return session.NewRefresher(c, opts...)
}

func watchPinIdle(ctx context.Context, pins *pin.Manager) {
	ticker := time.NewTicker(pinIdleCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pins.ExpireIfIdle()
		}
	}
}

func setupLogging(c config.EnvConfig) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(srv *http.Server) {
	log.Info().Str("addr", srv.Addr).Msg("Status server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Err(err).Msg("server.ListenAndServe")
	}
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Err(err).Msg("server.Shutdown")
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
