package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shopauth/internal/httpapi"
	"shopauth/internal/session"
	"shopauth/pkg/config"
	"shopauth/pkg/db"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Shopify.APIKey == "" || cfg.Shopify.APISecret == "" || cfg.Shopify.ForwardingAddress == "" {
		log.Fatal().Msg("SHOPIFY_API_KEY, SHOPIFY_API_SECRET and SHOPIFY_FORWARDING_ADDRESS are required")
	}

	sessions, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("open session store")
	}
	defer closeStore()

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:      cfg,
		Sessions: sessions,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.SessionStore).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http serve")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProd() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "postgres":
		if cfg.MigrationsPath != "" {
			if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
				return nil, nil, err
			}
		}
		pool, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewPostgresStore(pool), pool.Close, nil
	case "redis":
		client, err := db.OpenRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, session.WithTTL(cfg.SessionTTL)), func() { _ = client.Close() }, nil
	case "memory", "":
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown SESSION_STORE " + cfg.SessionStore)
	}
}
