package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	charm "github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/log"

	"peak/pkg/config"
	"peak/pkg/inference"
	"peak/pkg/schema"
	"peak/pkg/server"
	"peak/pkg/store"
	"peak/pkg/studio"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	settings, err := config.Load()
	if err != nil {
		charm.Fatal("invalid settings", "error", err)
	}
	if settings.Debug {
		charm.SetLevel(charm.DebugLevel)
	}

	st, err := openStore(ctx, settings)
	if err != nil {
		charm.Fatal("failed opening store", "store", settings.Store, "error", err)
	}
	defer st.Close()

	metrics := server.NewMetrics()
	session, err := studio.New(ctx, studio.Options{
		Store:     st,
		Connector: inference.NewConnector(),
		Defaults: schema.Config{
			APIKey:   settings.GeminiAPIKey,
			Provider: settings.Provider,
			Model:    settings.Model,
		},
		CountTokens: settings.CountTokens,
		Observe:     metrics.Observe,
	})
	if err != nil {
		charm.Fatal("failed starting studio", "error", err)
	}

	srv := server.NewServer(ctx, session, metrics)
	srv.Echo.Logger.SetLevel(log.INFO)
	if settings.Debug {
		srv.Echo.Logger.SetLevel(log.DEBUG)
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
			charm.Error("shutdown", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	charm.Info("listening", "addr", settings.Addr(), "store", settings.Store)
	if err := srv.Start(settings.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		charm.Error("server stopped", "error", err)
		done()
	}
	<-finishedShutDown
}

func openStore(ctx context.Context, s config.Settings) (store.Store, error) {
	switch s.Store {
	case config.StoreRedis:
		return store.NewRedis(ctx, s.RedisURL, "")
	default:
		if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
			return nil, err
		}
		return store.NewFile(s.DataDir), nil
	}
}
