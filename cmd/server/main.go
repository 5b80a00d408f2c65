// Command server runs the Recipe Manager API over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/openmeal/recipeapi"
	fsstore "github.com/openmeal/recipeapi/stores/fs"
	mongostore "github.com/openmeal/recipeapi/stores/mongo"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := api.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	users, recipes, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := api.NewServer(cfg, users, recipes)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Handler(),
	}

	go func() {
		slog.Info("server started", "port", cfg.Port, "environment", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped cleanly")
}

// openStores selects the storage backend: MongoDB when a URI is
// configured, the filesystem store otherwise.
func openStores(ctx context.Context, cfg api.Config) (api.UserStore, api.RecipeStore, func(), error) {
	if cfg.MongoURI != "" {
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		slog.Info("connected to mongodb", "database", db.Name())
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				slog.Warn("mongodb disconnect failed", "error", err)
			}
		}
		return mongostore.NewUserStore(db), mongostore.NewRecipeStore(db), cleanup, nil
	}

	slog.Info("using filesystem stores", "dir", cfg.DataDir)
	return &fsstore.UserStore{Root: cfg.DataDir},
		&fsstore.RecipeStore{Root: cfg.DataDir},
		func() {}, nil
}
