// @title Event Hub API
// @version 1.0
// @description Events, categories, RSVPs and role-based dashboards.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventhub/config"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/storage"
	"eventhub/internal/adapters/webimage"
	httpdelivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	media := storage.NewLocalStorage(cfg.MediaRoot)
	pipeline := webimage.NewPipeline(webimage.Config{
		MaxWidth:       cfg.Image.MaxWidth,
		MaxHeight:      cfg.Image.MaxHeight,
		Quality:        cfg.Image.Quality,
		MaxUploadBytes: cfg.Image.MaxUploadBytes,
	}, media, logger)

	eventService := services.NewEventService(eventRepo, roleRepo, media, pipeline, logger, cfg.RequestTimeout)
	categoryService := services.NewCategoryService(categoryRepo, eventRepo, roleRepo, media, logger, cfg.RequestTimeout)

	mux := httpdelivery.NewRouter(httpdelivery.Routes{
		Events:      controllers.NewEventController(logger, eventService, cfg.Image.MaxUploadBytes),
		Categories:  controllers.NewCategoryController(logger, categoryService),
		System:      controllers.NewSystemController(logger, db),
		Media:       controllers.MediaHandler(cfg.MediaRoot),
		RequireAuth: middleware.RequireAuth(auth.NewJWTVerifier(cfg.JWTSecret), logger),
	})

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.Recover(logger, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
