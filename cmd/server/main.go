package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buildmart-gateway/internal/api"
	"buildmart-gateway/internal/category"
	"buildmart-gateway/internal/config"
	"buildmart-gateway/internal/logger"
	"buildmart-gateway/internal/middleware"
	"buildmart-gateway/internal/upstream"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// startServerFunc is swapped in tests.
var startServerFunc = serve

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.L().Info("gateway listening",
		zap.String("addr", srv.Addr),
		zap.String("upstream", cfg.UpstreamAPIURL),
	)
	return startServerFunc(ctx, srv)
}

// newServer wires the category stack. The rate limiter janitor runs until ctx
// is done.
func newServer(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	hierarchy, err := category.LoadHierarchy(cfg.HierarchyFile)
	if err != nil {
		return nil, err
	}

	client := upstream.NewClient(cfg.UpstreamAPIURL, cfg.UpstreamTimeout)
	categorySvc := category.NewService(category.NewRepository(client), hierarchy)

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	go limiter.Run(ctx)

	return api.New(categorySvc, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		Limiter:        limiter,
		UpstreamStats:  client.Stats,
	}), nil
}

// serve blocks until srv fails or ctx is done, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
