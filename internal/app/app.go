package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/adapter/cache/redis"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/adapter/repository/memory"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/config"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/shortcode"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/usecase"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/migrations"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/adapter/delivery/http"
	pgrepo "github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/adapter/repository/postgres"
)

const serviceName = "link-shortener"

// NewLogger returns the request logger: JSON in prod, concise text otherwise.
func NewLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:        slog.LevelInfo,
		Concise:         true,
		QuietDownRoutes: []string{"/api/v1/ping"},
	}

	switch env {
	case config.EnvProd:
		opts.JSON = true
		opts.Concise = false
		opts.RequestHeaders = true
	case config.EnvDev:
		opts.LogLevel = slog.LevelDebug
	}

	return httplog.NewLogger(serviceName, opts)
}

type store struct {
	links  usecase.LinkRepository
	clicks usecase.ClickRepository
	close  func() error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	const op = "app.openStore"

	if cfg.Store.Driver == config.StoreDriverMemory {
		s := memory.New()

		return &store{
			links:  s.Links(),
			clicks: s.Clicks(),
			close:  func() error { return nil },
		}, nil
	}

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnectTimeout(cfg.Postgres.ConnectTimeout),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if err := postgres.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &store{
		links:  pgrepo.NewLinkRepository(db),
		clicks: pgrepo.NewClickRepository(db),
		close:  db.Close,
	}, nil
}

func newRouter(cfg *config.Config, logger *httplog.Logger, s *store, cache usecase.LinkCache) (http.Handler, error) {
	const op = "app.newRouter"

	gen, err := shortcode.New(cfg.ShortCode.Alphabet, cfg.ShortCode.Length)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	notifier := usecase.NewNotifier()
	resolver := usecase.NewCodeResolver(gen, s.links)

	linkUseCase := usecase.NewLinkUseCase(s.links, s.clicks, resolver,
		usecase.WithCache(cache),
		usecase.WithNotifier(notifier),
	)
	clickUseCase := usecase.NewClickUseCase(s.links, s.clicks, usecase.WithNotifier(notifier))
	analyticsUseCase := usecase.NewAnalyticsUseCase(s.links, s.clicks)

	auth := delivery.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer)

	return delivery.NewRouter(logger, auth, cfg.HTTPServer.RequestTimeout,
		linkUseCase, clickUseCase, analyticsUseCase), nil
}

// Run wires the application together and serves HTTP until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg.Env)

	s, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer s.close()

	logger.Info("store opened", slog.String("driver", cfg.Store.Driver))

	var cache usecase.LinkCache
	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
		defer client.Close()

		cache = redis.NewLinkCache(client, cfg.Redis.TTL, logger.Logger)
		logger.Info("link cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.TTL))
	}

	router, err := newRouter(cfg, logger, s, cache)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
