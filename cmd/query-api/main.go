package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/market-query-api/internal/fixtures"
	"github.com/Sternrassler/market-query-api/pkg/api"
	"github.com/Sternrassler/market-query-api/pkg/auth"
	"github.com/Sternrassler/market-query-api/pkg/cache"
	"github.com/Sternrassler/market-query-api/pkg/config"
	"github.com/Sternrassler/market-query-api/pkg/logging"
	"github.com/Sternrassler/market-query-api/pkg/query"
	"github.com/Sternrassler/market-query-api/pkg/retry"
	"github.com/Sternrassler/market-query-api/pkg/store"
	"github.com/Sternrassler/market-query-api/pkg/store/migrations"
	"github.com/Sternrassler/market-query-api/pkg/store/postgres"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	migrate    bool
	seed       bool
	issueToken string
	tokenTTL   time.Duration
}

func main() {
	var opts options
	flag.BoolVar(&opts.migrate, "migrate", false, "apply database migrations before serving")
	flag.BoolVar(&opts.seed, "seed", false, "insert the sample dataset after migrating (implies -migrate)")
	flag.StringVar(&opts.issueToken, "issue-token", "", "print a bearer token for `subject` and exit")
	flag.DurationVar(&opts.tokenTTL, "token-ttl", 24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Output:  os.Stderr,
		Service: "market-query-api",
	})

	if opts.issueToken != "" {
		token, err := issueToken(cfg, opts.issueToken, opts.tokenTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to issue token")
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func issueToken(cfg *config.Config, subject string, ttl time.Duration) (string, error) {
	verifier, err := auth.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	if err != nil {
		return "", err
	}
	return verifier.Issue(subject, ttl)
}

func run(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger) error {
	startup := logging.NewLogger("startup")

	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		return err
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	err = retry.Do(ctx, "redis_connect", retry.DefaultConfig(), func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	startup.Info().Str("addr", redisOpts.Addr).Int("db", redisOpts.DB).Msg("Connected to Redis")

	var pool *postgres.Pool
	err = retry.Do(ctx, "postgres_connect", retry.DefaultConfig(), func(ctx context.Context) error {
		var err error
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		return err
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	startup.Info().Int("max_conns", cfg.DBMaxConns).Msg("Connected to PostgreSQL")

	if opts.migrate || opts.seed {
		if err := migrations.Up(ctx, pool.Pool); err != nil {
			return err
		}
		startup.Info().Msg("Migrations applied")
	}
	if opts.seed {
		err := fixtures.Seed(ctx,
			postgres.NewTradeStore(pool),
			postgres.NewMetadataStore(pool),
			postgres.NewReportStore(pool),
		)
		if err != nil {
			return err
		}
		startup.Info().Msg("Sample dataset inserted")
	}

	manager := cache.NewManager(redisClient)
	if cfg.CachePrefix != "" {
		manager = manager.WithPrefix(cfg.CachePrefix)
	}

	checks := map[string]api.Checker{
		"redis":    manager.Ping,
		"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
	}

	server, err := newServer(cfg, manager, pool.Collections(), checks, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		startup.Info().Str("addr", server.Addr).Msg("Starting query API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	startup.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newServer assembles the HTTP server from its dependencies.
func newServer(cfg *config.Config, c cache.Store, stores store.Collections, checks map[string]api.Checker, logger zerolog.Logger) (*http.Server, error) {
	verifier, err := auth.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.GinMode)

	router := api.NewRouter(api.Config{
		Service:        query.NewService(c, stores, logger, query.WithQueryTimeout(cfg.RequestTimeout)),
		Verifier:       verifier,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		Checks:         checks,
	})

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
