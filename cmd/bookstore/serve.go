package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bookhive/bookstore-api/internal/api"
	"github.com/bookhive/bookstore-api/internal/api/handler"
	"github.com/bookhive/bookstore-api/internal/api/metrics"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/core/service"
	mongodb "github.com/bookhive/bookstore-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookhive/bookstore-api/internal/infrastructure/db/redis"
	"github.com/bookhive/bookstore-api/internal/infrastructure/queue"
	"github.com/bookhive/bookstore-api/internal/infrastructure/storage"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	checks := map[string]handler.Check{}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	accountRepo := mongodb.NewAccountRepository(db)
	bookRepo := mongodb.NewBookRepository(db)

	// --- Redis (optional) ---
	var denylist ports.TokenDenylist
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		denylist = redisdb.NewDenylist(rdb)
		checks["redis"] = redisdb.Ready(rdb, 0)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, logout will not revoke tokens")
	}

	// --- Object store (optional) ---
	var (
		images  ports.ImageStore
		cleaner ports.ObjectCleaner
	)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if cfg.S3.Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			UsePathStyle:  cfg.S3.UsePathStyle,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			CreateBucket:  cfg.S3.CreateBucket,
		})
		if err != nil {
			return err
		}
		images = store
		checks["object_store"] = store.HealthCheck

		c := queue.NewCleaner(cfg.Cleanup.Workers, store, queue.Metrics{
			Results: metrics.CleanupTotal,
			Depth:   metrics.CleanupQueueDepth,
		}, log)
		c.Start(workerCtx)
		defer c.Wait()
		cleaner = c
	} else {
		log.Warn().Msg("S3_BUCKET not set, image uploads are disabled")
	}

	// --- Services ---
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	e := api.NewRouter(api.Deps{
		Auth:           service.NewAuthService(accountRepo, tokens, denylist, log),
		Accounts:       service.NewAccountService(accountRepo, images, cleaner, cfg.Upload.MaxBytes, log),
		Books:          service.NewBookService(bookRepo, images, cleaner, cfg.Upload.MaxBytes, log),
		AccountRepo:    accountRepo,
		Tokens:         tokens,
		Denylist:       denylist,
		Health:         checks,
		Log:            log,
		ExposeErrors:   cfg.ExposeErrors,
		LoginRateLimit: cfg.LoginRateLimit,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		stopWorkers()
		return err
	})

	return g.Wait()
}
