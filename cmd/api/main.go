package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abenov/filestash/internal/auth"
	"github.com/abenov/filestash/internal/config"
	"github.com/abenov/filestash/internal/file"
	"github.com/abenov/filestash/internal/metrics"
	"github.com/abenov/filestash/internal/queue"
	"github.com/abenov/filestash/internal/server"
	"github.com/abenov/filestash/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := storage.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer redisClient.Close()

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("init content store: %v", err)
	}

	authRepo := auth.NewRepository(dbPool)
	sessions := auth.NewRedisSessions(redisClient)
	authService := auth.NewService(authRepo, sessions, cfg.Auth)

	fileRepo := file.NewRepository(dbPool)
	emitter := queue.NewRedisEmitter(redisClient, cfg.Queue.ThumbnailList)
	fileService := file.NewService(fileRepo, blobs, emitter)

	metrics.InitMetrics()

	router := server.NewRouter(server.Dependencies{
		Config:      cfg,
		DB:          dbPool,
		Redis:       redisClient,
		AuthService: authService,
		AuthRepo:    authRepo,
		FileService: fileService,
		FileRepo:    fileRepo,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Filestash API listening on %s", cfg.Server.Address())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("shutting down gracefully...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig) (file.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendS3:
		client, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
			return nil, err
		}
		return file.NewMinIOStore(client, cfg.MinIO.Bucket), nil
	default:
		return file.NewDiskStore(cfg.Root), nil
	}
}
