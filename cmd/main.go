package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cargaexpress/booking/internal/cache"
	"github.com/cargaexpress/booking/internal/config"
	"github.com/cargaexpress/booking/internal/db"
	"github.com/cargaexpress/booking/internal/kafka"
	"github.com/cargaexpress/booking/internal/logger"
	"github.com/cargaexpress/booking/internal/repository/postgresql"
	"github.com/cargaexpress/booking/internal/server"
	"github.com/cargaexpress/booking/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	l := logger.New()
	defer func() { _ = l.Sync() }()

	cfg := config.Load()

	var (
		stg       server.Storage
		userRepo  server.UserRepo
		producer  kafka.Producer
		publisher *kafka.Publisher
	)

	switch cfg.StorageBackend {
	case "postgres":
		database, err := db.NewDb(ctx, cfg.DSN())
		if err != nil {
			zap.S().Fatalf("database init error: %v", err)
		}
		defer database.GetPool().Close()

		db.SeedDemoUsers(database)

		shipmentRepo := postgresql.NewShipmentRepo(database)
		historyRepo := postgresql.NewHistoryRepo(database)
		outboxRepo := postgresql.NewOutboxTaskRepo(cfg.OutboxMaxAttempts)

		stg = storage.NewPostgresStorage(database, shipmentRepo, historyRepo, outboxRepo, cfg.AuditTopic)
		userRepo = postgresql.NewUserRepo(database)

		producer = kafka.NewKafkaProducer(cfg.KafkaBrokers)
		publisher = kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxAttempts:  cfg.OutboxMaxAttempts,
		})

	case "file":
		fileStg, err := storage.NewFileStorage(cfg.StorageFile)
		if err != nil {
			zap.S().Fatalf("file storage init error: %v", err)
		}
		stg = fileStg
		userRepo = storage.NewStaticUserRepoFromEnv()
		producer = kafka.NewConsoleProducer()

	default:
		zap.S().Fatalf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	offerCache := cache.NewShipmentCache(stg)
	if err := offerCache.LoadInitialData(ctx); err != nil {
		zap.S().Fatalf("failed to warm offer cache: %v", err)
	}

	auditManager := server.NewAuditManager(cfg.AuditWorkers, cfg.AuditBatchSize, cfg.AuditTimeout, producer, cfg.AuditTopic)

	srv := server.New(stg, userRepo, offerCache, auditManager)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gCtx, cfg.HTTPPort)
	})

	if publisher != nil {
		g.Go(func() error {
			publisher.Run(gCtx)
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Fatalf("service exited with error: %v", err)
	}

	log.Println("Server gracefully stopped")
}
