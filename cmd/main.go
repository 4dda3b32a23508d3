package main

import (
	"context"
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"tradesync/internal/caching"
	"tradesync/internal/config"
	"tradesync/internal/handlers"
	"tradesync/internal/jobs"
	"tradesync/internal/jobs/background"
	"tradesync/internal/repositories"
	"tradesync/internal/services"
	"tradesync/internal/sync"
	"tradesync/internal/trademaster"
	"tradesync/pkg/database"
)

const version = "1.0.0"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create repositories
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Vendor client
	client := trademaster.NewClient(cfg.TradeMaster)

	// Task queue
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	enqueuer := jobs.NewEnqueuer(asynqClient)

	// Image caching is optional; without it photos stay on the vendor host.
	var imageSvc *services.ImageService
	var imageEnqueuer sync.ImageEnqueuer
	if cfg.TradeMaster.FileCaching {
		store, err := services.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize object store: %v", err)
		}
		imageSvc = services.NewImageService(store, cfg)
		if err := imageSvc.EnsureBucket(ctx); err != nil {
			log.Fatalf("Failed to prepare image bucket: %v", err)
		}
		imageEnqueuer = enqueuer
	}

	// Core sync components
	syncer := sync.NewSyncer(client, categoryRepo, productRepo, imageEnqueuer, cfg)
	mailer := services.NewMailService(cfg)
	sender := sync.NewOrderSender(client, orderRepo, productRepo, mailer, cfg)

	// Task worker
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1, // the vendor API does not tolerate concurrent calls
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	jobs.NewHandlers(syncer, sender, imageSvc, cacheSvc).Register(mux)
	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Task worker stopped: %v", err)
		}
	}()

	// Background scheduler
	scheduler, err := background.NewJobScheduler(enqueuer, orderRepo, cfg)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP ops surface
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)
	catalogHandlers := handlers.NewCatalogHandlers(categoryRepo, productRepo, cacheSvc)
	syncHandlers := handlers.NewSyncHandlers(enqueuer, cacheSvc)
	orderHandlers := handlers.NewOrderHandlers(orderRepo, enqueuer)

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")
	v1.GET("/categories", catalogHandlers.ListCategories)
	v1.GET("/products", catalogHandlers.ListProducts)
	v1.POST("/sync", syncHandlers.TriggerSync)
	v1.GET("/sync/status", syncHandlers.SyncStatus)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.POST("/orders/:id/send", orderHandlers.SendOrder)

	log.Fatal(e.Start(cfg.Server.Addr))
}
