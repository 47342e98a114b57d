package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dc4ndre/ecommerce-website/config"
	"github.com/dc4ndre/ecommerce-website/internal/api"
	"github.com/dc4ndre/ecommerce-website/internal/broker"
	"github.com/dc4ndre/ecommerce-website/internal/notify"
	"github.com/dc4ndre/ecommerce-website/internal/redisclient"
	"github.com/dc4ndre/ecommerce-website/internal/service"
	"github.com/dc4ndre/ecommerce-website/internal/state"
	"github.com/dc4ndre/ecommerce-website/internal/store"
	"github.com/dc4ndre/ecommerce-website/internal/util"
	"github.com/dc4ndre/ecommerce-website/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	sessions := state.NewSessionStore(cfg.Session.HistorySize, cfg.Session.IdleTTL)
	categoryTree := state.NewCategoryTree()
	orderQueue := state.NewOrderQueue()

	stockClient := service.NewStockClient(db, redisClient)
	authService := service.NewAuthService(db, redisClient, sessions, cfg.Session)
	catalogService := service.NewCatalogService(db, redisClient, categoryTree, sessions)
	cartService := service.NewCartService(db, redisClient, sessions)
	orderService := service.NewOrderService(db, stockClient, cartService, orderQueue, eventPublisher)
	fulfiller := service.NewFulfiller(db, orderQueue, eventPublisher, cfg.Fulfillment)

	ctx := context.Background()
	if err := catalogService.LoadCatalog(ctx); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Println("Catalog loaded into category tree")

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go sessions.Run(workerCtx, cfg.Session.SweepInterval)

	notifier := notify.NewEmailNotifier(getEnvDefault("EMAIL_FROM", "no-reply@budolbox.ph"))
	orderConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders, cfg.Kafka.ConsumerGroup)
	notificationWorker := worker.NewNotificationWorker(orderConsumer, notifier)
	go func() {
		if err := notificationWorker.Start(workerCtx); err != nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(authService, catalogService, cartService, orderService, fulfiller, cfg.Upload)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	notificationWorker.Stop()
	fulfiller.Stop()

	log.Println("Server exited")
}

func getEnvDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
