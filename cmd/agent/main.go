package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/application/service"
	"github.com/codapos/pos-agent/internal/config"
	"github.com/codapos/pos-agent/internal/infrastructure/api"
	"github.com/codapos/pos-agent/internal/infrastructure/store"
	"github.com/codapos/pos-agent/internal/presentation/http/handler"
	"github.com/codapos/pos-agent/internal/presentation/http/routes"
	"github.com/codapos/pos-agent/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the local store
	db, err := store.NewSQLiteDB(&cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	// Run auto-migrations
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize stores
	printerStore := store.NewPrinterStore(db)
	sessionStore := store.NewSessionStore(db)

	// Initialize the upstream API client
	client := api.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	deliveryAPI := api.NewDeliveryAPI(client)
	chatAPI := api.NewChatAPI(client)

	// Initialize services
	sessionService := service.NewSessionService(client, sessionStore)

	receiptService := service.NewReceiptService()

	dialers := map[string]printer.Dialer{
		"serial":  printer.NewSerialDialer(cfg.Printer.BaudRate),
		"network": printer.NewNetworkDialer(cfg.Printer.ConnectTimeout),
	}
	printerService := service.NewPrinterService(dialers, printerStore, receiptService, cfg.Printer.ConnectTimeout, cfg.Printer.ChunkDelay)

	deliveryService := service.NewDeliveryService(deliveryAPI, cfg.Polling.OrderInterval, nil)
	chatService := service.NewChatService(chatAPI, cfg.Polling.OrderInterval, cfg.Polling.ChatInterval, nil)

	// Pollers follow the session: they start when a usable token is loaded
	// (restored or handed over) and pause when the session dies.
	sessionService.OnActivated(func() {
		startCtx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		defer cancel()
		deliveryService.Start(startCtx)
		chatService.Start(startCtx)
	})
	sessionService.OnExpired(func() {
		chatService.Stop()
		deliveryService.Stop()
	})
	sessionService.Restore()

	// Initialize handlers
	handlers := &routes.Handlers{
		Printer:  handler.NewPrinterHandler(printerService, receiptService),
		Delivery: handler.NewDeliveryHandler(deliveryService),
		Chat:     handler.NewChatHandler(chatService),
		Session:  handler.NewSessionHandler(sessionService),
	}

	// Setup routes
	router := routes.Setup(handlers, cfg)

	port := cfg.App.Port
	if port == "" {
		port = "3491"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting %s on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until interrupted, then stop pollers and drain the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	chatService.Stop()
	deliveryService.Stop()
	printerService.Disconnect()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Agent stopped")
}
