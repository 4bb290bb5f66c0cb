// cmd/api/main.go
package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
	"github.com/your-org/product-cart/internal/domain/order"
	"github.com/your-org/product-cart/internal/infrastructure/messaging/rabbitmq"
	"github.com/your-org/product-cart/internal/infrastructure/storage"
	"github.com/your-org/product-cart/internal/interfaces/http"
	"github.com/your-org/product-cart/internal/interfaces/http/routes"
	"github.com/your-org/product-cart/internal/pkg/logger"
	"github.com/your-org/product-cart/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg)

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Open cart storage
	backends, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open cart storage: %v", err)
	}
	defer backends.Close()

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	if err := backends.Cart.Ping(healthCtx); err != nil {
		cancelHealth()
		log.Fatalf("Cart storage health check failed: %v", err)
	}
	cancelHealth()

	// Load the product catalog; the storefront cannot run without it
	catalogCtx, cancelCatalog := context.WithTimeout(context.Background(), cfg.Catalog.FetchTimeout)
	products, err := catalog.Load(catalogCtx, cfg.Catalog.Source, &nethttp.Client{Timeout: cfg.Catalog.FetchTimeout}, appLog)
	cancelCatalog()
	if err != nil {
		log.Fatalf("Failed to load catalog from %s: %v", cfg.Catalog.Source, err)
	}
	log.Printf("📦 Loaded %d products from %s", products.Len(), cfg.Catalog.Source)

	// Order events are optional
	var publisher order.Publisher
	if cfg.Messaging.RabbitMQURL != "" {
		rabbit, err := rabbitmq.NewPublisher(cfg.Messaging.RabbitMQURL, cfg.Messaging.Exchange, appLog)
		if err != nil {
			log.Printf("Warning: order events disabled: %v", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
			log.Printf("📨 Publishing order events to exchange %s", cfg.Messaging.Exchange)
		}
	}

	if !cfg.AuthEnabled() {
		log.Println("⚠️ JWT_SECRET not set; all carts are guest carts")
	}

	carts := cart.NewService(backends.Cart, cfg.Storage.CartKeyPrefix, appLog)
	deps := routes.Dependencies{
		Catalog:  products,
		Carts:    carts,
		Orders:   order.NewService(carts, products, publisher, appLog),
		Receipts: pdf.NewService(cfg),
		Log:      appLog,
	}

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, backends.Cart, backends.Redis, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}
