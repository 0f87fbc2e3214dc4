package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/infrastructure/backend"
	"github.com/sangkips/pos-terminal/internal/infrastructure/database"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
	"github.com/sangkips/pos-terminal/internal/infrastructure/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/handler"
	"github.com/sangkips/pos-terminal/internal/presentation/http/routes"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/sangkips/pos-terminal/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the local journal database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Local repositories
	journalRepo := repository.NewSaleJournalRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Backend client and repositories
	client, err := backend.NewClient(backend.Options{
		BaseURL:      cfg.Backend.BaseURL,
		Timeout:      cfg.Backend.Timeout,
		ServiceToken: cfg.Backend.ServiceToken,
		MaxPages:     cfg.Backend.MaxPages,
	})
	if err != nil {
		log.Fatalf("Failed to configure backend client: %v", err)
	}
	registerRepo := backend.NewRegisterRepository(client)
	sessionRepo := backend.NewSessionRepository(client)
	catalogRepo := backend.NewCatalogRepository(client)
	partnerRepo := backend.NewPartnerRepository(client)
	paymentRepo := backend.NewPaymentRepository(client)
	saleRepo := backend.NewSaleRepository(client)

	// Event bus, optionally forwarded to RabbitMQ
	bus := events.NewBus()
	if cfg.Events.AMQPURL != "" {
		forwarder, err := events.NewAMQPForwarder(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			log.Printf("Warning: Failed to initialize event forwarder: %v", err)
		} else {
			forwarder.Attach(bus)
			defer forwarder.Close()
		}
	}

	// Initialize receipt printer
	receiptPrinter, err := printer.NewPrinterFromConfig(printer.Options{
		Type:     cfg.Printer.Type,
		USBPath:  cfg.Printer.USBPath,
		Address:  cfg.Printer.Address,
		SpoolDir: cfg.Printer.SpoolDir,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		receiptPrinter = printer.NewNullPrinter()
	}
	defer receiptPrinter.Close()

	// Workstations, one per terminal
	store := service.NewWorkstationStore(cfg.POS.TerminalIdleTTL, utils.NewLineID)
	store.StartCleanup(ctx, time.Minute)

	// Initialize services
	taxRate := cfg.POS.TaxRate
	registerService := service.NewRegisterService(registerRepo, sessionRepo)
	sessionService := service.NewSessionService(sessionRepo, bus)
	catalogService := service.NewCatalogService(catalogRepo, partnerRepo, paymentRepo)
	catalogService.Subscribe(bus, store)
	cartService := service.NewCartService(catalogService, taxRate)
	receiptService := service.NewReceiptService(receiptPrinter, journalRepo, service.ReceiptConfig{
		Header: entity.ReceiptHeader{
			StoreName: cfg.POS.StoreName,
			Address:   cfg.POS.StoreAddress,
			Phone:     cfg.POS.StorePhone,
			TaxID:     cfg.POS.StoreTaxID,
		},
		CurrencySymbol: cfg.POS.CurrencySymbol,
		Width:          cfg.Printer.Width,
	})
	checkoutService := service.NewCheckoutService(saleRepo, journalRepo, sessionService, catalogService, receiptService, bus, taxRate)
	reportService := service.NewReportService(journalRepo)

	// Expired idempotency keys are purged hourly
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
					log.Printf("Warning: failed to purge idempotency keys: %v", err)
				}
			}
		}
	}()

	// Initialize handlers
	handlers := &routes.Handlers{
		Terminal: handler.NewTerminalHandler(store, taxRate),
		Register: handler.NewRegisterHandler(registerService, taxRate),
		Session:  handler.NewSessionHandler(sessionService, taxRate),
		Catalog:  handler.NewCatalogHandler(catalogService, taxRate),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService, taxRate),
		Receipt:  handler.NewReceiptHandler(receiptService, taxRate),
		Report:   handler.NewReportHandler(reportService),
		Event:    handler.NewEventHandler(bus),
	}

	rateLimiter := routes.NewRateLimiter(cfg)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Inspector:       utils.NewTokenInspector(cfg.JWT.Secret),
		Store:           store,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s, backend: %s", cfg.App.Env, cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	// In-flight checkouts get the backend timeout to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}
