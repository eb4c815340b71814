package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efteilucian/price-comaprator-backend/config"
	httpDelivery "github.com/efteilucian/price-comaprator-backend/internal/delivery/http"
	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/efteilucian/price-comaprator-backend/internal/infrastructure/alerts"
	"github.com/efteilucian/price-comaprator-backend/internal/infrastructure/cache"
	"github.com/efteilucian/price-comaprator-backend/internal/infrastructure/catalog"
	"github.com/efteilucian/price-comaprator-backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Price Comparator Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(ctx, cfg.Cache.CleanupInterval)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	source := newCatalogSource(cfg)
	loader := catalog.NewLoader(source, cfg.Catalog.ProductFiles, cfg.Catalog.DiscountFiles)
	catalogService := usecase.NewCatalogService(loader)

	// Drop recommendations cached for the previous snapshot version
	catalogService.OnReload(func(s *domain.Snapshot) {
		if n := memoryCache.DeletePrefix(fmt.Sprintf("recommend:%d:", s.Version-1)); n > 0 {
			log.Printf("Evicted %d cached recommendations from version %d", n, s.Version-1)
		}
	})

	if _, err := catalogService.Reload(ctx); err != nil {
		log.Printf("WARNING: initial catalog load failed, serving an empty catalog: %v", err)
	}
	if cfg.Catalog.ReloadInterval > 0 {
		log.Printf("Catalog reload every %s", cfg.Catalog.ReloadInterval)
		go catalogService.RunPeriodicReload(ctx, cfg.Catalog.ReloadInterval)
	}

	// Initialize usecase layer
	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		MinSimilarity:      cfg.Matching.MinSimilarity,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Matching: similarity>=%.2f, alternatives=%d, debug=%v",
		cfg.Matching.MinSimilarity,
		cfg.Matching.MaxAlternatives,
		cfg.Matching.EnableDebugLogging)

	services := httpDelivery.Services{
		Catalog:   catalogService,
		Basket:    usecase.NewBasketService(matcher, cfg.Matching.EnableDebugLogging),
		Discounts: usecase.NewDiscountService(nil),
		Recommendations: usecase.NewRecommendationService(
			memoryCache,
			catalogService,
			usecase.RecommendationConfig{
				MaxAlternatives:    cfg.Matching.MaxAlternatives,
				CacheTTL:           cfg.Cache.TTL,
				EnableDebugLogging: cfg.Matching.EnableDebugLogging,
			},
		),
		Alerts:  usecase.NewAlertService(alerts.NewMemoryStore(), catalogService),
		History: usecase.NewHistoryService(),
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(services, httpDelivery.HandlerConfig{
		BestDiscountsLimit: cfg.Discounts.BestLimit,
		NewDiscountsDays:   cfg.Discounts.NewDays,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Printf("Server stopped")
}

// newCatalogSource picks where catalog files are read from
func newCatalogSource(cfg *config.Config) domain.CatalogSource {
	switch cfg.Catalog.Source {
	case "http":
		source := catalog.NewHTTPSource(cfg.Catalog.BaseURL, cfg.RateLimit.Remote, cfg.RateLimit.Burst)

		// Enable debug mode in development environment
		if cfg.Server.Environment == "development" {
			source.SetDebug(true)
			log.Printf("Catalog client debug mode enabled")
		}

		log.Printf("Catalog source: %s", cfg.Catalog.BaseURL)
		return source
	default:
		log.Printf("Catalog source: directory %s", cfg.Catalog.DataDir)
		return catalog.NewFileSource(cfg.Catalog.DataDir)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
