package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nichelabs/nichenav/internal/api"
	"github.com/nichelabs/nichenav/internal/auth"
	"github.com/nichelabs/nichenav/internal/billing"
	"github.com/nichelabs/nichenav/internal/cache"
	"github.com/nichelabs/nichenav/internal/database"
	"github.com/nichelabs/nichenav/internal/events"
	"github.com/nichelabs/nichenav/internal/generator"
	"github.com/nichelabs/nichenav/internal/provider"
	"github.com/nichelabs/nichenav/internal/telemetry"
	"github.com/nichelabs/nichenav/pkg/config"
	"github.com/nichelabs/nichenav/pkg/models"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	if *showVersion {
		fmt.Printf("NicheNav v%s\n", version)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config from %s: %v", *configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Initialize OpenTelemetry
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.InitTelemetry(context.Background(), "nichenav", cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			log.Printf("Warning: Failed to initialize telemetry: %v", err)
		} else {
			defer func() {
				if err := shutdownTelemetry(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	db, err := database.NewPostgres(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	authManager := auth.NewManager(db, cfg.Security.JWTSecret, cfg.Security.TokenTTL.Std())

	gen, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("failed to set up generator: %v", err)
	}

	hub := events.NewHub(nil)

	billingService := billing.NewService(db, cfg.Billing)
	billingService.OnSubscriptionChange(func(userID string, status models.SubscriptionStatus) {
		hub.Publish(events.EventSubscriptionChanged, userID, map[string]interface{}{
			"status": status,
		})
	})

	// Reload announcements only; connections and secrets need a restart.
	watcher, err := config.NewWatcher(*configPath, func(updated *config.Config) {
		log.Printf("Configuration file changed; restart to apply connection settings")
	})
	if err != nil {
		log.Printf("Config watching disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	apiServer := api.NewServer(db, authManager, gen, billingService, hub, cfg)
	handler := apiServer.SetupRoutes()

	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "nichenav-http-server")
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	go func() {
		log.Printf("NicheNav API listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(shutdownCtx)
}

// loadConfig reads the config file; a missing file falls back to the
// defaults plus environment overrides so the server can run without one.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfigFromFile(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		log.Printf("Config file %s not found; using defaults", path)
		cfg = config.DefaultConfig()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return nil, err
}

// buildGenerator wires the LLM provider and the configured cache backend
func buildGenerator(cfg *config.Config) (*generator.Generator, error) {
	p := provider.NewOpenAIProvider(cfg.Provider.Endpoint, cfg.Provider.APIKey, cfg.Provider.Timeout.Std())

	cacheConfig := &cache.Config{
		Enabled:    cfg.Cache.Enabled,
		DefaultTTL: cfg.Cache.DefaultTTL.Std(),
		MaxSize:    cfg.Cache.MaxSize,
	}

	var c *cache.Cache
	if cfg.Cache.Backend == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cacheConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Printf("Using redis generation cache at %s", cfg.Cache.RedisURL)
		c = cache.NewFromRedis(redisCache)
	} else {
		c = cache.New(cacheConfig)
	}

	return generator.New(p, c, cfg.Provider.Model), nil
}

func printHelp() {
	fmt.Println("Usage: nichenav [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config   Path to configuration file (default: config.yaml)")
	fmt.Println("  -version  Show version information")
	fmt.Println("  -help     Show help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  DATABASE_DSN           PostgreSQL connection string")
	fmt.Println("  OPENROUTER_API_KEY     API key for the generation provider")
	fmt.Println("  STRIPE_SECRET_KEY      Stripe API secret key")
	fmt.Println("  STRIPE_WEBHOOK_SECRET  Stripe webhook signing secret")
	fmt.Println("  NICHENAV_JWT_SECRET    JWT signing secret")
	fmt.Println("  REDIS_URL              Redis address for the generation cache")
}
