package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"ongkir-service/internal/adapters/cache"
	"ongkir-service/internal/adapters/display"
	"ongkir-service/internal/adapters/events"
	"ongkir-service/internal/adapters/osm"
	"ongkir-service/internal/api"
	"ongkir-service/internal/api/dto"
	"ongkir-service/internal/api/handlers"
	"ongkir-service/internal/config"
	"ongkir-service/internal/platform/db"
	"ongkir-service/internal/platform/obs"
	"ongkir-service/internal/ports"
	"ongkir-service/internal/services"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Nominatim, OSRM, lookup cache, Kafka) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := obs.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	format, err := display.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		log.Fatal("invalid display settings", zap.Error(err))
	}

	httpOpts := osm.ClientOptions{
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.HTTPTimeout,
		MaxAttempts: cfg.HTTPRetryAttempts,
	}
	geocoderOpts := httpOpts
	geocoderOpts.BaseURL = cfg.NominatimURL
	routerOpts := httpOpts
	routerOpts.BaseURL = cfg.OSRMURL

	geocoder, err := osm.NewNominatimGeocoder(geocoderOpts, log)
	if err != nil {
		log.Fatal("failed to create geocoder", zap.Error(err))
	}
	router, err := osm.NewOSRMRouter(routerOpts)
	if err != nil {
		log.Fatal("failed to create router", zap.Error(err))
	}

	var places ports.PlaceLookup = geocoder
	var routes ports.RouteProvider = router

	lookupCache, closeCache, err := openLookupCache(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open lookup cache", zap.Error(err))
	}
	defer closeCache()
	if lookupCache != nil {
		places = cache.NewCachingPlaces(places, lookupCache, log)
		routes = cache.NewCachingRoutes(routes, lookupCache, log)
		log.Info("lookup cache enabled", zap.String("driver", cfg.CacheDriver), zap.Duration("ttl", cfg.CacheTTL))
	}

	var publisher ports.QuotePublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaQuotePublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		defer func() { _ = kp.Close() }()
		publisher = kp
		log.Info("publishing quotes", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	workspaces := handlers.NewWorkspaces(handlers.WorkspaceSettings{
		Geocoder:     services.NewGeocodingClient(places, cfg.SearchLimit, log),
		Router:       services.NewRoutingClient(routes, log),
		Publisher:    publisher,
		Format:       format,
		Logger:       log,
		Home:         cfg.Home,
		HomeLabel:    cfg.HomeLabel,
		MapCenter:    cfg.MapCenter,
		MapZoom:      cfg.MapZoom,
		Pricing:      cfg.Pricing,
		DiscardStale: cfg.DiscardStale,
	}, cfg.SessionIdleTimeout)
	go workspaces.RunJanitor(ctx, time.Minute)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewRouter(api.RouterDeps{
		Workspaces: workspaces,
		Logger:     log,
		Config: dto.ConfigResponse{
			Home:        cfg.Home,
			HomeLabel:   cfg.HomeLabel,
			MapCenter:   cfg.MapCenter,
			MapZoom:     cfg.MapZoom,
			PricingMode: cfg.Pricing.Mode,
			Currency:    format.Currency(),
			Locale:      cfg.Locale,
		},
	})

	// Write timeout leaves room for slow public geocoding and routing servers.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
			zap.String("pricing_mode", string(cfg.Pricing.Mode)),
			zap.Bool("discard_stale", cfg.DiscardStale),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

// openLookupCache returns a nil cache when caching is disabled.
func openLookupCache(ctx context.Context, cfg *config.Config) (ports.LookupCache, func(), error) {
	switch cfg.CacheDriver {
	case config.CacheSqlite, config.CachePostgres:
		driver := db.DriverSqlite
		if cfg.CacheDriver == config.CachePostgres {
			driver = db.DriverPostgres
		}
		conn, err := db.Open(driver, cfg.CacheDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(ctx, conn, driver); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return cache.NewSQLLookupCache(conn, driver, cfg.CacheTTL), func() { _ = conn.Close() }, nil

	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.CacheDSN)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisLookupCache(client, cfg.CacheTTL), func() { _ = client.Close() }, nil
	}
	return nil, func() {}, nil
}
