package config

import (
	"errors"
	"fmt"
	"ongkir-service/internal/adapters/osm"
	"ongkir-service/internal/domain"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CacheNone     = "none"
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// Config holds all settings of the fare estimator.
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	Home      domain.Coordinates
	HomeLabel string
	MapCenter domain.Coordinates
	MapZoom   int

	Pricing  domain.PricingConfig
	Currency string
	Locale   string

	NominatimURL      string
	OSRMURL           string
	UserAgent         string
	SearchLimit       int
	HTTPTimeout       time.Duration
	HTTPRetryAttempts int

	CacheDriver string
	CacheDSN    string
	CacheTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	DiscardStale       bool
	SessionIdleTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")

	v.SetDefault("HOME_LAT", -6.242476645426871)
	v.SetDefault("HOME_LON", 107.07192446114526)
	v.SetDefault("HOME_LABEL", "your home")
	v.SetDefault("MAP_CENTER_LAT", -6.2088)
	v.SetDefault("MAP_CENTER_LON", 106.8456)
	v.SetDefault("MAP_ZOOM", 10)

	v.SetDefault("PRICING_MODE", string(domain.PricingRoundTripWithBase))
	v.SetDefault("BASE_FEE", 20000)
	v.SetDefault("PER_KM_RATE", 1800)
	v.SetDefault("ROUNDING_UNIT", domain.DefaultRoundingUnit)
	v.SetDefault("CURRENCY", "IDR")
	v.SetDefault("LOCALE", "id")

	v.SetDefault("NOMINATIM_URL", osm.DefaultNominatimURL)
	v.SetDefault("OSRM_URL", osm.DefaultOSRMURL)
	v.SetDefault("USER_AGENT", "ongkir-service/1.0")
	v.SetDefault("SEARCH_LIMIT", 5)
	v.SetDefault("HTTP_TIMEOUT", "0s")
	v.SetDefault("HTTP_RETRY_ATTEMPTS", 1)

	v.SetDefault("CACHE_DRIVER", CacheNone)
	v.SetDefault("CACHE_DSN", "")
	v.SetDefault("CACHE_TTL", "24h")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "quote.events")

	v.SetDefault("DISCARD_STALE", false)
	v.SetDefault("SESSION_IDLE_TIMEOUT", "30m")
}

// Load reads a .env file if present, then the environment, and validates the result.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		AppEnv:   v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Port:     v.GetString("PORT"),

		Home:      domain.Coordinates{Lat: v.GetFloat64("HOME_LAT"), Lon: v.GetFloat64("HOME_LON")},
		HomeLabel: strings.TrimSpace(v.GetString("HOME_LABEL")),
		MapCenter: domain.Coordinates{Lat: v.GetFloat64("MAP_CENTER_LAT"), Lon: v.GetFloat64("MAP_CENTER_LON")},
		MapZoom:   v.GetInt("MAP_ZOOM"),

		Pricing: domain.PricingConfig{
			Mode:         domain.PricingMode(strings.ToLower(strings.TrimSpace(v.GetString("PRICING_MODE")))),
			BaseFee:      v.GetFloat64("BASE_FEE"),
			PerKmRate:    v.GetFloat64("PER_KM_RATE"),
			RoundingUnit: v.GetFloat64("ROUNDING_UNIT"),
		},
		Currency: strings.ToUpper(strings.TrimSpace(v.GetString("CURRENCY"))),
		Locale:   strings.TrimSpace(v.GetString("LOCALE")),

		NominatimURL:      strings.TrimRight(v.GetString("NOMINATIM_URL"), "/"),
		OSRMURL:           strings.TrimRight(v.GetString("OSRM_URL"), "/"),
		UserAgent:         v.GetString("USER_AGENT"),
		SearchLimit:       v.GetInt("SEARCH_LIMIT"),
		HTTPTimeout:       v.GetDuration("HTTP_TIMEOUT"),
		HTTPRetryAttempts: v.GetInt("HTTP_RETRY_ATTEMPTS"),

		CacheDriver: strings.ToLower(strings.TrimSpace(v.GetString("CACHE_DRIVER"))),
		CacheDSN:    strings.TrimSpace(v.GetString("CACHE_DSN")),
		CacheTTL:    v.GetDuration("CACHE_TTL"),

		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   strings.TrimSpace(v.GetString("KAFKA_TOPIC")),

		DiscardStale:       v.GetBool("DISCARD_STALE"),
		SessionIdleTimeout: v.GetDuration("SESSION_IDLE_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail at the first request.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Home.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("HOME_LAT/HOME_LON: %w", err))
	}
	if err := c.MapCenter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("MAP_CENTER_LAT/MAP_CENTER_LON: %w", err))
	}
	if c.MapZoom < 0 || c.MapZoom > 19 {
		errs = append(errs, fmt.Errorf("MAP_ZOOM: %d out of range 0-19", c.MapZoom))
	}
	if err := c.Pricing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pricing: %w", err))
	}
	if c.SearchLimit < 1 || c.SearchLimit > 50 {
		errs = append(errs, fmt.Errorf("SEARCH_LIMIT: %d out of range 1-50", c.SearchLimit))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT: must not be negative"))
	}
	if c.HTTPRetryAttempts < 1 {
		errs = append(errs, errors.New("HTTP_RETRY_ATTEMPTS: must be at least 1"))
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, errors.New("USER_AGENT is required"))
	}

	switch c.CacheDriver {
	case CacheNone:
	case CacheSqlite, CachePostgres, CacheRedis:
		if c.CacheDSN == "" {
			errs = append(errs, fmt.Errorf("CACHE_DSN is required for CACHE_DRIVER=%s", c.CacheDriver))
		}
		if c.CacheTTL <= 0 {
			errs = append(errs, errors.New("CACHE_TTL: must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_DRIVER: unknown driver %q", c.CacheDriver))
	}

	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.SessionIdleTimeout <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TIMEOUT: must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
