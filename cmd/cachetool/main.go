package main

import (
	"context"
	"flag"
	"fmt"
	"ongkir-service/internal/adapters/cache"
	"ongkir-service/internal/config"
	"ongkir-service/internal/platform/db"
	"ongkir-service/internal/platform/obs"
	"os"
	"time"

	"go.uber.org/zap"
)

const usage = `usage: cachetool <command>

commands:
  init   create the lookup cache schema
  purge  delete expired lookup cache entries

CACHE_DRIVER (sqlite|postgres) and CACHE_DSN select the database.`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

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

	var driver string
	switch cfg.CacheDriver {
	case config.CacheSqlite:
		driver = db.DriverSqlite
	case config.CachePostgres:
		driver = db.DriverPostgres
	default:
		log.Fatal("cachetool works on sql caches only", zap.String("cache_driver", cfg.CacheDriver))
	}

	conn, err := db.Open(driver, cfg.CacheDSN)
	if err != nil {
		log.Fatal("failed to open cache database", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cmd := flag.Arg(0); cmd {
	case "init":
		log.Info("initializing lookup cache schema", zap.String("driver", driver))
		if err := cache.InitSchema(ctx, conn, driver); err != nil {
			log.Fatal("schema initialization failed", zap.Error(err))
		}
		log.Info("schema ready")
	case "purge":
		n, err := cache.PurgeExpired(ctx, conn, driver, time.Now())
		if err != nil {
			log.Fatal("purge failed", zap.Error(err))
		}
		log.Info("purged expired entries", zap.Int64("count", n))
	default:
		flag.Usage()
		os.Exit(2)
	}
}
