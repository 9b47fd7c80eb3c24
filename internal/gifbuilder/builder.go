// Package gifbuilder wires configuration into the renderer's optional
// services: the Redis output cache and the theme catalog, with a fail-fast
// check of the engine binary when one is configured.
package gifbuilder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/chessgif/internal/config"
	"github.com/park285/chessgif/internal/gifcache"
	"github.com/park285/chessgif/internal/themecat"
)

// Deps bundles the services built from one AppConfig. Cache stays nil when
// no Redis is configured; rendering itself needs neither.
type Deps struct {
	Cache   *gifcache.Cache
	Catalog *themecat.Catalog

	rdb *redis.Client
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if path := strings.TrimSpace(cfg.StockfishPath); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("engine binary check: %w", err)
		}
		logger.Info("engine configured",
			zap.String("binary", path),
			zap.Int("depth", cfg.EngineDepth),
			zap.Int("workers", cfg.EngineWorkers))
	}

	deps := &Deps{}

	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, err := parseRedisURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}

		deps.rdb = rdb
		deps.Cache = gifcache.New(rdb, time.Duration(cfg.CacheTTLSec)*time.Second)
		logger.Info("gif cache ready", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	}

	catalog, err := themecat.New(cfg.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load theme catalog: %w", err)
	}
	deps.Catalog = catalog

	return deps, nil
}

func (d *Deps) Close() error {
	var errs []error
	if d.rdb != nil {
		if err := d.rdb.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "6379"
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: host + ":" + port, Password: pass, DB: db}, nil
}
