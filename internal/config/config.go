// Package config reads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig collects every knob the renderer and its tooling read from the
// environment. All fields are optional; zero values fall back to built-in
// defaults downstream.
type AppConfig struct {
	// Engine settings, used only when games need fresh analysis.
	StockfishPath string
	EngineDepth   int
	EngineThreads int
	EngineHashMB  int
	EngineWorkers int

	// Redis-backed output cache. Empty URL disables caching.
	RedisURL    string
	CacheTTLSec int

	// Rendering defaults.
	ThemeDir   string
	BoardTheme string
	PieceSet   string
}

// Load reads the environment. Unparseable numeric values are ignored and the
// defaults kept, matching how the rest of the LOG_* handling behaves.
func Load() *AppConfig {
	cfg := &AppConfig{
		EngineDepth:   15,
		EngineThreads: 1,
		EngineHashMB:  64,
	}

	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.ThemeDir = strings.TrimSpace(os.Getenv("CHESSGIF_THEME_DIR"))
	cfg.BoardTheme = strings.TrimSpace(os.Getenv("CHESSGIF_BOARD_THEME"))
	cfg.PieceSet = strings.TrimSpace(os.Getenv("CHESSGIF_PIECE_SET"))

	if v := strings.TrimSpace(os.Getenv("CHESSGIF_ENGINE_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESSGIF_ENGINE_THREADS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineThreads = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESSGIF_ENGINE_HASH_MB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineHashMB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESSGIF_ENGINE_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineWorkers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESSGIF_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSec = n
		}
	}

	return cfg
}
