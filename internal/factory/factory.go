// Package factory wires the application together
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/clock"
	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/random"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/lobby"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/npc"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/prompt"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/race"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage/memory"
	redisstorage "github.com/m4dpr0f/cjsr-sub004/internal/storage/redis"
	"github.com/m4dpr0f/cjsr-sub004/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PromptService *prompt.Service
	Registry      *lobby.Registry
	HubManager    *ws.HubManager

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RaceConfig holds per-room settings (optional)
	// If zero value, defaults to model.DefaultRaceConfig()
	RaceConfig model.RaceConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	raceCfg := cfg.RaceConfig
	if raceCfg.Capacity == 0 {
		raceCfg = model.DefaultRaceConfig()
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, raceCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, raceCfg model.RaceConfig, logger *slog.Logger) *App {
	promptService := prompt.New(store, rnd)
	hubManager := ws.NewHubManager(logger)

	// Each room gets its own session worker, NPC simulator and hub.
	// The hub doubles as the session's broadcast sink.
	sessionFactory := func(roomID model.RoomID, onEmpty func(model.RoomID)) *race.Session {
		return race.NewSession(
			roomID,
			raceCfg,
			promptService.Pick,
			hubManager.GetOrCreateHub(roomID),
			npc.New(rnd, logger),
			store,
			clk,
			logger,
			onEmpty,
		)
	}

	registry := lobby.New(sessionFactory, logger)
	registry.SetOnRemove(hubManager.RemoveHub)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		PromptService: promptService,
		Registry:      registry,
		HubManager:    hubManager,
		Logger:        logger,
	}
}

// Close releases the app's long-lived resources
func (a *App) Close() {
	a.Registry.CloseAll()
	a.HubManager.CloseAll()
}
