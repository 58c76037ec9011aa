package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Courtside/internal/archive"
	"github.com/XavierBriggs/Courtside/internal/clock"
	"github.com/XavierBriggs/Courtside/internal/export"
	"github.com/XavierBriggs/Courtside/internal/persist"
	"github.com/XavierBriggs/Courtside/internal/share"
	"github.com/XavierBriggs/Courtside/internal/store"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	config := loadConfig(logger)

	// Initialize Redis connection for game-state persistence. Persistence
	// is best-effort: an unreachable Redis downgrades to in-memory play,
	// it never blocks the game.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisURL,
		Password: config.RedisPassword,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, persistence degraded", "err", err)
	} else {
		logger.Info("connected to redis", "addr", config.RedisURL)
	}

	// Optional archive DB for finished games
	var archiveWriter *archive.Writer
	if config.ArchiveDSN != "" {
		db, err := sql.Open("postgres", config.ArchiveDSN)
		if err != nil {
			logger.Warn("archive db open failed, archival disabled", "err", err)
		} else {
			defer db.Close()
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("archive db unreachable, archival disabled", "err", err)
			} else {
				archiveWriter = archive.NewWriter(db, redisClient, logger)
				logger.Info("connected to archive db")
			}
		}
	}

	gameStore := store.NewStore(store.DefaultConfig(), logger)

	// Rehydrate the previous session, if any
	adapter := persist.NewAdapter(persist.NewRedisBlobs(redisClient), logger)
	if state, ok := adapter.Restore(ctx); ok {
		gameStore.Restore(state)
		logger.Info("restored game",
			"game_id", state.GameID,
			"period", state.Period,
			"clock", state.Clock,
			"score", state.HomeTeam.Score,
			"opp_score", state.AwayTeam.Score,
		)
	} else {
		logger.Info("no saved game, starting empty")
	}

	gameStore.OnChange(adapter.Notify)
	adapter.Start(ctx)

	driver := clock.NewDriver(gameStore, config.TickInterval, logger)
	driver.Start(ctx)

	logger.Info("courtside started")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	driver.Stop()
	adapter.Stop()

	// Archive and export whatever game is live; in-memory state was
	// already persisted, so a failure here loses nothing.
	finalState := gameStore.Snapshot()
	if finalState.GameID != "" {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if archiveWriter != nil {
			if err := archiveWriter.ArchiveGame(shutdownCtx, finalState); err != nil {
				logger.Warn("game archive failed", "err", err)
			}
		}

		if config.ShareURL != "" {
			exporter := export.NewExporter(share.NewClient(config.ShareURL), "", logger)
			if err := exporter.Export(shutdownCtx, finalState, gameDate(finalState.GameID)); err != nil {
				logger.Warn("stats export failed", "err", err)
			}
		}
	}

	logger.Info("courtside stopped")
}

// Config holds Courtside configuration
type Config struct {
	RedisURL      string
	RedisPassword string
	ArchiveDSN    string
	ShareURL      string
	TickInterval  time.Duration
}

// gameDate renders a game ID (millisecond epoch) as a display date.
func gameDate(gameID string) string {
	ms, err := strconv.ParseInt(gameID, 10, 64)
	if err != nil {
		return gameID
	}
	return time.UnixMilli(ms).Format("2006-01-02")
}

// loadConfig loads configuration from environment variables
func loadConfig(logger *slog.Logger) Config {
	tick := time.Second
	if tickStr := os.Getenv("COURTSIDE_TICK"); tickStr != "" {
		if parsed, err := time.ParseDuration(tickStr); err == nil && parsed > 0 {
			tick = parsed
		} else {
			logger.Warn("invalid COURTSIDE_TICK, using 1s", "value", tickStr)
		}
	}

	return Config{
		RedisURL:      getEnv("COURTSIDE_REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("COURTSIDE_REDIS_PASSWORD"),
		ArchiveDSN:    os.Getenv("COURTSIDE_ARCHIVE_DSN"),
		ShareURL:      os.Getenv("COURTSIDE_SHARE_URL"),
		TickInterval:  tick,
	}
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
