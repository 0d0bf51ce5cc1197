// main.go
//
// Entry point for the word-duel backend. Responsibilities:
//   - Load .env (optional) and configure logging.
//   - Load the word lists (env-overridable, embedded defaults).
//   - Open SQLite and pick the game-state store (STORE=memory|sqlite).
//   - Start the session and room registries with their idle sweepers.
//   - Serve HTTP.

package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordduel/server/internal/db"
	"github.com/wordduel/server/internal/game"
	"github.com/wordduel/server/internal/httpserver"
	"github.com/wordduel/server/internal/registry"
	"github.com/wordduel/server/internal/store"
	"github.com/wordduel/server/internal/words"
)

func main() {
	_ = godotenv.Load() // optional in production

	setupLogging()

	list, err := words.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load word lists")
	}
	answers, allowed := list.Stats()
	log.Info().Int("answers", answers).Int("allowed", allowed).Msg("word lists loaded")

	dbPath := getEnv("DB_PATH", "data/wordduel.db")
	conn, err := db.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("open database")
	}
	defer conn.Close()

	var st store.Store
	switch getEnv("STORE", "sqlite") {
	case "memory":
		st = store.NewMemoryStore()
	case "sqlite":
		st, err = store.NewSQLiteStore(conn)
		if err != nil {
			log.Fatal().Err(err).Msg("init sqlite store")
		}
	default:
		log.Fatal().Str("store", os.Getenv("STORE")).Msg("unknown STORE (want memory or sqlite)")
	}

	cfg := game.Config{Vocab: list, MaxRounds: envInt("MAX_ROUNDS", game.DefaultMaxRounds)}
	ttl := time.Duration(envInt("SESSION_TTL_MINUTES", 30)) * time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := registry.NewSessions(cfg, st, ttl)
	sessions.Start(ctx)
	rooms := registry.NewRooms(cfg, ttl)
	rooms.Start(ctx)

	srv := httpserver.New(sessions, rooms, list, conn)

	addr := ":" + getEnv("PORT", "8080")
	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// setupLogging configures zerolog: pretty console output in dev, JSON in
// production, level from LOG_LEVEL.
func setupLogging() {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if os.Getenv("NODE_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
