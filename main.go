// main.go
//
// Entry point for the unscramble server.
// Startup order: .env → log level → config → SQLite + migrations → word source →
// save-game backend → HTTP server (plus the idle-session sweeper).

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unscrambler/internal/config"
	"github.com/robalobadob/unscrambler/internal/db"
	"github.com/robalobadob/unscrambler/internal/httpserver"
	"github.com/robalobadob/unscrambler/internal/savegame"
	"github.com/robalobadob/unscrambler/internal/store"
	"github.com/robalobadob/unscrambler/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	src, err := wordSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	saves, err := saveBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("save-game backend")
	}

	srv := httpserver.New(httpserver.Options{
		Game:           cfg.Game(),
		JWTSecret:      cfg.JWTSecret,
		JWTExpiresDays: cfg.JWTExpiresDays,
		CookieName:     cfg.CookieName,
		ClientOrigin:   cfg.ClientOrigin,
		Production:     cfg.Production,
	}, store.NewMemoryStore(), conn, src, saves)
	go srv.SweepLoop(ctx, time.Minute, 30*time.Minute)

	log.Info().Str("port", cfg.Port).Str("words", cfg.WordSource).Msg("starting unscramble server")
	go func() {
		if err := srv.Start(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()
	<-ctx.Done()
	log.Info().Msg("shutting down")
}

// wordSource picks the remote APIs or the offline list. A WORDS_FILE always
// means offline play.
func wordSource(cfg config.Config) (words.Source, error) {
	if cfg.WordSource == "embedded" || cfg.WordsFile != "" {
		e, err := words.LoadEmbedded(cfg.WordsFile)
		if err != nil {
			return nil, err
		}
		n, longest := e.Stats()
		log.Info().Int("words", n).Int("maxLength", longest).Msg("offline word list loaded")
		return e, nil
	}
	return words.NewClient(words.ClientOptions{
		WordAPIURL:       cfg.WordAPIURL,
		DictionaryAPIURL: cfg.DictionaryAPIURL,
		Timeout:          cfg.Timeout(),
	}), nil
}

func saveBackend(ctx context.Context, cfg config.Config) (savegame.Store, error) {
	if cfg.RedisAddr != "" {
		rs, err := savegame.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("saving games to redis")
		return rs, nil
	}
	log.Info().Str("dir", cfg.SaveDir).Msg("saving games to disk")
	return savegame.NewFileStore(cfg.SaveDir)
}
