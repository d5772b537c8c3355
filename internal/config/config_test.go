package config

import (
	"testing"
	"time"

	"github.com/robalobadob/unscrambler/internal/game"
	"github.com/robalobadob/unscrambler/internal/words"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "DATABASE_PATH", "WORD_SOURCE", "WORD_API_URL",
		"DICTIONARY_API_URL", "WORDS_FILE", "HTTP_TIMEOUT_SECONDS", "WORD_BATCH_SIZE",
		"LENGTH_STEP", "ESCALATION", "RESCRAMBLE_ON_MISS", "REDIS_ADDR", "REDIS_PASSWORD",
		"REDIS_DB", "SAVE_DIR", "JWT_SECRET", "JWT_EXPIRES_DAYS", "COOKIE_NAME",
		"CLIENT_ORIGIN", "NODE_ENV",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "5175" {
		t.Errorf("Port = %q, want %q", cfg.Port, "5175")
	}
	if cfg.WordSource != "remote" {
		t.Errorf("WordSource = %q, want %q", cfg.WordSource, "remote")
	}
	if cfg.WordAPIURL != words.DefaultWordAPIURL {
		t.Errorf("WordAPIURL = %q, want %q", cfg.WordAPIURL, words.DefaultWordAPIURL)
	}
	if cfg.LengthStep != game.DefaultLengthStep {
		t.Errorf("LengthStep = %d, want %d", cfg.LengthStep, game.DefaultLengthStep)
	}
	if cfg.Escalation != string(game.EscalateEveryK) {
		t.Errorf("Escalation = %q, want %q", cfg.Escalation, game.EscalateEveryK)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if cfg.Production {
		t.Error("Production = true, want false")
	}
	if got := cfg.Timeout(); got != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", got)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("WORD_SOURCE", "Embedded")
	t.Setenv("WORD_BATCH_SIZE", "8")
	t.Setenv("LENGTH_STEP", "2")
	t.Setenv("ESCALATION", "drain")
	t.Setenv("RESCRAMBLE_ON_MISS", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "2")
	t.Setenv("NODE_ENV", "production")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9000")
	}
	if cfg.WordSource != "embedded" {
		t.Errorf("WordSource = %q, want %q", cfg.WordSource, "embedded")
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Errorf("Redis = %q db %d, want localhost:6379 db 3", cfg.RedisAddr, cfg.RedisDB)
	}
	if !cfg.Production {
		t.Error("Production = false, want true")
	}
	if got := cfg.Timeout(); got != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", got)
	}

	g := cfg.Game()
	if g.BatchSize != 8 {
		t.Errorf("BatchSize = %d, want 8", g.BatchSize)
	}
	if g.LengthStep != 2 {
		t.Errorf("LengthStep = %d, want 2", g.LengthStep)
	}
	if g.Escalation != game.EscalateOnDrain {
		t.Errorf("Escalation = %q, want %q", g.Escalation, game.EscalateOnDrain)
	}
	if !g.RescrambleOnMiss {
		t.Error("RescrambleOnMiss = false, want true")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORD_SOURCE", "carrier-pigeon")
	t.Setenv("LENGTH_STEP", "abc")
	t.Setenv("ESCALATION", "sometimes")
	t.Setenv("RESCRAMBLE_ON_MISS", "maybe")

	cfg := Load()

	if cfg.WordSource != "remote" {
		t.Errorf("WordSource = %q, want %q (fallback)", cfg.WordSource, "remote")
	}
	if cfg.LengthStep != game.DefaultLengthStep {
		t.Errorf("LengthStep = %d, want %d (fallback)", cfg.LengthStep, game.DefaultLengthStep)
	}
	if cfg.Escalation != string(game.EscalateEveryK) {
		t.Errorf("Escalation = %q, want %q (fallback)", cfg.Escalation, game.EscalateEveryK)
	}
	if cfg.RescrambleOnMiss {
		t.Error("RescrambleOnMiss = true, want false (fallback)")
	}
}
