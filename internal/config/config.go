package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/unscrambler/internal/game"
	"github.com/robalobadob/unscrambler/internal/words"
)

type Config struct {
	Port         string
	LogLevel     string
	DatabasePath string

	WordSource       string // "remote" | "embedded"
	WordAPIURL       string
	DictionaryAPIURL string
	WordsFile        string
	HTTPTimeout      int // seconds

	WordBatchSize    int
	LengthStep       int
	Escalation       string
	RescrambleOnMiss bool

	RedisAddr     string // empty selects file saves under SaveDir
	RedisPassword string
	RedisDB       int
	SaveDir       string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/app.db"),

		WordSource:       strings.ToLower(getEnv("WORD_SOURCE", "remote")),
		WordAPIURL:       getEnv("WORD_API_URL", words.DefaultWordAPIURL),
		DictionaryAPIURL: getEnv("DICTIONARY_API_URL", words.DefaultDictionaryAPIURL),
		WordsFile:        os.Getenv("WORDS_FILE"),
		HTTPTimeout:      getEnvInt("HTTP_TIMEOUT_SECONDS", 5),

		WordBatchSize:    getEnvInt("WORD_BATCH_SIZE", 5),
		LengthStep:       getEnvInt("LENGTH_STEP", game.DefaultLengthStep),
		Escalation:       strings.ToLower(getEnv("ESCALATION", string(game.EscalateEveryK))),
		RescrambleOnMiss: getEnvBool("RESCRAMBLE_ON_MISS", false),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SaveDir:       getEnv("SAVE_DIR", "./data/saves"),

		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "unscramble_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
	if cfg.WordSource != "embedded" {
		cfg.WordSource = "remote"
	}
	if cfg.Escalation != string(game.EscalateOnDrain) {
		cfg.Escalation = string(game.EscalateEveryK)
	}
	return cfg
}

// Game returns the session tunables derived from the environment.
func (c Config) Game() game.Config {
	g := game.DefaultConfig()
	if c.WordBatchSize > 0 {
		g.BatchSize = c.WordBatchSize
	}
	if c.LengthStep > 0 {
		g.LengthStep = c.LengthStep
	}
	g.Escalation = game.Escalation(c.Escalation)
	g.RescrambleOnMiss = c.RescrambleOnMiss
	return g
}

// Timeout is the per-request budget for the word and dictionary APIs.
func (c Config) Timeout() time.Duration {
	if c.HTTPTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.HTTPTimeout) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
