package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every tunable of the quiz engine. The adaptive controller
// constants are configuration rather than package globals so tests can vary
// them independently.
type Config struct {
	Addr          string
	BankPath      string
	ResultDir     string
	SessionSecret string
	LogLevel      string

	// Quiz engine tunables.
	NumRounds      int // answered rounds per session
	WindowWidth    int // records fetched around the rank pointer
	StartRank      int // initial rank pointer for a fresh session
	CandidateCount int // options per question, exactly one correct
	SampleRetries  int // draw budget of the candidate sampler
	GlossLimit     int // surviving glosses kept per candidate
	MinRank        int // floor clamp of the rank pointer
	MinAge         int // lower clamp of the final estimate
	MaxAge         int // upper clamp of the final estimate
	MaxNameLen     int // user name length cap
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:          envOr("ADDR", ":8080"),
		BankPath:      envOr("BANK_PATH", "wordage-bank.db"),
		ResultDir:     envOr("RESULT_DIR", "results"),
		SessionSecret: envOr("SESSION_SECRET", "wordage-dev-secret"),
		LogLevel:      envOr("LOG_LEVEL", "INFO"),

		NumRounds:      envIntOr("NUM_ROUNDS", 22),
		WindowWidth:    envIntOr("WINDOW_WIDTH", 2000),
		StartRank:      envIntOr("START_RANK", 500),
		CandidateCount: envIntOr("CANDIDATE_COUNT", 5),
		SampleRetries:  envIntOr("SAMPLE_RETRIES", 40),
		GlossLimit:     envIntOr("GLOSS_LIMIT", 4),
		MinRank:        envIntOr("MIN_RANK", 50),
		MinAge:         envIntOr("MIN_AGE", 3),
		MaxAge:         envIntOr("MAX_AGE", 20),
		MaxNameLen:     envIntOr("MAX_NAME_LEN", 30),
	}
}

// Validate checks the configuration for values that would break the engine.
// All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.BankPath == "" {
		problems = append(problems, "BANK_PATH cannot be empty")
	}
	if c.ResultDir == "" {
		problems = append(problems, "RESULT_DIR cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a known level", c.LogLevel))
	}
	if c.NumRounds < 1 {
		problems = append(problems, "NUM_ROUNDS must be at least 1")
	}
	if c.WindowWidth < 2 {
		problems = append(problems, "WINDOW_WIDTH must be at least 2")
	}
	if c.StartRank < 0 {
		problems = append(problems, "START_RANK cannot be negative")
	}
	if c.CandidateCount < 1 {
		problems = append(problems, "CANDIDATE_COUNT must be at least 1")
	}
	if c.SampleRetries < c.CandidateCount {
		problems = append(problems, "SAMPLE_RETRIES must be at least CANDIDATE_COUNT")
	}
	if c.GlossLimit < 1 {
		problems = append(problems, "GLOSS_LIMIT must be at least 1")
	}
	if c.MinRank < 0 {
		problems = append(problems, "MIN_RANK cannot be negative")
	}
	if c.MinAge >= c.MaxAge {
		problems = append(problems, "MIN_AGE must be below MAX_AGE")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
