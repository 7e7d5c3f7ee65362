package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Output artifacts
	OutputDir string
	// Generator Configuration
	LMBaseURL      string
	LMModel        string
	LMAPIKey       string
	LMTimeout      time.Duration
	QMin           int
	QMax           int
	QMaxWords      int
	GenParallelism int
	// Persistence
	SeqAnswers   string
	SeqQuestions string
	// One document run, end to end
	RunTimeout time.Duration
	// Logging
	LogDir      string // when set, logs also go to rotated files here
	MaxLogFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		OutputDir:   getEnv("OUTPUT_DIR", "output"),
		// Generator Configuration
		LMBaseURL:      getEnv("LM_BASE_URL", "http://localhost:1234/v1"),
		LMModel:        getEnv("LM_MODEL", "qwen/qwen3-4b-2507"),
		LMAPIKey:       getEnv("LM_API_KEY", "lm-studio"),
		LMTimeout:      getEnvDuration("LM_TIMEOUT", 120*time.Second),
		QMin:           getEnvInt("QMIN", 3),
		QMax:           getEnvInt("QMAX", 8),
		QMaxWords:      getEnvInt("Q_MAX_WORDS", 12),
		GenParallelism: getEnvInt("GEN_PARALLELISM", 4),
		// Persistence
		SeqAnswers:   getEnv("SEQ_ANSWERS", ""),
		SeqQuestions: getEnv("SEQ_QUESTIONS", ""),
		RunTimeout:   getEnvDuration("RUN_TIMEOUT", 10*time.Minute),
		LogDir:       getEnv("LOG_DIR", ""),
		MaxLogFiles:  getEnvInt("MAX_LOG_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
