package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/andriatmoko/gaffer/internal/platform/logging"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config stores runtime configuration for the simulator.
type Config struct {
	AppEnv         string `validate:"oneof=dev prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`

	// SessionSeed fixes every seeded draw of a game session. Empty
	// means the caller must inject one (the app generates a random
	// session seed in that case).
	SessionSeed string

	StartYear    int `validate:"gte=1900,lte=2999"`
	Seasons      int `validate:"gte=1,lte=100"`
	ViewerClubID string

	// ParallelSessions runs several independent worlds side by side,
	// each with a derived session seed.
	ParallelSessions int `validate:"gte=1,lte=16"`

	TrainingIntensity string `validate:"oneof=LIGHT NORMAL HEAVY"`
	AutoConfirmDraws  bool
	ResolverWorkers   int `validate:"gte=1,lte=64"`

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	cfg := Config{
		AppEnv:            strings.TrimSpace(getEnv("APP_ENV", EnvDev)),
		ServiceName:       getEnv("SERVICE_NAME", "gaffer-sim"),
		ServiceVersion:    getEnv("SERVICE_VERSION", "dev"),
		SessionSeed:       strings.TrimSpace(getEnv("SESSION_SEED", "")),
		ViewerClubID:      strings.TrimSpace(getEnv("VIEWER_CLUB_ID", "")),
		TrainingIntensity: strings.ToUpper(getEnv("TRAINING_INTENSITY", "NORMAL")),
	}

	var err error
	if cfg.StartYear, err = getEnvAsInt("START_YEAR", 2025); err != nil {
		return Config{}, err
	}
	if cfg.Seasons, err = getEnvAsInt("SEASONS", 1); err != nil {
		return Config{}, err
	}
	if cfg.ResolverWorkers, err = getEnvAsInt("RESOLVER_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.ParallelSessions, err = getEnvAsInt("PARALLEL_SESSIONS", 1); err != nil {
		return Config{}, err
	}
	if cfg.AutoConfirmDraws, err = getEnvAsBool("AUTO_CONFIRM_DRAWS", true); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = getEnv("PYROSCOPE_SERVER_ADDRESS", "")
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, strconv.FormatBool(fallback))
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, fallback.String())
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func parseLogLevel(raw string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logging.LevelDebug, nil
	case "info":
		return logging.LevelInfo, nil
	case "warn", "warning":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return logging.LevelInfo, fmt.Errorf("unknown LOG_LEVEL: %q", raw)
	}
}
