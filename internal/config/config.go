package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type VotingConfig struct {
	CheckIPAddress          bool          `yaml:"check-ip-address"`
	GenerateReportOnClose   bool          `yaml:"generate-report-on-close"`
	ActivateCloseRetryCount int           `yaml:"activate-close-retry-count"`
	StatusRetryDelay        time.Duration `yaml:"status-retry-delay"`
	MinVotingDuration       time.Duration `yaml:"min-voting-duration"`
	MaxRowsPerRequest       int           `yaml:"max-rows-per-request"`
}

type SchedulerConfig struct {
	ThreadWorkerCount   int  `yaml:"thread-worker-count"`
	ProcessPoolEnabled  bool `yaml:"process-pool"`
	ProcessWorkerCount  int  `yaml:"process-worker-count"`
	MisfireGraceSeconds int  `yaml:"misfire-grace-seconds"`
	MaxInstances        int  `yaml:"max-instances"`
}

func (s SchedulerConfig) MisfireGrace() time.Duration {
	return time.Duration(s.MisfireGraceSeconds) * time.Second
}

type Config struct {
	HTTPAddr      string          `yaml:"http-addr"`
	StorageDriver string          `yaml:"storage-driver"`
	LogLevel      string          `yaml:"log-level"`
	Postgres      PostgresConfig  `yaml:"postgres"`
	Voting        VotingConfig    `yaml:"voting"`
	Scheduler     SchedulerConfig `yaml:"scheduler"`
}

func Default() Config {
	return Config{
		HTTPAddr:      "0.0.0.0:8080",
		StorageDriver: StorageDriverPostgres,
		LogLevel:      "info",
		Voting: VotingConfig{
			GenerateReportOnClose:   true,
			ActivateCloseRetryCount: 5,
			StatusRetryDelay:        5 * time.Second,
			MinVotingDuration:       time.Hour,
			MaxRowsPerRequest:       1000,
		},
		Scheduler: SchedulerConfig{
			ThreadWorkerCount:   5,
			ProcessWorkerCount:  1,
			MisfireGraceSeconds: 20,
			MaxInstances:        3,
		},
	}
}

// Load layers defaults, the optional VOTING_CONFIG_FILE yaml document and
// the environment, in that order. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("VOTING_CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		return cfg, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	envString("HTTP_ADDR", &cfg.HTTPAddr)
	envString("STORAGE_DRIVER", &cfg.StorageDriver)
	envString("LOG_LEVEL", &cfg.LogLevel)

	envString("POSTGRES_HOST", &cfg.Postgres.Host)
	envString("POSTGRES_PORT", &cfg.Postgres.Port)
	envString("POSTGRES_USER", &cfg.Postgres.User)
	envString("POSTGRES_PASSWORD", &cfg.Postgres.Password)
	envString("POSTGRES_DB", &cfg.Postgres.DB)

	cfg.Voting.CheckIPAddress = envBool("VOTING_CHECK_IP_ADDRESS", cfg.Voting.CheckIPAddress)
	cfg.Voting.GenerateReportOnClose = envBool("VOTING_GENERATE_REPORT_ON_CLOSE", cfg.Voting.GenerateReportOnClose)
	cfg.Scheduler.ProcessPoolEnabled = envBool("SCHEDULER_PROCESS_POOL", cfg.Scheduler.ProcessPoolEnabled)

	ints := map[string]*int{
		"VOTING_ACTIVATE_CLOSE_RETRY_COUNT": &cfg.Voting.ActivateCloseRetryCount,
		"VOTING_MAX_ROWS_PER_REQUEST":       &cfg.Voting.MaxRowsPerRequest,
		"SCHEDULER_THREAD_WORKER_COUNT":     &cfg.Scheduler.ThreadWorkerCount,
		"SCHEDULER_PROCESS_WORKER_COUNT":    &cfg.Scheduler.ProcessWorkerCount,
		"SCHEDULER_MISFIRE_GRACE_SECONDS":   &cfg.Scheduler.MisfireGraceSeconds,
		"SCHEDULER_MAX_INSTANCES":           &cfg.Scheduler.MaxInstances,
	}
	for name, target := range ints {
		if err := envInt(name, target); err != nil {
			return err
		}
	}

	durations := map[string]*time.Duration{
		"VOTING_STATUS_RETRY_DELAY": &cfg.Voting.StatusRetryDelay,
		"VOTING_MIN_DURATION":       &cfg.Voting.MinVotingDuration,
	}
	for name, target := range durations {
		if err := envDuration(name, target); err != nil {
			return err
		}
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envString(name string, target *string) {
	if raw := strings.TrimSpace(os.Getenv(name)); raw != "" {
		*target = raw
	}
}

func envInt(name string, target *int) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", name, err)
	}
	*target = value
	return nil
}

func envDuration(name string, target *time.Duration) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s must be a duration: %w", name, err)
	}
	*target = value
	return nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
