package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	ScanConfigSourceFile     = "file"
	ScanConfigSourcePostgres = "postgres"
)

type DBconfig struct {
	URL      string
	MaxConns int32
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type StdoutLogConfig struct {
	Level string
	JSON  bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type ScanConfigSource struct {
	Source string
	Path   string
}

type AdaptersConfig struct {
	Timeout           time.Duration
	RandomDelay       time.Duration
	ProbeTimeout      time.Duration
	BrowserEnabled    bool
	BrowserRatePerMin int
	LandWatchBaseURL  string
	HallHallBaseURL   string
}

type AppConfig struct {
	AppName          string
	Port             string
	StorageBackend   string
	Database         DBconfig
	ScanConfig       ScanConfigSource
	RabbitMQ         RabbitMQConfig
	FluentBit        FluentBitConfig
	StdoutLogger     StdoutLogConfig
	CORSOrigins      []string
	Adapters         AdaptersConfig
	SchedulerEnabled bool
	ShutdownTimeout  time.Duration
}

// LoadConfig reads the process configuration from the environment. A .env
// file is loaded first when present.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}

	cfg := &AppConfig{
		AppName:        getEnvAsString("APP_NAME", "land-scanner-service"),
		Port:           getEnvAsString("PORT", "8090"),
		StorageBackend: strings.ToLower(getEnvAsString("STORAGE_BACKEND", StorageBackendPostgres)),
	}

	switch cfg.StorageBackend {
	case StorageBackendPostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required when STORAGE_BACKEND=postgres")
		}
		cfg.Database.MaxConns = int32(getEnvAsInt("DATABASE_MAX_CONNS", 10))
	case StorageBackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	cfg.ScanConfig.Source = strings.ToLower(getEnvAsString("SCAN_CONFIG_SOURCE", ScanConfigSourceFile))
	cfg.ScanConfig.Path = getEnvAsString("SCAN_CONFIG_PATH", "configs/scan_config.yaml")
	switch cfg.ScanConfig.Source {
	case ScanConfigSourceFile:
	case ScanConfigSourcePostgres:
		if cfg.StorageBackend != StorageBackendPostgres {
			return nil, fmt.Errorf("SCAN_CONFIG_SOURCE=postgres requires STORAGE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown SCAN_CONFIG_SOURCE %q", cfg.ScanConfig.Source)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED=true")
		}
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.JSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	if origins := getEnvAsString("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	cfg.Adapters = AdaptersConfig{
		Timeout:           getEnvAsDuration("ADAPTER_TIMEOUT", 30*time.Second),
		RandomDelay:       getEnvAsDuration("ADAPTER_RANDOM_DELAY", 2*time.Second),
		ProbeTimeout:      getEnvAsDuration("PROBE_TIMEOUT", 10*time.Second),
		BrowserEnabled:    getEnvAsBool("BROWSER_ENABLED", false),
		BrowserRatePerMin: getEnvAsInt("BROWSER_RATE_PER_MIN", 6),
		LandWatchBaseURL:  getEnvAsString("LANDWATCH_BASE_URL", "https://www.landwatch.com"),
		HallHallBaseURL:   getEnvAsString("HALLHALL_BASE_URL", "https://hallhall.com"),
	}

	cfg.SchedulerEnabled = getEnvAsBool("SCHEDULER_ENABLED", false)
	cfg.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt logs a warning and falls back to defaultValue when the variable
// is set but not an int.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}
