// Package config holds runtime settings for the Riskify gateway.
// Every setting can be supplied via RISKIFY_* environment variables;
// an optional YAML file (RISKIFY_CONFIG) overlays the defaults before
// environment variables are applied, so env always wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheBackend selects where predictions are memoized.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory" // in-process FIFO cache (default)
	CacheRedis  CacheBackend = "redis"  // shared Redis cache with TTL
)

// ClassifierMode selects how the sentiment model is reached.
type ClassifierMode string

const (
	ClassifierLocal  ClassifierMode = "local"  // hugot/ONNX in-process inference
	ClassifierRemote ClassifierMode = "remote" // hosted inference API over HTTP
)

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Config holds global settings for the Riskify gateway.
type Config struct {
	// === Server ===
	ListenAddr string `yaml:"listen_addr"` // e.g. ":3000"

	// === Classifier ===
	ClassifierMode  ClassifierMode `yaml:"classifier_mode"`
	ModelPath       string         `yaml:"model_path"`        // local ONNX model directory
	ModelName       string         `yaml:"model_name"`        // HuggingFace model to download if path is empty
	OnnxLibraryPath string         `yaml:"onnx_library_path"` // libonnxruntime location, empty = Go backend
	RemoteURL       string         `yaml:"remote_url"`        // inference API endpoint for remote mode
	RemoteAPIKey    string         `yaml:"remote_api_key"`

	// ClassifierTimeout bounds a single inference call. A hung model call
	// must never hang the prediction indefinitely.
	ClassifierTimeout time.Duration `yaml:"classifier_timeout"`

	// === Prediction cache ===
	CacheBackend CacheBackend `yaml:"cache_backend"`
	CacheSize    int          `yaml:"cache_size"` // max entries for the memory backend
	Redis        RedisConfig  `yaml:"redis"`

	// === Gateway limits ===
	MaxConcurrentPredictions int `yaml:"max_concurrent_predictions"`
	MaxBatchSize             int `yaml:"max_batch_size"`

	// === Logging ===
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "console" or "json"
}

// NewDefaultConfig creates a Config from defaults, the optional YAML file
// named by RISKIFY_CONFIG, and RISKIFY_* environment variables, in that
// order of increasing precedence.
func NewDefaultConfig() *Config {
	cfg := &Config{
		ListenAddr:               ":3000",
		ClassifierMode:           ClassifierLocal,
		ModelPath:                "./models/sentiment",
		ModelName:                "distilbert-base-uncased-finetuned-sst-2-english",
		ClassifierTimeout:        30 * time.Second,
		CacheBackend:             CacheMemory,
		CacheSize:                100,
		MaxConcurrentPredictions: 32,
		MaxBatchSize:             200,
		LogLevel:                 "info",
		LogFormat:                "console",
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "riskify:prediction:",
			TTL:       1 * time.Hour,
		},
	}

	if path := os.Getenv("RISKIFY_CONFIG"); path != "" {
		// A broken config file should be loud, not silently ignored.
		if err := cfg.loadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "riskify: config file %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	cfg.applyEnv()
	return cfg
}

// loadFile overlays settings from a YAML file onto the config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// applyEnv overrides settings from RISKIFY_* environment variables.
func (c *Config) applyEnv() {
	c.ListenAddr = GetEnv("RISKIFY_LISTEN_ADDR", c.ListenAddr)

	c.ClassifierMode = ClassifierMode(GetEnv("RISKIFY_CLASSIFIER_MODE", string(c.ClassifierMode)))
	c.ModelPath = GetEnv("RISKIFY_MODEL_PATH", c.ModelPath)
	c.ModelName = GetEnv("RISKIFY_MODEL_NAME", c.ModelName)
	c.OnnxLibraryPath = GetEnv("RISKIFY_ONNX_LIBRARY_PATH", c.OnnxLibraryPath)
	c.RemoteURL = GetEnv("RISKIFY_REMOTE_URL", c.RemoteURL)
	c.RemoteAPIKey = GetEnv("RISKIFY_REMOTE_API_KEY", c.RemoteAPIKey)
	c.ClassifierTimeout = GetEnvDuration("RISKIFY_CLASSIFIER_TIMEOUT", c.ClassifierTimeout)

	c.CacheBackend = CacheBackend(GetEnv("RISKIFY_CACHE_BACKEND", string(c.CacheBackend)))
	c.CacheSize = GetEnvInt("RISKIFY_CACHE_SIZE", c.CacheSize)
	c.Redis.Addr = GetEnv("RISKIFY_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = GetEnv("RISKIFY_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = GetEnvInt("RISKIFY_REDIS_DB", c.Redis.DB)
	c.Redis.KeyPrefix = GetEnv("RISKIFY_REDIS_KEY_PREFIX", c.Redis.KeyPrefix)
	c.Redis.TTL = GetEnvDuration("RISKIFY_REDIS_TTL", c.Redis.TTL)

	c.MaxConcurrentPredictions = GetEnvInt("RISKIFY_MAX_CONCURRENT", c.MaxConcurrentPredictions)
	c.MaxBatchSize = GetEnvInt("RISKIFY_MAX_BATCH_SIZE", c.MaxBatchSize)

	c.LogLevel = GetEnv("RISKIFY_LOG_LEVEL", c.LogLevel)
	c.LogFormat = GetEnv("RISKIFY_LOG_FORMAT", c.LogFormat)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.ClassifierMode {
	case ClassifierLocal, ClassifierRemote:
	default:
		return fmt.Errorf("invalid classifier mode %q (want local or remote)", c.ClassifierMode)
	}
	if c.ClassifierMode == ClassifierRemote && c.RemoteURL == "" {
		return fmt.Errorf("remote classifier mode requires RISKIFY_REMOTE_URL")
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("invalid cache backend %q (want memory or redis)", c.CacheBackend)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.CacheSize)
	}
	if c.ClassifierTimeout <= 0 {
		return fmt.Errorf("classifier timeout must be positive, got %v", c.ClassifierTimeout)
	}
	return nil
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvDuration returns the duration value ("30s", "1h") of an environment
// variable or a default value.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvSlice returns a comma-separated list from an environment variable or a default value.
func GetEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
