package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.ListenAddr != ":3000" {
		t.Errorf("ListenAddr = %q, want :3000", cfg.ListenAddr)
	}
	if cfg.ClassifierMode != ClassifierLocal {
		t.Errorf("ClassifierMode = %q, want local", cfg.ClassifierMode)
	}
	if cfg.CacheBackend != CacheMemory {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if cfg.CacheSize != 100 {
		t.Errorf("CacheSize = %d, want 100", cfg.CacheSize)
	}
	if cfg.ClassifierTimeout != 30*time.Second {
		t.Errorf("ClassifierTimeout = %v, want 30s", cfg.ClassifierTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestNewDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RISKIFY_LISTEN_ADDR", ":8080")
	t.Setenv("RISKIFY_CACHE_BACKEND", "redis")
	t.Setenv("RISKIFY_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("RISKIFY_CACHE_SIZE", "500")
	t.Setenv("RISKIFY_CLASSIFIER_TIMEOUT", "5s")
	t.Setenv("RISKIFY_LOG_LEVEL", "debug")

	cfg := NewDefaultConfig()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.CacheBackend != CacheRedis {
		t.Errorf("CacheBackend = %q, want redis", cfg.CacheBackend)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.CacheSize != 500 {
		t.Errorf("CacheSize = %d, want 500", cfg.CacheSize)
	}
	if cfg.ClassifierTimeout != 5*time.Second {
		t.Errorf("ClassifierTimeout = %v, want 5s", cfg.ClassifierTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestNewDefaultConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskify.yaml")
	data := []byte("listen_addr: \":9000\"\nlog_level: warn\nmax_batch_size: 50\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RISKIFY_CONFIG", path)
	t.Setenv("RISKIFY_LOG_LEVEL", "error")

	cfg := NewDefaultConfig()

	// File overlays the default.
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000 from file", cfg.ListenAddr)
	}
	if cfg.MaxBatchSize != 50 {
		t.Errorf("MaxBatchSize = %d, want 50 from file", cfg.MaxBatchSize)
	}
	// Env wins over the file.
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error from env", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			ClassifierMode:    ClassifierLocal,
			CacheBackend:      CacheMemory,
			CacheSize:         100,
			ClassifierTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad classifier mode", func(c *Config) { c.ClassifierMode = "gpu" }, true},
		{"remote without url", func(c *Config) { c.ClassifierMode = ClassifierRemote }, true},
		{"remote with url", func(c *Config) {
			c.ClassifierMode = ClassifierRemote
			c.RemoteURL = "https://inference.example.com/model"
		}, false},
		{"bad cache backend", func(c *Config) { c.CacheBackend = "disk" }, true},
		{"zero cache size", func(c *Config) { c.CacheSize = 0 }, true},
		{"zero timeout", func(c *Config) { c.ClassifierTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("RISKIFY_TEST_STR", "value")
	t.Setenv("RISKIFY_TEST_INT", "42")
	t.Setenv("RISKIFY_TEST_BAD_INT", "not a number")
	t.Setenv("RISKIFY_TEST_BOOL", "true")
	t.Setenv("RISKIFY_TEST_FLOAT", "0.75")
	t.Setenv("RISKIFY_TEST_DUR", "90s")
	t.Setenv("RISKIFY_TEST_SLICE", "a, b ,c,")

	if got := GetEnv("RISKIFY_TEST_STR", "d"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("RISKIFY_TEST_UNSET", "d"); got != "d" {
		t.Errorf("GetEnv default = %q", got)
	}
	if got := GetEnvInt("RISKIFY_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("RISKIFY_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvInt on garbage = %d, want default", got)
	}
	if got := GetEnvBool("RISKIFY_TEST_BOOL", false); !got {
		t.Error("GetEnvBool = false")
	}
	if got := GetEnvFloat("RISKIFY_TEST_FLOAT", 0); got != 0.75 {
		t.Errorf("GetEnvFloat = %v", got)
	}
	if got := GetEnvDuration("RISKIFY_TEST_DUR", 0); got != 90*time.Second {
		t.Errorf("GetEnvDuration = %v", got)
	}
	got := GetEnvSlice("RISKIFY_TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("GetEnvSlice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GetEnvSlice[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
