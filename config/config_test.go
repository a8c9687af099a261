package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "http://localhost:8121" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	want := SessionConfig{Store: SessionStoreMemory, TTL: 24 * time.Hour, CookieName: "session_id", MemoryCapacity: 10000}
	if !reflect.DeepEqual(cfg.Session, want) {
		t.Errorf("Session = %#v, want %#v", cfg.Session, want)
	}
	if cfg.Gate.LoginPath != "/user/login" || cfg.Gate.ForbiddenPath != "/noAuthority" {
		t.Errorf("Gate = %#v", cfg.Gate)
	}
	if cfg.HTTP.Addr != ":8080" || !cfg.HTTP.ProxyAPI {
		t.Errorf("HTTP = %#v", cfg.HTTP)
	}
	if cfg.IsDev {
		t.Error("expected production mode by default")
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("OJ_API_BASE_URL", " https://judge.example.com/ ")
	t.Setenv("OJ_API_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_NAME", "oj_sid")
	t.Setenv("REDIS_URI", "redis:6379")
	t.Setenv("REDIS_CLUSTER_NODES", "a:7000,b:7001")
	t.Setenv("GATE_LOGIN_PATH", "/signin")
	t.Setenv("GATE_FORBIDDEN_PATH", "https://evil.example")
	t.Setenv("LOG_LEVEL", "debug")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "https://judge.example.com" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	want := SessionConfig{Store: SessionStoreRedis, TTL: 2 * time.Hour, CookieName: "oj_sid", MemoryCapacity: 10000}
	if !reflect.DeepEqual(cfg.Session, want) {
		t.Errorf("Session = %#v, want %#v", cfg.Session, want)
	}
	if cfg.Redis.URI != "redis:6379" {
		t.Errorf("Redis.URI = %q", cfg.Redis.URI)
	}
	if !reflect.DeepEqual(cfg.Redis.ClusterNodes, []string{"a:7000", "b:7001"}) {
		t.Errorf("Redis.ClusterNodes = %v", cfg.Redis.ClusterNodes)
	}
	if cfg.Gate.LoginPath != "/signin" {
		t.Errorf("Gate.LoginPath = %q", cfg.Gate.LoginPath)
	}
	if cfg.Gate.ForbiddenPath != "/noAuthority" {
		t.Errorf("off-site forbidden path should fall back, got %q", cfg.Gate.ForbiddenPath)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
}

func TestSessionStoreMode_Invalid(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected error for unknown session store")
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	cfg := SessionConfig{TTL: -time.Minute, CookieName: "  "}
	cfg.Sanitize()

	want := SessionConfig{Store: SessionStoreMemory, TTL: 24 * time.Hour, CookieName: "session_id", MemoryCapacity: 10000}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("Sanitize() = %#v, want %#v", cfg, want)
	}
}

func TestAPIConfig_Sanitize(t *testing.T) {
	cfg := APIConfig{BaseURL: "  ", Timeout: 0}
	cfg.Sanitize()

	if cfg.BaseURL != "http://localhost:8121" || cfg.Timeout != 10*time.Second {
		t.Fatalf("Sanitize() = %#v", cfg)
	}
}

func TestGateConfig_Sanitize(t *testing.T) {
	cfg := GateConfig{LoginPath: "//evil.example/login", ForbiddenPath: " /denied "}
	cfg.Sanitize()

	if cfg.LoginPath != "/user/login" {
		t.Errorf("LoginPath = %q", cfg.LoginPath)
	}
	if cfg.ForbiddenPath != "/denied" {
		t.Errorf("ForbiddenPath = %q", cfg.ForbiddenPath)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 42}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Fatalf("expected level clamped to 9, got %d", cfg.CompressionLevel)
	}

	cfg = HTTPConfig{CompressionLevel: -1}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Fatalf("expected level clamped to 1, got %d", cfg.CompressionLevel)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatal("expected NODE_ENV=development to enable dev mode")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := AppConfig{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
		Prefix:        ".oj.",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "oj" {
		t.Fatalf("expected prefix dots trimmed, got %q", cfg.Prefix)
	}
}

func TestRedisConfig_Sanitize(t *testing.T) {
	cfg := RedisConfig{URI: " redis:6379 ", DB: -2, KeyPrefix: " "}
	cfg.Sanitize()

	want := RedisConfig{URI: "redis:6379", DB: 0, DialTimeout: 5 * time.Second, KeyPrefix: "ojweb:session:"}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("Sanitize() = %#v, want %#v", cfg, want)
	}
}
