package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreMode selects where cached identities live.
type SessionStoreMode string

const (
	// SessionStoreMemory keeps identities in process; fine for a single replica.
	SessionStoreMemory SessionStoreMode = "memory"
	// SessionStoreRedis shares identities between replicas through Redis.
	SessionStoreRedis SessionStoreMode = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreMode.
func (m *SessionStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*m = SessionStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreMode: %q (valid options: memory, redis)", v)
	}
}

const (
	defaultSessionTTL        = 24 * time.Hour
	defaultSessionCookieName = "session_id"
	defaultMemoryCapacity    = 10000
)

// SessionConfig controls the browser session cookie and the identity cache behind it.
type SessionConfig struct {
	Store      SessionStoreMode `env:"STORE"       envDefault:"memory"`
	TTL        time.Duration    `env:"TTL"         envDefault:"24h"`
	CookieName string           `env:"COOKIE_NAME" envDefault:"session_id"`
	// MemoryCapacity bounds the memory store; least recently used sessions are evicted.
	MemoryCapacity int `env:"MEMORY_CAPACITY" envDefault:"10000"`
}

// Sanitize restores defaults for empty or non-positive values.
func (c *SessionConfig) Sanitize() {
	if c.Store == "" {
		c.Store = SessionStoreMemory
	}
	if c.TTL <= 0 {
		c.TTL = defaultSessionTTL
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = defaultSessionCookieName
	}
	if c.MemoryCapacity <= 0 {
		c.MemoryCapacity = defaultMemoryCapacity
	}
}
