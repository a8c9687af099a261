package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "http://localhost:8121"
	defaultAPITimeout = 10 * time.Second
)

// APIConfig points the gateway at the judge API.
type APIConfig struct {
	// BaseURL is the API root; request paths such as /api/user/get/login are appended to it.
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8121"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`
}

// Sanitize trims the base URL and restores defaults for unusable values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
}
