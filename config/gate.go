package config

import "strings"

// GateConfig holds the pages the navigation gate redirects to.
type GateConfig struct {
	LoginPath     string `env:"LOGIN_PATH"     envDefault:"/user/login"`
	ForbiddenPath string `env:"FORBIDDEN_PATH" envDefault:"/noAuthority"`
}

// Sanitize keeps both paths rooted; anything else falls back to the default.
func (c *GateConfig) Sanitize() {
	c.LoginPath = rootedOr(c.LoginPath, "/user/login")
	c.ForbiddenPath = rootedOr(c.ForbiddenPath, "/noAuthority")
}

func rootedOr(p, fallback string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return fallback
	}
	return p
}
