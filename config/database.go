package config

import (
	"strings"
	"time"
)

// RedisConfig selects the Redis deployment that backs SESSION_STORE=redis.
// Cluster wins over sentinel, sentinel over a single node.
type RedisConfig struct {
	URI         string        `env:"URI"          envDefault:"localhost:6379"`
	Password    string        `env:"PASSWORD"`
	DB          int           `env:"DB"           envDefault:"0"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`

	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`

	ClusterNodes []string `env:"CLUSTER_NODES"`
	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`

	// KeyPrefix namespaces identity keys so several gateways can share one Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"ojweb:session:"`
}

// Sanitize restores defaults for values that would break the connection.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.DB < 0 {
		c.DB = 0
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if strings.TrimSpace(c.KeyPrefix) == "" {
		c.KeyPrefix = "ojweb:session:"
	}
}
