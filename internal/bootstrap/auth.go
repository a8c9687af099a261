package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/group38/ojweb/config"
	"github.com/group38/ojweb/internal/adapters/memory"
	redisadapter "github.com/group38/ojweb/internal/adapters/redis"
	"github.com/group38/ojweb/internal/ports"
	"github.com/group38/ojweb/internal/service"
)

// IdentityStoreConfig contains configuration for the session identity store.
type IdentityStoreConfig struct {
	Session     config.SessionConfig
	KeyPrefix   string
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildIdentityStore creates the identity store for the configured session
// store mode. Redis mode without a client falls back to the in-memory store.
//
//nolint:ireturn // the store implementation is chosen at runtime.
func BuildIdentityStore(cfg IdentityStoreConfig) ports.IdentityStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		if cfg.RedisClient != nil {
			return redisadapter.NewIdentityStore(cfg.RedisClient, redisadapter.IdentityStoreOptions{
				Prefix: cfg.KeyPrefix,
				TTL:    cfg.Session.TTL,
			})
		}
		logger.Warn("redis session store selected but redis client not configured; using memory store")
	case config.SessionStoreMemory, "":
	default:
		logger.Warn("unknown session store, using memory store", "store", cfg.Session.Store)
	}
	return memory.NewIdentityStore(memory.IdentityStoreOptions{
		TTL:      cfg.Session.TTL,
		Capacity: cfg.Session.MemoryCapacity,
	})
}

// AuthConfig contains dependencies for the sign-in service.
type AuthConfig struct {
	Accounts   ports.AccountGateway
	Identities *service.IdentityService
	Logger     *slog.Logger
}

// BuildAuthService creates the account/password sign-in service.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Accounts == nil {
		return nil, errors.New("auth service: account gateway is required")
	}
	return service.NewAuthService(service.AuthServiceOptions{
		Accounts:   cfg.Accounts,
		Identities: cfg.Identities,
		Logger:     cfg.Logger,
	})
}
