package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/group38/ojweb/config"
	"github.com/group38/ojweb/internal/adapters/memory"
	redisadapter "github.com/group38/ojweb/internal/adapters/redis"
	domainauth "github.com/group38/ojweb/internal/domain/auth"
)

func TestBuildIdentityStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	tests := []struct {
		name      string
		store     config.SessionStoreMode
		client    redis.UniversalClient
		wantRedis bool
	}{
		{name: "memory", store: config.SessionStoreMemory},
		{name: "unset", store: ""},
		{name: "redis", store: config.SessionStoreRedis, client: client, wantRedis: true},
		{name: "redis without client", store: config.SessionStoreRedis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildIdentityStore(IdentityStoreConfig{
				Session:     config.SessionConfig{Store: tt.store, TTL: time.Hour},
				RedisClient: tt.client,
				Logger:      logger,
			})

			switch got.(type) {
			case *redisadapter.IdentityStore:
				if !tt.wantRedis {
					t.Fatalf("BuildIdentityStore() = redis store, want memory")
				}
			case *memory.IdentityStore:
				if tt.wantRedis {
					t.Fatalf("BuildIdentityStore() = memory store, want redis")
				}
			default:
				t.Fatalf("BuildIdentityStore() = %T", got)
			}
		})
	}
}

func TestBuildIdentityStoreHonorsMemoryCapacity(t *testing.T) {
	got := BuildIdentityStore(IdentityStoreConfig{
		Session: config.SessionConfig{Store: config.SessionStoreMemory, TTL: time.Hour, MemoryCapacity: 1},
	})
	store, ok := got.(*memory.IdentityStore)
	if !ok {
		t.Fatalf("BuildIdentityStore() = %T, want memory store", got)
	}

	ctx := context.Background()
	for _, sid := range []string{"a", "b"} {
		if err := store.Replace(ctx, sid, domainauth.NotLoggedIn()); err != nil {
			t.Fatalf("Replace(%q) error = %v", sid, err)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
}

func TestBuildAuthServiceRequiresAccounts(t *testing.T) {
	if _, err := BuildAuthService(AuthConfig{}); err == nil {
		t.Fatal("BuildAuthService() error = nil, want error")
	}
}
