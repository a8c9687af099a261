package redis

// Package redis provides Redis-based adapters for the ojweb gateway.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/ports"
	"github.com/redis/go-redis/v9"
)

const defaultIdentityTTL = 24 * time.Hour

// Each session is a hash with the identity JSON and a generation counter.
const (
	fieldIdentity = "identity"
	fieldGen      = "gen"
)

// KEYS[1] session key; ARGV[1] identity JSON; ARGV[2] TTL ms; ARGV[3] expected
// generation, empty to write unconditionally. Returns 1 when written.
var replaceScript = redis.NewScript(`
if ARGV[3] ~= '' then
  local cur = redis.call('HGET', KEYS[1], 'gen')
  if (cur or '0') ~= ARGV[3] then
    return 0
  end
end
redis.call('HSET', KEYS[1], 'identity', ARGV[1])
redis.call('HINCRBY', KEYS[1], 'gen', 1)
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// KEYS[1] session key; ARGV[1] TTL ms. The generation survives the delete.
var deleteScript = redis.NewScript(`
redis.call('HDEL', KEYS[1], 'identity')
redis.call('HINCRBY', KEYS[1], 'gen', 1)
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return 1
`)

// IdentityStore keeps each browser session's cached identity in Redis.
// Every write refreshes the key's TTL, so idle sessions age out.
type IdentityStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// IdentityStoreOptions configures an IdentityStore.
type IdentityStoreOptions struct {
	Prefix string        // key prefix, default "session:"
	TTL    time.Duration // default 24h
}

// NewIdentityStore creates a Redis-backed identity store.
func NewIdentityStore(client redis.UniversalClient, opts IdentityStoreOptions) *IdentityStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityStore{client: client, prefix: prefix, ttl: ttl}
}

// ErrNotFound is returned when no identity is cached for a session.
var ErrNotFound = ports.ErrNotFound

func (s *IdentityStore) Get(ctx context.Context, sessionID string) (domainauth.Identity, error) {
	if sessionID == "" {
		return domainauth.Identity{}, ErrNotFound
	}

	data, err := s.client.HGet(ctx, s.prefix+sessionID, fieldIdentity).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, ErrNotFound
		}
		return domainauth.Identity{}, fmt.Errorf("redis hget: %w", err)
	}

	var identity domainauth.Identity
	if unmarshalErr := json.Unmarshal(data, &identity); unmarshalErr != nil {
		return domainauth.Identity{}, fmt.Errorf("unmarshal identity: %w", unmarshalErr)
	}
	return identity, nil
}

func (s *IdentityStore) Replace(ctx context.Context, sessionID string, identity domainauth.Identity) error {
	_, err := s.write(ctx, sessionID, "", identity)
	return err
}

func (s *IdentityStore) CompareAndReplace(
	ctx context.Context,
	sessionID string,
	gen uint64,
	identity domainauth.Identity,
) (bool, error) {
	return s.write(ctx, sessionID, strconv.FormatUint(gen, 10), identity)
}

func (s *IdentityStore) write(ctx context.Context, sessionID, expectGen string, identity domainauth.Identity) (bool, error) {
	if sessionID == "" {
		return false, errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return false, fmt.Errorf("marshal identity: %w", err)
	}

	written, err := replaceScript.Run(ctx, s.client, []string{s.prefix + sessionID},
		string(data), s.ttl.Milliseconds(), expectGen).Int()
	if err != nil {
		return false, fmt.Errorf("redis replace: %w", err)
	}
	return written == 1, nil
}

func (s *IdentityStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to delete
	}
	if err := deleteScript.Run(ctx, s.client, []string{s.prefix + sessionID}, s.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (s *IdentityStore) Generation(ctx context.Context, sessionID string) (uint64, error) {
	if sessionID == "" {
		return 0, nil
	}
	gen, err := s.client.HGet(ctx, s.prefix+sessionID, fieldGen).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis hget: %w", err)
	}
	return gen, nil
}
