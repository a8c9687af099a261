// Package memory provides in-process adapters, used when no Redis is configured
// and in tests.
package memory

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/ports"
)

// DefaultCapacity bounds the store when no capacity is configured.
const DefaultCapacity = 10000

// IdentityStoreOptions configures an IdentityStore.
type IdentityStoreOptions struct {
	// TTL is measured from the last write. <= 0 keeps entries until evicted.
	TTL time.Duration
	// Capacity is the most sessions held; the least recently used go first.
	Capacity int
	// Now is the clock; tests inject one.
	Now func() time.Time
}

type lruEntry struct {
	key      string
	identity domainauth.Identity
	// present is false for the tombstone Delete leaves to carry the generation.
	present bool
	gen     uint64
	expiry  time.Time
}

// IdentityStore is an LRU of session ID to identity with per-entry expiry.
// Generations come from one store-wide sequence, so a session that was
// evicted and written again never reuses a generation a fetch may have read.
type IdentityStore struct {
	mu     sync.Mutex
	cap    int
	ttl    time.Duration
	ll     *list.List // front = most recently used
	items  map[string]*list.Element
	now    func() time.Time
	seq    uint64
	evicts atomic.Uint64
}

// NewIdentityStore creates an in-memory store.
func NewIdentityStore(opts IdentityStoreOptions) *IdentityStore {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &IdentityStore{
		cap:   capacity,
		ttl:   opts.TTL,
		ll:    list.New(),
		items: make(map[string]*list.Element),
		now:   now,
	}
}

func (s *IdentityStore) Get(_ context.Context, sessionID string) (domainauth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent := s.lookup(sessionID)
	if ent == nil || !ent.present {
		return domainauth.Identity{}, ports.ErrNotFound
	}
	return ent.identity, nil
}

func (s *IdentityStore) Replace(_ context.Context, sessionID string, identity domainauth.Identity) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(sessionID, identity, true)
	return nil
}

// Delete drops the identity but keeps a tombstone with a new generation.
func (s *IdentityStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(sessionID, domainauth.Identity{}, false)
	return nil
}

func (s *IdentityStore) Generation(_ context.Context, sessionID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ent := s.lookup(sessionID); ent != nil {
		return ent.gen, nil
	}
	return 0, nil
}

func (s *IdentityStore) CompareAndReplace(
	_ context.Context,
	sessionID string,
	gen uint64,
	identity domainauth.Identity,
) (bool, error) {
	if sessionID == "" {
		return false, errors.New("session ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current uint64
	if ent := s.lookup(sessionID); ent != nil {
		current = ent.gen
	}
	if current != gen {
		return false, nil
	}
	s.write(sessionID, identity, true)
	return true, nil
}

// Len returns the number of sessions held, tombstones included.
func (s *IdentityStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ll.Len()
}

// Evictions returns how many live entries were pushed out by capacity.
func (s *IdentityStore) Evictions() uint64 { return s.evicts.Load() }

// lookup returns the live entry for key and marks it used. Expired entries
// are removed. Caller holds s.mu.
func (s *IdentityStore) lookup(key string) *lruEntry {
	el, ok := s.items[key]
	if !ok {
		return nil
	}
	ent, _ := el.Value.(*lruEntry)
	if ent == nil || s.isExpired(ent) {
		s.removeElement(el)
		return nil
	}
	s.ll.MoveToFront(el)
	return ent
}

// write stores identity (or a tombstone) under the next generation. Caller holds s.mu.
func (s *IdentityStore) write(key string, identity domainauth.Identity, present bool) {
	s.seq++
	var exp time.Time
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}

	if el, ok := s.items[key]; ok {
		if ent, entryOK := el.Value.(*lruEntry); entryOK {
			ent.identity, ent.present, ent.gen, ent.expiry = identity, present, s.seq, exp
			s.ll.MoveToFront(el)
			s.sweepExpired()
			return
		}
		s.removeElement(el)
	}

	el := s.ll.PushFront(&lruEntry{key: key, identity: identity, present: present, gen: s.seq, expiry: exp})
	s.items[key] = el
	s.sweepExpired()
	s.evictIfNeeded()
}

func (s *IdentityStore) isExpired(e *lruEntry) bool {
	if e.expiry.IsZero() {
		return false
	}
	return s.now().After(e.expiry)
}

func (s *IdentityStore) removeElement(el *list.Element) {
	s.ll.Remove(el)
	if ent, ok := el.Value.(*lruEntry); ok {
		delete(s.items, ent.key)
	}
}

// sweepExpired drops expired entries from the cold end, stopping at the first
// live one. Caller holds s.mu.
func (s *IdentityStore) sweepExpired() {
	for el := s.ll.Back(); el != nil; el = s.ll.Back() {
		ent, ok := el.Value.(*lruEntry)
		if ok && !s.isExpired(ent) {
			return
		}
		s.removeElement(el)
	}
}

func (s *IdentityStore) evictIfNeeded() {
	for s.ll.Len() > s.cap {
		el := s.ll.Back()
		if el == nil {
			return
		}
		s.removeElement(el)
		s.evicts.Add(1)
	}
}
