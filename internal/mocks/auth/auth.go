package auth

// Package auth contains simple hand-written test doubles for identity ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityStore   = (*MemoryIdentityStore)(nil)
	_ ports.LoginUserSource = (*StubLoginUserSource)(nil)
	_ ports.AccountGateway  = (*StubAccountGateway)(nil)
	_ ports.SessionState    = (*FakeSessionState)(nil)
)

// MemoryIdentityStore is an in-memory identity store with injectable failures.
type MemoryIdentityStore struct {
	mu         sync.Mutex
	identities map[string]domainauth.Identity
	gens       map[string]uint64

	GetErr     error
	ReplaceErr error
	Replaced   int
}

// NewMemoryIdentityStore creates an empty store.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{
		identities: make(map[string]domainauth.Identity),
		gens:       make(map[string]uint64),
	}
}

func (m *MemoryIdentityStore) Get(_ context.Context, sessionID string) (domainauth.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domainauth.Identity{}, m.GetErr
	}
	identity, ok := m.identities[sessionID]
	if !ok {
		return domainauth.Identity{}, ports.ErrNotFound
	}
	return identity, nil
}

func (m *MemoryIdentityStore) Replace(_ context.Context, sessionID string, identity domainauth.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaceLocked(sessionID, identity)
}

func (m *MemoryIdentityStore) replaceLocked(sessionID string, identity domainauth.Identity) error {
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.identities[sessionID] = identity
	m.gens[sessionID]++
	m.Replaced++
	return nil
}

func (m *MemoryIdentityStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.identities, sessionID)
	m.gens[sessionID]++
	return nil
}

func (m *MemoryIdentityStore) Generation(_ context.Context, sessionID string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[sessionID], nil
}

func (m *MemoryIdentityStore) CompareAndReplace(
	_ context.Context,
	sessionID string,
	gen uint64,
	identity domainauth.Identity,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[sessionID] != gen {
		return false, nil
	}
	if err := m.replaceLocked(sessionID, identity); err != nil {
		return false, err
	}
	return true, nil
}

// Put seeds an identity without counting it as a replacement.
func (m *MemoryIdentityStore) Put(sessionID string, identity domainauth.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[sessionID] = identity
	m.gens[sessionID]++
}

// StubLoginUserSource answers GetLoginUser from its fields and counts calls.
type StubLoginUserSource struct {
	GetLoginUserFunc func(ctx context.Context, cookieHeader string) (ports.LoginUserResult, error)
	Result           ports.LoginUserResult
	Err              error

	calls atomic.Int64
}

func (s *StubLoginUserSource) GetLoginUser(ctx context.Context, cookieHeader string) (ports.LoginUserResult, error) {
	s.calls.Add(1)
	if s.GetLoginUserFunc != nil {
		return s.GetLoginUserFunc(ctx, cookieHeader)
	}
	return s.Result, s.Err
}

// Calls returns how many times GetLoginUser ran.
func (s *StubLoginUserSource) Calls() int { return int(s.calls.Load()) }

// StubAccountGateway answers Login/Logout from its func fields.
type StubAccountGateway struct {
	LoginFunc  func(ctx context.Context, account, password, cookieHeader string) (ports.LoginOutcome, error)
	LogoutFunc func(ctx context.Context, cookieHeader string) ([]*http.Cookie, error)
}

func (s *StubAccountGateway) Login(
	ctx context.Context,
	account, password, cookieHeader string,
) (ports.LoginOutcome, error) {
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, account, password, cookieHeader)
	}
	return ports.LoginOutcome{}, errors.New("not implemented")
}

func (s *StubAccountGateway) Logout(ctx context.Context, cookieHeader string) ([]*http.Cookie, error) {
	if s.LogoutFunc != nil {
		return s.LogoutFunc(ctx, cookieHeader)
	}
	return nil, nil
}

// FakeSessionState is a SessionState whose fetch replaces the identity with
// FetchResult (when set) or fails with FetchErr.
type FakeSessionState struct {
	mu          sync.Mutex
	current     domainauth.Identity
	FetchResult *domainauth.Identity
	FetchErr    error
	IdentityErr error
	FetchPanic  any
	Fetches     int
}

// NewFakeSessionState starts from the given identity.
func NewFakeSessionState(initial domainauth.Identity) *FakeSessionState {
	return &FakeSessionState{current: initial}
}

func (f *FakeSessionState) Identity(context.Context) (domainauth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.IdentityErr != nil {
		return domainauth.Identity{}, f.IdentityErr
	}
	return f.current, nil
}

func (f *FakeSessionState) FetchLoginUser(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fetches++
	if f.FetchPanic != nil {
		panic(f.FetchPanic)
	}
	if f.FetchErr != nil {
		return f.FetchErr
	}
	if f.FetchResult != nil {
		f.current = *f.FetchResult
	}
	return nil
}

// Current returns the identity without going through the port.
func (f *FakeSessionState) Current() domainauth.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
