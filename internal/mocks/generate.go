// Package mocks provides gomock implementations of the identity ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockIdentityStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sess").Return(domainauth.Identity{}, ports.ErrNotFound)
package mocks

// Generate mock for IdentityStore interface from internal/ports package.
// This creates MockIdentityStore with methods: Get, Replace, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_store_mock.go github.com/group38/ojweb/internal/ports IdentityStore

// Generate mock for LoginUserSource interface from internal/ports package.
// This creates MockLoginUserSource with methods: GetLoginUser
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=login_user_source_mock.go github.com/group38/ojweb/internal/ports LoginUserSource
