package auth

// Package auth contains domain-level types for access control and the current
// user's identity. It is pure and free of framework/adapter concerns.

import (
	"github.com/group38/ojweb/internal/jsonx"
)

// AccessLevel is the privilege a route requires and the role a user holds.
// The string form matches the tags used by route metadata and the OJ API
// ("notLogin", "user", "admin").
type AccessLevel string

const (
	AccessNotLogin AccessLevel = "notLogin"
	AccessUser     AccessLevel = "user"
	AccessAdmin    AccessLevel = "admin"
)

// accessRank is the fixed total order notLogin < user < admin.
//
//nolint:gochecknoglobals // closed enumeration, read-only
var accessRank = map[AccessLevel]int{
	AccessNotLogin: 0,
	AccessUser:     1,
	AccessAdmin:    2,
}

// AccessLevels returns every member of the enumeration in rank order.
func AccessLevels() []AccessLevel {
	return []AccessLevel{AccessNotLogin, AccessUser, AccessAdmin}
}

// Valid reports whether l is a member of the enumeration.
func (l AccessLevel) Valid() bool {
	_, ok := accessRank[l]
	return ok
}

// Rank returns the position of l in the total order.
func (l AccessLevel) Rank() (int, bool) {
	r, ok := accessRank[l]
	return r, ok
}

func (l AccessLevel) String() string { return string(l) }

// AnonymousName is the display name of the placeholder identity.
const AnonymousName = "not logged in"

// Identity is the cached representation of the session's current user.
// It is always replaced as a whole value; Role is empty until the first
// identity fetch completes.
type Identity struct {
	ID          jsonx.ID    `json:"id,omitempty"`
	UserName    string      `json:"userName"`
	UserAvatar  string      `json:"userAvatar,omitempty"`
	UserProfile string      `json:"userProfile,omitempty"`
	Role        AccessLevel `json:"userRole,omitempty"`
}

// Anonymous is the placeholder every session starts with.
func Anonymous() Identity { return Identity{UserName: AnonymousName} }

// NotLoggedIn is the identity stored after the API explicitly reported that
// nobody is logged in.
func NotLoggedIn() Identity {
	return Identity{UserName: AnonymousName, Role: AccessNotLogin}
}

// HasRole reports whether a role has been resolved for this identity.
func (i Identity) HasRole() bool { return i.Role != "" }

// IsAuthenticated reports whether the identity carries a known role above notLogin.
func (i Identity) IsAuthenticated() bool {
	return i.Role.Valid() && i.Role != AccessNotLogin
}

// CheckAccess reports whether identity satisfies required. notLogin is always
// satisfied; otherwise the role must be known and rank at least as high.
func CheckAccess(identity Identity, required AccessLevel) bool {
	if required == AccessNotLogin {
		return true
	}
	have, ok := identity.Role.Rank()
	if !ok {
		return false
	}
	need, ok := required.Rank()
	if !ok {
		return false
	}
	return have >= need
}
