// Package session holds the client-held session state consumed by the
// client-tier route guard. The state is a single explicitly-owned object
// mutated only through reducer-style transitions; it mirrors server
// decisions for navigation gating and is never a security boundary.
package session

import (
	"context"
	"net/url"

	"admingate/internal/pkg/authz"
)

// Status of the client-held session
type Status int

const (
	// StatusAnonymous means no verified identity is held
	StatusAnonymous Status = iota
	// StatusVerifying means a profile re-check is in flight
	StatusVerifying
	// StatusAuthenticated means a verified identity is held
	StatusAuthenticated
)

// UserInfo is the client-side view of the authenticated user
type UserInfo struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
}

// Profile is the session bootstrap payload: user, menus and permissions
// fetched in one call after login or app reload.
type Profile struct {
	User            UserInfo               `json:"user"`
	Menus           []authz.MenuEntry      `json:"menus"`
	Permissions     []string               `json:"permissions"`
	PathPermissions authz.PathPermissionMap `json:"path_permissions,omitempty"`
}

// Session is the owned session-state object. Zero value is anonymous.
type Session struct {
	status      Status
	user        *UserInfo
	menus       []authz.MenuEntry
	permissions []string
	pathPerms   authz.PathPermissionMap
}

// New returns an anonymous session
func New() *Session {
	return &Session{status: StatusAnonymous}
}

// Login transitions the session to authenticated with the bootstrap
// payload and derives the path permission map when the server did not
// supply one.
func (s *Session) Login(p *Profile) {
	user := p.User
	s.status = StatusAuthenticated
	s.user = &user
	s.menus = p.Menus
	s.permissions = p.Permissions
	if p.PathPermissions != nil {
		s.pathPerms = p.PathPermissions
	} else {
		s.pathPerms = authz.Build(p.Menus)
	}
}

// Logout clears all session state
func (s *Session) Logout() {
	*s = Session{status: StatusAnonymous}
}

// SetUserInfo replaces the held user info without touching menus or
// permissions (profile edits).
func (s *Session) SetUserInfo(u UserInfo) {
	s.user = &u
}

// SetPathPermissionMap replaces the cached path permission map
func (s *Session) SetPathPermissionMap(m authz.PathPermissionMap) {
	s.pathPerms = m
}

// Status returns the current session status
func (s *Session) Status() Status {
	return s.status
}

// IsAuthenticated reports whether a verified identity is held
func (s *Session) IsAuthenticated() bool {
	return s.status == StatusAuthenticated
}

// User returns the held user info, nil when anonymous
func (s *Session) User() *UserInfo {
	return s.user
}

// Granted returns the union of role names and permission codes, the set
// consulted for navigation gating.
func (s *Session) Granted() []string {
	seen := make(map[string]struct{})
	var granted []string
	if s.user != nil {
		for _, r := range s.user.Roles {
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				granted = append(granted, r)
			}
		}
	}
	for _, p := range s.permissions {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			granted = append(granted, p)
		}
	}
	return granted
}

// CanVisit checks path against the cached permission map
func (s *Session) CanVisit(path string) bool {
	return authz.Allowed(path, s.Granted(), s.pathPerms)
}

// ProfileFetcher fetches the bootstrap payload from the server
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*Profile, error)
}

// Bootstrap fetches profile, menus and permissions in one call and
// populates the session. Any failure leaves the session anonymous so the
// route guard's redirect behavior takes over.
func Bootstrap(ctx context.Context, fetcher ProfileFetcher, s *Session) error {
	s.status = StatusVerifying
	profile, err := fetcher.FetchProfile(ctx)
	if err != nil {
		s.Logout()
		return err
	}
	s.Login(profile)
	return nil
}

// Decision of the client-tier route guard
type Decision int

const (
	// DecisionProceed renders the protected view
	DecisionProceed Decision = iota
	// DecisionPending renders a loading state while verification runs
	DecisionPending
	// DecisionRedirect sends the user to the login view
	DecisionRedirect
	// DecisionDeny renders the access-denied placeholder
	DecisionDeny
)

// GuardResult carries the guard decision and, for redirects, the target
type GuardResult struct {
	Decision   Decision
	RedirectTo string
}

// LoginPath is where unauthenticated navigation is redirected
const LoginPath = "/login"

// Guard decides whether the session may render path. Protected content is
// never exposed while verification is pending.
func Guard(s *Session, path string) GuardResult {
	switch s.status {
	case StatusVerifying:
		return GuardResult{Decision: DecisionPending}
	case StatusAnonymous:
		return GuardResult{
			Decision:   DecisionRedirect,
			RedirectTo: LoginPath + "?from=" + url.QueryEscape(path),
		}
	}
	if !s.CanVisit(path) {
		return GuardResult{Decision: DecisionDeny}
	}
	return GuardResult{Decision: DecisionProceed}
}
