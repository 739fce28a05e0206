// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/cache"
	"github.com/olegiv/obook-go/internal/model"
)

// ErrLoginSuperseded means a login's profile fetch completed after the
// session was logged out or re-authenticated; its result was discarded.
var ErrLoginSuperseded = errors.New("login superseded")

// profileTTL bounds how stale a cached principal may be before the next
// request re-fetches the profile from the backend.
const profileTTL = 30 * time.Second

// Store is the session lifecycle: login, per-request principal resolution,
// logout. It is the only writer of tokens and cached principals.
type Store struct {
	sm      *scs.SessionManager
	backend *api.Client
	tokens  *Tokens
	cache   cache.Cache

	// generations guards against a profile fetch that completes after the
	// session it belongs to was cleared. Keyed by scs session token.
	generations sync.Map // string -> uint64
	genMu       sync.Mutex
}

// NewStore creates the session store. profiles may be nil to disable
// principal caching (every request then fetches the profile).
func NewStore(sm *scs.SessionManager, backend *api.Client, tokens *Tokens, profiles cache.Cache) *Store {
	return &Store{
		sm:      sm,
		backend: backend,
		tokens:  tokens,
		cache:   profiles,
	}
}

// generation returns the current auth generation for the session.
func (s *Store) generation(ctx context.Context) uint64 {
	token := s.sm.Token(ctx)
	if token == "" {
		return 0
	}
	if v, ok := s.generations.Load(token); ok {
		return v.(uint64)
	}
	return 0
}

// bumpGeneration invalidates any in-flight profile fetch for the session.
func (s *Store) bumpGeneration(ctx context.Context) {
	token := s.sm.Token(ctx)
	if token == "" {
		return
	}
	s.genMu.Lock()
	current := uint64(0)
	if v, ok := s.generations.Load(token); ok {
		current = v.(uint64)
	}
	s.generations.Store(token, current+1)
	s.genMu.Unlock()
}

// Login exchanges credentials for tokens, persists them in the session and
// resolves the principal with a fresh profile fetch. The session ID is
// regenerated first to prevent fixation. Returns api.ErrInvalidCredentials
// on a rejected password; any other error is a backend or network failure
// for the caller to surface.
func (s *Store) Login(ctx context.Context, email, password string) (*model.Principal, error) {
	tokens, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.sm.RenewToken(ctx); err != nil {
		return nil, err
	}
	s.tokens.SetTokens(ctx, tokens.AccessToken, tokens.RefreshToken)

	gen := s.generation(ctx)
	profile, err := s.backend.Profile(ctx)
	if err != nil {
		// Tokens that cannot resolve a profile are useless; drop them so
		// the session stays unauthenticated instead of half-initialized.
		s.tokens.ClearTokens(ctx)
		return nil, err
	}
	if s.generation(ctx) != gen {
		return nil, ErrLoginSuperseded
	}

	principal := profile.Principal()
	s.cachePrincipal(ctx, principal)
	slog.Info("user logged in", "user_id", principal.ID, "email", principal.Email, "role", principal.Role)
	return principal, nil
}

// Resolve returns the principal for the current request, or nil when the
// session is unauthenticated. Failures never propagate: an expired or
// unresolvable credential silently clears the session, which is exactly
// the "not logged in" state the guards redirect on.
func (s *Store) Resolve(ctx context.Context) *model.Principal {
	access := s.tokens.AccessToken(ctx)
	if access == "" {
		return nil
	}

	if principal := s.cachedPrincipal(ctx, access); principal != nil {
		return principal
	}

	gen := s.generation(ctx)
	profile, err := s.backend.Profile(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrCredentialExpired) {
			slog.Warn("profile fetch failed", "error", err)
		}
		// ErrCredentialExpired already cleared the tokens; clear for the
		// other failure modes too and treat the request as anonymous.
		s.tokens.ClearTokens(ctx)
		return nil
	}
	if s.generation(ctx) != gen {
		return nil
	}

	principal := profile.Principal()
	s.cachePrincipal(ctx, principal)
	return principal
}

// Logout best-effort revokes the refresh token, clears credentials and
// destroys the session. Backend failures are logged and ignored.
func (s *Store) Logout(ctx context.Context) {
	refresh := s.tokens.RefreshToken(ctx)
	access := s.tokens.AccessToken(ctx)

	if err := s.backend.Logout(ctx, refresh); err != nil {
		slog.Debug("backend logout failed", "error", err)
	}

	s.bumpGeneration(ctx)
	s.dropCached(ctx, access)
	s.tokens.ClearTokens(ctx)
	if err := s.sm.Destroy(ctx); err != nil {
		slog.Error("session destroy error", "error", err)
	}
}

// profileCacheKey derives the cache key from the access token. The token
// itself never becomes a cache key or log field.
func profileCacheKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "profile:" + hex.EncodeToString(sum[:])
}

func (s *Store) cachePrincipal(ctx context.Context, p *model.Principal) {
	if s.cache == nil {
		return
	}
	access := s.tokens.AccessToken(ctx)
	if access == "" {
		return
	}
	buf, err := json.Marshal(snapshotFromPrincipal(p))
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileCacheKey(access), buf, profileTTL); err != nil {
		slog.Debug("profile cache set failed", "error", err)
	}
}

func (s *Store) cachedPrincipal(ctx context.Context, access string) *model.Principal {
	if s.cache == nil {
		return nil
	}
	buf, err := s.cache.Get(ctx, profileCacheKey(access))
	if err != nil {
		return nil
	}
	var snap principalSnapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		return nil
	}
	return snap.principal()
}

func (s *Store) dropCached(ctx context.Context, access string) {
	if s.cache == nil || access == "" {
		return
	}
	if err := s.cache.Delete(ctx, profileCacheKey(access)); err != nil {
		slog.Debug("profile cache delete failed", "error", err)
	}
}

// principalSnapshot is the cache wire form of a Principal. The override
// list round-trips through the same NewOverrides constructor as the wire
// profile, so the unset/empty equivalence is preserved.
type principalSnapshot struct {
	ID                     string            `json:"id"`
	Email                  string            `json:"email"`
	Name                   string            `json:"name"`
	Role                   string            `json:"role"`
	ClientID               string            `json:"client_id,omitempty"`
	Modules                []model.ModuleKey `json:"modules,omitempty"`
	RequiresPasswordChange bool              `json:"requires_password_change,omitempty"`
}

func snapshotFromPrincipal(p *model.Principal) principalSnapshot {
	return principalSnapshot{
		ID:                     p.ID,
		Email:                  p.Email,
		Name:                   p.Name,
		Role:                   p.Role.String(),
		ClientID:               p.ClientID,
		Modules:                p.Modules.Modules(),
		RequiresPasswordChange: p.RequiresPasswordChange,
	}
}

func (s principalSnapshot) principal() *model.Principal {
	return &model.Principal{
		ID:                     s.ID,
		Email:                  s.Email,
		Name:                   s.Name,
		Role:                   model.ParseRole(s.Role),
		ClientID:               s.ClientID,
		Modules:                model.NewOverrides(s.Modules),
		RequiresPasswordChange: s.RequiresPasswordChange,
	}
}
