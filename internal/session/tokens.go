package session

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// Tokens adapts the scs session to the api.TokenStore interface. All reads
// and writes go through the request's session context, so the token pair
// follows the browser session and nothing token-shaped is held elsewhere.
type Tokens struct {
	sm *scs.SessionManager
}

// NewTokens creates a session-backed token store.
func NewTokens(sm *scs.SessionManager) *Tokens {
	return &Tokens{sm: sm}
}

// AccessToken returns the stored access token, or "".
func (t *Tokens) AccessToken(ctx context.Context) string {
	return t.sm.GetString(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "".
func (t *Tokens) RefreshToken(ctx context.Context) string {
	return t.sm.GetString(ctx, KeyRefreshToken)
}

// SetTokens stores a new token pair. The refresh token is only replaced
// when the backend rotated it; refresh responses may omit it.
func (t *Tokens) SetTokens(ctx context.Context, access, refresh string) {
	t.sm.Put(ctx, KeyAccessToken, access)
	if refresh != "" {
		t.sm.Put(ctx, KeyRefreshToken, refresh)
	}
}

// ClearTokens drops both tokens.
func (t *Tokens) ClearTokens(ctx context.Context) {
	t.sm.Remove(ctx, KeyAccessToken)
	t.sm.Remove(ctx, KeyRefreshToken)
}
