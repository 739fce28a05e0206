// Package session owns the server-side browser session: the backend token
// pair, the cached principal snapshot, and the login/initialize/logout
// lifecycle. It is the single writer of authentication state; everything
// downstream reads the immutable Principal placed in the request context.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys for the stored backend credentials. These are the only
// persisted client state the console depends on.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// NewManager creates a session manager backed by the SQLite store.
func NewManager(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
