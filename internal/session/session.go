// Package session builds the scs session manager that persists the theme
// preference between visits.
package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jmoiron/sqlx"
)

// CookieName is the session cookie.
const CookieName = "advisor_session"

// NewManager creates an SCS session manager. The driver selects the store:
// "mysql", "postgres", "sqlite3", or "memory" (db may be nil).
func NewManager(db *sqlx.DB, driver string, lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "postgres":
		sm.Store = postgresstore.New(db.DB)
	case "sqlite3":
		sm.Store = sqlite3store.New(db.DB)
	default:
		sm.Store = memstore.New()
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}
