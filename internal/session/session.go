// Package session keeps per-browser state, currently the one-shot flash
// message shown after a project action.
package session

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

const flashKey = "flash"

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

// Flash is a one-time notification.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Flash{})
}

// NewManager creates an SCS session manager backed by the application DB.
// driver selects the store: "mysql", "postgres", or "sqlite3" (default).
func NewManager(db *sqlx.DB, driver string, lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "postgres":
		sm.Store = postgresstore.New(db.DB)
	default:
		sm.Store = sqlite3store.New(db.DB)
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "sitegen_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}

// Flasher stores and pops flash messages. A nil manager makes every call a
// no-op, which keeps the CLI and tests free of session plumbing.
type Flasher struct {
	sm *scs.SessionManager
}

func NewFlasher(sm *scs.SessionManager) *Flasher {
	return &Flasher{sm: sm}
}

// Put replaces any pending flash. ctx must come from a request that passed
// through the manager's LoadAndSave middleware.
func (f *Flasher) Put(ctx context.Context, flashType, message string) {
	if f == nil || f.sm == nil {
		return
	}
	f.sm.Put(ctx, flashKey, Flash{Type: flashType, Message: message})
}

// Pop returns and clears the pending flash, or nil.
func (f *Flasher) Pop(ctx context.Context) *Flash {
	if f == nil || f.sm == nil {
		return nil
	}
	v, ok := f.sm.Pop(ctx, flashKey).(Flash)
	if !ok {
		return nil
	}
	return &v
}
