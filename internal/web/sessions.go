package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"showcase/internal/session"
)

const (
	sessionCookie      = "showcase_session"
	defaultMaxSessions = 1024
)

// webSession guards one browser's session; requests from the same browser
// may arrive concurrently.
type webSession struct {
	mu sync.Mutex
	*session.Session
}

// sessionStore keeps recent browser sessions so an uploaded file survives
// later widget submits. The least recently used session is evicted first.
type sessionStore struct {
	cache *lru.Cache[string, *webSession]
}

func newSessionStore(size int) (*sessionStore, error) {
	if size <= 0 {
		size = defaultMaxSessions
	}
	c, err := lru.New[string, *webSession](size)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &sessionStore{cache: c}, nil
}

// lookup returns the session named by the request cookie. A missing or
// evicted session is replaced by a new one and the cookie is set.
func (s *sessionStore) lookup(w http.ResponseWriter, r *http.Request, today time.Time) *webSession {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if ws, ok := s.cache.Get(c.Value); ok {
			return ws
		}
	}
	ws := &webSession{Session: session.New(today)}
	s.cache.Add(ws.ID, ws)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    ws.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ws
}
