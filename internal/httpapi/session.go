package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/cart"
	"github.com/Cardenas2911/dtalles-jewelry/internal/favorites"
	"github.com/Cardenas2911/dtalles-jewelry/internal/kv"
	"github.com/Cardenas2911/dtalles-jewelry/internal/search"
)

// SessionCookie names the browser-session cookie.
const SessionCookie = "storefront_session"

type sessionCtxKey struct{}

// Session is one browser session's state: its own cart instance (session
// only), favorites store (durable under the session id), and searcher, so
// one session's in-flight search never supersedes another's.
type Session struct {
	ID        string
	Cart      *cart.Store
	Favorites *favorites.Store
	Searcher  *search.Searcher
}

// BackendFactory builds the durable favorites backend for a session.
type BackendFactory func(sessionID string) kv.Backend

// SearcherFactory builds a session's searcher.
type SearcherFactory func() *search.Searcher

// FileBackends stores each session's favorites as a JSON file under dir.
func FileBackends(dir string) BackendFactory {
	return func(sessionID string) kv.Backend {
		return kv.NewFileBackend(filepath.Join(dir, sessionID+".json"))
	}
}

// RedisBackends stores each session's favorites under a namespaced Redis
// key.
func RedisBackends(client *redis.Client) BackendFactory {
	return func(sessionID string) kv.Backend {
		return kv.NewRedisBackend(client, fmt.Sprintf("%s:%s", favorites.StorageKey, sessionID))
	}
}

type sessionEntry struct {
	sess     *Session
	lastSeen atomic.Int64 // unix nanos of the most recent request
}

// Sessions is the registry of live sessions. Stores are constructed once per
// session and injected into handlers, never held as package globals.
type Sessions struct {
	mu          sync.RWMutex
	sessions    map[string]*sessionEntry
	newBackend  BackendFactory
	newSearcher SearcherFactory
	now         func() time.Time
	log         *zap.Logger
}

// NewSessions creates an empty registry.
func NewSessions(newBackend BackendFactory, newSearcher SearcherFactory, log *zap.Logger) *Sessions {
	return &Sessions{
		sessions:    make(map[string]*sessionEntry),
		newBackend:  newBackend,
		newSearcher: newSearcher,
		now:         time.Now,
		log:         log,
	}
}

// Get returns the session with the given id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	now := s.now().UnixNano()

	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		e.lastSeen.Store(now)
		return e.sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen.Store(now)
		return e.sess
	}
	e = &sessionEntry{sess: &Session{
		ID:        id,
		Cart:      cart.NewStore(),
		Favorites: favorites.NewStore(s.newBackend(id), s.log),
		Searcher:  s.newSearcher(),
	}}
	e.lastSeen.Store(now)
	s.sessions[id] = e
	return e.sess
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle drops sessions with no request for at least idle, returning the
// number dropped. An evicted session's cart is gone (carts are session
// scoped); its favorites stay durable in the backend and reload when the
// same cookie returns.
func (s *Sessions) EvictIdle(idle time.Duration) int {
	cutoff := s.now().Add(-idle).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.sessions {
		if e.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Middleware resolves the session from the request cookie, minting a new
// session id when none is present, and stores it on the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		sess := s.Get(id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, sess)))
	})
}

// sessionFrom returns the request's session, or nil when the middleware did
// not run.
func sessionFrom(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return sess
}
