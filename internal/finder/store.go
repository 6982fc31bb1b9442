package finder

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pageza/recetas/backend/internal/metrics"
	"github.com/pageza/recetas/backend/internal/service"
)

// Store keeps sessions in memory. Idle sessions expire after the TTL and the
// least recently used one is evicted once the store is full.
type Store struct {
	sessions   *expirable.LRU[uuid.UUID, *Session]
	translator service.Translator
	searcher   service.RecipeSearcher
	opts       Options
}

// NewStore creates a Store holding at most size sessions
func NewStore(translator service.Translator, searcher service.RecipeSearcher, opts Options, size int, ttl time.Duration) *Store {
	onEvict := func(_ uuid.UUID, s *Session) {
		s.Close()
		metrics.ActiveSessions.Dec()
	}
	return &Store{
		sessions:   expirable.NewLRU[uuid.UUID, *Session](size, onEvict, ttl),
		translator: translator,
		searcher:   searcher,
		opts:       opts,
	}
}

// Create starts a new empty session
func (st *Store) Create() *Session {
	s := NewSession(uuid.New(), st.translator, st.searcher, st.opts)
	st.sessions.Add(s.ID, s)
	metrics.ActiveSessions.Inc()
	return s
}

// Get returns the session and renews its TTL
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	s, ok := st.sessions.Get(id)
	if !ok {
		return nil, false
	}
	st.sessions.Add(id, s)
	return s, true
}

// Delete drops a session and cancels its in-flight fetch
func (st *Store) Delete(id uuid.UUID) bool {
	return st.sessions.Remove(id)
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	return st.sessions.Len()
}

// Close evicts every session
func (st *Store) Close() {
	st.sessions.Purge()
}
