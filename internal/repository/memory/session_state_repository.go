package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/llm"
)

// SessionState is the hot per-session cache entry: the current diagnosis
// plus the recent transcript, so a turn does not need to reload them from
// Postgres. The database remains the source of truth.
type SessionState struct {
	SessionID string
	PersonaID string
	Diagnosis *diagnosis.Diagnosis
	History   []llm.Message
}

type SessionStateRepository struct {
	cache *cache.Cache
}

func NewSessionStateRepository() *SessionStateRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStateRepository{
		cache: c,
	}
}

func (r *SessionStateRepository) Save(state *SessionState) {
	r.cache.Set(state.SessionID, state, cache.DefaultExpiration)
}

func (r *SessionStateRepository) Get(sessionID string) (*SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*SessionState), true
	}
	return nil, false
}

func (r *SessionStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
