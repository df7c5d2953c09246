package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rate_desk/internal/adapters/observability"
	"rate_desk/internal/domain"
)

// Session is one browser's page state. Lock it for the duration of a pass so
// interactions from the same browser run one at a time.
type Session struct {
	sync.Mutex
	ID    uuid.UUID
	State domain.SessionState

	lastAccessed time.Time
}

// Store keeps sessions in memory until they sit idle longer than the timeout.
type Store struct {
	lock     sync.Mutex
	sessions map[uuid.UUID]*Session
	idle     time.Duration
	now      func() time.Time
}

func NewStore(idle time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns the live session for id, or starts a new one when id is unknown
// or expired. The returned bool is true for a new session.
func (s *Store) Get(id string) (*Session, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	s.sweep(now)

	if parsed, err := uuid.Parse(id); err == nil {
		if sess, ok := s.sessions[parsed]; ok {
			sess.lastAccessed = now
			return sess, false
		}
	}

	sess := &Session{ID: uuid.New(), lastAccessed: now}
	s.sessions[sess.ID] = sess
	observability.Sessions.Set(float64(len(s.sessions)))
	log.Debug().Str("session", sess.ID.String()).Msg("session started")
	return sess, true
}

// End drops a session; its history goes with it.
func (s *Store) End(id string) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.sessions[parsed]; ok {
		delete(s.sessions, parsed)
		observability.Sessions.Set(float64(len(s.sessions)))
		log.Debug().Str("session", id).Msg("session ended")
	}
}

func (s *Store) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.sessions)
}

// sweep drops idle sessions. Callers hold s.lock.
func (s *Store) sweep(now time.Time) {
	if s.idle <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastAccessed) > s.idle {
			delete(s.sessions, id)
			log.Debug().Str("session", id.String()).Msg("session expired")
		}
	}
	observability.Sessions.Set(float64(len(s.sessions)))
}
