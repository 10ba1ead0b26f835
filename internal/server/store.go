package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/cardgolf/internal/gameid"
	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/golf/ai"
)

// ErrStoreFull is returned by Create when the session cap is reached.
var ErrStoreFull = errors.New("session store is full")

// Session owns one match and everything attached to it. All mutating
// calls for a session are serialized through Do, so concurrent requests
// for the same game never interleave.
type Session struct {
	ID    string
	mu    sync.Mutex
	match *golf.Match
	// agents holds the AI policy per non-human seat.
	agents map[int]ai.Agent

	createdAt  time.Time
	lastActive time.Time

	subMu       sync.Mutex
	subscribers map[chan []byte]bool
}

// Do runs fn with exclusive access to the session's match. The lock is
// held for one apply-and-recompute cycle and released before the HTTP
// response is written.
func (s *Session) Do(fn func(m *golf.Match, agents map[int]ai.Agent) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.match, s.agents)
}

// Subscribe registers a state-stream listener and returns its channel.
// Slow listeners drop snapshots rather than block mutations.
func (s *Session) Subscribe() chan []byte {
	ch := make(chan []byte, 8)
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers[ch] = true
	return ch
}

// Unsubscribe removes a listener.
func (s *Session) Unsubscribe(ch chan []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subscribers[ch] {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// closeSubscribers ends every attached state stream. Called when the
// session leaves the store so streaming handlers unwind with it.
func (s *Session) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// publish fans a snapshot out to all listeners.
func (s *Session) publish(payload []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- payload:
		default:
		}
	}
}

// Store is the process-wide map from game ID to session, with idle
// sessions evicted by a background sweep.
type Store struct {
	logger      *log.Logger
	clock       quartz.Clock
	ttl         time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store. The clock is injectable so
// eviction is testable without real waiting.
func NewStore(logger *log.Logger, clock quartz.Clock, ttl time.Duration, maxSessions int) *Store {
	return &Store{
		logger:      logger.WithPrefix("store"),
		clock:       clock,
		ttl:         ttl,
		maxSessions: maxSessions,
		sessions:    make(map[string]*Session),
	}
}

// Create registers a new session for the match and returns it.
func (st *Store) Create(match *golf.Match, agents map[int]ai.Agent) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= st.maxSessions {
		return nil, ErrStoreFull
	}

	now := st.clock.Now()
	session := &Session{
		ID:          gameid.New(),
		match:       match,
		agents:      agents,
		createdAt:   now,
		lastActive:  now,
		subscribers: make(map[chan []byte]bool),
	}
	st.sessions[session.ID] = session
	st.logger.Info("Created session", "game_id", session.ID, "sessions", len(st.sessions))
	return session, nil
}

// Get returns the session for id, refreshing its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		session.mu.Lock()
		session.lastActive = st.clock.Now()
		session.mu.Unlock()
	}
	return session, ok
}

// Remove evicts a session by ID.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	session, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		session.closeSubscribers()
	}
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep() int {
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, session := range st.sessions {
		session.mu.Lock()
		idle := now.Sub(session.lastActive)
		session.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			session.closeSubscribers()
			evicted++
			st.logger.Info("Evicted idle session", "game_id", id, "idle", idle)
		}
	}
	return evicted
}

// Run sweeps periodically until ctx is cancelled.
func (st *Store) Run(ctx context.Context) error {
	interval := st.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	waiter := st.clock.TickerFunc(ctx, interval, func() error {
		st.Sweep()
		return nil
	}, "session-sweep")
	return waiter.Wait()
}
