package server

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/golf/ai"
	"github.com/lox/cardgolf/internal/randutil"
)

func newTestMatch(t *testing.T) (*golf.Match, map[int]ai.Agent) {
	t.Helper()
	match, err := golf.NewMatch(golf.MatchOptions{Seed: 42})
	require.NoError(t, err)
	agents, err := ai.ForPlayers(match.Players(), randutil.New(42))
	require.NoError(t, err)
	return match, agents
}

func TestStoreCreateAndGet(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	store := NewStore(logger, quartz.NewMock(t), 30*time.Minute, 10)

	match, agents := newTestMatch(t)
	session, err := store.Create(match, agents)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Len(t, session.ID, 26)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get(session.ID)
	require.True(t, ok)
	assert.Same(t, session, got)

	_, ok = store.Get("01h5n0et5q6mt3v7ms1234abcd")
	assert.False(t, ok)

	store.Remove(session.ID)
	assert.Equal(t, 0, store.Len())
}

func TestStoreEnforcesSessionCap(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	store := NewStore(logger, quartz.NewMock(t), 30*time.Minute, 2)

	for i := 0; i < 2; i++ {
		match, agents := newTestMatch(t)
		_, err := store.Create(match, agents)
		require.NoError(t, err)
	}

	match, agents := newTestMatch(t)
	_, err := store.Create(match, agents)
	assert.ErrorIs(t, err, ErrStoreFull)
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	clock := quartz.NewMock(t)
	store := NewStore(logger, clock, 30*time.Minute, 10)

	match, agents := newTestMatch(t)
	idle, err := store.Create(match, agents)
	require.NoError(t, err)
	match, agents = newTestMatch(t)
	active, err := store.Create(match, agents)
	require.NoError(t, err)

	// Touch one session near the deadline; only the idle one gets swept.
	clock.Advance(20 * time.Minute)
	_, ok := store.Get(active.ID)
	require.True(t, ok)

	clock.Advance(15 * time.Minute)
	evicted := store.Sweep()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get(idle.ID)
	assert.False(t, ok)
	_, ok = store.Get(active.ID)
	assert.True(t, ok)

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestStoreEvictionClosesSubscribers(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	clock := quartz.NewMock(t)
	store := NewStore(logger, clock, 30*time.Minute, 10)

	match, agents := newTestMatch(t)
	swept, err := store.Create(match, agents)
	require.NoError(t, err)
	match, agents = newTestMatch(t)
	removed, err := store.Create(match, agents)
	require.NoError(t, err)

	sweptCh := swept.Subscribe()
	removedCh := removed.Subscribe()

	// Streams must end with their session, whether the sweeper or an
	// explicit Remove evicts it.
	store.Remove(removed.ID)
	select {
	case _, ok := <-removedCh:
		assert.False(t, ok, "expected a closed channel after Remove")
	default:
		t.Fatal("subscriber channel still open after Remove")
	}

	clock.Advance(31 * time.Minute)
	require.Equal(t, 1, store.Sweep())
	select {
	case _, ok := <-sweptCh:
		assert.False(t, ok, "expected a closed channel after eviction")
	default:
		t.Fatal("subscriber channel still open after eviction")
	}

	// Unsubscribing after eviction is harmless.
	swept.Unsubscribe(sweptCh)
}

func TestSessionDoSerializesAccess(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	store := NewStore(logger, quartz.NewMock(t), 30*time.Minute, 10)

	match, agents := newTestMatch(t)
	session, err := store.Create(match, agents)
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
				// Reading under the lock must observe a consistent round.
				_ = m.Round().Turn()
				_ = m.Round().CardsInPlay()
				return nil
			})
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestSessionPubSub(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	store := NewStore(logger, quartz.NewMock(t), 30*time.Minute, 10)

	match, agents := newTestMatch(t)
	session, err := store.Create(match, agents)
	require.NoError(t, err)

	ch := session.Subscribe()
	session.publish([]byte("snapshot"))

	select {
	case payload := <-ch:
		assert.Equal(t, "snapshot", string(payload))
	default:
		t.Fatal("subscriber did not receive the snapshot")
	}

	// A full subscriber drops snapshots instead of blocking the publisher.
	for i := 0; i < 20; i++ {
		session.publish([]byte("flood"))
	}

	session.Unsubscribe(ch)
	// Unsubscribing twice is harmless.
	session.Unsubscribe(ch)

	// Buffered payloads drain and the channel ends closed.
	for i := 0; ; i++ {
		require.Less(t, i, 20, "channel never closed")
		if _, ok := <-ch; !ok {
			break
		}
	}
}
