package session

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zdy718/ClearDollar/internal/cache"
	"github.com/zdy718/ClearDollar/internal/store"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

type sessionKey struct {
	userID string
	mode   tagtree.Mode
}

func (k sessionKey) String() string {
	return string(k.mode) + "/" + k.userID
}

// Manager hands out one loaded Session per (user, mode). Sessions are a
// disposable cache of the store: eviction only drops the local forest.
type Manager struct {
	store    store.Store
	sessions *cache.LRU[sessionKey, *Session]
	loads    singleflight.Group
}

// NewManager keeps at most size sessions, each for at most ttl since it was
// loaded.
func NewManager(st store.Store, size int, ttl time.Duration) *Manager {
	return &Manager{
		store:    st,
		sessions: cache.NewLRU[sessionKey, *Session](size, ttl),
	}
}

// Get returns the session for userID and mode, loading it on first use.
// Concurrent first uses of one key share a single load, which runs outside
// the cache lock and detached from any one caller's context. Each caller
// stops waiting when its own ctx is done.
func (m *Manager) Get(ctx context.Context, userID string, mode tagtree.Mode) (*Session, error) {
	key := sessionKey{userID: userID, mode: mode}
	if s, ok := m.sessions.Get(key); ok {
		return s, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := m.loads.DoChan(key.String(), func() (any, error) {
		if s, ok := m.sessions.Get(key); ok {
			return s, nil
		}
		s := New(m.store, userID, mode)
		if err := s.Load(loadCtx); err != nil {
			return nil, err
		}
		m.sessions.Set(key, s)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Session), nil
	}
}

// Invalidate drops both of a user's sessions so the next Get reloads from the
// store. Call it after writing categories outside a session.
func (m *Manager) Invalidate(userID string) {
	for _, mode := range []tagtree.Mode{tagtree.ModeIncome, tagtree.ModeExpense} {
		key := sessionKey{userID: userID, mode: mode}
		m.loads.Forget(key.String())
		m.sessions.Delete(key)
	}
}

// CleanExpired evicts sessions past their TTL.
func (m *Manager) CleanExpired() int {
	return m.sessions.CleanExpired()
}
