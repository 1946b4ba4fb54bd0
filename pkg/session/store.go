package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/observability"
	"github.com/lexora/casemap/pkg/view"
)

// Store is an in-memory session registry with idle expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	viewOpts []view.Option

	now func() time.Time
}

// NewStore creates a store. A non-positive ttl means [DefaultTTL]; max <= 0
// means no limit on live sessions. viewOpts apply to every new view.
func NewStore(ttl time.Duration, max int, viewOpts ...view.Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		viewOpts: viewOpts,
		now:      time.Now,
	}
}

// Create mounts g in a new session. A nil graph starts in the empty state.
func (st *Store) Create(ctx context.Context, g *mindmap.Graph) (*Session, error) {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && len(st.sessions) >= st.max {
		st.evictLocked(ctx, now)
		if len(st.sessions) >= st.max {
			return nil, errors.New(errors.ErrCodeLimitExceeded, "too many open sessions (max %d)", st.max)
		}
	}

	v := view.New(st.viewOpts...)
	v.SetGraph(g)
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		view:      v,
		expiresAt: now.Add(st.ttl),
	}
	st.sessions[sess.ID] = sess
	observability.Session().OnSessionCreate(ctx, sess.ID, g.NodeCount())
	return sess, nil
}

// Get returns a live session and extends its lifetime.
func (st *Store) Get(ctx context.Context, id string) (*Session, error) {
	now := st.now()
	st.mu.Lock()
	sess, ok := st.sessions[id]
	if ok && sess.expired(now) {
		delete(st.sessions, id)
		st.mu.Unlock()
		sess.close()
		observability.Session().OnSessionExpire(ctx, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q expired", id)
	}
	st.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.touch(now, st.ttl)
	return sess, nil
}

// Delete closes and removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.close()
	return nil
}

// Len returns the number of sessions, including expired ones not yet swept.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (st *Store) Cleanup(ctx context.Context) int {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.evictLocked(ctx, now)
}

// Run sweeps expired sessions every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Cleanup(ctx)
		}
	}
}

func (st *Store) evictLocked(ctx context.Context, now time.Time) int {
	n := 0
	for id, sess := range st.sessions {
		if !sess.expired(now) {
			continue
		}
		delete(st.sessions, id)
		sess.close()
		observability.Session().OnSessionExpire(ctx, id)
		n++
	}
	return n
}
