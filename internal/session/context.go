package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"hrhub/internal/model"
)

// Context is the single owner of the current Session. Reads are
// synchronous snapshots, so a ClearSession is visible to the very next
// Current call.
type Context struct {
	store Store

	mu        sync.RWMutex
	current   Session
	listeners []func(Session)
}

// NewContext starts unauthenticated. Call Restore to pick up a stored session.
func NewContext(store Store) *Context {
	return &Context{store: store}
}

// Restore loads the stored session and trusts it without contacting the
// server. A corrupt document is removed and Anonymous is restored.
func (c *Context) Restore(ctx context.Context) (Session, error) {
	s, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return c.Current(), err
		}
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			return c.Current(), clearErr
		}
		s = Anonymous
	}
	c.set(s)
	return s, nil
}

// Current returns the session as of now.
func (c *Context) Current() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetSession records a successful login or registration and persists it.
// The in-memory session is updated even if persisting fails.
func (c *Context) SetSession(ctx context.Context, token string, profile model.Profile) error {
	s := New(token, profile)
	c.set(s)
	return c.store.Save(ctx, s)
}

// ClearSession drops the session and its persisted copy.
func (c *Context) ClearSession(ctx context.Context) error {
	c.set(Anonymous)
	return c.store.Clear(ctx)
}

// Subscribe registers fn to run after every transition, with the new session.
func (c *Context) Subscribe(fn func(Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Context) set(s Session) {
	c.mu.Lock()
	c.current = s
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
