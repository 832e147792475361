// Package loader batches per-request lookups so that resolving N review
// authors costs one query instead of N.
package loader

import (
	"context"
	"sync"
	"time"

	"moviehub/internal/microservices/http-api/models"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultWait     = 2 * time.Millisecond
	DefaultMaxBatch = 100
)

// UserFetcher loads many users in one round trip. Missing ids are simply
// absent from the result.
type UserFetcher interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type Option func(*UserLoader)

// WithWait sets how long a batch stays open for more keys.
func WithWait(d time.Duration) Option {
	return func(l *UserLoader) { l.wait = d }
}

// WithMaxBatch dispatches a batch early once it holds n keys.
func WithMaxBatch(n int) Option {
	return func(l *UserLoader) { l.maxBatch = n }
}

type entry struct {
	done chan struct{}
	user *models.User
	err  error
}

type batch struct {
	ctx     context.Context
	keys    []string
	entries map[string]*entry
	full    chan struct{}
}

// UserLoader collapses Load calls made within a short window into a single
// FindByIDs call and memoises the results for its lifetime. Create one per
// request; it is safe for concurrent use.
type UserLoader struct {
	fetch    UserFetcher
	wait     time.Duration
	maxBatch int

	mu      sync.Mutex
	cache   map[string]*entry
	pending *batch
}

func NewUserLoader(fetch UserFetcher, opts ...Option) *UserLoader {
	l := &UserLoader{
		fetch:    fetch,
		wait:     DefaultWait,
		maxBatch: DefaultMaxBatch,
		cache:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxBatch < 1 {
		l.maxBatch = 1
	}
	return l
}

// Load returns the user with the given id, or nil if there is none.
func (l *UserLoader) Load(ctx context.Context, id string) (*models.User, error) {
	l.mu.Lock()
	if e, ok := l.cache[id]; ok {
		l.mu.Unlock()
		return e.result(ctx)
	}

	e := &entry{done: make(chan struct{})}
	l.cache[id] = e

	b := l.pending
	if b == nil {
		b = &batch{
			ctx:     ctx,
			entries: make(map[string]*entry),
			full:    make(chan struct{}),
		}
		l.pending = b
		go l.dispatchLater(b)
	}
	b.keys = append(b.keys, id)
	b.entries[id] = e

	if len(b.keys) >= l.maxBatch {
		l.pending = nil
		close(b.full)
	}
	l.mu.Unlock()

	return e.result(ctx)
}

// LoadMany resolves ids concurrently so they share batches. The result is
// aligned with ids; unknown ids yield nil.
func (l *UserLoader) LoadMany(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			u, err := l.Load(gctx, id)
			if err != nil {
				return err
			}
			users[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}

func (l *UserLoader) dispatchLater(b *batch) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-b.full:
	}

	l.mu.Lock()
	if l.pending == b {
		l.pending = nil
	}
	l.mu.Unlock()

	l.dispatch(b)
}

func (l *UserLoader) dispatch(b *batch) {
	users, err := l.fetch.FindByIDs(b.ctx, b.keys)

	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	if err != nil {
		// failed keys may be retried by a later Load
		l.mu.Lock()
		for _, id := range b.keys {
			delete(l.cache, id)
		}
		l.mu.Unlock()
	}

	for id, e := range b.entries {
		e.user, e.err = byID[id], err
		close(e.done)
	}
}

func (e *entry) result(ctx context.Context) (*models.User, error) {
	select {
	case <-e.done:
		return e.user, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type ctxKey struct{}

// WithUserLoader stores l in ctx.
func WithUserLoader(ctx context.Context, l *UserLoader) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// UserLoaderFromContext returns the request's loader, or nil.
func UserLoaderFromContext(ctx context.Context) *UserLoader {
	l, _ := ctx.Value(ctxKey{}).(*UserLoader)
	return l
}
