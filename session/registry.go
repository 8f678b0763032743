// Package session binds carts to storefront sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pizzeria/storefront/cart"
)

type entry struct {
	store *cart.Store
	seen  time.Time

	// saveMu orders snapshot writes of one session
	saveMu sync.Mutex
}

// Registry owns the live cart of every active session. Carts idle for
// longer than the ttl are dropped by Sweep.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry

	snapshots Snapshotter
	ttl       time.Duration
	cartOpts  []cart.Option
	logger    *slog.Logger
	now       func() time.Time
}

func NewRegistry(snapshots Snapshotter, ttl time.Duration, logger *slog.Logger, opts ...cart.Option) *Registry {
	if snapshots == nil {
		snapshots = NoopSnapshotter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries:   make(map[string]*entry),
		snapshots: snapshots,
		ttl:       ttl,
		cartOpts:  opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the cart of the session, restoring it from the snapshot
// backend or creating an empty one when the session is unknown.
func (r *Registry) Get(ctx context.Context, id string) (*cart.Store, error) {
	if s, ok := r.lookup(id); ok {
		return s, nil
	}

	lines, err := r.snapshots.Load(ctx, id)
	if err != nil && !errors.Is(err, ErrSnapshotMissing) {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	var restored *cart.Store
	if len(lines) > 0 {
		restored = cart.Restore(lines, r.cartOpts...)
		r.logger.Debug("cart restored", slog.String("session", id), slog.Int("lines", restored.Len()))
	} else {
		restored = cart.NewStore(r.cartOpts...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have created the entry while we were loading
	if e, ok := r.entries[id]; ok {
		e.seen = r.now()
		restored.Close()
		return e.store, nil
	}
	r.entries[id] = &entry{store: restored, seen: r.now()}
	return restored, nil
}

func (r *Registry) lookup(id string) (*cart.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.seen = r.now()
	return e.store, true
}

// Save writes the current lines of the cart to the snapshot backend.
// Writes of the same session are serialized and each one copies the lines
// only once it holds the session, so a slow write never lands over a newer
// one. A cart evicted by Sweep while a request was using it is registered
// again so the change is not lost.
func (r *Registry) Save(ctx context.Context, id string, store *cart.Store) error {
	e := r.adopt(id, store)

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	return r.snapshots.Save(ctx, id, e.store.Lines())
}

func (r *Registry) adopt(id string, store *cart.Store) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry{store: store}
		r.entries[id] = e
	} else if e.store != store {
		r.logger.Warn("cart replaced while in use", slog.String("session", id))
	}
	e.seen = r.now()
	return e
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if e, ok := r.entries[id]; ok {
		e.store.Close()
		delete(r.entries, id)
	}
	r.mu.Unlock()

	return r.snapshots.Delete(ctx, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops the carts that were not accessed within the ttl and returns
// how many were dropped. Snapshots expire on their own.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.entries {
		if e.seen.Before(cutoff) {
			e.store.Close()
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("idle carts evicted", slog.Int("count", n), slog.Int("live", r.Len()))
			}
		}
	}
}
