package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pizzeria/storefront/cart"
	"github.com/pizzeria/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Snapshotter ---

type MockSnapshotter struct {
	Stored  map[string][]cart.Line
	LoadErr error
	Deleted []string
}

func newMockSnapshotter() *MockSnapshotter {
	return &MockSnapshotter{Stored: map[string][]cart.Line{}}
}

func (m *MockSnapshotter) Load(_ context.Context, id string) ([]cart.Line, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	lines, ok := m.Stored[id]
	if !ok {
		return nil, ErrSnapshotMissing
	}
	return lines, nil
}

func (m *MockSnapshotter) Save(_ context.Context, id string, lines []cart.Line) error {
	m.Stored[id] = lines
	return nil
}

func (m *MockSnapshotter) Delete(_ context.Context, id string) error {
	m.Deleted = append(m.Deleted, id)
	delete(m.Stored, id)
	return nil
}

var cola = models.Product{ID: 9, Name: "Кока-Кола", Price: 120, Category: models.Category{Code: "drinks"}}

// --- Tests ---

func TestRegistryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown session gets an empty cart", func(t *testing.T) {
		r := NewRegistry(nil, time.Hour, nil)
		s, err := r.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, s.IsEmpty())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("Same session returns the same cart", func(t *testing.T) {
		r := NewRegistry(nil, time.Hour, nil)
		first, err := r.Get(ctx, "a")
		require.NoError(t, err)
		first.AddItem(cola, "")

		second, err := r.Get(ctx, "a")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, 1, second.QuantityOf(9, ""))
	})

	t.Run("Sessions do not share carts", func(t *testing.T) {
		r := NewRegistry(nil, time.Hour, nil)
		a, _ := r.Get(ctx, "a")
		b, _ := r.Get(ctx, "b")
		a.AddItem(cola, "")

		assert.Equal(t, 0, b.QuantityOf(9, ""))
	})

	t.Run("Restores from snapshot", func(t *testing.T) {
		snap := newMockSnapshotter()
		snap.Stored["a"] = []cart.Line{{ProductID: 9, Name: "Кока-Кола", Price: 120, Quantity: 3, Category: "drinks"}}
		r := NewRegistry(snap, time.Hour, nil)

		s, err := r.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 3, s.QuantityOf(9, ""))
	})

	t.Run("Snapshot backend failure", func(t *testing.T) {
		snap := newMockSnapshotter()
		snap.LoadErr = errors.New("connection refused")
		r := NewRegistry(snap, time.Hour, nil)

		_, err := r.Get(ctx, "a")
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, 0, r.Len())
	})
}

func TestRegistrySaveAndDelete(t *testing.T) {
	ctx := context.Background()
	snap := newMockSnapshotter()
	r := NewRegistry(snap, time.Hour, nil)

	s, err := r.Get(ctx, "a")
	require.NoError(t, err)
	s.AddItem(cola, "")
	require.NoError(t, r.Save(ctx, "a", s))
	assert.Len(t, snap.Stored["a"], 1)

	require.NoError(t, r.Delete(ctx, "a"))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, []string{"a"}, snap.Deleted)
}

func TestRegistrySweep(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil, time.Minute, nil)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	_, _ = r.Get(ctx, "old")
	now = now.Add(50 * time.Second)
	_, _ = r.Get(ctx, "fresh")
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	// touching a session keeps it alive
	now = now.Add(30 * time.Second)
	_, _ = r.Get(ctx, "fresh")
	now = now.Add(30 * time.Second)
	assert.Equal(t, 0, r.Sweep())
}

// slowSnapshotter holds its first Save until release is closed.
type slowSnapshotter struct {
	MockSnapshotter
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (s *slowSnapshotter) Save(ctx context.Context, id string, lines []cart.Line) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		close(s.entered)
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.MockSnapshotter.Save(ctx, id, lines)
}

func TestRegistrySaveKeepsLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	snap := &slowSnapshotter{
		MockSnapshotter: *newMockSnapshotter(),
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	r := NewRegistry(snap, time.Hour, nil)

	s, err := r.Get(ctx, "a")
	require.NoError(t, err)

	// first request adds and gets stuck writing its snapshot
	s.AddItem(cola, "")
	firstDone := make(chan error, 1)
	go func() { firstDone <- r.Save(ctx, "a", s) }()
	<-snap.entered

	// second request adds while the first write is in flight
	s.AddItem(cola, "")
	secondDone := make(chan error, 1)
	go func() { secondDone <- r.Save(ctx, "a", s) }()

	close(snap.release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	snap.mu.Lock()
	defer snap.mu.Unlock()
	require.Len(t, snap.Stored["a"], 1)
	assert.Equal(t, 2, snap.Stored["a"][0].Quantity, "snapshot must match the live cart")
	assert.Equal(t, s.QuantityOf(9, ""), snap.Stored["a"][0].Quantity)
}

func TestRegistrySaveAfterSweep(t *testing.T) {
	ctx := context.Background()
	snap := newMockSnapshotter()
	r := NewRegistry(snap, time.Minute, nil)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	s, err := r.Get(ctx, "a")
	require.NoError(t, err)

	// the session goes idle and is swept while a request still holds its cart
	now = now.Add(2 * time.Minute)
	require.Equal(t, 1, r.Sweep())

	s.AddItem(cola, "")
	require.NoError(t, r.Save(ctx, "a", s))

	again, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 1, again.QuantityOf(9, ""))
	assert.Len(t, snap.Stored["a"], 1)
}
