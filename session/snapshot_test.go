package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pizzeria/storefront/cart"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisSnapshotter(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)

	snap, err := NewRedisSnapshotter(ctx, rdb, time.Hour)
	require.NoError(t, err)

	t.Run("Missing snapshot", func(t *testing.T) {
		_, err := snap.Load(ctx, "nobody")
		assert.ErrorIs(t, err, ErrSnapshotMissing)
	})

	t.Run("Save then load", func(t *testing.T) {
		lines := []cart.Line{
			{ProductID: 1, Name: "Маргарита", Price: 449, Quantity: 2, Size: "25см", Category: "pizza"},
			{ProductID: 9, Name: "Кока-Кола", Price: 120, Quantity: 1, Category: "drinks"},
		}
		require.NoError(t, snap.Save(ctx, "s1", lines))

		loaded, err := snap.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, lines, loaded)
		assert.True(t, mr.Exists("cart:s1"))
		assert.Equal(t, time.Hour, mr.TTL("cart:s1"))
	})

	t.Run("Snapshot expires with the session", func(t *testing.T) {
		require.NoError(t, snap.Save(ctx, "s2", []cart.Line{{ProductID: 9, Quantity: 1}}))
		mr.FastForward(2 * time.Hour)

		_, err := snap.Load(ctx, "s2")
		assert.ErrorIs(t, err, ErrSnapshotMissing)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, snap.Save(ctx, "s3", []cart.Line{{ProductID: 9, Quantity: 1}}))
		require.NoError(t, snap.Delete(ctx, "s3"))
		assert.False(t, mr.Exists("cart:s3"))
	})

	t.Run("Corrupt snapshot", func(t *testing.T) {
		require.NoError(t, mr.Set("cart:bad", "{not json"))
		_, err := snap.Load(ctx, "bad")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrSnapshotMissing)
	})
}

func TestNewRedisSnapshotterRequiresClient(t *testing.T) {
	_, err := NewRedisSnapshotter(context.Background(), nil, time.Hour)
	assert.Error(t, err)
}

func TestRegistryWithRedis(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	snap, err := NewRedisSnapshotter(ctx, rdb, time.Hour)
	require.NoError(t, err)

	first := NewRegistry(snap, time.Hour, nil)
	s, err := first.Get(ctx, "abc")
	require.NoError(t, err)
	s.AddItem(cola, "")
	s.AddItem(cola, "")
	require.NoError(t, first.Save(ctx, "abc", s))

	// a fresh registry, as after a restart, picks the cart back up
	second := NewRegistry(snap, time.Hour, nil)
	restored, err := second.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, restored.QuantityOf(9, ""))
	assert.Equal(t, int64(240), restored.TotalPrice())
}
