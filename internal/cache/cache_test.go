package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theatre-forms/internal/models"
)

func TestCacheRoundTripKeepsVersion(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "subs", models.NewSubscriberSet("a@example.com"), "v1", time.Minute))

	set, version, err := c.Get(ctx, "subs")
	require.NoError(t, err)
	assert.Equal(t, "v1", version)
	assert.True(t, set.Contains("A@example.com"))
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "subs", models.NewSubscriberSet(), "v1", time.Minute))
	set, _, err := c.Get(ctx, "subs")
	require.NoError(t, err)
	set.Add("mutated@example.com")

	again, _, err := c.Get(ctx, "subs")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Len())
}

func TestCacheMissAndExpiry(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_, _, err := c.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "subs", models.NewSubscriberSet(), "v1", -time.Second))
	_, _, err = c.Get(ctx, "subs")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", models.NewSubscriberSet(), "v1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", models.NewSubscriberSet(), "v1", time.Minute))

	require.NoError(t, c.Delete(ctx, "a"))
	_, _, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Clear(ctx))
	_, _, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
}
