package client

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_Expires(t *testing.T) {
	now := time.Now()
	c := NewQueryCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("campaigns:active", 1)
	v, ok := c.Get("campaigns:active")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	_, ok = c.Get("campaigns:active")
	assert.False(t, ok)
}

func TestQueryCache_InvalidatePrefix(t *testing.T) {
	c := NewQueryCache(time.Minute)
	c.Set("campaigns:active", 1)
	c.Set("campaigns:abc", 2)
	c.Set("admin:stats", 3)

	c.Invalidate(keyCampaigns)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("admin:stats")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCached_FetchesOnMissOnly(t *testing.T) {
	c := NewQueryCache(time.Minute)
	calls := 0
	fetch := func() (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := cached(c, "k", fetch)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, calls)
}

func TestCached_ErrorsAreNotStored(t *testing.T) {
	c := NewQueryCache(time.Minute)

	_, err := cached(c, "k", func() (int, error) { return 0, errors.New("down") })

	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCached_ResultAfterClearIsNotStored(t *testing.T) {
	tests := []struct {
		name  string
		reset func(c *QueryCache)
	}{
		{name: "clear", reset: func(c *QueryCache) { c.Clear() }},
		{name: "invalidate", reset: func(c *QueryCache) { c.Invalidate(keyAdmin) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewQueryCache(time.Minute)

			v, err := cached(c, keyAdmin+"profiles", func() (string, error) {
				tt.reset(c)
				return "stale", nil
			})

			require.NoError(t, err)
			assert.Equal(t, "stale", v)
			assert.Equal(t, 0, c.Len())

			v, err = cached(c, keyAdmin+"profiles", func() (string, error) { return "fresh", nil })
			require.NoError(t, err)
			assert.Equal(t, "fresh", v)
			assert.Equal(t, 1, c.Len())
		})
	}
}
