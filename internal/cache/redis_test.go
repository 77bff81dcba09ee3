package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_DisabledAlwaysMisses(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*RedisCache{
		"nil cache":  nil,
		"nil client": NewRedisCache(nil, "streets", 0),
		"empty addr": NewRedisCache(Open("", "", 0), "streets", 0),
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())
			require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))

			var out map[string]int
			found, err := c.Get(ctx, "k", &out)
			require.NoError(t, err)
			assert.False(t, found)
			assert.NoError(t, c.Ping(ctx))
		})
	}
}

func TestRedisCache_Key(t *testing.T) {
	assert.Equal(t, "overpass:way:1", NewRedisCache(nil, "overpass", 0).key("way:1"))
	assert.Equal(t, "way:1", NewRedisCache(nil, "", 0).key("way:1"))
}
