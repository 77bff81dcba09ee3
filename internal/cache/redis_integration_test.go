//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		redisC.Terminate(ctx)
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)

	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return host + ":" + port.Port()
}

type cachedGeometry struct {
	Name        string      `json:"name"`
	Coordinates [][]float64 `json:"coordinates"`
}

func TestRedisCache_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	client := Open(setupTestRedis(t), "", 0)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	c := NewRedisCache(client, "overpass", time.Minute)
	require.NoError(t, c.Ping(ctx))

	var out cachedGeometry
	found, err := c.Get(ctx, "way:42", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := cachedGeometry{Name: "Сумська вулиця", Coordinates: [][]float64{{36.23, 50.0}, {36.24, 50.0}}}
	require.NoError(t, c.Set(ctx, "way:42", in))

	found, err = c.Get(ctx, "way:42", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	ttl, err := client.TTL(ctx, "overpass:way:42").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
