package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestInMemorySessionBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	bl := NewInMemorySessionBlacklist()
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.Revoke(ctx, "sid-1", time.Minute))

	revoked, err := bl.IsRevoked(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "sid-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	t.Run("expires", func(t *testing.T) {
		bl.now = func() time.Time { return now.Add(2 * time.Minute) }
		revoked, err := bl.IsRevoked(ctx, "sid-1")
		require.NoError(t, err)
		assert.False(t, revoked)

		require.NoError(t, bl.Revoke(ctx, "sid-3", time.Minute))
		assert.NotContains(t, bl.entries, "sid-1")
	})

	t.Run("non-positive ttl is ignored", func(t *testing.T) {
		require.NoError(t, bl.Revoke(ctx, "sid-4", 0))
		revoked, err := bl.IsRevoked(ctx, "sid-4")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestRedisSessionBlacklist(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	bl := NewRedisSessionBlacklist(client)
	require.NoError(t, bl.Revoke(ctx, "sid-1", time.Minute))

	revoked, err := bl.IsRevoked(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, sessionKeyPrefix+"sid-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	revoked, err = bl.IsRevoked(ctx, "sid-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
