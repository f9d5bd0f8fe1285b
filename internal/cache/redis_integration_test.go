//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisClientIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewRedisClient(RedisConfig{Addr: fmt.Sprintf("%s:%s", host, port.Port()), PoolSize: 2, Prefix: "test:"})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, client.Set(ctx, Key("voice", "go home"), []byte(`{"action":"navigate"}`), time.Minute))
	require.NoError(t, client.Set(ctx, Key("voice", "about"), []byte(`{}`), time.Minute))

	got, err := client.Get(ctx, Key("voice", "go home"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"navigate"}`, string(got))

	require.NoError(t, client.DeleteByPrefix(ctx, "voice:"))
	_, err = client.Get(ctx, Key("voice", "about"))
	assert.ErrorIs(t, err, ErrCacheMiss)
}
