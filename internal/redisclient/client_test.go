package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisForTest initializes Redis client for testing
func setupRedisForTest(t *testing.T) (*Client, func()) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("Skipping Redis integration tests: REDIS_ADDR not set")
	}

	singleClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	client := NewClient(singleClient)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	return client, func() {
		ctx := context.Background()
		client.Del(ctx, "test:auth_session:abc", "test:phone_index:5511999999999")
	}
}

func TestClient_SetGet(t *testing.T) {
	client, cleanup := setupRedisForTest(t)
	defer cleanup()

	ctx := context.Background()

	err := client.Set(ctx, "test:auth_session:abc", `{"session_id":"abc"}`, 0).Err()
	require.NoError(t, err)

	val, err := client.Get(ctx, "test:auth_session:abc").Result()
	require.NoError(t, err)
	assert.Equal(t, `{"session_id":"abc"}`, val)
}

func TestClient_GetMissingKey(t *testing.T) {
	client, cleanup := setupRedisForTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := client.Get(ctx, "test:auth_session:does-not-exist").Result()
	assert.Equal(t, redis.Nil, err)
}

func TestClient_SetWithExpiration(t *testing.T) {
	client, cleanup := setupRedisForTest(t)
	defer cleanup()

	ctx := context.Background()

	err := client.Set(ctx, "test:phone_index:5511999999999", `{"session_id":"abc"}`, time.Minute).Err()
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, "test:phone_index:5511999999999").Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0)
}

func TestClient_Exists(t *testing.T) {
	client, cleanup := setupRedisForTest(t)
	defer cleanup()

	ctx := context.Background()

	err := client.Set(ctx, "test:auth_session:abc", "1", 0).Err()
	require.NoError(t, err)

	n, err := client.Exists(ctx, "test:auth_session:abc").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
