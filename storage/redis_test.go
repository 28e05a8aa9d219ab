package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass/storage"
)

func TestNewRedisClient(t *testing.T) {
	// Arrange + Act
	client, err := storage.NewRedisClient("not a url", "")

	// Assert
	require.ErrorIs(t, err, storage.ErrBadURL)
	require.Nil(t, client)

	// Arrange + Act
	client, err = storage.NewRedisClient("redis://:from-url@localhost:6379/2", "override")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "override", client.Options().Password)
	require.Equal(t, 2, client.Options().DB)
}

func TestRedis(t *testing.T) {
	uri := os.Getenv("REDIS_TEST_URL")
	if uri == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	// Arrange
	ctx := context.Background()
	client, err := storage.NewRedisClient(uri, "")
	require.Nil(t, err)
	s := storage.NewRedis(client, "compass-test:"+time.Now().Format(time.RFC3339Nano), time.Minute)

	// Act
	_, err = s.Get(ctx, "supabase_token")

	// Assert
	require.ErrorIs(t, err, storage.ErrNotExist)

	// Act
	require.Nil(t, s.Set(ctx, "supabase_token", "a"))
	val, err := s.Get(ctx, "supabase_token")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "a", val)

	// Act
	require.Nil(t, s.Delete(ctx, "supabase_token"))
	_, err = s.Get(ctx, "supabase_token")

	// Assert
	require.ErrorIs(t, err, storage.ErrNotExist)
}
