package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Leninfitfreak/leninkart-frontend/internal/config"
	"github.com/Leninfitfreak/leninkart-frontend/internal/store"
	"github.com/Leninfitfreak/leninkart-frontend/pkg/logger"
)

func TestRedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	ctx := context.Background()

	// Start Redis container
	redisContainer, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	defer func() {
		if err = redisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	}()

	// Get connection string
	connectionString, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.RedisConfig{
		URL:          connectionString,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConn:  5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}

	log := logger.New("info", "json", "stdout")
	sessionStore, err := store.NewRedisStore(cfg, log)
	require.NoError(t, err)
	defer sessionStore.Close()

	t.Run("SessionRoundTrip", func(t *testing.T) {
		testSessionRoundTrip(ctx, t, sessionStore)
	})

	t.Run("MissingKey", func(t *testing.T) {
		testMissingKey(ctx, t, sessionStore)
	})

	t.Run("Overwrite", func(t *testing.T) {
		testOverwrite(ctx, t, sessionStore)
	})
}

func testSessionRoundTrip(ctx context.Context, t *testing.T, s store.Store) {
	// Store the two session entries the controller persists
	err := s.Set(ctx, "session.token", "tok-integration")
	require.NoError(t, err)
	err = s.Set(ctx, "session.user", `{"userId":"u-1","role":"USER"}`)
	require.NoError(t, err)

	// Retrieve them
	token, err := s.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "tok-integration", token)

	userInfo, err := s.Get(ctx, "session.user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"u-1","role":"USER"}`, userInfo)

	// Delete both entries
	err = s.Delete(ctx, "session.token")
	require.NoError(t, err)
	err = s.Delete(ctx, "session.user")
	require.NoError(t, err)

	// Verify they are gone
	_, err = s.Get(ctx, "session.token")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
	_, err = s.Get(ctx, "session.user")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func testMissingKey(ctx context.Context, t *testing.T, s store.Store) {
	_, err := s.Get(ctx, "never-written")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, s.Delete(ctx, "never-written"))
}

func testOverwrite(ctx context.Context, t *testing.T, s store.Store) {
	require.NoError(t, s.Set(ctx, "session.token", "tok-old"))
	require.NoError(t, s.Set(ctx, "session.token", "tok-new"))

	token, err := s.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", token)

	_ = s.Delete(ctx, "session.token")
}
