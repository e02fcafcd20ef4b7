package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestResetTokenRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	tokens := NewResetTokenCache(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, tokens.Set(ctx, "tok", 42))

	userID, found, err := tokens.Get(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 42, userID)

	require.NoError(t, tokens.Delete(ctx, "tok"))

	_, found, err = tokens.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResetTokenUnknown(t *testing.T) {
	_, client := newTestRedis(t)
	tokens := NewResetTokenCache(client, time.Hour)

	_, found, err := tokens.Get(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResetTokenExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	tokens := NewResetTokenCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, tokens.Set(ctx, "tok", 7))

	mr.FastForward(time.Minute + time.Second)

	_, found, err := tokens.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResetTokenKeyNamespace(t *testing.T) {
	mr, client := newTestRedis(t)
	tokens := NewResetTokenCache(client, time.Hour)

	require.NoError(t, tokens.Set(context.Background(), "tok", 7))
	assert.True(t, mr.Exists("forgot-password:tok"))
}
