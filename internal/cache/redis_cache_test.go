package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable points at a closed local port so every command fails fast.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisCacheSurfacesConnectionErrors(t *testing.T) {
	c := NewRedisCache(unreachable(t), "test:")
	ctx := context.Background()

	var dst map[string]string
	hit, err := c.GetJSON(ctx, ProfileByUserKey("u1"), &dst)
	require.Error(t, err)
	assert.False(t, hit)
	assert.Nil(t, dst)

	assert.Error(t, c.SetJSON(ctx, ProfileListKey, []string{"a"}, time.Minute))
	assert.Error(t, c.Del(ctx, ProfileByHandleKey("jane")))
}

func TestRedisCacheSetRejectsUnencodableValue(t *testing.T) {
	c := NewRedisCache(unreachable(t), "test:")

	err := c.SetJSON(context.Background(), "k", make(chan int), time.Minute)
	assert.Error(t, err)
}

func TestRedisCacheDelWithoutKeys(t *testing.T) {
	c := NewRedisCache(unreachable(t), "test:")
	assert.NoError(t, c.Del(context.Background()))
}

func TestProfileKeys(t *testing.T) {
	assert.Equal(t, "profile:handle:jane", ProfileByHandleKey("jane"))
	assert.Equal(t, "profile:user:u1", ProfileByUserKey("u1"))
	assert.Equal(t, "profile:all", ProfileListKey)
}
