package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/service/favorites"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	svc, err := NewCacheService(CacheConfig{Host: mr.Host(), Port: port}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

func TestGetMissingKey(t *testing.T) {
	svc, _ := newTestCache(t)

	value, ok, err := svc.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestCache(t)

	require.NoError(t, svc.Set(ctx, "k", `["1"]`))
	mr.CheckGet(t, "k", `["1"]`)

	value, ok, err := svc.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["1"]`, value)

	require.NoError(t, svc.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestFavoritesOverRedis(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestCache(t)

	set := favorites.NewSet(svc, zap.NewNop())
	require.NoError(t, set.Load(ctx))
	assert.True(t, set.Toggle(ctx, "7"))
	mr.CheckGet(t, "affiliatehub:favorites", `["7"]`)

	reloaded := favorites.NewSet(svc, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.Contains("7"))
}

func TestGetFailsWhenServerDown(t *testing.T) {
	svc, mr := newTestCache(t)
	assert.True(t, svc.IsConnected(context.Background()))

	mr.Close()
	_, _, err := svc.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, svc.IsConnected(context.Background()))
}

func TestNewCacheServiceUnreachable(t *testing.T) {
	_, err := NewCacheService(CacheConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	assert.Error(t, err)
}
