package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	data   map[string]string
	ttl    map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "suggest:amul butter", CacheKey("  Amul Butter "))
}

func TestCachedProvider_MissThenHit(t *testing.T) {
	rdb := newFakeRedis()
	next := staticProvider("2")
	c := NewCachedProvider(next, rdb, time.Minute, zap.NewNop())

	ids, err := c.Suggest(context.Background(), "Butter", inventory)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)
	assert.Equal(t, `["2"]`, rdb.data["suggest:butter"])
	assert.Equal(t, time.Minute, rdb.ttl["suggest:butter"])

	ids, err = c.Suggest(context.Background(), "butter", inventory)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCachedProvider_HitDropsUnknownIDs(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["suggest:cola"] = `["3","42"]`
	next := staticProvider("1")
	c := NewCachedProvider(next, rdb, time.Minute, zap.NewNop())

	ids, err := c.Suggest(context.Background(), "cola", inventory)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids)
	assert.Equal(t, int32(0), next.calls.Load())
}

func TestCachedProvider_RedisDownFallsThrough(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	rdb.setErr = errors.New("connection refused")
	c := NewCachedProvider(staticProvider("1"), rdb, time.Minute, zap.NewNop())

	ids, err := c.Suggest(context.Background(), "rice", inventory)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
}

func TestCachedProvider_ProviderErrorNotCached(t *testing.T) {
	rdb := newFakeRedis()
	next := &funcProvider{fn: func(context.Context, string) ([]string, error) {
		return nil, errors.New("boom")
	}}
	c := NewCachedProvider(next, rdb, time.Minute, zap.NewNop())

	_, err := c.Suggest(context.Background(), "rice", inventory)
	assert.Error(t, err)
	assert.Empty(t, rdb.data)
}
