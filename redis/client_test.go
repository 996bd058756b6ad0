package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvironmentDefaults(t *testing.T) {
	t.Setenv("POS_REDIS_HOST", "")
	cfg, err := ReadEnvironment()
	require.NoError(t, err)

	assert.False(t, cfg.Enabled())
	assert.Equal(t, "6379", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.LockExpiration)
	assert.Equal(t, 20, cfg.LockRetries)
}

func TestReadEnvironment(t *testing.T) {
	t.Setenv("POS_REDIS_HOST", "cache.local")
	t.Setenv("POS_REDIS_DB", "3")
	t.Setenv("POS_REDIS_CACHE_TTL", "90m")

	cfg, err := ReadEnvironment()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, 3, cfg.DB)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)

	t.Setenv("POS_REDIS_DB", "three")
	_, err = ReadEnvironment()
	assert.Error(t, err)
}

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewClient(ctx, Config{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestKeepAliveRefreshesUntilStopped(t *testing.T) {
	var calls int32
	stop := keepAlive("pos:output:a.json", 5*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, 2*time.Second, time.Millisecond)
	stop()
	stopped := atomic.LoadInt32(&calls)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&calls))
}

func TestKeepAliveStopsOnRefreshFailure(t *testing.T) {
	var calls int32
	stop := keepAlive("pos:output:a.json", 5*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("lock not held")
	})
	defer stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestKeepAliveWithoutExpiration(t *testing.T) {
	stop := keepAlive("pos:output:a.json", 0, func(context.Context) error {
		t.Error("refresh called without an interval")
		return nil
	})
	stop()
}
