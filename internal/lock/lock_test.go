package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseLocker(t *testing.T, l Locker, name string) {
	t.Run("mutual exclusion", func(t *testing.T) {
		var inside, maxInside int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := l.Acquire(context.Background(), name)
				if !assert.NoError(t, err) {
					return
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				assert.NoError(t, release())
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxInside)
	})

	t.Run("acquire honours context", func(t *testing.T) {
		release, err := l.Acquire(context.Background(), name)
		require.NoError(t, err)
		defer release()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err = l.Acquire(ctx, name)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("different names do not block", func(t *testing.T) {
		r1, err := l.Acquire(context.Background(), name+"-a")
		require.NoError(t, err)
		defer r1()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		r2, err := l.Acquire(ctx, name+"-b")
		require.NoError(t, err)
		assert.NoError(t, r2())
	})

	t.Run("double release", func(t *testing.T) {
		release, err := l.Acquire(context.Background(), name)
		require.NoError(t, err)
		require.NoError(t, release())
		assert.ErrorIs(t, release(), ErrNotHeld)
	})
}

func TestLocalLocker(t *testing.T) {
	exerciseLocker(t, NewLocalLocker(), "group-1")
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	l := NewRedisLockerWithClient(client, "shg:test:"+time.Now().Format("150405.000")+":", 2*time.Second, 5*time.Millisecond)
	exerciseLocker(t, l, "group-1")
}
