// Package resources creates and removes external resources scoped to a test's namespace string.
package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/diffeo/go-test-diffeo/framework"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	redisScanCount     = 500
	redisDialTimeout   = time.Second * 5
	redisCleanupBudget = time.Second * 30
)

// RedisKey places key inside the namespace ns.
func RedisKey(ns, key string) string {
	return ns + ":" + key
}

// DeleteNamespace removes every key under ns and returns how many were deleted.
func DeleteNamespace(ctx context.Context, client redis.UniversalClient, ns string) (int, error) {
	deleted := 0
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	iter := client.Scan(ctx, 0, RedisKey(ns, "*"), redisScanCount).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= redisScanCount {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("deleting keys in namespace %s: %w", ns, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning namespace %s: %w", ns, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("deleting keys in namespace %s: %w", ns, err)
	}
	return deleted, nil
}

// WithRedis connects to the configured Redis server for the duration of the test. When the test
// finishes, every key under the test's namespace is deleted and the client is closed.
func WithRedis(c *framework.Context) *redis.Client {
	t := c.T()
	t.Helper()
	addr := c.RedisAddress()
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: redisDialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		require.FailNow(t, fmt.Sprintf("cannot reach Redis at %s: %s", addr, err))
	}

	ns := c.Namespace()
	c.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), redisCleanupBudget)
		defer cancel()
		n, err := DeleteNamespace(ctx, client, ns)
		if err != nil {
			c.Loggers().Errorf("Could not clean up Redis namespace %s: %s", ns, err)
		} else {
			c.Loggers().Debugf("Deleted %d Redis keys in namespace %s", n, ns)
		}
		_ = client.Close()
	})
	return client
}
