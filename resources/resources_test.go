package resources

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/diffeo/go-test-diffeo/framework"
	"github.com/diffeo/go-test-diffeo/namespace"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

func newHarness(t *testing.T, configure func(*framework.Config)) *framework.Harness {
	c := framework.DefaultConfig()
	c.LookupEnv = func(string) (string, bool) { return "", false }
	if configure != nil {
		configure(c)
	}
	h, err := framework.NewHarness(c, nil, ldlog.NewDisabledLoggers())
	require.NoError(t, err)
	return h.WithNamespaceEnvironment(namespace.StaticEnvironment{User: "alice", Pid: 12345, Host: "buildhost"})
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "test_foo_alice_12345_69d0:queue", RedisKey("test_foo_alice_12345_69d0", "queue"))
}

func TestDeleteNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	for i := 0; i < 1200; i++ {
		require.NoError(t, mr.Set(RedisKey("mine", fmt.Sprintf("k%d", i)), "v"))
	}
	require.NoError(t, mr.Set(RedisKey("theirs", "k"), "v"))
	require.NoError(t, mr.Set("mine", "not in the namespace"))

	n, err := DeleteNamespace(context.Background(), client, "mine")
	require.NoError(t, err)
	assert.Equal(t, 1200, n)
	assert.Equal(t, []string{"mine", "theirs:k"}, mr.Keys())

	n, err = DeleteNamespace(context.Background(), client, "mine")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWithRedisCleansUpNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("shared", "keep"))
	h := newHarness(t, func(c *framework.Config) { c.RedisAddress = mr.Addr() })

	var ns string
	t.Run("test_foo", func(t *testing.T) {
		c := h.Setup(t)
		client := WithRedis(c)
		ns = c.Namespace()
		ctx := context.Background()
		require.NoError(t, client.Set(ctx, RedisKey(ns, "a"), "1", 0).Err())
		require.NoError(t, client.RPush(ctx, RedisKey(ns, "queue"), "x", "y").Err())
		assert.True(t, mr.Exists(RedisKey(ns, "a")))
	})

	assert.Equal(t, "eansUpNamespacetest_foo_alice_12345_69d0", ns)
	assert.Equal(t, []string{"shared"}, mr.Keys())
}

func TestWithKeyspaceSkipsWithoutCassandra(t *testing.T) {
	h := newHarness(t, nil)
	var skipped bool
	t.Run("needs cassandra", func(t *testing.T) {
		defer func() { skipped = t.Skipped() }()
		WithKeyspace(h.Setup(t))
		t.Error("should have been skipped")
	})
	assert.True(t, skipped)
}

func TestKeyspaceStatements(t *testing.T) {
	create, drop := KeyspaceStatements("Test_Foo_alice_12345_69d0", 3)
	assert.Equal(t,
		"CREATE KEYSPACE IF NOT EXISTS test_foo_alice_12345_69d0 WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 3}",
		create)
	assert.Equal(t, "DROP KEYSPACE IF EXISTS test_foo_alice_12345_69d0", drop)

	create, _ = KeyspaceStatements("x", 0)
	assert.True(t, strings.HasSuffix(create, "'replication_factor': 1}"), create)
}

func TestKeyspaceName(t *testing.T) {
	assert.Equal(t, "test_foo_alice_12345_69d0", KeyspaceName("test_foo_alice_12345_69d0"))
	assert.Equal(t, "ns__0_d41d", KeyspaceName("__0_d41d"))
	assert.Equal(t, "ns9abc", KeyspaceName("9abc"))
	assert.Equal(t, "ns", KeyspaceName(""))
	assert.Len(t, KeyspaceName(strings.Repeat("a", 60)), 48)
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "testfoo_alice_12345_69d0_docs", IndexName("TestFoo_alice_12345_69d0", "docs"))
	assert.Equal(t, "testfoo_alice_12345_69d0", IndexName("TestFoo_alice_12345_69d0", ""))
}
