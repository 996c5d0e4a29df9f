package resources

import (
	"fmt"
	"strings"
	"time"

	"github.com/diffeo/go-test-diffeo/framework"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/require"
)

const (
	cassandraTimeout           = time.Second * 10
	defaultReplicationFactor   = 1
	cassandraMaxKeyspaceLength = 48
)

// KeyspaceStatements returns the CQL that creates and drops a keyspace named after ns.
func KeyspaceStatements(ns string, replicationFactor int) (create, drop string) {
	if replicationFactor < 1 {
		replicationFactor = defaultReplicationFactor
	}
	name := KeyspaceName(ns)
	create = fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}",
		name, replicationFactor)
	drop = fmt.Sprintf("DROP KEYSPACE IF EXISTS %s", name)
	return create, drop
}

// KeyspaceName converts ns to a Cassandra keyspace name. Unquoted keyspace names are case-insensitive
// and must start with a letter.
func KeyspaceName(ns string) string {
	name := strings.ToLower(ns)
	if name == "" || !(name[0] >= 'a' && name[0] <= 'z') {
		name = "ns" + name
	}
	if len(name) > cassandraMaxKeyspaceLength {
		name = name[:cassandraMaxKeyspaceLength]
	}
	return name
}

func newCluster(addr string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(addr)
	cluster.Timeout = cassandraTimeout
	cluster.ConnectTimeout = cassandraTimeout
	cluster.Consistency = gocql.One
	return cluster
}

// WithKeyspace creates a keyspace named after the test's namespace on the configured Cassandra node
// and returns a session bound to it. The test is skipped if no Cassandra node is configured. The
// keyspace is dropped when the test finishes.
func WithKeyspace(c *framework.Context) *gocql.Session {
	t := c.T()
	t.Helper()
	addr := c.CassandraAddress()
	create, drop := KeyspaceStatements(c.Namespace(), defaultReplicationFactor)

	admin, err := newCluster(addr).CreateSession()
	if err != nil {
		require.FailNow(t, fmt.Sprintf("cannot reach Cassandra at %s: %s", addr, err))
	}
	c.Cleanup(admin.Close)
	if err := admin.Query(create).Exec(); err != nil {
		require.FailNow(t, fmt.Sprintf("cannot create keyspace: %s", err), create)
	}
	c.Cleanup(func() {
		if err := admin.Query(drop).Exec(); err != nil {
			c.Loggers().Errorf("Could not drop keyspace: %s", err)
		} else {
			c.Loggers().Debugf("Dropped keyspace %s", KeyspaceName(c.Namespace()))
		}
	})

	cluster := newCluster(addr)
	cluster.Keyspace = KeyspaceName(c.Namespace())
	session, err := cluster.CreateSession()
	if err != nil {
		require.FailNow(t, fmt.Sprintf("cannot open keyspace %s: %s", cluster.Keyspace, err))
	}
	c.Cleanup(session.Close)
	return session
}
