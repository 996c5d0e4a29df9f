package framework

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/diffeo/go-test-diffeo/logging"

	helpers "github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// T is the part of testing.TB used by a Context. *testing.T and *testing.B satisfy it.
type T interface {
	require.TestingT
	Helper()
	Name() string
	Skipf(format string, args ...interface{})
	Cleanup(func())
	Logf(format string, args ...interface{})
}

// Context is the per-test view of the harness. It is created by Harness.Setup and lives as long as
// the test.
type Context struct {
	t         T
	harness   *Harness
	loggers   ldlog.Loggers
	namespace string
	nsOnce    sync.Once
}

// Setup prepares a test. It skips the test unless every one of categories is enabled, starts
// profiling when configured, and registers the matching teardown with t.Cleanup.
func (h *Harness) Setup(t T, categories ...Category) *Context {
	t.Helper()
	for _, cat := range categories {
		if !h.config.Enabled(cat) {
			t.Skipf("need -%s option to run", cat.Flag())
			return nil
		}
	}

	c := &Context{
		t:       t,
		harness: h,
		loggers: logging.ForTest(t, h.config.LogLevel.LogLevel()),
	}

	if h.profiler != nil {
		if session := h.profiler.start(t.Name()); session != nil {
			t.Cleanup(session.stop)
		}
	}
	return c
}

// T returns the test the Context belongs to.
func (c *Context) T() T {
	return c.t
}

// Config returns the harness configuration.
func (c *Context) Config() *Config {
	return c.harness.config
}

// Loggers returns loggers that write to the test's log at the configured level.
func (c *Context) Loggers() ldlog.Loggers {
	return c.loggers
}

// Cleanup registers f to run when the test finishes.
func (c *Context) Cleanup(f func()) {
	c.t.Cleanup(f)
}

// Namespace returns the namespace string for this test. Repeated calls on one Context return the
// same value. Whatever the test creates under the namespace is the test's to remove.
func (c *Context) Namespace() string {
	c.nsOnce.Do(func() {
		c.namespace = c.harness.namespaces.Generate(c.t.Name())
		c.loggers.Debugf("Namespace for %s is %s", c.t.Name(), c.namespace)
	})
	return c.namespace
}

// Resolve finds the value of r. If it cannot be found, a Required resource fails the test and an
// Optional one skips it. Directory resources must exist.
func (c *Context) Resolve(r Resource) string {
	c.t.Helper()
	res := c.harness.config.Resolve(r)
	if !res.IsDefined() {
		if r.Policy() == Optional {
			c.t.Skipf("set %s", res.Alternatives())
			return ""
		}
		msg := fmt.Sprintf("this test requires -%s on the command line", r.Flag())
		if len(res.Tried) > 1 {
			msg += " or " + strings.Join(res.Tried[1:], " or ")
		}
		require.FailNow(c.t, msg)
		return ""
	}
	value := res.String()
	if r.IsDirectory() {
		c.requireDirectory(r, value)
	}
	c.loggers.Debugf("Using %s=%s from %s", r.Flag(), value, res.Source)
	return value
}

func (c *Context) requireDirectory(r Resource, path string) {
	c.t.Helper()
	if !helpers.FilePathExists(path) {
		require.FailNow(c.t, fmt.Sprintf("could not find %s=%q", r.Flag(), path), "directory must exist")
	}
	info, err := os.Stat(path)
	require.NoError(c.t, err, "cannot read %s=%q", r.Flag(), path)
	if !info.IsDir() {
		require.FailNow(c.t, fmt.Sprintf("%s=%q is not a directory", r.Flag(), path))
	}
}

// IngestURL is the URL of the ingest service; the test is skipped if it is not configured.
func (c *Context) IngestURL() string {
	c.t.Helper()
	return c.Resolve(IngestV2)
}

// ElasticAddress is the host:port of an Elasticsearch server.
func (c *Context) ElasticAddress() string {
	c.t.Helper()
	return c.Resolve(ElasticAddress)
}

// RedisAddress is the host:port of a Redis server.
func (c *Context) RedisAddress() string {
	c.t.Helper()
	return c.Resolve(RedisAddress)
}

// CassandraAddress is the host:port of a Cassandra node; the test is skipped if it is not configured.
func (c *Context) CassandraAddress() string {
	c.t.Helper()
	return c.Resolve(CassandraAddress)
}

// ThirdDir is the directory holding third-party software such as taggers.
func (c *Context) ThirdDir() string {
	c.t.Helper()
	return c.Resolve(ThirdDir)
}

// ExternalData is the directory holding shared test data; the test is skipped if it is not configured.
func (c *Context) ExternalData() string {
	c.t.Helper()
	return c.Resolve(ExternalData)
}
