package framework

import (
	"bytes"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

func envMap(vars map[string]string) LookupEnvFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func parseConfig(t *testing.T, env map[string]string, args ...string) *Config {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := RegisterFlags(fs)
	c.LookupEnv = envMap(env)
	require.NoError(t, fs.Parse(args))
	return c
}

func TestDefaultConfigEnablesNothing(t *testing.T) {
	c := parseConfig(t, nil)
	for _, cat := range AllCategories {
		assert.False(t, c.Enabled(cat), cat.String())
	}
	for _, r := range AllResources {
		assert.False(t, c.Resolve(r).IsDefined(), r.String())
	}
	assert.Equal(t, ldlog.Debug, c.LogLevel.LogLevel())
	assert.Equal(t, "", c.ProfilePath)
	assert.False(t, c.ProfileTruncate)
}

func TestCategorySwitches(t *testing.T) {
	for _, cat := range AllCategories {
		t.Run(cat.String(), func(t *testing.T) {
			c := parseConfig(t, nil, "-"+cat.Flag())
			for _, other := range AllCategories {
				assert.Equal(t, other == cat, c.Enabled(other), other.String())
			}
		})
	}
}

func TestGeneralSwitches(t *testing.T) {
	c := parseConfig(t, nil, "-profile", "/tmp/prof.txt", "-profile-truncate", "-log-level", "WARNING")
	assert.Equal(t, "/tmp/prof.txt", c.ProfilePath)
	assert.True(t, c.ProfileTruncate)
	assert.Equal(t, ldlog.Warn, c.LogLevel.LogLevel())
}

func TestInvalidLogLevelIsRejected(t *testing.T) {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	RegisterFlags(fs)
	assert.Error(t, fs.Parse([]string{"-log-level", "VERBOSE"}))
}

func TestUsageShowsMetavars(t *testing.T) {
	var buf bytes.Buffer
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(&buf)
	RegisterFlags(fs)
	fs.PrintDefaults()
	usage := buf.String()
	assert.Contains(t, usage, "-redis-address HOST:PORT")
	assert.Contains(t, usage, "-ingest-v2 URL")
	assert.Contains(t, usage, "-profile path")
	assert.Contains(t, usage, "run known-slow tests")
}

func TestFlagTakesPrecedenceOverEnvironment(t *testing.T) {
	env := map[string]string{
		"REDIS_PORT_6379_TCP_ADDR": "10.0.0.5",
		"REDIS_PORT_6379_TCP_PORT": "6379",
	}
	c := parseConfig(t, env, "-redis-address", "localhost:7000")
	res := c.Resolve(RedisAddress)
	assert.Equal(t, "localhost:7000", res.String())
	assert.Equal(t, "-redis-address", res.Source)
	assert.Equal(t, []string{"-redis-address"}, res.Tried)
}

func TestEnvironmentAddressFallback(t *testing.T) {
	for _, p := range []struct {
		resource Resource
		prefix   string
	}{
		{RedisAddress, "REDIS_PORT_6379_TCP"},
		{ElasticAddress, "ELASTICSEARCH_PORT_9200_TCP"},
		{CassandraAddress, "CASSANDRA_PORT_9042_TCP"},
	} {
		t.Run(p.resource.String(), func(t *testing.T) {
			c := parseConfig(t, map[string]string{p.prefix + "_ADDR": "db", p.prefix + "_PORT": "1234"})
			res := c.Resolve(p.resource)
			assert.Equal(t, "db:1234", res.String())
			assert.Equal(t, "env vars "+p.prefix+"_ADDR and "+p.prefix+"_PORT", res.Source)
		})
	}
}

func TestEnvironmentAddressNeedsHostAndPort(t *testing.T) {
	c := parseConfig(t, map[string]string{"REDIS_PORT_6379_TCP_ADDR": "db"})
	assert.False(t, c.Resolve(RedisAddress).IsDefined())

	c = parseConfig(t, map[string]string{"REDIS_PORT_6379_TCP_ADDR": "db", "REDIS_PORT_6379_TCP_PORT": ""})
	assert.False(t, c.Resolve(RedisAddress).IsDefined())
}

func TestIPv6EnvironmentAddressIsBracketed(t *testing.T) {
	c := parseConfig(t, map[string]string{"REDIS_PORT_6379_TCP_ADDR": "::1", "REDIS_PORT_6379_TCP_PORT": "6379"})
	assert.Equal(t, "[::1]:6379", c.Resolve(RedisAddress).String())
}

func TestSingleVariableFallbacks(t *testing.T) {
	c := parseConfig(t, map[string]string{
		"STREAMCORPUS_INGEST_URL": "http://ingest:8080",
		"EXTERNAL_DATA":           "/data",
	})
	assert.Equal(t, "http://ingest:8080", c.Resolve(IngestV2).String())
	assert.Equal(t, "/data", c.Resolve(ExternalData).String())
}

func TestThirdDirHasNoFallback(t *testing.T) {
	c := parseConfig(t, map[string]string{"THIRD_DIR": "/opt/third"})
	res := c.Resolve(ThirdDir)
	assert.False(t, res.IsDefined())
	assert.Equal(t, []string{"-third-dir"}, res.Tried)
}

func TestUnresolvedAlternatives(t *testing.T) {
	c := parseConfig(t, nil)
	assert.Equal(t, "-ingest-v2 or env var STREAMCORPUS_INGEST_URL", c.Resolve(IngestV2).Alternatives())
	assert.Equal(t, "-external-data or env var EXTERNAL_DATA", c.Resolve(ExternalData).Alternatives())
}

func TestResolverStopsAtFirstDefinedSource(t *testing.T) {
	first, second := "", "b"
	third := "c"
	res := Resolver{
		FlagSource("first", &first),
		FlagSource("second", &second),
		FlagSource("third", &third),
	}.Resolve()
	assert.Equal(t, "b", res.String())
	assert.Equal(t, "-second", res.Source)
	assert.Equal(t, []string{"-first", "-second"}, res.Tried)
}

func TestEmptyResolverIsUndefined(t *testing.T) {
	res := Resolver{}.Resolve()
	assert.False(t, res.IsDefined())
	assert.Equal(t, "", res.String())
	assert.Equal(t, "", res.Alternatives())
}

func TestNilLookupUsesProcessEnvironment(t *testing.T) {
	t.Setenv("DIFFEO_TEST_RESOLVE_VAR", "from-env")
	assert.Equal(t, "from-env", EnvSource("DIFFEO_TEST_RESOLVE_VAR", nil).Lookup().StringValue())

	c := &Config{}
	c.ExternalData = ""
	t.Setenv("EXTERNAL_DATA", "/shared")
	assert.Equal(t, "/shared", c.Resolve(ExternalData).String())
}

func TestMarkers(t *testing.T) {
	markers := Markers()
	require.Len(t, markers, 4)
	assert.Equal(t, "slow", markers[0].Marker)
	assert.Equal(t, "runslow", markers[0].Flag)
	assert.Equal(t, "mark tests as taking longer than your average unit test", markers[0].Description)
	assert.Equal(t, "integration", markers[3].Marker)
	assert.Equal(t, "run-integration", markers[3].Flag)
}
