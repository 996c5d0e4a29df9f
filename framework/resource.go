package framework

import "fmt"

// Resource is an external system or location that tests may need.
type Resource int

const (
	IngestV2 Resource = iota
	ElasticAddress
	RedisAddress
	CassandraAddress
	ThirdDir
	ExternalData
)

// AllResources lists every resource in registration order.
var AllResources = []Resource{IngestV2, ElasticAddress, RedisAddress, CassandraAddress, ThirdDir, ExternalData}

// Policy says what happens to a test when a resource cannot be resolved.
type Policy int

const (
	// Required resources fail the test when unresolved.
	Required Policy = iota
	// Optional resources skip the test when unresolved.
	Optional
)

type resourceInfo struct {
	flag      string
	metavar   string
	usage     string
	envName   string
	policy    Policy
	directory bool
	fallbacks func(LookupEnvFunc) []Source
}

func envVar(name string) func(LookupEnvFunc) []Source {
	return func(lookup LookupEnvFunc) []Source {
		return []Source{EnvSource(name, lookup)}
	}
}

func linkedContainer(prefix string) func(LookupEnvFunc) []Source {
	return func(lookup LookupEnvFunc) []Source {
		return []Source{EnvAddressSource(prefix+"_ADDR", prefix+"_PORT", lookup)}
	}
}

var resourceInfos = map[Resource]resourceInfo{
	IngestV2: {
		flag:      "ingest-v2",
		metavar:   "URL",
		usage:     "URL for Streamcorpus v2 ingest service",
		envName:   "INGEST_V2_URL",
		policy:    Optional,
		fallbacks: envVar("STREAMCORPUS_INGEST_URL"),
	},
	ElasticAddress: {
		flag:      "elastic-address",
		metavar:   "HOST:PORT",
		usage:     "location of an ElasticSearch database server",
		envName:   "ELASTIC_ADDRESS",
		policy:    Required,
		fallbacks: linkedContainer("ELASTICSEARCH_PORT_9200_TCP"),
	},
	RedisAddress: {
		flag:      "redis-address",
		metavar:   "HOST:PORT",
		usage:     "location of a Redis database server",
		envName:   "REDIS_ADDRESS",
		policy:    Required,
		fallbacks: linkedContainer("REDIS_PORT_6379_TCP"),
	},
	CassandraAddress: {
		flag:      "cassandra-address",
		metavar:   "HOST:PORT",
		usage:     "location of a Cassandra database server",
		envName:   "CASSANDRA_ADDRESS",
		policy:    Optional,
		fallbacks: linkedContainer("CASSANDRA_PORT_9042_TCP"),
	},
	ThirdDir: {
		flag:      "third-dir",
		metavar:   "THIRD-DIR",
		usage:     "location of third party software",
		envName:   "THIRD_DIR",
		policy:    Required,
		directory: true,
	},
	ExternalData: {
		flag:      "external-data",
		metavar:   "EXTERNAL_DATA",
		usage:     "location of external data resources",
		envName:   "EXTERNAL_DATA",
		policy:    Optional,
		directory: true,
		fallbacks: envVar("EXTERNAL_DATA"),
	},
}

// Flag is the name of the switch that sets the resource, without dashes.
func (r Resource) Flag() string { return resourceInfos[r].flag }

// Policy says whether an unresolved resource fails or skips a test.
func (r Resource) Policy() Policy { return resourceInfos[r].policy }

// IsDirectory is true if the value must name an existing directory.
func (r Resource) IsDirectory() bool { return resourceInfos[r].directory }

// EnvName is the variable name used when exporting the resolved value to a shell.
func (r Resource) EnvName() string { return resourceInfos[r].envName }

func (r Resource) String() string {
	if info, ok := resourceInfos[r]; ok {
		return info.flag
	}
	return fmt.Sprintf("Resource(%d)", int(r))
}

func (r Resource) flagUsage() string {
	info := resourceInfos[r]
	return info.usage + " (`" + info.metavar + "`)"
}
