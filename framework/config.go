package framework

import (
	"errors"
	"flag"
	"os"

	"github.com/diffeo/go-test-diffeo/logging"
)

// Config holds the harness switches. It is populated once by flag parsing and treated as read-only
// afterward.
type Config struct {
	RunSlow        bool
	RunPerf        bool
	RunLoad        bool
	RunIntegration bool

	IngestV2         string
	ElasticAddress   string
	RedisAddress     string
	CassandraAddress string
	ThirdDir         string
	ExternalData     string

	ProfilePath     string
	ProfileTruncate bool
	LogLevel        logging.Level

	// LookupEnv is used for environment fallbacks. Nil means os.LookupEnv.
	LookupEnv LookupEnvFunc
}

// DefaultConfig returns a Config with every category disabled and nothing resolved.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  logging.DefaultLevel(),
		LookupEnv: os.LookupEnv,
	}
}

// RegisterFlags registers the harness switches on fs and returns the Config they populate.
func RegisterFlags(fs *flag.FlagSet) *Config {
	c := DefaultConfig()
	c.Register(fs)
	return c
}

// Register adds the switches for c to fs.
func (c *Config) Register(fs *flag.FlagSet) {
	for _, cat := range AllCategories {
		fs.BoolVar(c.categoryField(cat), cat.Flag(), false, categoryInfos[cat].usage)
	}
	for _, r := range AllResources {
		fs.StringVar(c.resourceField(r), r.Flag(), "", r.flagUsage())
	}
	fs.StringVar(&c.ProfilePath, "profile", "", "run tests with profiling, write results to `path`")
	fs.BoolVar(&c.ProfileTruncate, "profile-truncate", false, "when profiling, truncate output file at start")
	fs.Var(&c.LogLevel, "log-level", "control logging level of tests ("+logging.LevelNames+")")
}

// Validate reports switch combinations that cannot take effect.
func (c *Config) Validate() error {
	if c.ProfileTruncate && c.ProfilePath == "" {
		return errors.New("-profile-truncate requires -profile")
	}
	return nil
}

// Enabled is true if tests in the category should run.
func (c *Config) Enabled(cat Category) bool {
	if f := c.categoryField(cat); f != nil {
		return *f
	}
	return false
}

// Resolver returns the sources for r: its switch first, then any environment fallbacks.
func (c *Config) Resolver(r Resource) Resolver {
	resolver := Resolver{FlagSource(r.Flag(), c.resourceField(r))}
	if fallbacks := resourceInfos[r].fallbacks; fallbacks != nil {
		resolver = append(resolver, fallbacks(c.lookupEnv())...)
	}
	return resolver
}

// Resolve evaluates the Resolver for r.
func (c *Config) Resolve(r Resource) Resolution {
	return c.Resolver(r).Resolve()
}

func (c *Config) lookupEnv() LookupEnvFunc {
	if c.LookupEnv == nil {
		return os.LookupEnv
	}
	return c.LookupEnv
}

func (c *Config) categoryField(cat Category) *bool {
	switch cat {
	case Slow:
		return &c.RunSlow
	case Performance:
		return &c.RunPerf
	case Load:
		return &c.RunLoad
	case Integration:
		return &c.RunIntegration
	}
	return nil
}

func (c *Config) resourceField(r Resource) *string {
	switch r {
	case IngestV2:
		return &c.IngestV2
	case ElasticAddress:
		return &c.ElasticAddress
	case RedisAddress:
		return &c.RedisAddress
	case CassandraAddress:
		return &c.CassandraAddress
	case ThirdDir:
		return &c.ThirdDir
	case ExternalData:
		return &c.ExternalData
	}
	return nil
}
