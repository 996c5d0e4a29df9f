package framework

import (
	"net"
	"os"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Source is one way of finding a setting's value.
type Source interface {
	// Lookup returns the value, or an undefined OptionalString if this source has none.
	Lookup() ldvalue.OptionalString
	// String describes the source for messages, e.g. "-redis-address" or "env var EXTERNAL_DATA".
	String() string
}

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(string) (string, bool)

type flagSource struct {
	name  string
	value *string
}

// FlagSource reads a string switch. An empty value counts as unset.
func FlagSource(name string, value *string) Source {
	return flagSource{name: name, value: value}
}

func (s flagSource) Lookup() ldvalue.OptionalString {
	if s.value == nil || *s.value == "" {
		return ldvalue.OptionalString{}
	}
	return ldvalue.NewOptionalString(*s.value)
}

func (s flagSource) String() string { return "-" + s.name }

type envSource struct {
	name   string
	lookup LookupEnvFunc
}

// EnvSource reads one environment variable. An empty value counts as unset.
func EnvSource(name string, lookup LookupEnvFunc) Source {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return envSource{name: name, lookup: lookup}
}

func (s envSource) Lookup() ldvalue.OptionalString {
	if v, ok := s.lookup(s.name); ok && v != "" {
		return ldvalue.NewOptionalString(v)
	}
	return ldvalue.OptionalString{}
}

func (s envSource) String() string { return "env var " + s.name }

type envAddressSource struct {
	hostVar string
	portVar string
	lookup  LookupEnvFunc
}

// EnvAddressSource joins a host variable and a port variable into host:port, as set by linked
// containers (REDIS_PORT_6379_TCP_ADDR and REDIS_PORT_6379_TCP_PORT). Both must be set.
func EnvAddressSource(hostVar, portVar string, lookup LookupEnvFunc) Source {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return envAddressSource{hostVar: hostVar, portVar: portVar, lookup: lookup}
}

func (s envAddressSource) Lookup() ldvalue.OptionalString {
	host, _ := s.lookup(s.hostVar)
	port, _ := s.lookup(s.portVar)
	if host == "" || port == "" {
		return ldvalue.OptionalString{}
	}
	return ldvalue.NewOptionalString(net.JoinHostPort(host, port))
}

func (s envAddressSource) String() string {
	return "env vars " + s.hostVar + " and " + s.portVar
}

// Resolver is an ordered list of sources. The first source with a value wins.
type Resolver []Source

// Resolution is the outcome of evaluating a Resolver.
type Resolution struct {
	// Value is undefined when no source had a value.
	Value ldvalue.OptionalString
	// Source describes the source that supplied Value.
	Source string
	// Tried describes every source consulted, in order.
	Tried []string
}

// Resolve evaluates the sources in order.
func (r Resolver) Resolve() Resolution {
	var res Resolution
	for _, s := range r {
		res.Tried = append(res.Tried, s.String())
		if v := s.Lookup(); v.IsDefined() {
			res.Value = v
			res.Source = s.String()
			return res
		}
	}
	return res
}

// IsDefined is true if some source supplied a value.
func (r Resolution) IsDefined() bool {
	return r.Value.IsDefined()
}

// String returns the resolved value, or "" if there is none.
func (r Resolution) String() string {
	return r.Value.StringValue()
}

// Alternatives joins the sources that were tried, e.g. "-ingest-v2 or env var STREAMCORPUS_INGEST_URL".
func (r Resolution) Alternatives() string {
	return strings.Join(r.Tried, " or ")
}
