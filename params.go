package main

import (
	"flag"
	"strings"

	"github.com/diffeo/go-test-diffeo/framework"
	"github.com/diffeo/go-test-diffeo/namespace"

	"github.com/alessio/shellescape"
)

const namespaceEnvName = "DIFFEO_NAMESPACE"

type envParams struct {
	flags  *flag.FlagSet
	config *framework.Config
	label  string
}

func newEnvParams() *envParams {
	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	return &envParams{
		flags:  fs,
		config: framework.RegisterFlags(fs),
	}
}

func (p *envParams) exports() string {
	var b exportBuilder
	b.add(namespaceEnvName, namespace.Generate(p.label))
	for _, r := range framework.AllResources {
		res := p.config.Resolve(r)
		if res.IsDefined() {
			b.add(r.EnvName(), res.String())
		} else {
			b.comment(r.EnvName() + " is not set (set " + longFlagAlternatives(res) + ")")
		}
	}
	return b.String()
}

// longFlagAlternatives spells switches the way pflag parses them here: "--ingest-v2", not "-ingest-v2".
func longFlagAlternatives(res framework.Resolution) string {
	tried := make([]string, len(res.Tried))
	for i, s := range res.Tried {
		if strings.HasPrefix(s, "-") {
			s = "-" + s
		}
		tried[i] = s
	}
	return strings.Join(tried, " or ")
}

type exportBuilder []string

func (b *exportBuilder) add(name, value string) {
	*b = append(*b, "export "+name+"="+shellescape.Quote(value))
}

func (b *exportBuilder) comment(text string) {
	*b = append(*b, "# "+text)
}

func (b exportBuilder) String() string {
	return strings.Join(b, "\n")
}
