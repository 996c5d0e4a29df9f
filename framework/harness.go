package framework

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/diffeo/go-test-diffeo/logging"
	"github.com/diffeo/go-test-diffeo/namespace"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// TestingM is the part of *testing.M used by the harness.
type TestingM interface {
	Run() int
}

// Harness is created once per test binary and shared by every test in it.
type Harness struct {
	config     *Config
	out        io.Writer
	loggers    ldlog.Loggers
	profiler   *profiler
	namespaces namespace.Generator
}

// NewHarness performs the one-time configuration for a test run. The config is validated, and if
// profiling was requested with truncation, the profile output file is emptied here.
//
// Messages about the run as a whole go to loggers; the selection description goes to out.
func NewHarness(config *Config, out io.Writer, loggers ldlog.Loggers) (*Harness, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid test configuration: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	h := &Harness{
		config:     config,
		out:        out,
		loggers:    loggers,
		namespaces: namespace.New(namespace.SystemEnvironment()),
	}
	if config.ProfilePath != "" {
		p, err := newProfiler(config.ProfilePath, config.ProfileTruncate, loggers)
		if err != nil {
			return nil, fmt.Errorf("cannot prepare profile output file %s: %w", config.ProfilePath, err)
		}
		h.profiler = p
	}
	return h, nil
}

// Config returns the configuration the harness was built from.
func (h *Harness) Config() *Config {
	return h.config
}

// Loggers returns the run-wide loggers.
func (h *Harness) Loggers() ldlog.Loggers {
	return h.loggers
}

// WithNamespaceEnvironment makes the harness generate namespace strings from env instead of the
// running process.
func (h *Harness) WithNamespaceEnvironment(env namespace.Environment) *Harness {
	h.namespaces = namespace.New(env)
	return h
}

// Run describes the selection criteria and then runs the tests, returning the exit code.
func (h *Harness) Run(m TestingM) int {
	PrintSelectionDescription(h.out, h.config)
	h.loggers.Debugf("Starting test run with log level %s", h.config.LogLevel)
	code := m.Run()
	h.loggers.Debugf("Test run finished with exit code %d", code)
	return code
}

// Main is a TestMain body: it registers the harness switches on flag.CommandLine, parses the command
// line, builds the Harness, hands it to setup and runs the tests. It does not return.
//
//	var harness *framework.Harness
//
//	func TestMain(m *testing.M) {
//		framework.Main(m, func(h *framework.Harness) { harness = h })
//	}
func Main(m TestingM, setup func(*Harness)) {
	os.Exit(runMain(m, flag.CommandLine, os.Args[1:], os.Stdout, setup))
}

func runMain(m TestingM, fs *flag.FlagSet, args []string, out io.Writer, setup func(*Harness)) int {
	config := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	h, err := NewHarness(config, out, logging.Default(config.LogLevel.LogLevel()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Test harness error: %s\n", err)
		return 1
	}
	if setup != nil {
		setup(h)
	}
	return h.Run(m)
}
