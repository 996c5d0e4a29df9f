// Package framework connects integration tests to the external systems they need.
//
// The general model is:
//
// 1. TestMain registers the harness switches on a flag.FlagSet (RegisterFlags), parses them once, and
// builds a Harness from the resulting Config. Nothing is kept in package-level state; the Harness is
// handed to tests by the suite itself.
//
// 2. Each test calls Harness.Setup with the categories it belongs to. Tests whose categories were not
// enabled on the command line are skipped. The returned Context is scoped to that one test: it owns
// the test's namespace string, its loggers, and, when profiling, its CPU profile.
//
// 3. External resource locations (a Redis address, a directory of shared test data, ...) are resolved
// on demand through an ordered list of sources, typically an explicit switch followed by environment
// variables. A required resource that cannot be resolved fails the test; an optional one skips it.
package framework
