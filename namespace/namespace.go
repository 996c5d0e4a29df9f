// Package namespace builds short labels that scope a test's external resources (database keyspaces,
// queues, key prefixes) away from other test processes running at the same time.
//
// A namespace string encodes a fragment of the test name, the user name, the process id and a digest
// of the host name. It always matches [a-zA-Z0-9_]{0,40}. It is only a generated string: whoever
// creates resources under it is responsible for removing them.
package namespace

import (
	"crypto/md5" //nolint:gosec // diversification only
	"encoding/hex"
	"strconv"
	"strings"
)

const (
	// MaxLength is the upper bound on the length of a generated namespace string.
	MaxLength = labelLength + userLength + pidLength + hostLength + 3

	separator   = "_"
	labelLength = 23
	userLength  = 5
	pidLength   = 5
	hostLength  = 4
)

// Generator produces namespace strings from an Environment.
type Generator struct {
	env Environment
}

// New returns a Generator that reads user, process and host from env.
func New(env Environment) Generator {
	if env == nil {
		env = SystemEnvironment()
	}
	return Generator{env: env}
}

// Generate builds a namespace string for the current process.
func Generate(label string) string {
	return New(SystemEnvironment()).Generate(label)
}

// Generate builds a namespace string whose first segment is derived from label.
func (g Generator) Generate(label string) string {
	return strings.Join([]string{
		lastN(sanitize(label), labelLength),
		firstN(sanitize(strings.ReplaceAll(g.env.Username(), "-", "_")), userLength),
		lastN(strconv.Itoa(g.env.PID()), pidLength),
		firstN(hostDigest(g.env.Hostname()), hostLength),
	}, separator)
}

// TestingT is the part of testing.TB needed by ForTest.
type TestingT interface {
	Name() string
}

// ForTest returns the namespace string for the running test. Subtest separators are stripped along
// with every other character outside the namespace alphabet.
func ForTest(t TestingT) string {
	return Generate(t.Name())
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}

func hostDigest(host string) string {
	sum := md5.Sum([]byte(host)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func lastN(s string, n int) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
