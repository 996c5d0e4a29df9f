package logging

import (
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

const loggerPrefix = "[diffeo]"

// TestOutput is the part of testing.TB that receives log output.
type TestOutput interface {
	Helper()
	Logf(format string, args ...interface{})
}

// testBaseLogger adapts a test's log to ldlog.BaseLogger so that harness messages are shown with the
// test that produced them.
type testBaseLogger struct {
	t TestOutput
}

func (l testBaseLogger) Println(values ...interface{}) {
	l.t.Helper()
	l.t.Logf("%s", strings.TrimSuffix(fmt.Sprintln(values...), "\n"))
}

func (l testBaseLogger) Printf(format string, values ...interface{}) {
	l.t.Helper()
	l.t.Logf(format, values...)
}

// ForTest returns Loggers that write to the test's log, discarding anything below minLevel.
func ForTest(t TestOutput, minLevel ldlog.LogLevel) ldlog.Loggers {
	loggers := ldlog.Loggers{}
	loggers.SetBaseLogger(testBaseLogger{t: t})
	loggers.SetPrefix(loggerPrefix)
	loggers.SetMinLevel(minLevel)
	return loggers
}

// Default returns Loggers writing to standard error at minLevel.
func Default(minLevel ldlog.LogLevel) ldlog.Loggers {
	loggers := ldlog.NewDefaultLoggers()
	loggers.SetPrefix(loggerPrefix)
	loggers.SetMinLevel(minLevel)
	return loggers
}
