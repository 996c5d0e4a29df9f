package logging

import (
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// LevelNames is the usage text for a Level flag.
const LevelNames = "DEBUG|INFO|WARNING|ERROR|FATAL"

// Level is a flag.Value selecting the minimum log level for tests. It accepts the conventional
// level names; FATAL suppresses everything since nothing in a test run logs at that level.
type Level struct {
	name  string
	level ldlog.LogLevel
}

// DefaultLevel logs everything.
func DefaultLevel() Level {
	return Level{name: "DEBUG", level: ldlog.Debug}
}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(value string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(value))
	switch name {
	case "DEBUG":
		return Level{name: name, level: ldlog.Debug}, nil
	case "INFO":
		return Level{name: name, level: ldlog.Info}, nil
	case "WARNING", "WARN":
		return Level{name: "WARNING", level: ldlog.Warn}, nil
	case "ERROR":
		return Level{name: name, level: ldlog.Error}, nil
	case "FATAL", "CRITICAL":
		return Level{name: "FATAL", level: ldlog.None}, nil
	}
	return Level{}, fmt.Errorf("invalid log level %q, expected one of %s", value, LevelNames)
}

// LogLevel is the ldlog level this Level maps to.
func (l Level) LogLevel() ldlog.LogLevel {
	if l.name == "" {
		return ldlog.Debug
	}
	return l.level
}

func (l Level) String() string {
	if l.name == "" {
		return "DEBUG"
	}
	return l.name
}

// Set is called by the command line parser
func (l *Level) Set(value string) error {
	parsed, err := ParseLevel(value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
