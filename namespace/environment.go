package namespace

import (
	"os"
	"os/user"
)

// Environment supplies the process facts a namespace string is built from. Implementations return
// zero values when a fact cannot be determined; the generator turns those into empty segments.
type Environment interface {
	Username() string
	PID() int
	Hostname() string
}

// userEnvVars are consulted in order before asking the OS user database.
var userEnvVars = []string{"LOGNAME", "USER", "LNAME", "USERNAME"}

type systemEnvironment struct{}

// SystemEnvironment returns the Environment of the running process.
func SystemEnvironment() Environment {
	return systemEnvironment{}
}

func (systemEnvironment) Username() string {
	for _, name := range userEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func (systemEnvironment) PID() int {
	return os.Getpid()
}

func (systemEnvironment) Hostname() string {
	host, _ := os.Hostname()
	return host
}

// StaticEnvironment is an Environment with fixed values.
type StaticEnvironment struct {
	User string
	Pid  int
	Host string
}

func (e StaticEnvironment) Username() string { return e.User }
func (e StaticEnvironment) PID() int         { return e.Pid }
func (e StaticEnvironment) Hostname() string { return e.Host }
