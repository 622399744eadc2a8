// Package log defines the logger used across tasking.
package log

// Kv is a set of key-value fields attached to log entries.
type Kv = map[string]any

// Logger is the logging interface used by the app.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values Kv) Logger
}

// Noop is a logger that discards everything.
var Noop Logger = noop{}

type noop struct{}

func (noop) Infof(string, ...any)    {}
func (noop) Warningf(string, ...any) {}
func (noop) Errorf(string, ...any)   {}
func (noop) Debugf(string, ...any)   {}
func (n noop) WithValues(Kv) Logger  { return n }
