// Package logrus adapts a logrus entry to the tasking logger.
package logrus

import (
	"github.com/amonks/tasking/internal/log"
	"github.com/sirupsen/logrus"
)

type logger struct {
	*logrus.Entry
}

// NewLogrus returns a log.Logger backed by the given logrus entry.
func NewLogrus(l *logrus.Entry) log.Logger {
	return logger{Entry: l}
}

func (l logger) WithValues(kv log.Kv) log.Logger {
	newLogger := l.Entry.WithFields(kv)
	return NewLogrus(newLogger)
}
