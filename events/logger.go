package events

import (
	"github.com/ThreeDotsLabs/watermill"
	log "github.com/sirupsen/logrus"
)

var _ watermill.LoggerAdapter = &logrusAdapter{}

// logrusAdapter routes watermill's internal logging through logrus.
type logrusAdapter struct {
	entry *log.Entry
}

func newLogrusAdapter() watermill.LoggerAdapter {
	return &logrusAdapter{entry: log.WithField("component", "events")}
}

func (l *logrusAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.with(fields).WithError(err).Error(msg)
}

func (l *logrusAdapter) Info(msg string, fields watermill.LogFields) {
	l.with(fields).Info(msg)
}

func (l *logrusAdapter) Debug(msg string, fields watermill.LogFields) {
	l.with(fields).Debug(msg)
}

func (l *logrusAdapter) Trace(msg string, fields watermill.LogFields) {
	l.with(fields).Trace(msg)
}

func (l *logrusAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &logrusAdapter{entry: l.with(fields)}
}

func (l *logrusAdapter) with(fields watermill.LogFields) *log.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(log.Fields(fields))
}
