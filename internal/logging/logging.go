// Package logging provides logger creation for the dbval command-line tools.
package logging

import (
	"fmt"

	"github.com/dekarrin/jellog"
)

// Logger is an object that is used to log messages.
type Logger interface {
	Debug(string)
	Debugf(string, ...interface{})
	Error(string)
	Errorf(string, ...interface{})
	Info(string)
	Infof(string, ...interface{})
	Trace(string)
	Tracef(string, ...interface{})
	Warn(string)
	Warnf(string, ...interface{})

	// InfoBreak adds a 'break' between events in the log at Info level. For
	// text-based logs, it is generally a newline character.
	InfoBreak()
}

// New creates a new jellog-backed logger for the named component. Messages at
// Info level and above go to stderr, or everything down to Debug if verbose is
// set. If filename is not blank, every message down to Trace is also written
// to that file.
func New(component string, filename string, verbose bool) (Logger, error) {
	j := jellog.New(jellog.Defaults[string]().WithComponent(component))

	if filename != "" {
		logOut, err := jellog.OpenFile(filename, nil)
		if err != nil {
			return nil, fmt.Errorf("open logfile: %q: %w", filename, err)
		}
		j.AddHandler(jellog.LvTrace, logOut)
	}

	stderrLevel := jellog.LvInfo
	if verbose {
		stderrLevel = jellog.LvDebug
	}
	j.AddHandler(stderrLevel, jellog.NewStderrHandler(nil))

	return jellogLogger{j: j}, nil
}

// NoOpLogger is a logger that performs no operations.
type NoOpLogger struct{}

func (log NoOpLogger) Debug(msg string)                    {}
func (log NoOpLogger) Warn(msg string)                     {}
func (log NoOpLogger) Trace(msg string)                    {}
func (log NoOpLogger) Info(msg string)                     {}
func (log NoOpLogger) Error(msg string)                    {}
func (log NoOpLogger) Debugf(msg string, a ...interface{}) {}
func (log NoOpLogger) Warnf(msg string, a ...interface{})  {}
func (log NoOpLogger) Tracef(msg string, a ...interface{}) {}
func (log NoOpLogger) Infof(msg string, a ...interface{})  {}
func (log NoOpLogger) Errorf(msg string, a ...interface{}) {}
func (log NoOpLogger) InfoBreak()                          {}

type jellogLogger struct {
	j jellog.Logger[string]
}

func (log jellogLogger) Debug(msg string) {
	log.j.Debug(msg)
}

func (log jellogLogger) Debugf(msg string, a ...interface{}) {
	log.j.Debugf(msg, a...)
}

func (log jellogLogger) Warn(msg string) {
	log.j.Warn(msg)
}

func (log jellogLogger) Warnf(msg string, a ...interface{}) {
	log.j.Warnf(msg, a...)
}

func (log jellogLogger) Trace(msg string) {
	log.j.Trace(msg)
}

func (log jellogLogger) Tracef(msg string, a ...interface{}) {
	log.j.Tracef(msg, a...)
}

func (log jellogLogger) Info(msg string) {
	log.j.Info(msg)
}

func (log jellogLogger) Infof(msg string, a ...interface{}) {
	log.j.Infof(msg, a...)
}

func (log jellogLogger) Error(msg string) {
	log.j.Error(msg)
}

func (log jellogLogger) Errorf(msg string, a ...interface{}) {
	log.j.Errorf(msg, a...)
}

func (log jellogLogger) InfoBreak() {
	log.j.InsertBreak(jellog.LvInfo)
}
