// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hurlgo/hurl/vars"
)

// Logger is the logging surface the runner needs. Messages may contain
// rendered values; implementations must redact secrets.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

// hclogAdapter redacts secrets and forwards to an hclog.Logger.
type hclogAdapter struct {
	log     hclog.Logger
	secrets *vars.Set
}

// NewLogger returns a Logger forwarding to log. Every message is
// redacted against the secret set of variables before it is emitted.
func NewLogger(log hclog.Logger, variables *vars.Set) Logger {
	return &hclogAdapter{log: log, secrets: variables}
}

func (l *hclogAdapter) redact(format string, args []interface{}) string {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if l.secrets != nil {
		msg = l.secrets.Redact(msg)
	}
	return msg
}

func (l *hclogAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug(l.redact(format, args))
}

func (l *hclogAdapter) Warnf(format string, args ...interface{}) {
	l.log.Warn(l.redact(format, args))
}

func (l *hclogAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error(l.redact(format, args))
}
