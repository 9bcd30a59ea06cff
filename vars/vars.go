// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vars provides the variable store used while running a script.
// Variables are public or secret; every string value ever bound as a secret
// stays in an append-only set used to redact user-visible output.
package vars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hurlgo/hurl/value"
)

// Visibility of a variable.
type Visibility uint8

const (
	// Public variables render in logs and reports.
	Public Visibility = iota
	// Secret variables are redacted from all user-visible output.
	Secret
)

// Variable is a named binding.
type Variable struct {
	Name       string
	Value      value.Value
	Visibility Visibility
}

// reserved are the built-in function names which cannot be used as
// variable names.
var reserved = map[string]bool{
	"getEnv":  true,
	"newDate": true,
	"newUuid": true,
}

// IsReserved reports whether name is a built-in function name.
func IsReserved(name string) bool { return reserved[name] }

// ErrReserved is returned when binding a reserved name.
type ErrReserved struct{ Name string }

func (e ErrReserved) Error() string {
	return fmt.Sprintf("variable %s is reserved", e.Name)
}

// Set is a collection of variables plus the monotonically growing set of
// secret string values. The zero value is not usable; use NewSet.
type Set struct {
	vars    map[string]Variable
	secrets map[string]bool
}

// NewSet returns an empty variable set.
func NewSet() *Set {
	return &Set{
		vars:    make(map[string]Variable),
		secrets: make(map[string]bool),
	}
}

// Clone returns a deep copy of s. The secret set is copied too: redaction
// survives job dispatch.
func (s *Set) Clone() *Set {
	c := &Set{
		vars:    make(map[string]Variable, len(s.vars)),
		secrets: make(map[string]bool, len(s.secrets)),
	}
	for n, v := range s.vars {
		c.vars[n] = v
	}
	for sec := range s.secrets {
		c.secrets[sec] = true
	}
	return c
}

// Insert creates or replaces the public variable name. Assigning a public
// value to a previously secret name keeps the name public but the old
// string stays in the secret set.
func (s *Set) Insert(name string, v value.Value) error {
	if IsReserved(name) {
		return ErrReserved{Name: name}
	}
	s.vars[name] = Variable{Name: name, Value: v, Visibility: Public}
	return nil
}

// InsertSecret binds name to the string val and registers val for
// redaction. Re-binding keeps the prior string in the secret set forever.
func (s *Set) InsertSecret(name, val string) error {
	if IsReserved(name) {
		return ErrReserved{Name: name}
	}
	s.secrets[val] = true
	s.vars[name] = Variable{Name: name, Value: value.Str(val), Visibility: Secret}
	return nil
}

// Get looks up name. Lookup is case sensitive.
func (s *Set) Get(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len returns the number of bound variables.
func (s *Set) Len() int { return len(s.vars) }

// Names returns the sorted variable names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.vars))
	for n := range s.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns the variables sorted by name.
func (s *Set) All() []Variable {
	all := make([]Variable, 0, len(s.vars))
	for _, n := range s.Names() {
		all = append(all, s.vars[n])
	}
	return all
}

// Secrets returns a snapshot of every secret string ever inserted,
// longest first so that overlapping secrets redact correctly.
func (s *Set) Secrets() []string {
	secs := make([]string, 0, len(s.secrets))
	for sec := range s.secrets {
		secs = append(secs, sec)
	}
	sort.Slice(secs, func(i, j int) bool {
		if len(secs[i]) != len(secs[j]) {
			return len(secs[i]) > len(secs[j])
		}
		return secs[i] < secs[j]
	})
	return secs
}

// Redact replaces every secret string in msg with three stars.
func (s *Set) Redact(msg string) string {
	for _, sec := range s.Secrets() {
		if sec == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, sec, "***")
	}
	return msg
}
