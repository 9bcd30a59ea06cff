// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// header.go provides the ordered header list. Duplicates are allowed;
// lookup is case-insensitive but preserves insertion order.

package client

import "strings"

// Header is a single HTTP header line.
type Header struct {
	Name  string
	Value string
}

// HeaderList is an ordered list of headers with case-insensitive lookup.
type HeaderList struct {
	headers []Header
}

// NewHeaderList returns a list of the given headers.
func NewHeaderList(headers ...Header) *HeaderList {
	return &HeaderList{headers: headers}
}

// Add appends a header keeping insertion order.
func (hl *HeaderList) Add(name, value string) {
	hl.headers = append(hl.headers, Header{Name: name, Value: value})
}

// Get returns the value of the first header with the given name by
// insertion order.
func (hl *HeaderList) Get(name string) (string, bool) {
	for _, h := range hl.headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// GetAll returns the values of every header with the given name in
// insertion order.
func (hl *HeaderList) GetAll(name string) []string {
	var vals []string
	for _, h := range hl.headers {
		if strings.EqualFold(h.Name, name) {
			vals = append(vals, h.Value)
		}
	}
	return vals
}

// Contains reports whether a header with the given name exists.
func (hl *HeaderList) Contains(name string) bool {
	_, ok := hl.Get(name)
	return ok
}

// All returns the headers in insertion order. The caller must not
// modify the returned slice.
func (hl *HeaderList) All() []Header {
	if hl == nil {
		return nil
	}
	return hl.headers
}

// Len returns the number of headers.
func (hl *HeaderList) Len() int { return len(hl.headers) }
