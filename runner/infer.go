// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"strconv"
	"strings"

	"github.com/hurlgo/hurl/value"
)

// InferValue infers the typed value of a string coming from the command
// line or the environment:
//
//	"true"/"false"  boolean
//	"null"          null
//	int64 literal   integer
//	digits beyond int64  big integer
//	float literal   float
//	"quoted"        string, quotes stripped
//	anything else   string
func InferValue(s string) value.Value {
	switch s {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	case "null":
		return value.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i)
	}
	if isDigits(s) {
		return value.BigInt(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f)
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return value.Str(s[1 : len(s)-1])
	}
	return value.Str(s)
}

func isDigits(s string) bool {
	t := strings.TrimPrefix(s, "-")
	if t == "" {
		return false
	}
	for _, r := range t {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// inferValue is the package-internal alias used while binding [Options]
// variables.
func inferValue(s string) value.Value { return InferValue(s) }
