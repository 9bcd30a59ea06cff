// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// env.go ingests variables from the process environment:
//
//	HURL_VARIABLE_name   preferred form
//	HURL_name            legacy form
//	HURL_SECRET_name     secret, always a string
//
// NO_COLOR and HURL_NO_COLOR disable coloring and are not variables.

package main

import (
	"strings"

	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/vars"
)

// envOptionNames are HURL_-prefixed names that configure the tool
// itself; the legacy variable form skips them.
var envOptionNames = map[string]bool{
	"NO_COLOR": true,
}

func variablesFromEnv(set *vars.Set, environ []string) error {
	for _, kv := range environ {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(name, "HURL_VARIABLE_"):
			vn := strings.TrimPrefix(name, "HURL_VARIABLE_")
			if err := set.Insert(vn, runner.InferValue(val)); err != nil {
				return err
			}
		case strings.HasPrefix(name, "HURL_SECRET_"):
			vn := strings.TrimPrefix(name, "HURL_SECRET_")
			if err := set.InsertSecret(vn, val); err != nil {
				return err
			}
		case strings.HasPrefix(name, "HURL_"):
			vn := strings.TrimPrefix(name, "HURL_")
			if vn == "" || envOptionNames[vn] {
				continue
			}
			if err := set.Insert(vn, runner.InferValue(val)); err != nil {
				return err
			}
		}
	}
	return nil
}

// colorDisabled honors NO_COLOR and HURL_NO_COLOR.
func colorDisabled(environ []string) bool {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if name == "NO_COLOR" || name == "HURL_NO_COLOR" {
			return true
		}
	}
	return false
}
