// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"reflect"
	"testing"
)

func TestHeaderListOrderAndCase(t *testing.T) {
	hl := NewHeaderList()
	hl.Add("Set-Cookie", "a=1")
	hl.Add("Content-Type", "text/html")
	hl.Add("set-cookie", "b=2")

	if v, ok := hl.Get("SET-COOKIE"); !ok || v != "a=1" {
		t.Errorf("Get returned %q, %t", v, ok)
	}
	all := hl.GetAll("Set-Cookie")
	if !reflect.DeepEqual(all, []string{"a=1", "b=2"}) {
		t.Errorf("GetAll returned %v", all)
	}
	if hl.Len() != 3 {
		t.Errorf("Len = %d", hl.Len())
	}
	if _, ok := hl.Get("X-Missing"); ok {
		t.Error("missing header should not be found")
	}
	if hl.Contains("x-missing") {
		t.Error("Contains on missing header")
	}
}
