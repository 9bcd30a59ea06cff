// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cookie

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteRead(t *testing.T) {
	in := []Cookie{
		{
			Domain:           "example.org",
			IncludeSubdomain: true,
			Path:             "/",
			Secure:           true,
			Expires:          1999999999,
			Name:             "session",
			Value:            "abc",
			HTTPOnly:         true,
		},
		{
			Domain: "example.com",
			Path:   "/app",
			Name:   "empty",
			Value:  "",
		},
	}

	buf := &bytes.Buffer{}
	if err := Write(buf, in); err != nil {
		t.Fatalf("write: %s", err)
	}

	out, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read back: %s", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d cookies, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("cookie %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestWriteFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	err := Write(buf, []Cookie{{
		Domain:   "example.org",
		Path:     "/",
		Name:     "a",
		Value:    "b",
		HTTPOnly: true,
	}})
	if err != nil {
		t.Fatal(err)
	}
	want := "#HttpOnly_example.org\tFALSE\t/\tFALSE\t0\ta\tb\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Errorf("got %q, want suffix %q", buf.String(), want)
	}
}

func TestReadSkipsComments(t *testing.T) {
	src := "# Netscape HTTP Cookie File\n\nexample.org\tFALSE\t/\tFALSE\t0\ta\tb\n"
	cookies, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 || cookies[0].Name != "a" {
		t.Errorf("got %+v", cookies)
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("example.org\tFALSE\t/\n"))
	if err == nil {
		t.Error("short line should fail")
	}
	_, err = Read(strings.NewReader("example.org\tFALSE\t/\tFALSE\tsoon\ta\tb\n"))
	if err == nil {
		t.Error("bad expiry should fail")
	}
}
