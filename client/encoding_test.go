// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/andybalholm/brotli"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func TestParseContentEncoding(t *testing.T) {
	encs, err := ParseContentEncoding("br, gzip")
	if err != nil {
		t.Fatal(err)
	}
	if len(encs) != 2 || encs[0] != EncodingBrotli || encs[1] != EncodingGzip {
		t.Errorf("got %v", encs)
	}

	_, err = ParseContentEncoding("snappy")
	if err == nil {
		t.Fatal("unknown token should fail")
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != ErrUnsupportedContentEncoding {
		t.Errorf("got %#v", err)
	}
}

func TestUncompressGzip(t *testing.T) {
	resp := &Response{
		Headers: NewHeaderList(Header{"Content-Encoding", "gzip"}),
		Body:    gzipped(t, []byte("hello")),
	}
	got, err := resp.Uncompress()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestUncompressStacked(t *testing.T) {
	// The body is gzip-compressed, then brotli-compressed on top; the
	// header lists "br, gzip", the order in which they are undone.
	inner := gzipped(t, []byte("payload"))
	buf := &bytes.Buffer{}
	bw := brotli.NewWriter(buf)
	bw.Write(inner)
	bw.Close()

	resp := &Response{
		Headers: NewHeaderList(Header{"Content-Encoding", "br, gzip"}),
		Body:    buf.Bytes(),
	}
	// Header order: br undone first, then gzip.
	got, err := resp.Uncompress()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("got %q", got)
	}
}

func TestUncompressDeflateZlib(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	zw.Write([]byte("deflated"))
	zw.Close()

	resp := &Response{
		Headers: NewHeaderList(Header{"Content-Encoding", "deflate"}),
		Body:    buf.Bytes(),
	}
	got, err := resp.Uncompress()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "deflated" {
		t.Errorf("got %q", got)
	}
}

func TestUncompressCorrupt(t *testing.T) {
	resp := &Response{
		Headers: NewHeaderList(Header{"Content-Encoding", "gzip"}),
		Body:    []byte("this is not gzip"),
	}
	if _, err := resp.Uncompress(); err == nil {
		t.Error("corrupt body should fail")
	}
}

func TestUncompressNoHeader(t *testing.T) {
	resp := &Response{Headers: NewHeaderList(), Body: []byte("plain")}
	got, err := resp.Uncompress()
	if err != nil || string(got) != "plain" {
		t.Errorf("got %q, %v", got, err)
	}
}
