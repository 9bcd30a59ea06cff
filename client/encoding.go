// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// encoding.go handles the Content-Encoding response header. A header may
// stack several encodings; they are undone in header order.

package client

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// ContentEncoding is a single encoding token.
type ContentEncoding uint8

// The supported content encodings.
const (
	EncodingIdentity ContentEncoding = iota
	EncodingGzip
	EncodingDeflate
	EncodingBrotli
)

// ParseContentEncoding parses the comma-separated value of a
// Content-Encoding header. An unknown token yields an
// UnsupportedContentEncoding error.
func ParseContentEncoding(header string) ([]ContentEncoding, error) {
	var encodings []ContentEncoding
	for _, tok := range strings.Split(header, ",") {
		tok = strings.TrimSpace(tok)
		switch tok {
		case "", "identity":
			encodings = append(encodings, EncodingIdentity)
		case "gzip":
			encodings = append(encodings, EncodingGzip)
		case "deflate":
			encodings = append(encodings, EncodingDeflate)
		case "br":
			encodings = append(encodings, EncodingBrotli)
		default:
			return nil, newError(ErrUnsupportedContentEncoding, "", "%q", tok)
		}
	}
	return encodings, nil
}

// decode undoes a single encoding.
func (e ContentEncoding) decode(data []byte) ([]byte, error) {
	var r io.Reader
	switch e {
	case EncodingIdentity:
		return data, nil
	case EncodingGzip:
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, newError(ErrCouldNotUncompress, "", "gzip: %s", err)
		}
		defer gz.Close()
		r = gz
	case EncodingDeflate:
		// Servers send both raw deflate streams and zlib-wrapped
		// ones; try zlib first.
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err == nil {
			defer zr.Close()
			r = zr
		} else {
			fr := flate.NewReader(bytes.NewReader(data))
			defer fr.Close()
			r = fr
		}
	case EncodingBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(ErrCouldNotUncompress, "", "%s", err)
	}
	return out, nil
}

// Uncompress undoes the encodings declared in the response's
// Content-Encoding header, in header order.
func (r *Response) Uncompress() ([]byte, error) {
	header, ok := r.Headers.Get("Content-Encoding")
	if !ok || r.Decompressed {
		return r.Body, nil
	}
	encodings, err := ParseContentEncoding(header)
	if err != nil {
		return nil, err
	}
	body := r.Body
	for _, enc := range encodings {
		body, err = enc.decode(body)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}
