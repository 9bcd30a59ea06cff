// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hurlgo/hurl/value"
)

// ParseJSON decodes data into the tagged value model. Object member order
// is preserved and numbers keep their kind: anything that fits an int64
// becomes an integer, digit-only literals beyond int64 become big
// integers, the rest become floats.
func ParseJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return value.Null(), err
	}

	// Trailing garbage makes the document invalid.
	if _, err := dec.Token(); err != io.EOF {
		return value.Null(), fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Null(), err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.Str(t), nil
	case json.Number:
		return decodeNumber(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []value.Value
			for dec.More() {
				e, err := decodeValue(dec)
				if err != nil {
					return value.Null(), err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return value.Null(), err
			}
			return value.List(elems...), nil
		case '{':
			var pairs []value.Pair
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value.Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value.Null(), fmt.Errorf("object key is not a string")
				}
				v, err := decodeValue(dec)
				if err != nil {
					return value.Null(), err
				}
				pairs = append(pairs, value.Pair{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil { // closing }
				return value.Null(), err
			}
			return value.Object(pairs...), nil
		}
	}
	return value.Null(), fmt.Errorf("unexpected JSON token %v", tok)
}

// decodeNumber keeps integers as integers. Digit-only literals that
// overflow int64 round-trip as big integers.
func decodeNumber(n json.Number) value.Value {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i)
	}
	if isInteger(s) {
		return value.BigInt(s)
	}
	f, _ := n.Float64()
	return value.Float(f)
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
