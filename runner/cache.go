// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cache.go memoizes the parsed forms of a response body so that
// repeated jsonpath/xpath queries against the same call do not re-parse.

package runner

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/jsonpath"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
)

// responseCache carries the lazily parsed forms of one response.
type responseCache struct {
	resp *client.Response

	body    []byte // decompressed body
	bodyErr *Error

	jsonDone bool
	jsonVal  value.Value
	jsonErr  *Error

	htmlDone bool
	htmlDoc  *html.Node
	htmlErr  *Error

	xmlDone bool
	xmlDoc  *xmlquery.Node
	xmlErr  *Error
}

func newResponseCache(resp *client.Response) *responseCache {
	return &responseCache{resp: resp}
}

// Body returns the decompressed response body.
func (c *responseCache) Body(si script.SourceInfo) ([]byte, *Error) {
	if c.body == nil && c.bodyErr == nil {
		body, err := c.resp.Uncompress()
		if err != nil {
			c.bodyErr = newErr(ErrHTTP, si, "%s", err)
		} else {
			c.body = body
		}
	}
	return c.body, c.bodyErr
}

// JSON returns the body parsed as JSON, memoized.
func (c *responseCache) JSON(si script.SourceInfo) (value.Value, *Error) {
	if !c.jsonDone {
		c.jsonDone = true
		body, err := c.Body(si)
		if err != nil {
			c.jsonErr = err
		} else if v, perr := jsonpath.ParseJSON(body); perr != nil {
			c.jsonErr = newErr(ErrInvalidJSON, si, "%s", perr)
		} else {
			c.jsonVal = v
		}
	}
	return c.jsonVal, c.jsonErr
}

// HTML returns the body parsed tolerantly as HTML, memoized.
func (c *responseCache) HTML(si script.SourceInfo) (*html.Node, *Error) {
	if !c.htmlDone {
		c.htmlDone = true
		body, err := c.Body(si)
		if err != nil {
			c.htmlErr = err
		} else if doc, perr := htmlquery.Parse(bytes.NewReader(body)); perr != nil {
			c.htmlErr = newErr(ErrInvalidXML, si, "%s", perr)
		} else {
			c.htmlDoc = doc
		}
	}
	return c.htmlDoc, c.htmlErr
}

// XML returns the body parsed strictly as XML, memoized. Documents
// without a root are rejected.
func (c *responseCache) XML(si script.SourceInfo) (*xmlquery.Node, *Error) {
	if !c.xmlDone {
		c.xmlDone = true
		body, err := c.Body(si)
		if err != nil {
			c.xmlErr = err
		} else if doc, perr := xmlquery.Parse(bytes.NewReader(body)); perr != nil {
			c.xmlErr = newErr(ErrInvalidXML, si, "%s", perr)
		} else if doc.FirstChild == nil {
			c.xmlErr = newErr(ErrInvalidXML, si, "document has no root element")
		} else {
			c.xmlDoc = doc
		}
	}
	return c.xmlDoc, c.xmlErr
}

// isHTML decides the parsing mode for xpath queries from the
// Content-Type header.
func (c *responseCache) isHTML() bool {
	if c.resp == nil {
		return false
	}
	ct, _ := c.resp.Headers.Get("Content-Type")
	return strings.Contains(ct, "html")
}

// newResponseCacheForText wraps a free-standing string, used by the
// jsonpath and xpath filters which re-parse an embedded document.
func newResponseCacheForText(s string) *responseCache {
	return &responseCache{body: []byte(s)}
}
