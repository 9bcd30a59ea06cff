// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cookie reads and writes cookie jars in the Netscape
// cookie-file format:
//
//	[#HttpOnly_]<domain> <tailmatch> <path> <secure> <expires> <name> <value>
//
// Fields are tab separated; the value may be empty. Lines starting with
// # (other than the #HttpOnly_ prefix) are comments.
package cookie

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cookie is one line of a Netscape cookie file.
type Cookie struct {
	Domain           string
	IncludeSubdomain bool
	Path             string
	Secure           bool
	Expires          int64 // unix seconds, 0 for session cookies
	Name             string
	Value            string
	HTTPOnly         bool
}

const httpOnlyPrefix = "#HttpOnly_"

// Write writes cookies to w in Netscape format including the customary
// file header.
func Write(w io.Writer, cookies []Cookie) error {
	if _, err := fmt.Fprintln(w, "# Netscape HTTP Cookie File"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "# This file was generated by hurl"); err != nil {
		return err
	}
	for _, c := range cookies {
		if err := writeLine(w, c); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, c Cookie) error {
	domain := c.Domain
	if c.HTTPOnly {
		domain = httpOnlyPrefix + domain
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
		domain,
		netscapeBool(c.IncludeSubdomain),
		c.Path,
		netscapeBool(c.Secure),
		c.Expires,
		c.Name,
		c.Value)
	return err
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Read parses a Netscape cookie file. Malformed lines are an error;
// comments and blank lines are skipped.
func Read(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(line, "#") {
			continue
		}
		c, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("cookie file line %d: %s", lineno, err)
		}
		c.HTTPOnly = httpOnly
		cookies = append(cookies, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}

func parseLine(line string) (Cookie, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 7 {
		return Cookie{}, fmt.Errorf("expected 7 tab-separated fields, got %d", len(fields))
	}
	expires, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Cookie{}, fmt.Errorf("invalid expiry %q", fields[4])
	}
	return Cookie{
		Domain:           fields[0],
		IncludeSubdomain: fields[1] == "TRUE",
		Path:             fields[2],
		Secure:           fields[3] == "TRUE",
		Expires:          expires,
		Name:             fields[5],
		Value:            fields[6],
	}, nil
}
