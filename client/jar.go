// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// jar.go is a cookie jar implementing net/http's CookieJar that, unlike
// the standard library jar, can be enumerated and persisted.

package client

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/hurlgo/hurl/cookie"
)

type jarEntry struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	HostOnly bool
	Expires  time.Time // zero for session cookies
	Created  time.Time
}

func (e *jarEntry) key() string {
	return e.Domain + ";" + e.Path + ";" + e.Name
}

func (e *jarEntry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && e.Expires.Before(now)
}

// Jar is an enumerable in-memory cookie jar.
type Jar struct {
	mu      sync.Mutex
	entries map[string]*jarEntry
}

// NewJar returns an empty jar.
func NewJar() *Jar {
	return &Jar{entries: make(map[string]*jarEntry)}
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	host := canonicalHost(u)
	if host == "" {
		return
	}
	now := time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		e := &jarEntry{
			Name:     c.Name,
			Value:    c.Value,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
			Created:  now,
		}

		// Domain attribute; defaults to host-only.
		domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		switch {
		case domain == "":
			e.Domain, e.HostOnly = host, true
		case !domainMatch(host, domain):
			continue // cookie for a foreign domain
		default:
			if ps, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil || ps == "" {
				continue // refusing to set a cookie on a public suffix
			}
			e.Domain = domain
		}

		// Path attribute; defaults to the directory of the request.
		if c.Path == "" || c.Path[0] != '/' {
			e.Path = defaultPath(u.Path)
		} else {
			e.Path = c.Path
		}

		// MaxAge wins over Expires.
		switch {
		case c.MaxAge < 0:
			delete(j.entries, e.key())
			continue
		case c.MaxAge > 0:
			e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !c.Expires.IsZero():
			if c.Expires.Before(now) {
				delete(j.entries, e.key())
				continue
			}
			e.Expires = c.Expires
		}

		j.entries[e.key()] = e
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	host := canonicalHost(u)
	if host == "" {
		return nil
	}
	https := u.Scheme == "https"
	now := time.Now()

	j.mu.Lock()
	var selected []*jarEntry
	for key, e := range j.entries {
		if e.expired(now) {
			delete(j.entries, key)
			continue
		}
		if e.Secure && !https {
			continue
		}
		if e.HostOnly {
			if host != e.Domain {
				continue
			}
		} else if !domainMatch(host, e.Domain) {
			continue
		}
		if !pathMatch(u.Path, e.Path) {
			continue
		}
		selected = append(selected, e)
	}
	j.mu.Unlock()

	// Longer paths first, then older cookies, per RFC 6265 5.4.
	sort.Slice(selected, func(a, b int) bool {
		if len(selected[a].Path) != len(selected[b].Path) {
			return len(selected[a].Path) > len(selected[b].Path)
		}
		return selected[a].Created.Before(selected[b].Created)
	})

	cookies := make([]*http.Cookie, len(selected))
	for i, e := range selected {
		cookies[i] = &http.Cookie{Name: e.Name, Value: e.Value}
	}
	return cookies
}

// Clear drops every cookie.
func (j *Jar) Clear() {
	j.mu.Lock()
	j.entries = make(map[string]*jarEntry)
	j.mu.Unlock()
}

// All returns the jar content in exchange-format terms, sorted by
// domain, path and name.
func (j *Jar) All() []JarCookie {
	now := time.Now()
	j.mu.Lock()
	var out []JarCookie
	for _, e := range j.entries {
		if e.expired(now) {
			continue
		}
		var expires int64
		if !e.Expires.IsZero() {
			expires = e.Expires.Unix()
		}
		out = append(out, JarCookie{
			Domain:           e.Domain,
			IncludeSubdomain: !e.HostOnly,
			Path:             e.Path,
			Secure:           e.Secure,
			Expires:          expires,
			Name:             e.Name,
			Value:            e.Value,
			HTTPOnly:         e.HTTPOnly,
		})
	}
	j.mu.Unlock()
	sort.Slice(out, func(a, b int) bool {
		if out[a].Domain != out[b].Domain {
			return out[a].Domain < out[b].Domain
		}
		if out[a].Path != out[b].Path {
			return out[a].Path < out[b].Path
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// Seed loads cookies read from a Netscape cookie file.
func (j *Jar) Seed(cookies []cookie.Cookie) {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		e := &jarEntry{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   strings.ToLower(c.Domain),
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			HostOnly: !c.IncludeSubdomain,
			Created:  now,
		}
		if c.Expires > 0 {
			e.Expires = time.Unix(c.Expires, 0)
		}
		j.entries[e.key()] = e
	}
}

func canonicalHost(u *url.URL) string {
	return strings.ToLower(u.Hostname())
}

// domainMatch implements the RFC 6265 domain-match on the cookie domain.
func domainMatch(host, domain string) bool {
	if host == domain {
		return true
	}
	return strings.HasSuffix(host, "."+domain)
}

// pathMatch implements the RFC 6265 path-match.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") ||
		reqPath[len(cookiePath)] == '/'
}

// defaultPath derives the cookie default path from the request path.
func defaultPath(reqPath string) string {
	if reqPath == "" || reqPath[0] != '/' {
		return "/"
	}
	i := strings.LastIndexByte(reqPath, '/')
	if i == 0 {
		return "/"
	}
	return reqPath[:i]
}
