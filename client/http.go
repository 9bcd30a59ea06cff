// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// http.go implements the Client contract on top of net/http.

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/time/rate"

	"github.com/hurlgo/hurl/cookie"
)

// DefaultUserAgent is sent when no User-Agent header is set explicitly.
var DefaultUserAgent = "hurl/1.0"

// DefaultMaxRedirects bounds redirect following when the options do not.
const DefaultMaxRedirects = 50

// HTTPClient implements Client using net/http. It is stateful: the
// cookie jar and the connection pool live as long as the client. It is
// not safe for concurrent use; each worker owns its own client.
type HTTPClient struct {
	jar       *Jar
	transport *http.Transport
	topts     *Options // options the transport was built for
	seeded    string   // cookie file already loaded into the jar
}

// New returns a client with an empty cookie jar.
func New() *HTTPClient {
	return &HTTPClient{jar: NewJar()}
}

// ClearCookies implements Client.
func (c *HTTPClient) ClearCookies() {
	c.jar.Clear()
	c.seeded = ""
}

// Cookies implements Client.
func (c *HTTPClient) Cookies() []JarCookie { return c.jar.All() }

// Execute implements Client. Set-Cookie headers update the jar before
// the Call is returned.
func (c *HTTPClient) Execute(req *Request, opts *Options) (*Call, error) {
	if opts == nil {
		opts = &Options{}
	}
	if !govalidator.IsRequestURL(req.URL) {
		return nil, newError(ErrInvalidURL, req.URL, "not a valid request URL")
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, newError(ErrInvalidURL, req.URL, "%s", err)
	}

	if opts.CookieFile != "" && c.seeded != opts.CookieFile {
		if err := c.seedJar(opts.CookieFile); err != nil {
			return nil, err
		}
		c.seeded = opts.CookieFile
	}

	hreq, err := http.NewRequest(req.Method, u.String(), bytes.NewReader(req.Body))
	if err != nil {
		return nil, newError(ErrInvalidURL, req.URL, "%s", err)
	}
	if len(req.Body) > 0 {
		hreq.ContentLength = int64(len(req.Body))
	}
	for _, h := range req.Headers.All() {
		hreq.Header.Add(h.Name, h.Value)
	}
	if hreq.Header.Get("User-Agent") == "" {
		ua := opts.UserAgent
		if ua == "" {
			ua = DefaultUserAgent
		}
		hreq.Header.Set("User-Agent", ua)
	}
	if opts.Compressed && hreq.Header.Get("Accept-Encoding") == "" {
		hreq.Header.Set("Accept-Encoding", "br, gzip, deflate")
	}
	if opts.User != "" {
		user, pass, _ := strings.Cut(opts.User, ":")
		hreq.SetBasicAuth(user, pass)
	}

	timings := Timings{Begin: time.Now()}
	var remoteAddr string
	trace := &httptrace.ClientTrace{
		DNSDone: func(httptrace.DNSDoneInfo) {
			timings.NameLookup = time.Since(timings.Begin)
		},
		ConnectDone: func(network, addr string, err error) {
			timings.Connect = time.Since(timings.Begin)
		},
		TLSHandshakeDone: func(tls.ConnectionState, error) {
			timings.AppConnect = time.Since(timings.Begin)
		},
		GotConn: func(info httptrace.GotConnInfo) {
			remoteAddr = info.Conn.RemoteAddr().String()
		},
		WroteRequest: func(httptrace.WroteRequestInfo) {
			timings.PreTransfer = time.Since(timings.Begin)
		},
		GotFirstResponseByte: func() {
			timings.StartTransfer = time.Since(timings.Begin)
		},
	}
	hreq = hreq.WithContext(httptrace.WithClientTrace(hreq.Context(), trace))

	hc := &http.Client{
		Transport: c.transportFor(opts),
		Jar:       c.jar,
		Timeout:   opts.Timeout,
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	if opts.FollowLocation {
		hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return newError(ErrTooManyRedirect, req.URL.String(),
					"stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	} else {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	hresp, err := hc.Do(hreq)
	if err != nil {
		return nil, classifyError(err, req.URL, opts)
	}
	defer hresp.Body.Close()

	var body io.Reader = hresp.Body
	if opts.LimitRate > 0 {
		body = newLimitedReader(body, opts.LimitRate)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, classifyError(err, req.URL, opts)
	}
	timings.End = time.Now()
	timings.Total = timings.End.Sub(timings.Begin)

	resp := &Response{
		Version: protoName(hresp.Proto),
		Status:  hresp.StatusCode,
		Headers: NewHeaderList(),
		Body:    raw,
		URL:     hresp.Request.URL.String(),
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		resp.IP = host
	} else {
		resp.IP = remoteAddr
	}
	// net/http canonicalizes names but keeps values and duplicates.
	for name, vals := range hresp.Header {
		for _, v := range vals {
			resp.Headers.Add(name, v)
		}
	}
	if hresp.TLS != nil && len(hresp.TLS.PeerCertificates) > 0 {
		resp.Certificate = certificateOf(hresp.TLS.PeerCertificates[0])
	}

	// The client decompresses only when asked to; the raw transfer
	// bytes stay available otherwise.
	if opts.Compressed {
		plain, err := resp.Uncompress()
		if err != nil {
			return nil, err
		}
		resp.Body = plain
		resp.Decompressed = true
	}

	return &Call{Request: req, Response: resp, Timings: timings}, nil
}

func (c *HTTPClient) seedJar(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("cannot read cookie file: %w", err)
	}
	defer f.Close()
	cookies, err := cookie.Read(f)
	if err != nil {
		return err
	}
	c.jar.Seed(cookies)
	return nil
}

// transportFor returns the cached transport, rebuilding it when the
// options changed. Reusing the transport keeps connections alive across
// calls and jobs.
func (c *HTTPClient) transportFor(opts *Options) *http.Transport {
	if c.transport != nil && transportEqual(c.topts, opts) {
		return c.transport
	}
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}

	network := "tcp"
	switch opts.IPVersion {
	case IPv4:
		network = "tcp4"
	case IPv6:
		network = "tcp6"
	}

	tr := &http.Transport{
		Proxy:                 proxyFunc(opts),
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
		TLSClientConfig:       tlsConfig(opts),
	}
	tr.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
		if opts.UnixSock != "" {
			return dialer.DialContext(ctx, "unix", opts.UnixSock)
		}
		addr = rewriteAddr(addr, opts)
		return dialer.DialContext(ctx, network, addr)
	}

	switch opts.HTTPVersion {
	case Version10, Version11:
		// Disable the automatic HTTP/2 upgrade.
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	case Version2, Version3, VersionDefault:
		// HTTP/2 is negotiated via ALPN. net/http has no HTTP/3
		// transport; a "3" preference degrades to the default.
		tr.ForceAttemptHTTP2 = true
	}

	c.transport, c.topts = tr, opts
	return tr
}

func transportEqual(a, b *Options) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.ConnectTimeout == b.ConnectTimeout &&
		a.Insecure == b.Insecure &&
		a.CACert == b.CACert &&
		a.ClientCert == b.ClientCert &&
		a.ClientKey == b.ClientKey &&
		a.Proxy == b.Proxy &&
		a.HTTPProxy == b.HTTPProxy &&
		a.HTTPSProxy == b.HTTPSProxy &&
		strings.Join(a.NoProxy, ",") == strings.Join(b.NoProxy, ",") &&
		a.UnixSock == b.UnixSock &&
		a.HTTPVersion == b.HTTPVersion &&
		a.IPVersion == b.IPVersion &&
		mapsEqual(a.Resolves, b.Resolves) &&
		mapsEqual(a.ConnectTo, b.ConnectTo)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func tlsConfig(opts *Options) *tls.Config {
	cfg := &tls.Config{InsecureSkipVerify: opts.Insecure}
	if opts.CACert != "" {
		if pem, err := os.ReadFile(opts.CACert); err == nil {
			pool := x509.NewCertPool()
			pool.AppendCertsFromPEM(pem)
			cfg.RootCAs = pool
		}
	}
	if opts.ClientCert != "" {
		key := opts.ClientKey
		if key == "" {
			key = opts.ClientCert
		}
		if cert, err := tls.LoadX509KeyPair(opts.ClientCert, key); err == nil {
			cfg.Certificates = []tls.Certificate{cert}
		}
	}
	return cfg
}

func proxyFunc(opts *Options) func(*http.Request) (*url.URL, error) {
	if opts.Proxy == "" && opts.HTTPProxy == "" && opts.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, skip := range opts.NoProxy {
			skip = strings.TrimSpace(skip)
			if skip != "" && (skip == "*" || host == skip ||
				strings.HasSuffix(host, "."+skip)) {
				return nil, nil
			}
		}
		proxy := opts.Proxy
		if req.URL.Scheme == "https" && opts.HTTPSProxy != "" {
			proxy = opts.HTTPSProxy
		} else if req.URL.Scheme == "http" && opts.HTTPProxy != "" {
			proxy = opts.HTTPProxy
		}
		if proxy == "" {
			return nil, nil
		}
		if !strings.Contains(proxy, "://") {
			proxy = "http://" + proxy
		}
		return url.Parse(proxy)
	}
}

// rewriteAddr applies the resolve and connect-to overrides.
func rewriteAddr(addr string, opts *Options) string {
	if to, ok := opts.ConnectTo[addr]; ok {
		return to
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		if ip, ok := opts.Resolves[host+":"+port]; ok {
			return net.JoinHostPort(ip, port)
		}
		if ip, ok := opts.Resolves[host]; ok {
			return net.JoinHostPort(ip, port)
		}
	}
	return addr
}

func protoName(proto string) string {
	switch proto {
	case "HTTP/2.0":
		return "HTTP/2"
	case "HTTP/3.0":
		return "HTTP/3"
	}
	return proto
}

func certificateOf(cert *x509.Certificate) *Certificate {
	return &Certificate{
		Subject:      cert.Subject.String(),
		Issuer:       cert.Issuer.String(),
		StartDate:    cert.NotBefore,
		ExpireDate:   cert.NotAfter,
		SerialNumber: cert.SerialNumber.String(),
	}
}

// classifyError maps a net/http error into the transport taxonomy.
func classifyError(err error, reqURL string, opts *Options) error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		kind := ErrCouldNotResolveHost
		if isProxyHost(dnsErr.Name, opts) {
			kind = ErrCouldNotResolveProxyName
		}
		return newError(kind, reqURL, "%s", dnsErr.Name)
	}

	var certErr *tls.CertificateVerificationError
	var hostErr x509.HostnameError
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &authErr) {
		return newError(ErrSSLCertificate, reqURL, "%s", rootCause(err))
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(ErrTimeout, reqURL, "%s", rootCause(err))
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return newError(ErrFailToConnect, reqURL, "%s", rootCause(err))
	}

	msg := rootCause(err).Error()
	switch {
	case strings.Contains(msg, "malformed HTTP status code"),
		strings.Contains(msg, "missing status line"):
		return newError(ErrStatuslineMissing, reqURL, "%s", msg)
	case strings.Contains(msg, "malformed HTTP"):
		return newError(ErrCouldNotParseResponse, reqURL, "%s", msg)
	}
	return newError(ErrTransport, reqURL, "%s", msg)
}

func isProxyHost(host string, opts *Options) bool {
	for _, p := range []string{opts.Proxy, opts.HTTPProxy, opts.HTTPSProxy} {
		if p == "" {
			continue
		}
		if !strings.Contains(p, "://") {
			p = "http://" + p
		}
		if u, err := url.Parse(p); err == nil && u.Hostname() == host {
			return true
		}
	}
	return false
}

func rootCause(err error) error {
	for {
		u := errors.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
}

// --------------------------------------------------------------------------
// Transfer speed limiting

type limitedReader struct {
	r   io.Reader
	lim *rate.Limiter
}

// newLimitedReader caps reading at bytesPerSec.
func newLimitedReader(r io.Reader, bytesPerSec int64) io.Reader {
	burst := int(bytesPerSec)
	if burst > 64*1024 {
		burst = 64 * 1024
	}
	if burst < 1 {
		burst = 1
	}
	return &limitedReader{r: r, lim: rate.NewLimiter(rate.Limit(bytesPerSec), burst)}
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if max := lr.lim.Burst(); len(p) > max {
		p = p[:max]
	}
	n, err := lr.r.Read(p)
	if n > 0 {
		if werr := lr.lim.WaitN(context.Background(), n); werr != nil && err == nil {
			err = werr
		}
	}
	return n, err
}
