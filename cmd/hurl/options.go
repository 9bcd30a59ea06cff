// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/vars"
)

// repeatableFlag collects the values of a flag given multiple times.
type repeatableFlag []string

func (r *repeatableFlag) String() string { return strings.Join(*r, ",") }

func (r *repeatableFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

// cliOptions is everything the command line, the config file and the
// environment resolve to.
type cliOptions struct {
	files []string

	variables     repeatableFlag
	variablesFile string
	secrets       repeatableFlag

	continueOnError bool
	failAtEnd       bool
	test            bool
	jobs            int
	repeat          int
	toEntry         int
	delayMS         int64
	retry           int
	retryIntervalMS int64
	output          string
	fileRoot        string
	json            bool
	verbose         bool
	noColor         bool

	// Client options.
	timeoutS       int64
	connectTimeout int64
	location       bool
	maxRedirs      int
	insecure       bool
	cacert         string
	cert           string
	key            string
	proxy          string
	noproxy        string
	resolves       repeatableFlag
	connectTo      repeatableFlag
	unixSocket     string
	httpVersion    string
	ipv4, ipv6     bool
	compressed     bool
	user           string
	userAgent      string
	awsSigV4       string
	cookieFile     string
	cookieJar      string
	limitRate      int64
}

func parseArgs(args []string) (*cliOptions, error) {
	o := &cliOptions{jobs: 1, repeat: 1, maxRedirs: 50}

	fs := flag.NewFlagSet("hurl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.Var(&o.variables, "variable", "define a variable NAME=VALUE (repeatable)")
	fs.StringVar(&o.variablesFile, "variables-file", "", "read variables from a file")
	fs.Var(&o.secrets, "secret", "define a secret NAME=VALUE (repeatable)")
	fs.BoolVar(&o.continueOnError, "continue-on-error", false, "continue entries after an error")
	fs.BoolVar(&o.failAtEnd, "fail-at-end", false, "run all entries, fail at the end")
	fs.BoolVar(&o.test, "test", false, "activate test mode")
	fs.IntVar(&o.jobs, "jobs", 1, "number of parallel workers")
	fs.IntVar(&o.repeat, "repeat", 1, "repeat the whole job list N times, -1 forever")
	fs.IntVar(&o.toEntry, "to-entry", 0, "execute up to the 1-based entry index")
	fs.Int64Var(&o.delayMS, "delay", 0, "delay before each entry in milliseconds")
	fs.IntVar(&o.retry, "retry", 0, "maximum retries of a failed entry, -1 forever")
	fs.Int64Var(&o.retryIntervalMS, "retry-interval", 1000, "interval between retries in milliseconds")
	fs.StringVar(&o.output, "output", "", "write the last response body to FILE")
	fs.StringVar(&o.fileRoot, "file-root", "", "root directory of @file references")
	fs.BoolVar(&o.json, "json", false, "print run results as JSON")
	fs.BoolVar(&o.verbose, "verbose", false, "verbose logging")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored output")

	fs.Int64Var(&o.timeoutS, "max-time", 0, "maximum time per request in seconds")
	fs.Int64Var(&o.connectTimeout, "connect-timeout", 0, "connect timeout in seconds")
	fs.BoolVar(&o.location, "location", false, "follow redirects")
	fs.IntVar(&o.maxRedirs, "max-redirs", 50, "maximum number of redirects")
	fs.BoolVar(&o.insecure, "insecure", false, "allow insecure TLS connections")
	fs.StringVar(&o.cacert, "cacert", "", "CA certificate file")
	fs.StringVar(&o.cert, "cert", "", "client certificate file")
	fs.StringVar(&o.key, "key", "", "client key file")
	fs.StringVar(&o.proxy, "proxy", "", "use this proxy")
	fs.StringVar(&o.noproxy, "noproxy", "", "comma-separated hosts not to proxy")
	fs.Var(&o.resolves, "resolve", "HOST:PORT:ADDR resolve override (repeatable)")
	fs.Var(&o.connectTo, "connect-to", "HOST1:PORT1:HOST2:PORT2 override (repeatable)")
	fs.StringVar(&o.unixSocket, "unix-socket", "", "connect through this unix socket")
	fs.StringVar(&o.httpVersion, "http-version", "", "preferred HTTP version: 1.0, 1.1, 2, 3")
	fs.BoolVar(&o.ipv4, "ipv4", false, "resolve names to IPv4 only")
	fs.BoolVar(&o.ipv6, "ipv6", false, "resolve names to IPv6 only")
	fs.BoolVar(&o.compressed, "compressed", false, "request a compressed response")
	fs.StringVar(&o.user, "user", "", "basic auth user:password")
	fs.StringVar(&o.userAgent, "user-agent", "", "User-Agent header to send")
	fs.StringVar(&o.awsSigV4, "aws-sigv4", "", "sign requests with AWS SigV4")
	fs.StringVar(&o.cookieFile, "cookie", "", "read cookies from a Netscape cookie file")
	fs.StringVar(&o.cookieJar, "cookie-jar", "", "write the cookie jar to FILE after running")
	fs.Int64Var(&o.limitRate, "limit-rate", 0, "limit transfer speed in bytes/second")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.files = fs.Args()
	if len(o.files) == 0 {
		return nil, fmt.Errorf("no script file given")
	}
	return o, nil
}

// runnerOptions converts the CLI surface into runner options.
func (o *cliOptions) runnerOptions() *runner.Options {
	ro := &runner.Options{
		ContinueOnError: o.continueOnError || o.failAtEnd,
		Delay:           time.Duration(o.delayMS) * time.Millisecond,
		Retry:           o.retry,
		RetryInterval:   time.Duration(o.retryIntervalMS) * time.Millisecond,
		ToEntry:         o.toEntry,
		FileRoot:        o.fileRoot,
		Test:            o.test,
	}
	co := &ro.ClientOptions
	co.Timeout = time.Duration(o.timeoutS) * time.Second
	co.ConnectTimeout = time.Duration(o.connectTimeout) * time.Second
	co.FollowLocation = o.location
	co.MaxRedirects = o.maxRedirs
	co.Insecure = o.insecure
	co.CACert = o.cacert
	co.ClientCert = o.cert
	co.ClientKey = o.key
	co.Proxy = o.proxy
	if o.noproxy != "" {
		co.NoProxy = strings.Split(o.noproxy, ",")
	}
	co.Resolves = parseResolves(o.resolves)
	co.ConnectTo = parseConnectTo(o.connectTo)
	co.UnixSock = o.unixSocket
	co.HTTPVersion = o.httpVersion
	switch {
	case o.ipv4:
		co.IPVersion = client.IPv4
	case o.ipv6:
		co.IPVersion = client.IPv6
	}
	co.Compressed = o.compressed
	co.User = o.user
	co.UserAgent = o.userAgent
	co.AWSSigV4 = o.awsSigV4
	co.CookieFile = o.cookieFile
	co.LimitRate = o.limitRate
	return ro
}

// parseResolves turns --resolve HOST:PORT:ADDR flags into the client
// override map.
func parseResolves(specs []string) map[string]string {
	if len(specs) == 0 {
		return nil
	}
	m := make(map[string]string, len(specs))
	for _, s := range specs {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			continue
		}
		m[parts[0]+":"+parts[1]] = parts[2]
	}
	return m
}

// parseConnectTo turns --connect-to HOST1:PORT1:HOST2:PORT2 flags into
// the client override map.
func parseConnectTo(specs []string) map[string]string {
	if len(specs) == 0 {
		return nil
	}
	m := make(map[string]string, len(specs))
	for _, s := range specs {
		parts := strings.Split(s, ":")
		if len(parts) != 4 {
			continue
		}
		m[parts[0]+":"+parts[1]] = parts[2] + ":" + parts[3]
	}
	return m
}

// buildVariables assembles the initial variable set from the
// environment, the variables file and the command line, in that
// precedence order.
func (o *cliOptions) buildVariables() (*vars.Set, error) {
	set := vars.NewSet()
	if err := variablesFromEnv(set, os.Environ()); err != nil {
		return nil, err
	}
	if o.variablesFile != "" {
		if err := variablesFromFile(set, o.variablesFile); err != nil {
			return nil, err
		}
	}
	for _, def := range o.variables {
		name, val, ok := strings.Cut(def, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --variable %q, expecting NAME=VALUE", def)
		}
		if err := set.Insert(name, runner.InferValue(val)); err != nil {
			return nil, err
		}
	}
	for _, def := range o.secrets {
		name, val, ok := strings.Cut(def, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --secret %q, expecting NAME=VALUE", def)
		}
		// Secrets always bind as strings.
		if err := set.InsertSecret(name, val); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// variablesFromFile reads NAME=VALUE lines; # starts a comment.
func variablesFromFile(set *vars.Set, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, val, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: expecting NAME=VALUE", path, lineno)
		}
		if err := set.Insert(name, runner.InferValue(val)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
