// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/script"
)

// Options control a file run. The zero value runs every entry once with
// default client behavior.
type Options struct {
	// ClientOptions are handed to the HTTP client on every call.
	ClientOptions client.Options

	// ContinueOnError keeps running entries after a failed one.
	ContinueOnError bool

	// Delay is slept before each entry.
	Delay time.Duration

	// Retry is the maximum number of retries of a failed entry;
	// -1 retries forever.
	Retry int

	// RetryInterval is slept between retries.
	RetryInterval time.Duration

	// IgnoreAsserts skips implicit and explicit asserts.
	IgnoreAsserts bool

	// ToEntry caps execution at a 1-based entry index; 0 runs all.
	ToEntry int

	// FileRoot is the directory @file references resolve under.
	// File access outside it is refused.
	FileRoot string

	// Test switches to test mode reporting.
	Test bool

	// PreRequestHook runs just before each HTTP request. The parallel
	// dispatcher uses it to acquire rate-limiter tokens.
	PreRequestHook func()
}

// effectiveOptions is the per-entry merge of file options and the
// entry's [Options] section.
type effectiveOptions struct {
	Options
	Skip   bool
	Output string
}

// resolve merges the [Options] section of an entry over the file
// options. Templated option values have been rendered by the caller.
func (o *Options) resolve(eo *script.EntryOptions, rendered map[string]string) effectiveOptions {
	eff := effectiveOptions{Options: *o}
	if eo == nil {
		return eff
	}
	if eo.Delay != nil {
		eff.Delay = *eo.Delay
	}
	if eo.Retry != nil {
		eff.Retry = *eo.Retry
	}
	if eo.RetryInterval != nil {
		eff.RetryInterval = *eo.RetryInterval
	}
	if eo.FollowRedirect != nil {
		eff.ClientOptions.FollowLocation = *eo.FollowRedirect
	}
	if eo.MaxRedirects != nil {
		eff.ClientOptions.MaxRedirects = *eo.MaxRedirects
	}
	if eo.Insecure != nil {
		eff.ClientOptions.Insecure = *eo.Insecure
	}
	if eo.Compressed != nil {
		eff.ClientOptions.Compressed = *eo.Compressed
	}
	if eo.HTTPVersion != nil {
		eff.ClientOptions.HTTPVersion = *eo.HTTPVersion
	}
	if eo.IPVersion != nil {
		eff.ClientOptions.IPVersion = *eo.IPVersion
	}
	if eo.ConnectTimeout != nil {
		eff.ClientOptions.ConnectTimeout = *eo.ConnectTimeout
	}
	if eo.CallTimeout != nil {
		eff.ClientOptions.Timeout = *eo.CallTimeout
	}
	if eo.LimitRate != nil {
		eff.ClientOptions.LimitRate = *eo.LimitRate
	}
	if eo.User != nil {
		eff.ClientOptions.User = rendered["user"]
	}
	if eo.Proxy != nil {
		eff.ClientOptions.Proxy = rendered["proxy"]
	}
	if eo.Output != nil {
		eff.Output = rendered["output"]
	}
	if eo.Skip != nil {
		eff.Skip = *eo.Skip
	}
	return eff
}

// shouldRetry is the pure retry decision: a function of the attempt's
// errors, the effective options and the attempt count only, so it can be
// unit tested without any HTTP.
func shouldRetry(errs []*Error, retry int, attempt int) bool {
	if len(errs) == 0 {
		return false
	}
	if retry == 0 {
		return false
	}
	if retry > 0 && attempt > retry {
		return false
	}
	for _, e := range errs {
		if !e.Retryable() {
			return false
		}
	}
	return true
}
