// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ratelimit.go is the global request pacer of a parallel run: a token
// bucket with fractional refill. Workers acquire a token before every
// HTTP request, not once per job.

package parallel

import (
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimitTimeout is returned by Acquire when no token became
// available within the timeout.
var ErrRateLimitTimeout = errors.New("timeout waiting for rate limit token")

// acquireBackoff is the sampling interval of Acquire.
const acquireBackoff = 10 * time.Millisecond

// RateLimiter is a token bucket holding up to capacity tokens, refilled
// at a fixed number of tokens per second. It is safe for concurrent use.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter returns a full bucket of the given capacity refilled
// at tokensPerSecond.
func NewRateLimiter(capacity int, tokensPerSecond float64) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(tokensPerSecond), capacity)}
}

// TryAcquire consumes a token if one is available without waiting.
func (rl *RateLimiter) TryAcquire() bool {
	return rl.bucket.Allow()
}

// Acquire consumes a token, sampling TryAcquire with a 10 ms back-off.
// A zero timeout waits forever.
func (rl *RateLimiter) Acquire(timeout time.Duration) error {
	start := time.Now()
	for {
		if rl.TryAcquire() {
			return nil
		}
		if timeout > 0 && time.Since(start) > timeout {
			return ErrRateLimitTimeout
		}
		time.Sleep(acquireBackoff)
	}
}
