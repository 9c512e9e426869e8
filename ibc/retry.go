// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

package ibc

import (
	"context"
	"time"
)

// RetryPolicy is the single configurable exponential-backoff-with-caps
// strategy shared by handshake steps stalled on a counterparty, tx
// submission hitting a Retryable error, and light-client header build
// failures.
type RetryPolicy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxElapsed   time.Duration
}

// DefaultRetryPolicy mirrors the backoff shape used throughout the
// teacher's own reconnect/resubmit loops (bounded exponential growth,
// a hard ceiling per step, and a total deadline).
var DefaultRetryPolicy = RetryPolicy{
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     30 * time.Second,
	Multiplier:   2.0,
	MaxElapsed:   5 * time.Minute,
}

// retrier tracks the state of one in-progress retry loop.
type retrier struct {
	policy  RetryPolicy
	delay   time.Duration
	started time.Time
}

func newRetrier(policy RetryPolicy) *retrier {
	return &retrier{policy: policy, delay: policy.InitialDelay, started: time.Now()}
}

// next sleeps for the current backoff delay (respecting ctx cancellation)
// and grows the delay for next time. It returns false, without sleeping,
// once MaxElapsed has passed — callers must then return Fatal.
func (r *retrier) next(ctx context.Context) bool {
	if time.Since(r.started) >= r.policy.MaxElapsed {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(r.delay):
	}
	r.delay = time.Duration(float64(r.delay) * r.policy.Multiplier)
	if r.delay > r.policy.MaxDelay {
		r.delay = r.policy.MaxDelay
	}
	return true
}

// Retry runs op repeatedly under policy until it returns a nil error, a
// non-retryable error, or the policy's MaxElapsed is exceeded — at which
// point Retry returns the last error unchanged so the caller can surface it
// Fatal: exceeding MaxElapsed always means the operation returns Fatal.
func Retry(ctx context.Context, policy RetryPolicy, shouldRetry func(error) bool, op func() error) error {
	r := newRetrier(policy)
	for {
		err := op()
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return err
		}
		if !r.next(ctx) {
			return err
		}
	}
}
