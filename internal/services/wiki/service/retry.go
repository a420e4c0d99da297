package service

import (
	"context"
	"errors"
	"math"
	"time"

	mw "wikipub/internal/adapters/mediawiki"
	perr "wikipub/internal/platform/errors"
)

// Backoff computes the delay before the next attempt
type Backoff interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff doubles from Base, capped at Max
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

// Next returns the delay after the given failed attempt (1-based)
func (b ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := b.Base
	if base <= 0 {
		base = time.Second
	}
	ceiling := b.Max
	if ceiling <= 0 {
		ceiling = math.MaxInt64
	}
	shift := attempt - 1
	if shift >= 63 || base > ceiling>>shift {
		return ceiling
	}
	return base << shift
}

// Class is the retry verdict for one failure
type Class uint8

const (
	// Terminal failures end the operation immediately
	Terminal Class = iota
	// Transient failures may succeed on another attempt
	Transient
)

func (c Class) String() string {
	if c == Transient {
		return "transient"
	}
	return "terminal"
}

// Classify narrows retries to timeouts, transport failures, 5xx, throttling,
// stale tokens and missing tokens. Everything else fails fast
func Classify(err error) Class {
	if err == nil {
		return Terminal
	}
	if errors.Is(err, context.Canceled) {
		return Terminal
	}
	if mw.IsRateLimited(err) || mw.IsBadToken(err) || mw.IsTransient(err) {
		return Transient
	}
	if perr.IsRetryable(err) {
		return Transient
	}
	return Terminal
}

// RetryPolicy bounds a write loop
type RetryPolicy struct {
	MaxAttempts int
	Backoff     Backoff
	Classify    func(error) Class
}

// DefaultMaxRetries is the number of retries after the first write attempt
const DefaultMaxRetries = 2

// DefaultPolicy allows DefaultMaxRetries retries with 1s..30s backoff
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxRetries + 1,
		Backoff:     ExponentialBackoff{Base: time.Second, Max: 30 * time.Second},
		Classify:    Classify,
	}
}

// Delay picks the wait after a failed attempt; a server Retry-After wins over backoff
func (p RetryPolicy) Delay(err error, attempt int) time.Duration {
	if d, ok := mw.RetryAfter(err); ok {
		return d
	}
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff.Next(attempt)
}

func (p RetryPolicy) classify(err error) Class {
	if p.Classify == nil {
		return Classify(err)
	}
	return p.Classify(err)
}

// sleepCtx waits d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
