package infra

import (
	"sync"
	"time"
)

// BreakerState is the position of a Breaker: closed (calls flow), open (calls
// are skipped) or half-open (one trial call at a time decides).
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds the tunable thresholds. Zero values take the defaults.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the breaker (5)
	OpenTimeout      time.Duration // time spent open before a trial call is allowed (30s)
}

// Breaker stops the product cache from calling a Redis that keeps failing,
// so a cache outage costs one timeout per OpenTimeout instead of one per
// request. The database path never depends on it.
type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	openedAt  time.Time
	trialling   bool
	threshold int
	timeout   time.Duration
	now       func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &Breaker{
		threshold: cfg.FailureThreshold,
		timeout:   cfg.OpenTimeout,
		now:       time.Now,
	}
}

// State reports the current state, moving open to half-open once the
// timeout has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	return b.state
}

// Allow reports whether a call may go through. In half-open state only one
// caller at a time gets through; it must report back with Done.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	switch b.state {
	case BreakerOpen:
		return false
	case BreakerHalfOpen:
		if b.trialling {
			return false
		}
		b.trialling = true
	}
	return true
}

// Done records the outcome of a call that Allow let through.
func (b *Breaker) Done(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trialling = false
	if err == nil {
		b.state = BreakerClosed
		b.failures = 0
		return
	}
	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.failures = 0
	}
}

// advance must be called with mu held.
func (b *Breaker) advance() {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.timeout {
		b.state = BreakerHalfOpen
	}
}
