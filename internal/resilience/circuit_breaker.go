// SPDX-License-Identifier: MIT

// Package resilience provides the sliding-window circuit breaker that
// guards every outbound capability call (light/heavy reviewer, writer,
// editor, metadata, tts).
package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
)

// State is the circuit breaker's current disposition.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

type eventKind int

const (
	eventAttempt eventKind = iota
	eventSuccess
	eventFailure
)

type event struct {
	ts   time.Time
	kind eventKind
}

type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// CircuitBreaker implements a sliding-window state machine: it opens once
// the failure count within `window` crosses `threshold` (given at least
// `minAttempts` attempts), cools down for `resetTimeout`, then requires
// `successThreshold` consecutive half-open successes to close again.
type CircuitBreaker struct {
	mu sync.Mutex

	name string

	state    State
	openedAt time.Time

	events []event
	window time.Duration

	threshold        int
	minAttempts      int
	successes        int
	successThreshold int
	resetTimeout     time.Duration

	clock clock
}

// Option configures a CircuitBreaker at construction time.
type Option func(*CircuitBreaker)

func WithClock(c clock) Option {
	return func(cb *CircuitBreaker) { cb.clock = c }
}

func WithHalfOpenSuccessThreshold(n int) Option {
	return func(cb *CircuitBreaker) { cb.successThreshold = n }
}

// New creates a sliding-window circuit breaker named for the capability it
// guards (used as the metrics label).
func New(name string, threshold, minAttempts int, window, resetTimeout time.Duration, opts ...Option) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if minAttempts <= 0 {
		minAttempts = 5
	}
	if window <= 0 {
		window = 60 * time.Second
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}

	cb := &CircuitBreaker{
		name:             name,
		state:            StateClosed,
		threshold:        threshold,
		minAttempts:      minAttempts,
		window:           window,
		resetTimeout:     resetTimeout,
		successThreshold: 2,
		clock:            realClock{},
	}
	for _, opt := range opts {
		opt(cb)
	}

	metrics.SetCircuitBreakerState(cb.name, int(cb.state))
	return cb
}

// Execute runs fn iff the breaker currently allows requests, recording every
// non-nil error as a failure. Returns ErrCircuitOpen without calling fn when
// the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	return cb.ExecuteClassified(fn, func(error) bool { return true })
}

// ExecuteClassified runs fn iff the breaker currently allows requests. countsAgainstBreaker
// decides whether a non-nil error reflects the peer being unhealthy (trips
// the breaker) or the caller having sent it a bad request (doesn't). This
// matters here: every capability client wraps this breaker, and a capability
// rejecting one malformed article (apperrors.KindSemantic) says nothing
// about whether the capability itself is up — only transport failures and
// capacity rejections should erode the sliding window.
func (cb *CircuitBreaker) ExecuteClassified(fn func() error, countsAgainstBreaker func(error) bool) error {
	if !cb.AllowRequest() {
		return ErrCircuitOpen
	}

	cb.recordAttempt()
	err := fn()
	if err == nil {
		cb.recordSuccess()
		return nil
	}
	if countsAgainstBreaker(err) {
		cb.recordFailure()
	} else {
		cb.recordBenign()
	}
	return err
}

// AllowRequest reports whether a request may proceed, transitioning an Open
// breaker into HalfOpen once resetTimeout has elapsed.
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.prune()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if cb.clock.Now().Sub(cb.openedAt) >= cb.resetTimeout {
			cb.transitionInto(StateHalfOpen)
			return true
		}
		return false
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordAttempt() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.events = append(cb.events, event{ts: cb.clock.Now(), kind: eventAttempt})
	cb.prune()
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.events = append(cb.events, event{ts: cb.clock.Now(), kind: eventSuccess})
	cb.prune()

	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.transitionInto(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.events = append(cb.events, event{ts: cb.clock.Now(), kind: eventFailure})
	cb.prune()

	if cb.state == StateHalfOpen {
		cb.transitionInto(StateOpen)
		return
	}
	cb.evaluate()
}

// recordBenign logs the attempt without counting it as a failure: a request
// the peer actively rejected as malformed neither trips nor resets the
// breaker, it just stays out of the failure tally evaluate() reads.
func (cb *CircuitBreaker) recordBenign() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.prune()
}

func (cb *CircuitBreaker) prune() {
	cutoff := cb.clock.Now().Add(-cb.window)
	n := 0
	for i := range cb.events {
		if !cb.events[i].ts.Before(cutoff) {
			cb.events = cb.events[i:]
			n = 1
			break
		}
	}
	if n == 0 {
		cb.events = nil
	}
}

func (cb *CircuitBreaker) evaluate() {
	if cb.state != StateClosed {
		return
	}
	var attempts, failures int
	for _, e := range cb.events {
		switch e.kind {
		case eventAttempt:
			attempts++
		case eventFailure:
			failures++
		}
	}
	if attempts >= cb.minAttempts && failures >= cb.threshold {
		cb.transitionInto(StateOpen)
	}
}

func (cb *CircuitBreaker) transitionInto(s State) {
	if cb.state == s {
		return
	}
	cb.state = s
	switch s {
	case StateOpen:
		cb.openedAt = cb.clock.Now()
		metrics.RecordCircuitBreakerTrip(cb.name)
	case StateHalfOpen:
		cb.successes = 0
	case StateClosed:
		cb.events = nil
	}
	metrics.SetCircuitBreakerState(cb.name, int(s))
}

// GetState returns the breaker's current state.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
