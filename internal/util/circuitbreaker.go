package util

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

func (s CircuitState) String() string {
	return string(s)
}

// BreakerOptions configures a CircuitBreaker. Probe is optional: without it an
// open circuit moves to half-open once ResetTimeout elapses, with it the
// circuit only moves after a successful probe.
type BreakerOptions struct {
	Name             string
	FailureThreshold int
	ResetTimeout     time.Duration
	ProbeInterval    time.Duration
	Probe            func() bool
	// OnStateChange runs with the breaker lock held and must not call back into it.
	OnStateChange func(name string, from, to CircuitState)
	Logger        *zap.Logger
}

// CircuitBreaker stops calls to a failing upstream until it recovers.
type CircuitBreaker struct {
	opts BreakerOptions

	mu       sync.Mutex
	state    CircuitState
	failures int
	retryAt  time.Time
	probeAt  time.Time
	probing  bool
	now      func() time.Time
	logger   *zap.Logger
}

func NewCircuitBreaker(opts BreakerOptions) *CircuitBreaker {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CircuitBreaker{
		opts:   opts,
		state:  CircuitClosed,
		now:    time.Now,
		logger: logger.With(zap.String("breaker", opts.Name)),
	}
}

// State returns the current state, advancing an open circuit when its
// retry time or probe interval has passed.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != CircuitOpen {
		return cb.state
	}

	now := cb.now()
	switch {
	case cb.opts.Probe == nil:
		if now.After(cb.retryAt) {
			cb.setState(CircuitHalfOpen)
		}
	case now.After(cb.probeAt) && !cb.probing:
		cb.probing = true
		go cb.probe()
	}
	return cb.state
}

// Allow reports whether a call may go through.
func (cb *CircuitBreaker) Allow() bool {
	return cb.State() != CircuitOpen
}

func (cb *CircuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitHalfOpen {
		cb.logger.Info("Upstream recovered, closing circuit")
		cb.failures = 0
		cb.setState(CircuitClosed)
		return
	}
	cb.failures = 0
}

// Failure records a failed call. A positive timeout overrides ResetTimeout
// for this opening, so rate limits can back off longer than plain errors.
func (cb *CircuitBreaker) Failure(timeout time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	if timeout <= 0 {
		timeout = cb.opts.ResetTimeout
	}

	cb.logger.Warn("Upstream failure recorded",
		zap.Int("count", cb.failures),
		zap.Int("threshold", cb.opts.FailureThreshold),
	)

	if cb.state != CircuitHalfOpen && cb.failures < cb.opts.FailureThreshold {
		return
	}

	now := cb.now()
	cb.retryAt = now.Add(timeout)
	cb.probeAt = now.Add(cb.opts.ProbeInterval)
	cb.setState(CircuitOpen)
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.retryAt = time.Time{}
	cb.setState(CircuitClosed)
}

type CircuitStatus struct {
	State    CircuitState
	Failures int
	RetryAt  *time.Time
}

func (cb *CircuitBreaker) Status() CircuitStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	status := CircuitStatus{State: cb.state, Failures: cb.failures}
	if cb.state == CircuitOpen {
		retry := cb.retryAt
		status.RetryAt = &retry
	}
	return status
}

func (cb *CircuitBreaker) probe() {
	healthy := cb.opts.Probe()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probing = false
	if cb.state != CircuitOpen {
		return
	}
	if healthy {
		cb.setState(CircuitHalfOpen)
		return
	}
	cb.logger.Warn("Probe failed, circuit stays open")
	cb.probeAt = cb.now().Add(cb.opts.ProbeInterval)
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to

	cb.logger.Info("Circuit state changed",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Int("failures", cb.failures),
	)
	if cb.opts.OnStateChange != nil {
		cb.opts.OnStateChange(cb.opts.Name, from, to)
	}
}
