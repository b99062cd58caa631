package interceptor

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ErrCircuitOpen is returned without calling ZITADEL while a service's
// breaker is open. It carries codes.Unavailable.
var ErrCircuitOpen = status.Error(codes.Unavailable, "interceptor: circuit breaker open")

// BreakerState is the state of one service's breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	case BreakerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig controls CircuitBreaker.
type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	ResetTimeout     time.Duration
}

// DefaultBreakerConfig opens after 5 failures and lets a trial call through after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, ResetTimeout: 30 * time.Second}
}

// CircuitBreaker fails fast for a service after FailureThreshold
// consecutive server-side failures (Unavailable, Internal, Unknown or a
// deadline the server missed). Caller cancellations are not counted.
type CircuitBreaker struct {
	cfg   BreakerConfig
	clock func() time.Time

	mu       sync.Mutex
	services map[string]*breaker
}

type breaker struct {
	state       BreakerState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewCircuitBreaker keeps one breaker per service.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.SuccessThreshold < 1 {
		cfg.SuccessThreshold = 1
	}
	return &CircuitBreaker{cfg: cfg, clock: time.Now, services: make(map[string]*breaker)}
}

// State reports the breaker state of service.
func (c *CircuitBreaker) State(service string) BreakerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.services[service]; ok {
		return b.state
	}
	return BreakerClosed
}

func (c *CircuitBreaker) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	svc := call.Service()
	if !c.allow(svc) {
		return ErrCircuitOpen
	}
	err := next(ctx, call, req, resp)
	switch {
	case err == nil:
		c.record(svc, true)
	case ctx.Err() != nil:
	case serverFailure(err):
		c.record(svc, false)
	default:
		// The server answered; only its availability matters here.
		c.record(svc, true)
	}
	return err
}

func serverFailure(err error) bool {
	switch rpc.Code(err) {
	case codes.Unavailable, codes.Internal, codes.Unknown, codes.DeadlineExceeded:
		return true
	}
	return false
}

func (c *CircuitBreaker) allow(service string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.services[service]
	if !ok {
		return true
	}
	if b.state == BreakerOpen {
		if c.clock().Sub(b.lastFailure) < c.cfg.ResetTimeout {
			return false
		}
		b.state = BreakerHalfOpen
		b.successes = 0
	}
	return true
}

func (c *CircuitBreaker) record(service string, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.services[service]
	if !ok {
		b = &breaker{}
		c.services[service] = b
	}
	if success {
		switch b.state {
		case BreakerHalfOpen:
			b.successes++
			if b.successes >= c.cfg.SuccessThreshold {
				*b = breaker{}
			}
		case BreakerClosed:
			b.failures = 0
		}
		return
	}
	switch b.state {
	case BreakerClosed:
		b.failures++
		if b.failures >= c.cfg.FailureThreshold {
			b.state = BreakerOpen
			b.lastFailure = c.clock()
		}
	case BreakerHalfOpen:
		b.state = BreakerOpen
		b.lastFailure = c.clock()
		b.successes = 0
	}
}
