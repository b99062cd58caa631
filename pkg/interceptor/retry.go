package interceptor

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// RetryConfig controls Retry.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Jitter          float64 // ±fraction, e.g. 0.2
	// Idempotent reports whether a procedure may be sent again after a
	// failure. Nil means ReadOnly, so writes like AddHumanUser,
	// CreateSession or CreateCallback are tried once: an Unavailable
	// reply does not prove the server did not apply them.
	Idempotent func(procedure string) bool
}

// readPrefixes are the method name prefixes ZITADEL uses for calls that
// do not change state.
var readPrefixes = []string{"Get", "List", "Search", "Healthz", "Is"}

// ReadOnly reports whether procedure names a ZITADEL query method, e.g.
// "/zitadel.auth.v1.AuthService/GetMyUser".
func ReadOnly(procedure string) bool {
	method := (&rpc.Call{Procedure: procedure}).Method()
	for _, p := range readPrefixes {
		if strings.HasPrefix(method, p) {
			return true
		}
	}
	return false
}

// DefaultRetryConfig returns three attempts starting at 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Jitter:          0.2,
	}
}

// Retry repeats idempotent calls that failed with Unavailable or
// ResourceExhausted, backing off exponentially. Every other outcome,
// including context errors and ErrCircuitOpen, is returned at once.
type Retry struct {
	cfg RetryConfig
}

// NewRetry creates a retry interceptor. MaxAttempts below 1 means 1.
func NewRetry(cfg RetryConfig) *Retry {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Idempotent == nil {
		cfg.Idempotent = ReadOnly
	}
	return &Retry{cfg: cfg}
}

func (r *Retry) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	if !r.cfg.Idempotent(call.Procedure) {
		return next(ctx, call, req, resp)
	}
	var err error
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		err = next(ctx, call, req, resp)
		if !retryable(err) || attempt == r.cfg.MaxAttempts-1 {
			return err
		}
		timer := time.NewTimer(r.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func retryable(err error) bool {
	if err == nil || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	switch rpc.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted:
		return true
	}
	return false
}

func (r *Retry) backoff(attempt int) time.Duration {
	d := float64(r.cfg.InitialInterval) * math.Pow(2, float64(attempt))
	if ceiling := float64(r.cfg.MaxInterval); ceiling > 0 && d > ceiling {
		d = ceiling
	}
	if r.cfg.Jitter > 0 {
		j := d * r.cfg.Jitter
		d = d - j + rand.Float64()*2*j
	}
	return time.Duration(d)
}
