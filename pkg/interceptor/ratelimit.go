package interceptor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// RateLimit throttles calls with one token bucket per service. Calls wait
// for a slot instead of failing.
type RateLimit struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimit allows rps calls per second per service with the given
// burst. A burst of zero defaults to rps rounded down, at least 1. A
// non-positive rps disables limiting.
func NewRateLimit(rps float64, burst int) *RateLimit {
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &RateLimit{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (r *RateLimit) limiter(service string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	lim, ok := r.limiters[service]
	if !ok {
		lim = rate.NewLimiter(r.rps, r.burst)
		r.limiters[service] = lim
	}
	return lim
}

func (r *RateLimit) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	if r.rps <= 0 {
		return next(ctx, call, req, resp)
	}
	if err := r.limiter(call.Service()).Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// Wait fails early when the deadline cannot be met.
		return fmt.Errorf("interceptor: rate limit: %w: %v", context.DeadlineExceeded, err)
	}
	return next(ctx, call, req, resp)
}
