package rpc

import "context"

// Invoker sends a call and decodes the reply into resp.
type Invoker func(ctx context.Context, call *Call, req, resp any) error

// Interceptor decorates outgoing calls. Implementations must call next
// exactly once to let the call proceed, and must return the error of next
// as is.
type Interceptor interface {
	Intercept(ctx context.Context, call *Call, req, resp any, next Invoker) error
}

// InterceptorFunc adapts a function to the Interceptor interface.
type InterceptorFunc func(ctx context.Context, call *Call, req, resp any, next Invoker) error

// Intercept calls f.
func (f InterceptorFunc) Intercept(ctx context.Context, call *Call, req, resp any, next Invoker) error {
	return f(ctx, call, req, resp, next)
}

// Chain composes interceptors around final. The first interceptor is the
// outermost, so it sees the call first.
func Chain(final Invoker, interceptors ...Interceptor) Invoker {
	next := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, inner := interceptors[i], next
		if ic == nil {
			continue
		}
		next = func(ctx context.Context, call *Call, req, resp any) error {
			return ic.Intercept(ctx, call, req, resp, inner)
		}
	}
	return next
}
