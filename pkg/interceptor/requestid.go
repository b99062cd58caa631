package interceptor

import (
	"context"

	"github.com/google/uuid"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

type requestIDKey struct{}

// ContextWithRequestID returns a context whose calls carry id as their
// request id, so an inbound request id can be propagated to ZITADEL.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID tags every call with an x-request-id header.
// Priority: header already on the call > context > new UUID.
type RequestID struct{}

func NewRequestID() RequestID {
	return RequestID{}
}

func (RequestID) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	if call.Header.Get(rpc.HeaderRequestID) == "" {
		id := RequestIDFromContext(ctx)
		if id == "" {
			id = uuid.New().String()
		}
		call.Header.Set(rpc.HeaderRequestID, id)
	}
	return next(ctx, call, req, resp)
}
