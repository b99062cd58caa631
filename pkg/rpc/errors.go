package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code classifies an error returned by a service method. gRPC status
// errors and Connect errors share one code space, so callers can switch on
// the result without knowing the transport.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return codes.Code(cerr.Code())
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Unknown
}

// IsUnauthenticated reports whether err says the credential was rejected.
func IsUnauthenticated(err error) bool {
	return Code(err) == codes.Unauthenticated
}

// IsNotFound reports whether err is a not-found service error.
func IsNotFound(err error) bool {
	return Code(err) == codes.NotFound
}
