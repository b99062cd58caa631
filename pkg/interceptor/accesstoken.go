// Package interceptor provides rpc.Interceptor implementations for ZITADEL
// clients: bearer credentials, organization scoping, request ids, metrics,
// logging and client-side rate limiting.
package interceptor

import (
	"context"
	"errors"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ErrEmptyToken is returned when an access token interceptor is built
// without a token.
var ErrEmptyToken = errors.New("interceptor: access token is empty")

// AccessToken authenticates every call with a fixed bearer token, such as a
// personal access token or a user's OIDC access token. It holds no per-call
// state and is safe for concurrent use.
type AccessToken struct {
	value string
}

// NewAccessToken returns an interceptor sending "Bearer <token>".
func NewAccessToken(token string) (*AccessToken, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	return &AccessToken{value: "Bearer " + token}, nil
}

// Intercept sets the authorization header, replacing any value already
// present, and continues the call.
func (a *AccessToken) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	call.Header.Set(rpc.HeaderAuthorization, a.value)
	return next(ctx, call, req, resp)
}
