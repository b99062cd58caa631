package interceptor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// TokenSource authenticates calls with tokens from an oauth2.TokenSource.
// Tokens are cached until they expire.
type TokenSource struct {
	src oauth2.TokenSource
}

// NewTokenSource wraps src. A nil src is rejected.
func NewTokenSource(src oauth2.TokenSource) (*TokenSource, error) {
	if src == nil {
		return nil, errors.New("interceptor: token source is nil")
	}
	return &TokenSource{src: oauth2.ReuseTokenSource(nil, src)}, nil
}

func (s *TokenSource) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	tok, err := s.src.Token()
	if err != nil {
		return fmt.Errorf("interceptor: fetch token: %w", err)
	}
	if tok.AccessToken == "" {
		return ErrEmptyToken
	}
	call.Header.Set(rpc.HeaderAuthorization, tok.Type()+" "+tok.AccessToken)
	return next(ctx, call, req, resp)
}
