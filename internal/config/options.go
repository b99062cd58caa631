package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ragnaraven/zitadel-go-dual/internal/endpoint"
	"github.com/ragnaraven/zitadel-go-dual/pkg/client"
	"github.com/ragnaraven/zitadel-go-dual/pkg/credentials"
	"github.com/ragnaraven/zitadel-go-dual/pkg/interceptor"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// TransportKind returns the parsed transport, gRPC when unparsable.
func (c *Config) TransportKind() client.Transport {
	t, err := client.ParseTransport(c.Transport)
	if err != nil {
		return client.TransportGRPC
	}
	return t
}

// BaseOptions returns the connection options that do not involve a
// credential: transport, TLS and tracing.
func (c *Config) BaseOptions(tracing bool) []client.Option {
	opts := []client.Option{
		client.WithTransport(c.TransportKind()),
		client.WithTracing(tracing),
	}
	if c.Insecure {
		opts = append(opts, client.WithInsecure())
	}
	return opts
}

// Credential builds the interceptor for the configured credential. For a
// token file the watcher runs until ctx is done.
func (c *Config) Credential(ctx context.Context, logger *slog.Logger) (rpc.Interceptor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case c.Token != "":
		return interceptor.NewAccessToken(c.Token)
	case c.TokenFile != "":
		src, err := credentials.NewFileTokenSource(c.TokenFile, logger)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := src.Watch(ctx); err != nil {
				logger.Error("token file watch stopped", "error", err)
			}
		}()
		return interceptor.NewTokenSource(src)
	case c.KeyFile != "":
		key, err := credentials.LoadKey(c.KeyFile)
		if err != nil {
			return nil, err
		}
		target, err := endpoint.Parse(c.Endpoint)
		if err != nil {
			return nil, err
		}
		return interceptor.NewTokenSource(credentials.JWTProfile(ctx, target.BaseURL, key))
	default:
		return nil, fmt.Errorf("no credential configured")
	}
}

// ClientOptions returns everything needed to build service-account
// clients. extra interceptors run first, in order.
func (c *Config) ClientOptions(ctx context.Context, logger *slog.Logger, tracing bool, extra ...rpc.Interceptor) ([]client.Option, error) {
	chain, err := c.Interceptors(ctx, logger, extra...)
	if err != nil {
		return nil, err
	}
	return append(c.BaseOptions(tracing), client.WithInterceptors(chain...)), nil
}

// Interceptors builds the service-account chain, outermost first: extra,
// request ID, circuit breaker, retry, rate limit, credential, org ID. The
// breaker sits outside the retry so one logical call counts once and an
// open breaker is never retried.
func (c *Config) Interceptors(ctx context.Context, logger *slog.Logger, extra ...rpc.Interceptor) ([]rpc.Interceptor, error) {
	cred, err := c.Credential(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("build credential: %w", err)
	}

	chain := append([]rpc.Interceptor{}, extra...)
	chain = append(chain, interceptor.NewRequestID())
	if c.CircuitBreaker {
		chain = append(chain, interceptor.NewCircuitBreaker(interceptor.DefaultBreakerConfig()))
	}
	if c.MaxRetries > 0 {
		rc := interceptor.DefaultRetryConfig()
		rc.MaxAttempts = c.MaxRetries + 1
		chain = append(chain, interceptor.NewRetry(rc))
	}
	if c.RateLimit > 0 {
		chain = append(chain, interceptor.NewRateLimit(c.RateLimit, 0))
	}
	chain = append(chain, cred)
	if c.OrgID != "" {
		org, err := interceptor.NewOrgID(c.OrgID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, org)
	}
	return chain, nil
}
