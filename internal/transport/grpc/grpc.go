// Package grpc binds rpc.Conn to a gRPC channel. Messages travel on the
// default protobuf codec, and call headers become outgoing metadata.
package grpc

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/ragnaraven/zitadel-go-dual/internal/endpoint"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Config holds gRPC transport configuration.
type Config struct {
	Target endpoint.Target
	// Insecure forces plaintext even for https targets.
	Insecure bool
	// Tracing adds the OpenTelemetry client stats handler.
	Tracing bool
	// DialOptions are appended after the defaults.
	DialOptions []grpc.DialOption
}

// Conn is an rpc.Conn over a grpc.ClientConn.
type Conn struct {
	cc *grpc.ClientConn
}

// New creates the channel. grpc.NewClient does not connect, so no network
// I/O happens until the first call.
func New(cfg Config) (*Conn, error) {
	if cfg.Target.Authority == "" {
		return nil, fmt.Errorf("gRPC target is required")
	}

	var opts []grpc.DialOption
	if cfg.Target.Secure && !cfg.Insecure {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{
			ServerName: cfg.Target.Host,
			MinVersion: tls.VersionTLS12,
		})))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if cfg.Tracing {
		opts = append(opts, grpc.WithStatsHandler(otelgrpc.NewClientHandler()))
	}
	opts = append(opts, cfg.DialOptions...)

	cc, err := grpc.NewClient(cfg.Target.Authority, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	return &Conn{cc: cc}, nil
}

// Invoke sends one unary call. Header entries replace metadata of the same
// name already on ctx. The error from grpc-go is returned as is, so
// status.Code still works on it.
func (c *Conn) Invoke(ctx context.Context, call *rpc.Call, req, resp any) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	for k, vs := range call.Header {
		md.Set(strings.ToLower(k), vs...)
	}
	ctx = metadata.NewOutgoingContext(ctx, md)

	return c.cc.Invoke(ctx, call.Procedure, req, resp)
}

// Target returns the dial target.
func (c *Conn) Target() string {
	return c.cc.Target()
}

// Close closes the channel.
func (c *Conn) Close() error {
	return c.cc.Close()
}
