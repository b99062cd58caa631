package client

import (
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/grpc"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Transport selects the wire binding of a Conn.
type Transport string

const (
	TransportGRPC    Transport = "grpc"
	TransportConnect Transport = "connect"
)

// ParseTransport accepts "grpc" and "connect", case-insensitively. An
// empty string selects gRPC.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TransportGRPC, nil
	case TransportGRPC, TransportConnect:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transport %q (want grpc or connect)", s)
	}
}

type options struct {
	transport      Transport
	interceptors   []rpc.Interceptor
	httpClient     *http.Client
	dialOptions    []grpc.DialOption
	connectOptions []connect.ClientOption
	tracing        bool
	insecure       bool
	connectJSON    bool
}

// Option configures NewConn and the service factories.
type Option func(*options)

// WithInterceptors appends interceptors. The first one added runs first.
func WithInterceptors(interceptors ...rpc.Interceptor) Option {
	return func(o *options) { o.interceptors = append(o.interceptors, interceptors...) }
}

// WithTransport selects the binding. The default is TransportGRPC.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient sets the HTTP client of the Connect transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithDialOptions passes extra options to the gRPC transport.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOptions = append(o.dialOptions, opts...) }
}

// WithConnectOptions passes extra options to the Connect transport.
func WithConnectOptions(opts ...connect.ClientOption) Option {
	return func(o *options) { o.connectOptions = append(o.connectOptions, opts...) }
}

// WithConnectJSON makes the Connect transport send the protobuf JSON
// mapping instead of binary protobuf. The gRPC transport ignores it.
func WithConnectJSON() Option {
	return func(o *options) { o.connectJSON = true }
}

// WithTracing instruments the transport with OpenTelemetry.
func WithTracing(enabled bool) Option {
	return func(o *options) { o.tracing = enabled }
}

// WithInsecure disables TLS regardless of the endpoint scheme. Meant for
// local development instances.
func WithInsecure() Option {
	return func(o *options) { o.insecure = true }
}
