// Package connect binds rpc.Conn to the Connect protocol over HTTP.
// Messages are encoded with an rpc.Codec, binary protobuf unless the
// config asks for JSON, and carried through the Connect client as bytes.
package connect

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ragnaraven/zitadel-go-dual/internal/endpoint"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Config holds Connect transport configuration.
type Config struct {
	Target endpoint.Target
	// Insecure rewrites https base URLs to http.
	Insecure bool
	// HTTPClient defaults to a fresh client with the default transport.
	HTTPClient *http.Client
	// Tracing wraps the HTTP transport with otelhttp.
	Tracing bool
	// Codec defaults to rpc.ProtoCodec.
	Codec rpc.Codec
	// Options are appended after the codec option.
	Options []connect.ClientOption
}

// Conn is an rpc.Conn speaking the Connect protocol.
type Conn struct {
	httpClient *http.Client
	baseURL    string
	opts       []connect.ClientOption
	codec      rpc.Codec

	mu      sync.Mutex
	clients map[string]*connect.Client[[]byte, []byte]
}

// New builds the binding. Nothing is dialed until the first call.
func New(cfg Config) (*Conn, error) {
	if cfg.Target.BaseURL == "" {
		return nil, fmt.Errorf("connect base URL is required")
	}

	base := cfg.Target.BaseURL
	if cfg.Insecure && cfg.Target.Secure {
		base = "http://" + base[len("https://"):]
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: http.DefaultTransport}
	}
	if cfg.Tracing {
		rt := hc.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		traced := *hc
		traced.Transport = otelhttp.NewTransport(rt)
		hc = &traced
	}

	codec := cfg.Codec
	if codec == nil {
		codec = rpc.ProtoCodec{}
	}

	opts := append([]connect.ClientOption{connect.WithCodec(rawCodec{name: codec.Name()})}, cfg.Options...)
	return &Conn{
		httpClient: hc,
		baseURL:    base,
		opts:       opts,
		codec:      codec,
		clients:    make(map[string]*connect.Client[[]byte, []byte]),
	}, nil
}

// Invoke sends one unary call. Errors from the Connect client are returned
// unwrapped as *connect.Error.
func (c *Conn) Invoke(ctx context.Context, call *rpc.Call, req, resp any) error {
	body, err := c.codec.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: %w", call.Procedure, err)
	}

	creq := connect.NewRequest(&body)
	for k, vs := range call.Header {
		for _, v := range vs {
			creq.Header().Add(k, v)
		}
	}

	cresp, err := c.client(call.Procedure).CallUnary(ctx, creq)
	if err != nil {
		return err
	}
	return c.codec.Unmarshal(*cresp.Msg, resp)
}

// client returns the cached Connect client for procedure, creating it on
// first use.
func (c *Conn) client(procedure string) *connect.Client[[]byte, []byte] {
	c.mu.Lock()
	defer c.mu.Unlock()
	cl, ok := c.clients[procedure]
	if !ok {
		cl = connect.NewClient[[]byte, []byte](c.httpClient, c.baseURL+procedure, c.opts...)
		c.clients[procedure] = cl
	}
	return cl
}

// BaseURL returns the URL procedures are appended to.
func (c *Conn) BaseURL() string {
	return c.baseURL
}

// Close releases idle HTTP connections.
func (c *Conn) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// rawCodec passes pre-encoded messages through the Connect client. Its
// name sets the Content-Type, so it must match the codec that encoded
// the bytes.
type rawCodec struct {
	name string
}

func (c rawCodec) Name() string { return c.name }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	}
	return nil, fmt.Errorf("rawCodec: expected []byte, got %T", v)
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	bp, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("rawCodec: expected *[]byte, got %T", v)
	}
	// The runtime recycles data after this returns.
	*bp = append([]byte(nil), data...)
	return nil
}
