package rpc

import (
	"context"
	"net/http"
)

// Conn is a transport binding to one ZITADEL endpoint.
type Conn interface {
	Invoke(ctx context.Context, call *Call, req, resp any) error
	Close() error
}

// interceptedConn runs an interceptor chain before handing the call to
// the wrapped transport.
type interceptedConn struct {
	conn   Conn
	invoke Invoker
}

// Intercept wraps conn so every call passes through interceptors first.
// With no interceptors conn is returned unchanged.
func Intercept(conn Conn, interceptors ...Interceptor) Conn {
	if len(interceptors) == 0 {
		return conn
	}
	return &interceptedConn{
		conn:   conn,
		invoke: Chain(conn.Invoke, interceptors...),
	}
}

func (c *interceptedConn) Invoke(ctx context.Context, call *Call, req, resp any) error {
	if call.Header == nil {
		call.Header = make(http.Header)
	}
	return c.invoke(ctx, call, req, resp)
}

func (c *interceptedConn) Close() error {
	return c.conn.Close()
}
