package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientConn exposes conn as a grpc.ClientConnInterface, the type generated
// service clients are built on. Every unary call they make becomes a Call
// and passes through conn's interceptor chain on either transport.
func ClientConn(conn Conn) grpc.ClientConnInterface {
	return clientConn{conn: conn}
}

type clientConn struct {
	conn Conn
}

// Invoke ignores opts. Deadlines, metadata and credentials travel on ctx
// or are set by interceptors.
func (c clientConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	return c.conn.Invoke(ctx, NewCall(method), args, reply)
}

func (clientConn) NewStream(_ context.Context, _ *grpc.StreamDesc, method string, _ ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Errorf(codes.Unimplemented, "rpc: %s: streaming calls are not supported", method)
}
