// Package auth is the client for zitadel.auth.v1.AuthService, the API a
// user or service account calls about itself.
package auth

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/auth"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ServiceName is the fully qualified service name.
const ServiceName = "zitadel.auth.v1.AuthService"

// Client is the generated AuthService client bound to an rpc.Conn, so every
// method runs through the connection's interceptors. It is safe for
// concurrent use.
type Client struct {
	pb.AuthServiceClient
	conn rpc.Conn
}

// NewClient returns a client sending calls over conn.
func NewClient(conn rpc.Conn) *Client {
	return &Client{
		AuthServiceClient: pb.NewAuthServiceClient(rpc.ClientConn(conn)),
		conn:              conn,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
