// Package user is the client for zitadel.user.v2beta.UserService, the resource-oriented user API.
package user

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ServiceName is the fully qualified service name.
const ServiceName = "zitadel.user.v2beta.UserService"

// Client is the generated UserService client over an rpc.Conn.
type Client struct {
	pb.UserServiceClient
	conn rpc.Conn
}

// NewClient returns a client sending calls over conn.
func NewClient(conn rpc.Conn) *Client {
	return &Client{
		UserServiceClient: pb.NewUserServiceClient(rpc.ClientConn(conn)),
		conn:              conn,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
