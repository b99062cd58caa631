// Package admin is the client for zitadel.admin.v1.AdminService, the
// instance administration API.
package admin

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/admin"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ServiceName is the fully qualified service name.
const ServiceName = "zitadel.admin.v1.AdminService"

// Client calls AdminService through an rpc.Conn.
type Client struct {
	pb.AdminServiceClient
	conn rpc.Conn
}

// NewClient returns a client sending calls over conn.
func NewClient(conn rpc.Conn) *Client {
	return &Client{
		AdminServiceClient: pb.NewAdminServiceClient(rpc.ClientConn(conn)),
		conn:               conn,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
