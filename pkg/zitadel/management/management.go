// Package management is the client for zitadel.management.v1.ManagementService, the
// organization-scoped administration API.
package management

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/management"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ServiceName is the fully qualified service name.
const ServiceName = "zitadel.management.v1.ManagementService"

// Client wraps the generated ManagementService client. Pair it with an
// OrgID interceptor to act on an organization other than the caller's.
type Client struct {
	pb.ManagementServiceClient
	conn rpc.Conn
}

// NewClient returns a client sending calls over conn.
func NewClient(conn rpc.Conn) *Client {
	return &Client{
		ManagementServiceClient: pb.NewManagementServiceClient(rpc.ClientConn(conn)),
		conn:                    conn,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
