// Package system is the client for zitadel.system.v1.SystemService, the API
// that manages instances. It needs a system user.
package system

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/system"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

const ServiceName = "zitadel.system.v1.SystemService"

type Client struct {
	pb.SystemServiceClient
	conn rpc.Conn
}

func NewClient(conn rpc.Conn) *Client {
	return &Client{
		SystemServiceClient: pb.NewSystemServiceClient(rpc.ClientConn(conn)),
		conn:                conn,
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
