// Package session is the client for zitadel.session.v2beta.SessionService, the
// session API used by custom login UIs.
package session

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/session/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

const ServiceName = "zitadel.session.v2beta.SessionService"

type Client struct {
	pb.SessionServiceClient
	conn rpc.Conn
}

func NewClient(conn rpc.Conn) *Client {
	return &Client{
		SessionServiceClient: pb.NewSessionServiceClient(rpc.ClientConn(conn)),
		conn:                 conn,
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
