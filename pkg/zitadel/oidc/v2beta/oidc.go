// Package oidc is the client for zitadel.oidc.v2beta.OIDCService, the API a
// custom login UI uses to finish OIDC auth requests.
package oidc

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/oidc/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

const ServiceName = "zitadel.oidc.v2beta.OIDCService"

type Client struct {
	pb.OIDCServiceClient
	conn rpc.Conn
}

func NewClient(conn rpc.Conn) *Client {
	return &Client{
		OIDCServiceClient: pb.NewOIDCServiceClient(rpc.ClientConn(conn)),
		conn:              conn,
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
