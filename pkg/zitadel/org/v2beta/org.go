// Package org is the client for zitadel.org.v2beta.OrganizationService, the resource-oriented organization API.
package org

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/org/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ServiceName is the fully qualified service name.
const ServiceName = "zitadel.org.v2beta.OrganizationService"

// Client calls OrganizationService through an rpc.Conn.
type Client struct {
	pb.OrganizationServiceClient
	conn rpc.Conn
}

// NewClient returns a client sending calls over conn.
func NewClient(conn rpc.Conn) *Client {
	return &Client{
		OrganizationServiceClient: pb.NewOrganizationServiceClient(rpc.ClientConn(conn)),
		conn:                      conn,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
