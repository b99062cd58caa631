// Package settings is the client for zitadel.settings.v2beta.SettingsService, the
// read-only view of instance and organization settings.
package settings

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/settings/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ServiceName is the fully qualified service name.
const ServiceName = "zitadel.settings.v2beta.SettingsService"

// Client calls SettingsService through an rpc.Conn.
type Client struct {
	pb.SettingsServiceClient
	conn rpc.Conn
}

// NewClient returns a client sending calls over conn.
func NewClient(conn rpc.Conn) *Client {
	return &Client{
		SettingsServiceClient: pb.NewSettingsServiceClient(rpc.ClientConn(conn)),
		conn:                  conn,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
