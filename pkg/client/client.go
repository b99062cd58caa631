// Package client constructs ZITADEL service clients. Every factory parses
// the endpoint, builds the selected transport and wraps it with the given
// interceptors. Nothing is dialed until the first call, and every call
// returns a new, independent client.
package client

import (
	"fmt"

	"github.com/ragnaraven/zitadel-go-dual/internal/endpoint"
	connecttransport "github.com/ragnaraven/zitadel-go-dual/internal/transport/connect"
	grpctransport "github.com/ragnaraven/zitadel-go-dual/internal/transport/grpc"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/admin"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/auth"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/management"
	oidc "github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/oidc/v2beta"
	org "github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/org/v2beta"
	session "github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/session/v2beta"
	settings "github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/settings/v2beta"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/system"
	user "github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/user/v2beta"
)

// NewConn returns a connection to the ZITADEL instance at endpoint, e.g.
// "https://acme.zitadel.cloud" or "localhost:8080". Several service
// clients may share it.
func NewConn(rawEndpoint string, opts ...Option) (rpc.Conn, error) {
	o := options{transport: TransportGRPC}
	for _, opt := range opts {
		opt(&o)
	}

	target, err := endpoint.Parse(rawEndpoint)
	if err != nil {
		return nil, err
	}

	var conn rpc.Conn
	switch o.transport {
	case TransportGRPC, "":
		conn, err = grpctransport.New(grpctransport.Config{
			Target:      target,
			Insecure:    o.insecure,
			Tracing:     o.tracing,
			DialOptions: o.dialOptions,
		})
	case TransportConnect:
		var codec rpc.Codec = rpc.ProtoCodec{}
		if o.connectJSON {
			codec = rpc.JSONCodec{}
		}
		conn, err = connecttransport.New(connecttransport.Config{
			Target:     target,
			Insecure:   o.insecure,
			HTTPClient: o.httpClient,
			Tracing:    o.tracing,
			Codec:      codec,
			Options:    o.connectOptions,
		})
	default:
		return nil, fmt.Errorf("unknown transport %q", o.transport)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s transport: %w", o.transport, err)
	}
	return rpc.Intercept(conn, o.interceptors...), nil
}

func NewAuthClient(endpoint string, opts ...Option) (*auth.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return auth.NewClient(conn), nil
}

func NewManagementClient(endpoint string, opts ...Option) (*management.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return management.NewClient(conn), nil
}

func NewAdminClient(endpoint string, opts ...Option) (*admin.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return admin.NewClient(conn), nil
}

func NewSystemClient(endpoint string, opts ...Option) (*system.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return system.NewClient(conn), nil
}

// NewUserClient returns a client for the v2beta user service.
func NewUserClient(endpoint string, opts ...Option) (*user.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return user.NewClient(conn), nil
}

// NewOrganizationClient returns a client for the v2beta organization service.
func NewOrganizationClient(endpoint string, opts ...Option) (*org.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return org.NewClient(conn), nil
}

func NewSessionClient(endpoint string, opts ...Option) (*session.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return session.NewClient(conn), nil
}

func NewSettingsClient(endpoint string, opts ...Option) (*settings.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return settings.NewClient(conn), nil
}

func NewOIDCClient(endpoint string, opts ...Option) (*oidc.Client, error) {
	conn, err := NewConn(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return oidc.NewClient(conn), nil
}
