package rpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestClientConn_GeneratedClientRunsChain(t *testing.T) {
	conn := &echoConn{reply: &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}}
	var seen string
	recorder := InterceptorFunc(func(ctx context.Context, call *Call, req, resp any, next Invoker) error {
		seen = call.Procedure
		call.Header.Set(HeaderOrgID, "o1")
		return next(ctx, call, req, resp)
	})

	client := healthpb.NewHealthClient(ClientConn(Intercept(conn, recorder)))
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "zitadel.auth.v1.AuthService"})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING, got %v", resp.GetStatus())
	}
	if seen != healthpb.Health_Check_FullMethodName {
		t.Errorf("unexpected procedure %q", seen)
	}
	if conn.calls[0].Header.Get(HeaderOrgID) != "o1" {
		t.Errorf("expected org header on the call, got %v", conn.calls[0].Header)
	}
	if req, ok := conn.reqs[0].(*healthpb.HealthCheckRequest); !ok || req.GetService() != "zitadel.auth.v1.AuthService" {
		t.Errorf("unexpected request %#v", conn.reqs[0])
	}
}

func TestClientConn_ErrorsPassThrough(t *testing.T) {
	sentinel := errors.New("boom")
	client := healthpb.NewHealthClient(ClientConn(&echoConn{err: sentinel}))
	if _, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{}); err != sentinel {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestClientConn_StreamingUnimplemented(t *testing.T) {
	client := healthpb.NewHealthClient(ClientConn(&echoConn{}))
	_, err := client.Watch(context.Background(), &healthpb.HealthCheckRequest{})
	if Code(err) != codes.Unimplemented {
		t.Errorf("expected Unimplemented, got %v", err)
	}
}
