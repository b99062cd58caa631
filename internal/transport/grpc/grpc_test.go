package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ragnaraven/zitadel-go-dual/internal/endpoint"
	"github.com/ragnaraven/zitadel-go-dual/internal/zitadeltest"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

const pingProcedure = "/zitadel.test.v1.TestService/Ping"

func newTestConn(t *testing.T, endpointURL string) *Conn {
	t.Helper()
	target, err := endpoint.Parse(endpointURL)
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	conn, err := New(Config{Target: target})
	if err != nil {
		t.Fatalf("new conn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func echoHandler(_ context.Context, req zitadeltest.Request) (proto.Message, error) {
	var in wrapperspb.StringValue
	if err := req.Decode(&in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &in, nil
}

func TestConn_Invoke(t *testing.T) {
	srv := zitadeltest.New(t)
	srv.Handle(pingProcedure, echoHandler)
	conn := newTestConn(t, srv.GRPCEndpoint())

	call := rpc.NewCall(pingProcedure)
	call.Header.Set("Authorization", "Bearer tok123")
	call.Header.Set("X-Custom-Header", "value")

	var resp wrapperspb.StringValue
	if err := conn.Invoke(context.Background(), call, wrapperspb.String("abc"), &resp); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.GetValue() != "abc" {
		t.Errorf("expected echoed abc, got %q", resp.GetValue())
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if got := reqs[0].Header.Get("authorization"); got != "Bearer tok123" {
		t.Errorf("expected authorization metadata, got %q", got)
	}
	if got := reqs[0].Header.Get("x-custom-header"); got != "value" {
		t.Errorf("expected x-custom-header metadata, got %q", got)
	}
	want, _ := proto.Marshal(wrapperspb.String("abc"))
	if string(reqs[0].Body) != string(want) {
		t.Errorf("expected the protobuf encoding on the wire, got %x", reqs[0].Body)
	}
}

func TestConn_HeaderOverridesContextMetadata(t *testing.T) {
	srv := zitadeltest.New(t)
	srv.Handle(pingProcedure, echoHandler)
	conn := newTestConn(t, srv.GRPCEndpoint())

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		"authorization", "Bearer stale",
		"x-caller", "kept",
	)
	call := rpc.NewCall(pingProcedure)
	call.Header.Set("Authorization", "Bearer fresh")

	if err := conn.Invoke(ctx, call, &wrapperspb.StringValue{}, &wrapperspb.StringValue{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	h := srv.Requests()[0].Header
	if vals := h.Values("authorization"); len(vals) != 1 || vals[0] != "Bearer fresh" {
		t.Errorf("expected a single fresh authorization value, got %v", vals)
	}
	if h.Get("x-caller") != "kept" {
		t.Errorf("expected caller metadata to survive, got %v", h)
	}
}

func TestConn_StatusErrorReturnedAsIs(t *testing.T) {
	srv := zitadeltest.New(t)
	srv.Handle(pingProcedure, zitadeltest.Fail(codes.Unauthenticated, "token expired"))
	conn := newTestConn(t, srv.GRPCEndpoint())

	err := conn.Invoke(context.Background(), rpc.NewCall(pingProcedure), &wrapperspb.StringValue{}, &wrapperspb.StringValue{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	if status.Convert(err).Message() != "token expired" {
		t.Errorf("expected original message, got %q", status.Convert(err).Message())
	}
}

func TestNew_NoNetworkIO(t *testing.T) {
	target, err := endpoint.Parse("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i := 0; i < 10; i++ {
		conn, err := New(Config{Target: target})
		if err != nil {
			t.Fatalf("construction %d should not fail: %v", i, err)
		}
		_ = conn.Close()
	}

	conn, _ := New(Config{Target: target})
	defer conn.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = conn.Invoke(ctx, rpc.NewCall(pingProcedure), &wrapperspb.StringValue{}, &wrapperspb.StringValue{})
	if code := status.Code(err); code != codes.Unavailable {
		t.Errorf("expected Unavailable once a call is made, got %v (%v)", code, err)
	}
}

func TestNew_RequiresTarget(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty target")
	}
}

func TestNew_Target(t *testing.T) {
	target, _ := endpoint.Parse("https://example.zitadel.cloud")
	conn, err := New(Config{Target: target, Tracing: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer conn.Close()
	if conn.Target() != "example.zitadel.cloud:443" {
		t.Errorf("unexpected target %q", conn.Target())
	}
}

func serveHealth(t *testing.T) (string, *health.Server) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return "http://" + lis.Addr().String(), hs
}

func TestConn_InvokeStockServer(t *testing.T) {
	addr, hs := serveHealth(t)
	hs.SetServingStatus("zitadel.auth.v1.AuthService", healthpb.HealthCheckResponse_SERVING)
	conn := newTestConn(t, addr)

	var resp healthpb.HealthCheckResponse
	err := conn.Invoke(context.Background(),
		rpc.NewCall(healthpb.Health_Check_FullMethodName),
		&healthpb.HealthCheckRequest{Service: "zitadel.auth.v1.AuthService"},
		&resp,
	)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING, got %v", resp.GetStatus())
	}
}

func TestConn_GeneratedClientOnStockServer(t *testing.T) {
	addr, _ := serveHealth(t)
	conn := newTestConn(t, addr)
	client := healthpb.NewHealthClient(rpc.ClientConn(conn))

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected overall SERVING, got %v", resp.GetStatus())
	}

	_, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "zitadel.missing.v1.Nope"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound for an unregistered service, got %v", err)
	}
}
