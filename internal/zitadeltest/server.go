// Package zitadeltest runs an in-process stand-in for a ZITADEL instance
// that answers both the gRPC and the Connect transport from one route
// table, and records every request it receives.
package zitadeltest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Request is a call as the server saw it.
type Request struct {
	Transport string
	Procedure string
	Header    http.Header
	// Codec names the encoding of Body, rpc.CodecProto or rpc.CodecJSON.
	Codec string
	Body  []byte
}

// Decode unmarshals the request body into m.
func (r Request) Decode(m proto.Message) error {
	return rpc.CodecFor(r.Codec).Unmarshal(r.Body, m)
}

// Handler answers one procedure. A nil message is sent as Empty.
// Errors should be gRPC status errors; anything else becomes Unknown.
type Handler func(ctx context.Context, req Request) (proto.Message, error)

// Reply returns a handler that always answers with resp.
func Reply(resp proto.Message) Handler {
	return func(context.Context, Request) (proto.Message, error) { return resp, nil }
}

// Fail returns a handler that always fails with code and msg.
func Fail(code codes.Code, msg string) Handler {
	return func(context.Context, Request) (proto.Message, error) { return nil, status.Error(code, msg) }
}

// Server serves both transports.
type Server struct {
	mu       sync.Mutex
	routes   map[string]Handler
	requests []Request

	grpcServer *grpc.Server
	grpcAddr   string
	httpServer *httptest.Server
}

// New starts a server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{routes: make(map[string]Handler)}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s.grpcAddr = lis.Addr().String()
	s.grpcServer = grpc.NewServer(grpc.UnknownServiceHandler(s.handleGRPC))
	go func() { _ = s.grpcServer.Serve(lis) }()

	s.httpServer = httptest.NewServer(http.HandlerFunc(s.handleConnect))

	t.Cleanup(func() {
		s.grpcServer.Stop()
		s.httpServer.Close()
	})
	return s
}

// Handle registers h for procedure, replacing any earlier handler. The
// leading slash is optional, so "pkg.Service/Method" works too.
func (s *Server) Handle(procedure string, h Handler) {
	if !strings.HasPrefix(procedure, "/") {
		procedure = "/" + procedure
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[procedure] = h
}

// GRPCEndpoint is the endpoint string for the gRPC transport.
func (s *Server) GRPCEndpoint() string {
	return "http://" + s.grpcAddr
}

// ConnectEndpoint is the endpoint string for the Connect transport.
func (s *Server) ConnectEndpoint() string {
	return s.httpServer.URL
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) dispatch(ctx context.Context, req Request) (proto.Message, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	h, ok := s.routes[req.Procedure]
	s.mu.Unlock()

	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "unknown procedure %s", req.Procedure)
	}
	resp, err := h(ctx, req)
	if err != nil {
		if _, isStatus := status.FromError(err); !isStatus {
			err = status.Error(codes.Unknown, err.Error())
		}
		return nil, err
	}
	if resp == nil {
		resp = &emptypb.Empty{}
	}
	return resp, nil
}

func (s *Server) handleGRPC(_ any, stream grpc.ServerStream) error {
	ctx := stream.Context()
	method, _ := grpc.Method(ctx)

	// Every field of an unknown request lands in Empty's unknown set,
	// which is the request's wire encoding.
	var in emptypb.Empty
	if err := stream.RecvMsg(&in); err != nil {
		return err
	}
	body := append([]byte(nil), in.ProtoReflect().GetUnknown()...)

	header := make(http.Header)
	md, _ := metadata.FromIncomingContext(ctx)
	for k, vs := range md {
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	out, err := s.dispatch(ctx, Request{
		Transport: "grpc",
		Procedure: method,
		Header:    header,
		Codec:     rpc.CodecProto,
		Body:      body,
	})
	if err != nil {
		return err
	}
	return stream.SendMsg(out)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	procedure := r.URL.Path
	unary := func(ctx context.Context, req *connect.Request[[]byte]) (*connect.Response[[]byte], error) {
		codec := rpc.CodecFor(codecName(req.Header().Get("Content-Type")))
		msg, err := s.dispatch(ctx, Request{
			Transport: "connect",
			Procedure: procedure,
			Header:    req.Header().Clone(),
			Codec:     codec.Name(),
			Body:      *req.Msg,
		})
		if err != nil {
			st := status.Convert(err)
			return nil, connect.NewError(connect.Code(st.Code()), errors.New(st.Message()))
		}
		out, err := codec.Marshal(msg)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		return connect.NewResponse(&out), nil
	}
	connect.NewUnaryHandler(procedure, unary,
		connect.WithCodec(rawCodec{name: rpc.CodecProto}),
		connect.WithCodec(rawCodec{name: rpc.CodecJSON}),
	).ServeHTTP(w, r)
}

// codecName maps a Connect or gRPC-web Content-Type to a codec name.
func codecName(contentType string) string {
	if strings.Contains(contentType, "json") {
		return rpc.CodecJSON
	}
	return rpc.CodecProto
}

// rawCodec hands message bytes to handlers untouched.
type rawCodec struct {
	name string
}

func (c rawCodec) Name() string { return c.name }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	}
	return nil, fmt.Errorf("rawCodec: expected []byte, got %T", v)
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	bp, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("rawCodec: expected *[]byte, got %T", v)
	}
	*bp = append([]byte(nil), data...)
	return nil
}
