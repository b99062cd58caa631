package zitadeltest

import (
	"context"
	"sync"

	"google.golang.org/protobuf/proto"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Recorder is an in-memory rpc.Conn. It keeps every call and request and
// answers from a per-procedure reply table, without any transport.
type Recorder struct {
	mu      sync.Mutex
	replies map[string]proto.Message
	calls   []*rpc.Call
	reqs    []proto.Message
	closed  bool
}

// NewRecorder returns an empty recorder. Unrouted calls succeed and leave
// the response untouched.
func NewRecorder() *Recorder {
	return &Recorder{replies: make(map[string]proto.Message)}
}

// Reply makes calls to procedure answer with resp.
func (r *Recorder) Reply(procedure string, resp proto.Message) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies[procedure] = resp
	return r
}

func (r *Recorder) Invoke(_ context.Context, call *rpc.Call, req, resp any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if m, ok := req.(proto.Message); ok {
		r.reqs = append(r.reqs, proto.Clone(m))
	} else {
		r.reqs = append(r.reqs, nil)
	}
	if reply, ok := r.replies[call.Procedure]; ok {
		proto.Merge(resp.(proto.Message), reply)
	}
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Procedures lists the procedures called so far, in order.
func (r *Recorder) Procedures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Procedure
	}
	return out
}

// Request returns the i-th request message.
func (r *Recorder) Request(i int) proto.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reqs[i]
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
