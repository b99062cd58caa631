// Package rpc holds the transport-neutral call model shared by every
// ZITADEL service client: the unary call descriptor, the interceptor chain,
// the connection interface both transports implement, and the adapter that
// lets generated protobuf clients call through it.
package rpc

import (
	"net/http"
	"strings"
)

// Header names the SDK writes on outgoing calls.
const (
	HeaderAuthorization = "authorization"
	HeaderOrgID         = "x-zitadel-orgid"
	HeaderRequestID     = "x-request-id"
)

// Call describes one outgoing unary call.
type Call struct {
	// Procedure is the fully qualified method path, e.g.
	// "/zitadel.auth.v1.AuthService/GetMyUser".
	Procedure string
	// Header is the outgoing metadata. Transports send every entry; gRPC
	// lowercases the keys.
	Header http.Header
}

// NewCall returns a call for procedure with an empty header.
func NewCall(procedure string) *Call {
	return &Call{Procedure: procedure, Header: make(http.Header)}
}

// Service returns the service part of the procedure.
func (c *Call) Service() string {
	svc, _ := splitProcedure(c.Procedure)
	return svc
}

// Method returns the method part of the procedure.
func (c *Call) Method() string {
	_, method := splitProcedure(c.Procedure)
	return method
}

// Procedure joins a service and method into a call path.
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

func splitProcedure(p string) (string, string) {
	p = strings.TrimPrefix(p, "/")
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return p, ""
	}
	return p[:i], p[i+1:]
}
