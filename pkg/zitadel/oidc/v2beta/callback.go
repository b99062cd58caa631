package oidc

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/oidc/v2beta"
	"google.golang.org/protobuf/proto"
)

// SessionCallback finishes authRequestID with an authenticated session.
func SessionCallback(authRequestID, sessionID, sessionToken string) *pb.CreateCallbackRequest {
	return &pb.CreateCallbackRequest{
		AuthRequestId: authRequestID,
		CallbackKind: &pb.CreateCallbackRequest_Session{Session: &pb.Session{
			SessionId:    sessionID,
			SessionToken: sessionToken,
		}},
	}
}

// ErrorCallback fails authRequestID. The client is redirected with reason
// and, when set, description.
func ErrorCallback(authRequestID string, reason pb.ErrorReason, description string) *pb.CreateCallbackRequest {
	authErr := &pb.AuthorizationError{Error: reason}
	if description != "" {
		authErr.ErrorDescription = proto.String(description)
	}
	return &pb.CreateCallbackRequest{
		AuthRequestId: authRequestID,
		CallbackKind:  &pb.CreateCallbackRequest_Error{Error: authErr},
	}
}
