package interceptor

import (
	"context"
	"errors"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// ErrEmptyOrgID is returned when an OrgID interceptor is built without an
// organization id.
var ErrEmptyOrgID = errors.New("interceptor: organization id is empty")

// OrgID scopes calls to one organization through the x-zitadel-orgid
// header. Management API calls default to the caller's own organization
// without it.
type OrgID struct {
	id string
}

func NewOrgID(id string) (*OrgID, error) {
	if id == "" {
		return nil, ErrEmptyOrgID
	}
	return &OrgID{id: id}, nil
}

func (o *OrgID) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	call.Header.Set(rpc.HeaderOrgID, o.id)
	return next(ctx, call, req, resp)
}
