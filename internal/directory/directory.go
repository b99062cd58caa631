// Package directory answers the user-directory questions both example
// programs ask of ZITADEL: who is calling, which users match a filter and
// which roles a project defines.
package directory

import (
	"context"
	"errors"
	"fmt"

	authpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/auth"
	mgmtpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/management"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/object"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/project"
	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ragnaraven/zitadel-go-dual/internal/tracing"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/auth"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/management"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/user"
)

const contains = object.TextQueryMethod_TEXT_QUERY_METHOD_CONTAINS

var (
	// ErrUserNotFound is returned by FindUserByEmail when nothing matches.
	ErrUserNotFound = errors.New("directory: user not found")
	// ErrNoUser is returned when the token is accepted but names no user.
	ErrNoUser = errors.New("directory: no user for access token")
)

// UserFilter narrows a user search. Zero fields are ignored. Email and
// DisplayName match substrings.
type UserFilter struct {
	Email       string
	State       userpb.UserState
	DisplayName string
	Limit       uint32
}

// Queries converts f into management API search queries. ZITADEL ANDs them.
func (f UserFilter) Queries() []*userpb.SearchQuery {
	var queries []*userpb.SearchQuery
	if f.Email != "" {
		queries = append(queries, user.EmailQuery(f.Email, contains))
	}
	if f.State != userpb.UserState_USER_STATE_UNSPECIFIED {
		queries = append(queries, user.StateQuery(f.State))
	}
	if f.DisplayName != "" {
		queries = append(queries, user.DisplayNameQuery(f.DisplayName, contains))
	}
	return queries
}

// Directory wraps the auth and management clients of one identity.
type Directory struct {
	auth   *auth.Client
	mgmt   *management.Client
	tracer trace.Tracer
}

// New builds a directory on conn. tracer may be nil.
func New(conn rpc.Conn, tracer trace.Tracer) *Directory {
	return &Directory{
		auth:   auth.NewClient(conn),
		mgmt:   management.NewClient(conn),
		tracer: tracer,
	}
}

// CurrentUser returns the user the connection's token belongs to.
func (d *Directory) CurrentUser(ctx context.Context) (_ *userpb.User, err error) {
	ctx, span := tracing.StartSpan(ctx, d.tracer, tracing.SpanCurrentUser)
	defer func() { tracing.End(span, err) }()

	resp, err := d.auth.GetMyUser(ctx, &authpb.GetMyUserRequest{})
	if err != nil {
		return nil, err
	}
	if resp.GetUser() == nil {
		return nil, ErrNoUser
	}
	span.SetAttributes(tracing.UserAttr(resp.GetUser().GetId()))
	return resp.GetUser(), nil
}

// SearchUsers lists the users matching f.
func (d *Directory) SearchUsers(ctx context.Context, f UserFilter) (_ []*userpb.User, err error) {
	ctx, span := tracing.StartSpan(ctx, d.tracer, tracing.SpanSearchUsers)
	defer func() { tracing.End(span, err) }()

	req := &mgmtpb.ListUsersRequest{Queries: f.Queries()}
	if f.Limit > 0 {
		req.Query = &object.ListQuery{Limit: f.Limit}
	}
	resp, err := d.mgmt.ListUsers(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracing.ResultsAttr(len(resp.GetResult())))
	return resp.GetResult(), nil
}

// ActiveUsers lists up to limit active users.
func (d *Directory) ActiveUsers(ctx context.Context, limit uint32) ([]*userpb.User, error) {
	return d.SearchUsers(ctx, UserFilter{State: userpb.UserState_USER_STATE_ACTIVE, Limit: limit})
}

// FindUserByEmail returns the first user whose email contains email.
func (d *Directory) FindUserByEmail(ctx context.Context, email string) (_ *userpb.User, err error) {
	ctx, span := tracing.StartSpan(ctx, d.tracer, tracing.SpanFindByEmail)
	defer func() { tracing.End(span, err) }()

	users, err := d.SearchUsers(ctx, UserFilter{Email: email, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return users[0], nil
}

// ProjectRoles lists the roles of projectID whose key contains keyFilter.
func (d *Directory) ProjectRoles(ctx context.Context, projectID, keyFilter string) (_ []*project.Role, err error) {
	ctx, span := tracing.StartSpan(ctx, d.tracer, tracing.SpanProjectRoles, trace.WithAttributes(tracing.ProjectAttr(projectID)))
	defer func() { tracing.End(span, err) }()

	req := &mgmtpb.ListProjectRolesRequest{ProjectId: projectID}
	if keyFilter != "" {
		req.Queries = []*project.RoleQuery{management.RoleKeyQuery(keyFilter, contains)}
	}
	resp, err := d.mgmt.ListProjectRoles(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracing.ResultsAttr(len(resp.GetResult())))
	return resp.GetResult(), nil
}

// HealthCheck exercises both services concurrently: the auth service by
// resolving the current user, the management service with a one-user
// search. The first failure is returned.
func (d *Directory) HealthCheck(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, d.tracer, tracing.SpanHealthCheck)
	defer func() { tracing.End(span, err) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := d.CurrentUser(gctx); err != nil {
			return fmt.Errorf("auth service: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := d.ActiveUsers(gctx, 1); err != nil {
			return fmt.Errorf("management service: %w", err)
		}
		return nil
	})
	return g.Wait()
}
