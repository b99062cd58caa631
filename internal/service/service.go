// Package service is a long-lived HTTP backend built on the SDK. It holds
// service-account clients for directory queries and builds short-lived
// clients from each caller's own access token.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
	"go.opentelemetry.io/otel/trace"

	"github.com/ragnaraven/zitadel-go-dual/internal/config"
	"github.com/ragnaraven/zitadel-go-dual/internal/directory"
	"github.com/ragnaraven/zitadel-go-dual/pkg/client"
	"github.com/ragnaraven/zitadel-go-dual/pkg/interceptor"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/auth"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/management"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/user"
	userv2 "github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/user/v2beta"
)

// ErrUnauthorized marks a caller token that is missing or was rejected.
var ErrUnauthorized = errors.New("invalid or expired access token")

// DefaultActiveUsersLimit is used when ActiveUsers is called with zero.
const DefaultActiveUsersLimit = 50

// Deps are the process-wide collaborators of a Service.
type Deps struct {
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	Tracer     trace.Tracer
	Tracing    bool
}

// Service answers directory questions for HTTP handlers.
type Service struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracer  trace.Tracer
	tracing bool

	// shared run on every connection, service account or per user.
	shared []rpc.Interceptor
	conn   rpc.Conn
	dir    *directory.Directory
}

// New builds the service-account connection. It does not contact ZITADEL;
// call HealthCheck for that.
func New(ctx context.Context, cfg *config.Config, deps Deps) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shared := []rpc.Interceptor{interceptor.NewLogging(logger)}
	if deps.Registerer != nil {
		shared = append(shared, interceptor.NewMetrics(deps.Registerer))
	}

	opts, err := cfg.ClientOptions(ctx, logger, deps.Tracing, shared...)
	if err != nil {
		return nil, err
	}
	conn, err := client.NewConn(cfg.Endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("create service account connection: %w", err)
	}

	logger.Info("zitadel service initialized", "endpoint", cfg.Endpoint, "transport", cfg.TransportKind())
	return &Service{
		cfg:     cfg,
		logger:  logger,
		tracer:  deps.Tracer,
		tracing: deps.Tracing,
		shared:  shared,
		conn:    conn,
		dir:     directory.New(conn, deps.Tracer),
	}, nil
}

// Close releases the service-account connection.
func (s *Service) Close() error {
	return s.conn.Close()
}

// UserClients are clients acting as one end user.
type UserClients struct {
	Auth       *auth.Client
	Management *management.Client
	User       *userv2.Client

	conn rpc.Conn
	dir  *directory.Directory
}

// Close releases the user's connection.
func (u *UserClients) Close() error {
	return u.conn.Close()
}

// UserClients builds clients authenticated with the caller's access token.
// They share the service's interceptors but not its credential.
func (s *Service) UserClients(accessToken string) (*UserClients, error) {
	tok, err := interceptor.NewAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	chain := append(append([]rpc.Interceptor{}, s.shared...), interceptor.NewRequestID(), tok)
	opts := append(s.cfg.BaseOptions(s.tracing), client.WithInterceptors(chain...))

	conn, err := client.NewConn(s.cfg.Endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &UserClients{
		Auth:       auth.NewClient(conn),
		Management: management.NewClient(conn),
		User:       userv2.NewClient(conn),
		conn:       conn,
		dir:        directory.New(conn, s.tracer),
	}, nil
}

// CurrentUser resolves the user behind accessToken. Any failure is
// reported as ErrUnauthorized, with the cause still reachable through
// errors.Is and rpc.Code.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*userpb.User, error) {
	uc, err := s.UserClients(accessToken)
	if err != nil {
		return nil, err
	}
	defer uc.Close()

	u, err := uc.dir.CurrentUser(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to get current user", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	s.logger.DebugContext(ctx, "retrieved user", "user_id", u.GetId(), "display_name", user.DisplayName(u))
	return u, nil
}

// ValidateUserToken is CurrentUser for callers that only need a yes or no
// plus the user.
func (s *Service) ValidateUserToken(ctx context.Context, accessToken string) (*userpb.User, error) {
	u, err := s.CurrentUser(ctx, accessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "token validation failed", "error", err)
		return nil, err
	}
	return u, nil
}

// SearchUsers lists users matching f as the service account.
func (s *Service) SearchUsers(ctx context.Context, f directory.UserFilter) ([]*userpb.User, error) {
	users, err := s.dir.SearchUsers(ctx, f)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search users", "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "searched users", "results", len(users))
	return users, nil
}

// ActiveUsers lists up to limit active users.
func (s *Service) ActiveUsers(ctx context.Context, limit uint32) ([]*userpb.User, error) {
	if limit == 0 {
		limit = DefaultActiveUsersLimit
	}
	return s.SearchUsers(ctx, directory.UserFilter{State: userpb.UserState_USER_STATE_ACTIVE, Limit: limit})
}

// FindUserByEmail returns directory.ErrUserNotFound when nobody matches.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*userpb.User, error) {
	u, err := s.dir.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, directory.ErrUserNotFound) {
		s.logger.ErrorContext(ctx, "failed to find user by email", "error", err)
	}
	return u, err
}

// HealthCheck runs a one-user search as the service account.
func (s *Service) HealthCheck(ctx context.Context) error {
	if _, err := s.dir.ActiveUsers(ctx, 1); err != nil {
		s.logger.ErrorContext(ctx, "zitadel health check failed", "error", err)
		return err
	}
	s.logger.DebugContext(ctx, "zitadel health check passed")
	return nil
}
