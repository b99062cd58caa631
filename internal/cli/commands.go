package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/ragnaraven/zitadel-go-dual/internal/directory"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/user"
)

// DefaultUserLimit caps `users` when -limit is not given.
const DefaultUserLimit = 10

// RunHealth checks that the auth and management services answer with the
// configured credential.
func RunHealth(ctx context.Context, args []string, out io.Writer) error {
	return runHealth(ctx, args, out, newPrompter(nil, nil))
}

func runHealth(ctx context.Context, args []string, out io.Writer, p *prompter) error {
	return run(ctx, "health", args, out, p, nil, func(ctx context.Context, s *session) error {
		if err := s.dir.HealthCheck(ctx); err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintf(s.out, "✓ ZITADEL at %s is healthy (transport %s)\n", s.cfg.Endpoint, s.cfg.TransportKind())
		return nil
	})
}

// RunMe prints the user the credential belongs to.
func RunMe(ctx context.Context, args []string, out io.Writer) error {
	return runMe(ctx, args, out, newPrompter(nil, nil))
}

func runMe(ctx context.Context, args []string, out io.Writer, p *prompter) error {
	return run(ctx, "me", args, out, p, nil, func(ctx context.Context, s *session) error {
		u, err := s.dir.CurrentUser(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "ID:\t%s\n", u.GetId())
		_, _ = fmt.Fprintf(w, "Name:\t%s\n", user.DisplayName(u))
		if login := u.GetPreferredLoginName(); login != "" {
			_, _ = fmt.Fprintf(w, "Login:\t%s\n", login)
		}
		if email := u.GetHuman().GetEmail(); email != nil {
			verified := ""
			if email.GetIsEmailVerified() {
				verified = " (verified)"
			}
			_, _ = fmt.Fprintf(w, "Email:\t%s%s\n", email.GetEmail(), verified)
		}
		if u.GetState() != userpb.UserState_USER_STATE_UNSPECIFIED {
			_, _ = fmt.Fprintf(w, "State:\t%s\n", user.StateName(u.GetState()))
		}
		return w.Flush()
	})
}

// RunUsers searches users by email, state and display name.
func RunUsers(ctx context.Context, args []string, out io.Writer) error {
	return runUsers(ctx, args, out, newPrompter(nil, nil))
}

func runUsers(ctx context.Context, args []string, out io.Writer, p *prompter) error {
	var (
		email, state, displayName string
		limit                     uint
		asJSON                    bool
	)
	register := func(fs *flag.FlagSet) {
		fs.StringVar(&email, "email", "", "match users whose email contains this")
		fs.StringVar(&state, "state", "", "user state, e.g. active, inactive, locked")
		fs.StringVar(&displayName, "display-name", "", "match users whose display name contains this")
		fs.UintVar(&limit, "limit", DefaultUserLimit, "maximum number of users")
		fs.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	}
	return run(ctx, "users", args, out, p, register, func(ctx context.Context, s *session) error {
		st, err := parseState(state)
		if err != nil {
			return err
		}
		users, err := s.dir.SearchUsers(ctx, directory.UserFilter{
			Email:       email,
			State:       st,
			DisplayName: displayName,
			Limit:       uint32(limit),
		})
		if err != nil {
			return err
		}
		if asJSON {
			return writeUsersJSON(s.out, users)
		}
		if len(users) == 0 {
			_, _ = fmt.Fprintln(s.out, "no users found")
			return nil
		}
		w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tDISPLAY NAME\tSTATE")
		for _, u := range users {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.GetId(), u.GetUserName(), user.DisplayName(u), user.StateName(u.GetState()))
		}
		return w.Flush()
	})
}

// RunRoles lists the roles of the configured project.
func RunRoles(ctx context.Context, args []string, out io.Writer) error {
	return runRoles(ctx, args, out, newPrompter(nil, nil))
}

func runRoles(ctx context.Context, args []string, out io.Writer, p *prompter) error {
	var key string
	register := func(fs *flag.FlagSet) {
		fs.StringVar(&key, "key", "", "only roles whose key contains this")
	}
	return run(ctx, "roles", args, out, p, register, func(ctx context.Context, s *session) error {
		if s.cfg.ProjectID == "" {
			return errors.New("a project is required: -project-id or ZITADEL_PROJECT_ID")
		}
		roles, err := s.dir.ProjectRoles(ctx, s.cfg.ProjectID, key)
		if err != nil {
			return err
		}
		if len(roles) == 0 {
			_, _ = fmt.Fprintln(s.out, "no roles found")
			return nil
		}
		w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "KEY\tDISPLAY NAME\tGROUP")
		for _, r := range roles {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.GetKey(), r.GetDisplayName(), r.GetGroup())
		}
		return w.Flush()
	})
}

// parseState accepts "active" as well as "USER_STATE_ACTIVE". Empty means
// any state.
func parseState(s string) (userpb.UserState, error) {
	if s == "" {
		return userpb.UserState_USER_STATE_UNSPECIFIED, nil
	}
	st, ok := user.ParseState(s)
	if !ok {
		return st, fmt.Errorf("unknown user state %q", s)
	}
	return st, nil
}

// writeUsersJSON prints users as an indented JSON array in the protobuf
// JSON mapping, the same shape the REST gateway returns.
func writeUsersJSON(w io.Writer, users []*userpb.User) error {
	out := make([]json.RawMessage, 0, len(users))
	for _, u := range users {
		b, err := protojson.Marshal(u)
		if err != nil {
			return err
		}
		out = append(out, b)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
