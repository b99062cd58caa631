package user

import (
	"testing"

	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/object"
	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
)

func TestQueries_SetOneVariant(t *testing.T) {
	contains := object.TextQueryMethod_TEXT_QUERY_METHOD_CONTAINS

	q := EmailQuery("ada@", contains)
	if q.GetEmailQuery().GetEmailAddress() != "ada@" || q.GetEmailQuery().GetMethod() != contains {
		t.Errorf("unexpected email query %v", q)
	}
	if q.GetStateQuery() != nil || q.GetDisplayNameQuery() != nil {
		t.Errorf("expected only the email variant, got %v", q)
	}

	if got := StateQuery(userpb.UserState_USER_STATE_LOCKED).GetStateQuery().GetState(); got != userpb.UserState_USER_STATE_LOCKED {
		t.Errorf("unexpected state %v", got)
	}
	if got := DisplayNameQuery("Ada", contains).GetDisplayNameQuery().GetDisplayName(); got != "Ada" {
		t.Errorf("unexpected display name %q", got)
	}
	if got := UserNameQuery("ada", contains).GetUserNameQuery().GetUserName(); got != "ada" {
		t.Errorf("unexpected user name %q", got)
	}
	if got := LoginNameQuery("ada@acme", contains).GetLoginNameQuery().GetLoginName(); got != "ada@acme" {
		t.Errorf("unexpected login name %q", got)
	}
	if got := TypeQuery(userpb.Type_TYPE_MACHINE).GetTypeQuery().GetType(); got != userpb.Type_TYPE_MACHINE {
		t.Errorf("unexpected type %v", got)
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in   string
		want userpb.UserState
		ok   bool
	}{
		{"active", userpb.UserState_USER_STATE_ACTIVE, true},
		{" Locked ", userpb.UserState_USER_STATE_LOCKED, true},
		{"USER_STATE_INACTIVE", userpb.UserState_USER_STATE_INACTIVE, true},
		{"unspecified", userpb.UserState_USER_STATE_UNSPECIFIED, false},
		{"sleeping", userpb.UserState_USER_STATE_UNSPECIFIED, false},
	}
	for _, tt := range tests {
		got, ok := ParseState(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseState(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStateName(t *testing.T) {
	if got := StateName(userpb.UserState_USER_STATE_ACTIVE); got != "active" {
		t.Errorf("got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *userpb.User
		want string
	}{
		{"nil", nil, ""},
		{"profile", &userpb.User{Type: &userpb.User_Human{Human: &userpb.Human{
			Profile: &userpb.Profile{DisplayName: "Ada L.", FirstName: "Ada", LastName: "Lovelace"},
		}}}, "Ada L."},
		{"first last", &userpb.User{Type: &userpb.User_Human{Human: &userpb.Human{
			Profile: &userpb.Profile{FirstName: "Ada", LastName: "Lovelace"},
		}}}, "Ada Lovelace"},
		{"machine", &userpb.User{UserName: "svc", Type: &userpb.User_Machine{Machine: &userpb.Machine{Name: "backend"}}}, "backend"},
		{"user name", &userpb.User{UserName: "grace"}, "grace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.user); got != tt.want {
				t.Errorf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}
