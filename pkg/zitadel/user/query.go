// Package user builds the v1 user search filters shared by the management
// and auth services. Each helper returns the generated SearchQuery with the
// matching oneof variant set, so a filter can only be one kind at a time.
package user

import (
	"strings"

	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/object"
	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
)

func UserNameQuery(name string, method object.TextQueryMethod) *userpb.SearchQuery {
	return &userpb.SearchQuery{Query: &userpb.SearchQuery_UserNameQuery{
		UserNameQuery: &userpb.UserNameQuery{UserName: name, Method: method},
	}}
}

func DisplayNameQuery(name string, method object.TextQueryMethod) *userpb.SearchQuery {
	return &userpb.SearchQuery{Query: &userpb.SearchQuery_DisplayNameQuery{
		DisplayNameQuery: &userpb.DisplayNameQuery{DisplayName: name, Method: method},
	}}
}

func EmailQuery(email string, method object.TextQueryMethod) *userpb.SearchQuery {
	return &userpb.SearchQuery{Query: &userpb.SearchQuery_EmailQuery{
		EmailQuery: &userpb.EmailQuery{EmailAddress: email, Method: method},
	}}
}

func LoginNameQuery(name string, method object.TextQueryMethod) *userpb.SearchQuery {
	return &userpb.SearchQuery{Query: &userpb.SearchQuery_LoginNameQuery{
		LoginNameQuery: &userpb.LoginNameQuery{LoginName: name, Method: method},
	}}
}

func StateQuery(state userpb.UserState) *userpb.SearchQuery {
	return &userpb.SearchQuery{Query: &userpb.SearchQuery_StateQuery{
		StateQuery: &userpb.StateQuery{State: state},
	}}
}

func TypeQuery(t userpb.Type) *userpb.SearchQuery {
	return &userpb.SearchQuery{Query: &userpb.SearchQuery_TypeQuery{
		TypeQuery: &userpb.TypeQuery{Type: t},
	}}
}

const statePrefix = "USER_STATE_"

// StateName is the short lowercase name of s, e.g. "active".
func StateName(s userpb.UserState) string {
	return strings.ToLower(strings.TrimPrefix(s.String(), statePrefix))
}

// ParseState accepts a short name ("active") or the full enum name
// ("USER_STATE_ACTIVE"), in any case. USER_STATE_UNSPECIFIED is rejected.
func ParseState(s string) (userpb.UserState, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, statePrefix) {
		name = statePrefix + name
	}
	v, ok := userpb.UserState_value[name]
	if !ok || v == 0 {
		return userpb.UserState_USER_STATE_UNSPECIFIED, false
	}
	return userpb.UserState(v), true
}
