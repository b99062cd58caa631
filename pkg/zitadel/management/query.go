package management

import (
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/object"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/project"
)

// RoleKeyQuery filters project roles by key.
func RoleKeyQuery(key string, method object.TextQueryMethod) *project.RoleQuery {
	return &project.RoleQuery{Query: &project.RoleQuery_KeyQuery{
		KeyQuery: &project.RoleKeyQuery{Key: key, Method: method},
	}}
}

// RoleDisplayNameQuery filters project roles by display name.
func RoleDisplayNameQuery(name string, method object.TextQueryMethod) *project.RoleQuery {
	return &project.RoleQuery{Query: &project.RoleQuery_DisplayNameQuery{
		DisplayNameQuery: &project.RoleDisplayNameQuery{DisplayName: name, Method: method},
	}}
}
