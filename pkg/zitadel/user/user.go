package user

import (
	"strings"

	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
)

// DisplayName is what ZITADEL's console shows for u: the profile display
// name or "first last" of a human, the name of a machine user, and the
// user name when neither is set.
func DisplayName(u *userpb.User) string {
	if p := u.GetHuman().GetProfile(); p != nil {
		if p.GetDisplayName() != "" {
			return p.GetDisplayName()
		}
		if n := strings.TrimSpace(p.GetFirstName() + " " + p.GetLastName()); n != "" {
			return n
		}
	}
	if n := u.GetMachine().GetName(); n != "" {
		return n
	}
	return u.GetUserName()
}
