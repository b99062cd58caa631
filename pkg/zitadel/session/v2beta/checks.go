package session

import (
	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/session/v2beta"
)

// LoginNameChecks identifies the user by login name and, if password is
// not empty, verifies it in the same call.
func LoginNameChecks(loginName, password string) *pb.Checks {
	return withPassword(&pb.Checks{User: &pb.CheckUser{
		Search: &pb.CheckUser_LoginName{LoginName: loginName},
	}}, password)
}

// UserIDChecks is LoginNameChecks keyed by user ID.
func UserIDChecks(userID, password string) *pb.Checks {
	return withPassword(&pb.Checks{User: &pb.CheckUser{
		Search: &pb.CheckUser_UserId{UserId: userID},
	}}, password)
}

func withPassword(c *pb.Checks, password string) *pb.Checks {
	if password != "" {
		c.Password = &pb.CheckPassword{Password: password}
	}
	return c
}
