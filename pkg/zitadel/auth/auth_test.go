package auth

import (
	"context"
	"testing"

	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/auth"
	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"

	"github.com/ragnaraven/zitadel-go-dual/internal/zitadeltest"
)

func TestClient_GetMyUser(t *testing.T) {
	conn := zitadeltest.NewRecorder().Reply("/zitadel.auth.v1.AuthService/GetMyUser", &pb.GetMyUserResponse{
		User: &userpb.User{Id: "u1", UserName: "ada"},
	})
	resp, err := NewClient(conn).GetMyUser(context.Background(), &pb.GetMyUserRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetUser().GetId() != "u1" || resp.GetUser().GetUserName() != "ada" {
		t.Errorf("unexpected user %v", resp.GetUser())
	}
	if p := conn.Procedures(); len(p) != 1 || p[0] != "/zitadel.auth.v1.AuthService/GetMyUser" {
		t.Errorf("unexpected procedures %v", p)
	}
}

func TestClient_ListMyZitadelPermissions(t *testing.T) {
	conn := zitadeltest.NewRecorder().Reply("/zitadel.auth.v1.AuthService/ListMyZitadelPermissions", &pb.ListMyZitadelPermissionsResponse{
		Result: []string{"org.read", "user.read"},
	})
	resp, err := NewClient(conn).ListMyZitadelPermissions(context.Background(), &pb.ListMyZitadelPermissionsRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if r := resp.GetResult(); len(r) != 2 || r[1] != "user.read" {
		t.Errorf("got %v", r)
	}
}

func TestClient_Close(t *testing.T) {
	conn := zitadeltest.NewRecorder()
	if err := NewClient(conn).Close(); err != nil {
		t.Fatal(err)
	}
	if !conn.Closed() {
		t.Error("expected conn to be closed")
	}
}
