package org

import (
	"context"
	"testing"

	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/org/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/internal/zitadeltest"
)

func TestClient_AddOrganization(t *testing.T) {
	conn := zitadeltest.NewRecorder().Reply("/zitadel.org.v2beta.OrganizationService/AddOrganization", &pb.AddOrganizationResponse{
		OrganizationId: "o1",
	})
	resp, err := NewClient(conn).AddOrganization(context.Background(), &pb.AddOrganizationRequest{Name: "ACME"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetOrganizationId() != "o1" {
		t.Errorf("got %q", resp.GetOrganizationId())
	}
	if got := conn.Request(0).(*pb.AddOrganizationRequest).GetName(); got != "ACME" {
		t.Errorf("sent name %q", got)
	}
}
