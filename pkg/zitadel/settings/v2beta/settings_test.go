package settings

import (
	"context"
	"testing"

	pb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/settings/v2beta"

	"github.com/ragnaraven/zitadel-go-dual/internal/zitadeltest"
)

func TestClient_GetGeneralSettings(t *testing.T) {
	conn := zitadeltest.NewRecorder().Reply("/zitadel.settings.v2beta.SettingsService/GetGeneralSettings", &pb.GetGeneralSettingsResponse{
		DefaultLanguage: "en",
	})
	resp, err := NewClient(conn).GetGeneralSettings(context.Background(), &pb.GetGeneralSettingsRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetDefaultLanguage() != "en" {
		t.Errorf("got %q", resp.GetDefaultLanguage())
	}
}
