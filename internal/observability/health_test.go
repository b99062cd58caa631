package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(h http.HandlerFunc, path string) (*httptest.ResponseRecorder, map[string]string) {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&body)
	return rec, body
}

func TestHealthz_AlwaysOK(t *testing.T) {
	hs := NewHealthServer(nil)
	rec, body := serve(hs.Healthz, "/healthz")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("got %d %v", rec.Code, body)
	}
}

func TestReadyz(t *testing.T) {
	failing := errors.New("zitadel unreachable")
	tests := []struct {
		name   string
		ready  bool
		check  ReadinessCheck
		want   int
		status string
	}{
		{"not ready by default", false, nil, http.StatusServiceUnavailable, "not ready"},
		{"ready without check", true, nil, http.StatusOK, "ready"},
		{"ready with passing check", true, func(context.Context) error { return nil }, http.StatusOK, "ready"},
		{"ready with failing check", true, func(context.Context) error { return failing }, http.StatusServiceUnavailable, "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthServer(tt.check)
			hs.SetReady(tt.ready)
			rec, body := serve(hs.Readyz, "/readyz")
			if rec.Code != tt.want || body["status"] != tt.status {
				t.Errorf("got %d %v, want %d %s", rec.Code, body, tt.want, tt.status)
			}
		})
	}
}
