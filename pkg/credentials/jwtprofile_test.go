package credentials

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testKey(t *testing.T) *Key {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(pk)})
	return &Key{Type: "serviceaccount", KeyID: "key-1", Key: string(block), UserID: "sa-42"}
}

func decodeSegment(t *testing.T, seg string, v any) {
	t.Helper()
	b, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		t.Errorf("decode segment: %v", err)
		return
	}
	if err := json.Unmarshal(b, v); err != nil {
		t.Errorf("unmarshal segment: %v", err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		subject string
	}{
		{"service account", `{"type":"serviceaccount","keyId":"k","key":"pem","userId":"u"}`, false, "u"},
		{"application", `{"type":"application","keyId":"k","key":"pem","clientId":"c","appId":"a"}`, false, "c"},
		{"no key id", `{"key":"pem","userId":"u"}`, true, ""},
		{"no key", `{"keyId":"k","userId":"u"}`, true, ""},
		{"no subject", `{"keyId":"k","key":"pem"}`, true, ""},
		{"not json", `nope`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ParseKey([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && k.Subject() != tt.subject {
				t.Errorf("subject = %q, want %q", k.Subject(), tt.subject)
			}
		})
	}
}

func TestLoadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, []byte(`{"type":"serviceaccount","keyId":"k","key":"pem","userId":"u"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	k, err := LoadKey(path)
	if err != nil || k.KeyID != "k" {
		t.Fatalf("LoadKey = %+v, %v", k, err)
	}
}

func TestJWTProfile_ExchangesAssertion(t *testing.T) {
	key := testKey(t)

	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/v2/token" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if g := r.Form.Get("grant_type"); g != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("grant_type = %q", g)
		}
		parts := strings.Split(r.Form.Get("assertion"), ".")
		if len(parts) != 3 {
			t.Errorf("assertion is not a JWT: %q", r.Form.Get("assertion"))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var header struct {
			Alg string `json:"alg"`
			Kid string `json:"kid"`
		}
		decodeSegment(t, parts[0], &header)
		if header.Alg != "RS256" || header.Kid != "key-1" {
			t.Errorf("unexpected header %+v", header)
		}
		var claims struct {
			Iss   string `json:"iss"`
			Sub   string `json:"sub"`
			Aud   string `json:"aud"`
			Scope string `json:"scope"`
		}
		decodeSegment(t, parts[1], &claims)
		if claims.Iss != "sa-42" || claims.Sub != "sa-42" || claims.Aud != issuer {
			t.Errorf("unexpected claims %+v", claims)
		}
		if claims.Scope != "openid "+ScopeZitadelAPI {
			t.Errorf("scope = %q", claims.Scope)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()
	issuer = srv.URL

	tok, err := JWTProfile(context.Background(), issuer+"/", key).Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "at-1" {
		t.Errorf("access token = %q", tok.AccessToken)
	}
}

func TestTokenURL(t *testing.T) {
	if got := TokenURL("https://acme.zitadel.cloud/"); got != "https://acme.zitadel.cloud/oauth/v2/token" {
		t.Errorf("TokenURL = %q", got)
	}
}
