package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

// ScopeZitadelAPI grants access to the ZITADEL APIs themselves.
const ScopeZitadelAPI = "urn:zitadel:iam:org:project:id:zitadel:aud"

// DefaultScopes are requested when the caller names none.
var DefaultScopes = []string{"openid", ScopeZitadelAPI}

// Key is a ZITADEL key file as downloaded from the console, for a service
// account ("serviceaccount") or an API application ("application").
type Key struct {
	Type     string `json:"type"`
	KeyID    string `json:"keyId"`
	Key      string `json:"key"`
	UserID   string `json:"userId,omitempty"`
	ClientID string `json:"clientId,omitempty"`
	AppID    string `json:"appId,omitempty"`
}

// Subject is the principal the key signs for.
func (k *Key) Subject() string {
	if k.UserID != "" {
		return k.UserID
	}
	return k.ClientID
}

// ParseKey decodes a key file.
func ParseKey(data []byte) (*Key, error) {
	var k Key
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("credentials: parse key: %w", err)
	}
	switch {
	case k.KeyID == "":
		return nil, errors.New("credentials: key is missing keyId")
	case k.Key == "":
		return nil, errors.New("credentials: key is missing the private key")
	case k.Subject() == "":
		return nil, errors.New("credentials: key names neither userId nor clientId")
	}
	return &k, nil
}

// LoadKey reads and decodes a key file from path.
func LoadKey(path string) (*Key, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("credentials: read key file %s: %w", path, err)
	}
	return ParseKey(data)
}

// TokenURL is the token endpoint of a ZITADEL issuer.
func TokenURL(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + "/oauth/v2/token"
}

// JWTProfile returns a token source exchanging a signed assertion for an
// access token (RFC 7523). The assertion's audience is the issuer. Tokens
// are cached until they expire.
func JWTProfile(ctx context.Context, issuer string, key *Key, scopes ...string) oauth2.TokenSource {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	cfg := &jwt.Config{
		Email:        key.Subject(),
		Subject:      key.Subject(),
		PrivateKey:   []byte(key.Key),
		PrivateKeyID: key.KeyID,
		Scopes:       scopes,
		TokenURL:     TokenURL(issuer),
		Audience:     strings.TrimSuffix(issuer, "/"),
	}
	return cfg.TokenSource(ctx)
}
