// Package credentials loads the credentials a ZITADEL client authenticates
// with: static personal access tokens, token files refreshed by a sidecar,
// service-account JWT profile keys and OAuth client credentials.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyCredential is returned when a credential source yields nothing.
var ErrEmptyCredential = errors.New("credentials: empty credential")

// FromFile reads a personal access token from path. Surrounding whitespace
// is trimmed.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("credentials: read token file %s: %w", path, err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("credentials: token file %s: %w", path, ErrEmptyCredential)
	}
	return tok, nil
}

// FromEnv reads a personal access token from the environment variable name.
func FromEnv(name string) (string, error) {
	tok := strings.TrimSpace(os.Getenv(name))
	if tok == "" {
		return "", fmt.Errorf("credentials: environment variable %s is not set or empty: %w", name, ErrEmptyCredential)
	}
	return tok, nil
}
