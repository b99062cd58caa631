// Package endpoint turns the endpoint strings callers pass to the client
// factories into the address forms each transport needs.
package endpoint

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	// ErrEmptyEndpoint is returned for a blank endpoint string.
	ErrEmptyEndpoint = errors.New("endpoint is empty")
	// ErrUnsupportedScheme is returned for schemes other than http and https.
	ErrUnsupportedScheme = errors.New("unsupported endpoint scheme")
)

// Target is a parsed endpoint.
type Target struct {
	// Secure is true for https endpoints.
	Secure bool
	// Host is the host name without port.
	Host string
	// Authority is host:port, the gRPC dial target.
	Authority string
	// BaseURL is scheme://authority plus any path prefix, without a
	// trailing slash. Connect procedures are appended to it.
	BaseURL string
}

// Parse parses raw. A missing scheme means https.
func Parse(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrEmptyEndpoint
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}

	var defaultPort string
	switch strings.ToLower(u.Scheme) {
	case "https":
		defaultPort = "443"
	case "http":
		defaultPort = "80"
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("endpoint %q has no host", raw)
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	authority := net.JoinHostPort(host, port)

	base := strings.ToLower(u.Scheme) + "://" + u.Host + strings.TrimRight(u.Path, "/")

	return Target{
		Secure:    defaultPort == "443",
		Host:      host,
		Authority: authority,
		BaseURL:   base,
	}, nil
}
