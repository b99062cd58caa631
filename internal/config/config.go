// Package config loads the settings shared by the example binaries: a
// YAML file, overridden by environment variables, overridden by flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ragnaraven/zitadel-go-dual/pkg/client"
)

// PathEnv names the YAML file the example binaries load, if any.
const PathEnv = "ZITADEL_CONFIG"

// Config describes how to reach and authenticate with a ZITADEL instance.
// Env tags carry no defaults so that unset variables keep file values.
type Config struct {
	Endpoint  string `yaml:"endpoint" env:"ZITADEL_API_ENDPOINT"`
	Transport string `yaml:"transport" env:"ZITADEL_TRANSPORT"`
	Insecure  bool   `yaml:"insecure" env:"ZITADEL_INSECURE"`

	// Exactly one of Token, TokenFile and KeyFile must be set.
	Token     string `yaml:"token" env:"ZITADEL_SERVICE_ACCOUNT_TOKEN"`
	TokenFile string `yaml:"tokenFile" env:"ZITADEL_TOKEN_FILE"`
	KeyFile   string `yaml:"keyFile" env:"ZITADEL_KEY_FILE"`

	OrgID     string  `yaml:"orgId" env:"ZITADEL_ORG_ID"`
	ProjectID string  `yaml:"projectId" env:"ZITADEL_PROJECT_ID"`
	RateLimit float64 `yaml:"rateLimit" env:"ZITADEL_RATE_LIMIT"`
	// MaxRetries repeats calls failing with Unavailable or ResourceExhausted.
	MaxRetries int `yaml:"maxRetries" env:"ZITADEL_MAX_RETRIES"`
	// CircuitBreaker fails fast per service after repeated server failures.
	CircuitBreaker bool `yaml:"circuitBreaker" env:"ZITADEL_CIRCUIT_BREAKER"`

	ServiceAddr string `yaml:"serviceAddr" env:"ZITADEL_SERVICE_ADDR"`
	MetricsAddr string `yaml:"metricsAddr" env:"ZITADEL_METRICS_ADDR"`
	LogLevel    string `yaml:"logLevel" env:"ZITADEL_LOG_LEVEL"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Transport:   string(client.TransportGRPC),
		ServiceAddr: ":8081",
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
}

// Load reads path, when given, over the defaults and then applies the
// environment. Unknown YAML keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds flags to cfg's fields. Call after Load and before
// fs.Parse so that flags given on the command line win.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "ZITADEL API endpoint, e.g. https://acme.zitadel.cloud")
	fs.StringVar(&c.Transport, "transport", c.Transport, "wire transport: grpc or connect")
	fs.BoolVar(&c.Insecure, "insecure", c.Insecure, "disable TLS (local development only)")
	fs.StringVar(&c.Token, "token", c.Token, "personal access token")
	fs.StringVar(&c.TokenFile, "token-file", c.TokenFile, "file holding an access token, reloaded on change")
	fs.StringVar(&c.KeyFile, "key-file", c.KeyFile, "service account key file for the JWT profile grant")
	fs.StringVar(&c.OrgID, "org-id", c.OrgID, "organization to scope management calls to")
	fs.StringVar(&c.ProjectID, "project-id", c.ProjectID, "project whose roles are listed")
	fs.Float64Var(&c.RateLimit, "rate-limit", c.RateLimit, "max calls per second per service, 0 for unlimited")
	fs.IntVar(&c.MaxRetries, "max-retries", c.MaxRetries, "retries for unavailable or throttled calls")
	fs.BoolVar(&c.CircuitBreaker, "circuit-breaker", c.CircuitBreaker, "fail fast while a service keeps failing")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// Validate checks that the configuration can build a client.
func (c *Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is required (ZITADEL_API_ENDPOINT)"))
	}
	sources := 0
	for _, s := range []string{c.Token, c.TokenFile, c.KeyFile} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		errs = append(errs, errors.New("a credential is required: token, tokenFile or keyFile"))
	case sources > 1:
		errs = append(errs, errors.New("only one of token, tokenFile and keyFile may be set"))
	}
	if _, err := client.ParseTransport(c.Transport); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rateLimit must not be negative, got %v", c.RateLimit))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("maxRetries must not be negative, got %d", c.MaxRetries))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
