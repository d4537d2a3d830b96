package config

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting the gateway needs. It is loaded once in
// main and handed to each component explicitly; no other package reads the
// environment.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"production"`
	Version     string `envconfig:"VERSION" default:"dev"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	NetbirdAPIURL   string `envconfig:"NETBIRD_API_URL" required:"true"`
	NetbirdAPIToken string `envconfig:"NETBIRD_API_TOKEN" required:"true"`

	ZitadelDomain       string `envconfig:"ZITADEL_DOMAIN" required:"true"`
	ZitadelClientID     string `envconfig:"ZITADEL_CLIENT_ID" required:"true"`
	ZitadelClientSecret string `envconfig:"ZITADEL_CLIENT_SECRET" required:"true"`
	ZitadelAPIToken     string `envconfig:"ZITADEL_API_TOKEN" required:"true"`

	CORSOrigin  string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`
	CatalogPath string `envconfig:"CATALOG_PATH" default:""`

	AuthRateBurst  int `envconfig:"AUTH_RATE_BURST" default:"10"`
	AuthRatePerSec int `envconfig:"AUTH_RATE_PER_SEC" default:"5"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be blank")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be greater than zero")
	}
	if c.AuthRateBurst <= 0 || c.AuthRatePerSec <= 0 {
		return errors.New("auth rate limit settings must be positive")
	}
	return nil
}

// Development reports whether the gateway runs with relaxed error reporting.
func (c *Config) Development() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "development")
}

// CORSOrigins splits the configured origin list.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSOrigin, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RedirectURI is the OAuth redirect target derived from the first allowed origin.
func (c *Config) RedirectURI() string {
	origins := c.CORSOrigins()
	if len(origins) == 0 {
		return ""
	}
	return strings.TrimRight(origins[0], "/") + "/auth/callback"
}
