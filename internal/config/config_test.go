package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            8080,
		Environment:     "production",
		JWTSecret:       "secret",
		JWTTTL:          time.Hour,
		CORSOrigin:      "http://localhost:3000",
		AuthRateBurst:   10,
		AuthRatePerSec:  5,
		NetbirdAPIURL:   "https://netbird.example.com/api",
		NetbirdAPIToken: "nb-token",
		ZitadelDomain:   "https://auth.example.com",
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	blank := validConfig()
	blank.JWTSecret = "   "
	if err := blank.validate(); err == nil {
		t.Error("blank JWT secret accepted")
	}

	zeroTTL := validConfig()
	zeroTTL.JWTTTL = 0
	if err := zeroTTL.validate(); err == nil {
		t.Error("zero JWT TTL accepted")
	}

	badRate := validConfig()
	badRate.AuthRateBurst = 0
	if err := badRate.validate(); err == nil {
		t.Error("zero rate burst accepted")
	}
}

func TestDevelopment(t *testing.T) {
	cfg := validConfig()
	if cfg.Development() {
		t.Error("production reported as development")
	}
	cfg.Environment = " Development "
	if !cfg.Development() {
		t.Error("development not recognized case-insensitively")
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.CORSOrigin = "http://localhost:3000, https://portal.example.com ,"
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "http://localhost:3000" || got[1] != "https://portal.example.com" {
		t.Errorf("CORSOrigins = %v", got)
	}
}

func TestRedirectURI(t *testing.T) {
	cfg := validConfig()
	cfg.CORSOrigin = "https://portal.example.com/"
	if got := cfg.RedirectURI(); got != "https://portal.example.com/auth/callback" {
		t.Errorf("RedirectURI = %q", got)
	}
}
