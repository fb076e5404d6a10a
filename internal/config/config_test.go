package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.TokenTTL != time.Hour || !cfg.CookieEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("expected missing secret to fail validation, got %v", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drimain.yaml")
	content := "http_addr: \":9090\"\ntoken_ttl: 30m\njwt_secret: file-secret-file-secret-file-secret\ncors_origins:\n  - https://drimer.pl\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DRIMAIN_JWT_SECRET", "env-secret-env-secret-env-secret-!!")
	t.Setenv("DRIMAIN_COOKIE_ENABLED", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.JWTSecret != "env-secret-env-secret-env-secret-!!" {
		t.Fatalf("env did not override secret: %q", cfg.JWTSecret)
	}
	if cfg.CookieEnabled {
		t.Fatal("env did not disable cookie")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://drimer.pl" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if string(cfg.TokenConfig().Secret) != cfg.JWTSecret {
		t.Fatal("token config does not carry the secret")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	t.Setenv("DRIMAIN_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DRIMAIN_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	prefixes, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		t.Fatalf("TrustedProxyPrefixes: %v", err)
	}
	if len(prefixes) != 2 || prefixes[0].String() != "10.0.0.0/8" || prefixes[1].String() != "192.168.1.1/32" {
		t.Fatalf("unexpected prefixes: %v", prefixes)
	}
}

func TestValidateRejectsBadProxiesAndHalfBootstrap(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.JWTSecret = strings.Repeat("s", 32)

	bad := cfg
	bad.TrustedProxies = []string{"not-an-ip"}
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "trusted_proxies") {
		t.Fatalf("expected trusted_proxies error, got %v", err)
	}

	half := cfg
	half.BootstrapAdminUser = "admin"
	if err := half.Validate(); err == nil || !strings.Contains(err.Error(), "bootstrap_admin") {
		t.Fatalf("expected bootstrap pairing error, got %v", err)
	}
}
