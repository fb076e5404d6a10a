// Package config loads service settings from an optional file and
// DRIMAIN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/spf13/viper"

	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/obs"
)

const envPrefix = "DRIMAIN"

// Config is resolved once at startup and passed by value to constructors.
type Config struct {
	HTTPAddr       string        `mapstructure:"http_addr"`
	GRPCAddr       string        `mapstructure:"grpc_addr"`
	DatabaseDSN    string        `mapstructure:"database_dsn"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	TokenIssuer    string        `mapstructure:"token_issuer"`
	CookieEnabled  bool          `mapstructure:"cookie_enabled"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	LogMaxSizeMB   int           `mapstructure:"log_max_size_mb"`
	LogMaxBackups  int           `mapstructure:"log_max_backups"`
	LogMaxAgeDays  int           `mapstructure:"log_max_age_days"`
	LoginRate      float64       `mapstructure:"login_rate_per_sec"`
	LoginBurst     int           `mapstructure:"login_rate_burst"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	ShutdownPeriod time.Duration `mapstructure:"shutdown_timeout"`
	// TrustedProxies lists IPs or CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	// BootstrapAdminUser, when set, is provisioned with the ADMIN role at
	// startup unless the account already exists.
	BootstrapAdminUser     string `mapstructure:"bootstrap_admin_user"`
	BootstrapAdminPassword string `mapstructure:"bootstrap_admin_password"`
}

var defaults = map[string]any{
	"http_addr":          ":8080",
	"grpc_addr":          "",
	"database_dsn":       "",
	"jwt_secret":         "",
	"token_ttl":          time.Hour,
	"token_issuer":       "drimain",
	"cookie_enabled":     true,
	"cookie_secure":      false,
	"log_level":          "info",
	"log_file":           "",
	"log_max_size_mb":    100,
	"log_max_backups":    5,
	"log_max_age_days":   30,
	"login_rate_per_sec": 1.0,
	"login_rate_burst":   10,
	"max_body_bytes":     int64(1 << 20),
	"cors_origins":       []string{"http://localhost:3000", "http://localhost:5173"},
	"shutdown_timeout":   10 * time.Second,
	"trusted_proxies":    []string{},

	"bootstrap_admin_user":     "",
	"bootstrap_admin_password": "",
}

// Load reads the optional file at path, then overlays DRIMAIN_* environment
// variables (e.g. DRIMAIN_JWT_SECRET).
func Load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.TrustedProxies = splitList(cfg.TrustedProxies)
	return cfg, nil
}

// Validate checks the settings required to serve traffic.
func (c Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < auth.MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d bytes", auth.MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		errs = append(errs, errors.New("login rate and burst must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}
	if (c.BootstrapAdminUser == "") != (c.BootstrapAdminPassword == "") {
		errs = append(errs, errors.New("bootstrap_admin_user and bootstrap_admin_password must be set together"))
	}
	return errors.Join(errs...)
}

// TrustedProxyPrefixes parses trusted_proxies. A bare address becomes a
// single-host prefix.
func (c Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted_proxies: %w", err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted_proxies: %w", err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// TokenConfig returns the immutable signing configuration.
func (c Config) TokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		Secret: []byte(c.JWTSecret),
		TTL:    c.TokenTTL,
		Issuer: c.TokenIssuer,
	}
}

func (c Config) LogConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   true,
	}
}

// splitList accepts comma separated values coming from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
