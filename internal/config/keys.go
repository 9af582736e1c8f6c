package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
	// check rejects values the server would fail on at startup.
	check func(v any) error
}

func portInRange(v any) error {
	if p := v.(int); p <= 0 || p > 65535 {
		return fmt.Errorf("port %d out of range", p)
	}
	return nil
}

func oneOf(allowed ...string) func(v any) error {
	return func(v any) error {
		for _, a := range allowed {
			if strings.EqualFold(v.(string), a) {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), v)
	}
}

func bcryptCost(v any) error {
	// Zero selects the library default.
	if c := v.(int); c != 0 && (c < bcrypt.MinCost || c > bcrypt.MaxCost) {
		return fmt.Errorf("cost %d out of range [%d, %d]", c, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func positiveDuration(v any) error {
	d, err := time.ParseDuration(v.(string))
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("duration %s must be positive", d)
	}
	return nil
}

func nonNegative(v any) error {
	if n := v.(int); n < 0 {
		return fmt.Errorf("%d must not be negative", n)
	}
	return nil
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "CGS_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "CGS_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
		check:   portInRange,
	},
	{
		key: "storage.data_dir", typ: kString, env: "CGS_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "catalog.path", typ: kString, env: "CGS_CATALOG_PATH",
		apply:   func(cfg *Config, v any) { cfg.Catalog.Path = v.(string) },
		extract: func(cfg Config) any { return cfg.Catalog.Path },
	},
	{
		key: "auth.admin_email", typ: kString, env: "CGS_AUTH_ADMIN_EMAIL",
		apply:   func(cfg *Config, v any) { cfg.Auth.AdminEmail = v.(string) },
		extract: func(cfg Config) any { return cfg.Auth.AdminEmail },
	},
	{
		key: "auth.admin_password", typ: kString, env: "CGS_AUTH_ADMIN_PASSWORD",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Auth.AdminPassword = v.(string) },
		extract: func(cfg Config) any { return cfg.Auth.AdminPassword },
	},
	{
		key: "auth.password_scheme", typ: kString, env: "CGS_AUTH_PASSWORD_SCHEME",
		apply:   func(cfg *Config, v any) { cfg.Auth.PasswordScheme = v.(string) },
		extract: func(cfg Config) any { return cfg.Auth.PasswordScheme },
		check:   oneOf("bcrypt", "plaintext"),
	},
	{
		key: "auth.bcrypt_cost", typ: kInt, env: "CGS_AUTH_BCRYPT_COST",
		apply:   func(cfg *Config, v any) { cfg.Auth.BcryptCost = v.(int) },
		extract: func(cfg Config) any { return cfg.Auth.BcryptCost },
		check:   bcryptCost,
	},
	{
		key: "auth.session_ttl", typ: kString, env: "CGS_AUTH_SESSION_TTL",
		apply:   func(cfg *Config, v any) { cfg.Auth.SessionTTL = v.(string) },
		extract: func(cfg Config) any { return cfg.Auth.SessionTTL },
		check:   positiveDuration,
	},
	{
		key: "http.cors_origins", typ: kString, env: "CGS_HTTP_CORS_ORIGINS",
		apply:   func(cfg *Config, v any) { cfg.HTTP.CORSOrigins = v.(string) },
		extract: func(cfg Config) any { return cfg.HTTP.CORSOrigins },
	},
	{
		key: "http.login_rate_limit", typ: kInt, env: "CGS_HTTP_LOGIN_RATE_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.HTTP.LoginRateLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.HTTP.LoginRateLimit },
		check:   nonNegative,
	},
	{
		key: "log.level", typ: kString, env: "CGS_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
		check:   oneOf("debug", "info", "warn", "warning", "error"),
	},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// parse converts raw to the spec's type and runs its check.
func (s keySpec) parse(raw string) (any, error) {
	var v any = raw
	if s.typ == kInt {
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %w", s.key, err)
		}
		v = i
	}
	if s.check != nil {
		if err := s.check(v); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", s.key, err)
		}
	}
	return v, nil
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
