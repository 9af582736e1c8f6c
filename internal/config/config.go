package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	secretService       = "cgs"
	adminPasswordSecret = "admin_password"
	sessionTokenSecret  = "session_token"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	DataDir string
}

type CatalogConfig struct {
	// Path to a job-skills JSON document. Empty uses the built-in catalog.
	Path string
}

type AuthConfig struct {
	AdminEmail     string
	AdminPassword  string
	PasswordScheme string
	BcryptCost     int
	SessionTTL     string
}

type HTTPConfig struct {
	CORSOrigins    string // comma-separated
	LoginRateLimit int    // requests per minute per IP; 0 disables
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Auth: AuthConfig{
			PasswordScheme: "bcrypt",
			BcryptCost:     10,
			SessionTTL:     "24h",
		},
		HTTP: HTTPConfig{
			CORSOrigins:    "http://localhost:3000",
			LoginRateLimit: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BaseURL is the URL CLI commands use to reach a local server.
func (c Config) BaseURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// SessionTTL parses Auth.SessionTTL.
func (c Config) SessionTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Auth.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid auth.session_ttl %q: %w", c.Auth.SessionTTL, err)
	}
	return d, nil
}

// CORSOrigins splits HTTP.CORSOrigins on commas.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.HTTP.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from the platform-native backend, a .env file in
// the working directory, environment variables, and the platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.cgs.app) and secrets
// fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/cgs/config.json
// and secrets come from environment variables or the local secrets file.
//
// Environment variables (CGS_*) override backend values on all platforms.
// Variables already set in the environment win over the .env file.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	return loadWith(newPlatformBackend(), keychainReader{})
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Auth.AdminPassword == "" && cfg.Auth.AdminEmail != "" {
		if v, err := kc.Get(secretService, adminPasswordSecret); err == nil && v != "" {
			cfg.Auth.AdminPassword = v
		}
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	for _, s := range specs {
		if s.check == nil {
			continue
		}
		if err := s.check(s.extract(cfg)); err != nil {
			return fmt.Errorf("invalid %s: %w", s.key, err)
		}
	}
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword == "" {
		return fmt.Errorf("missing required config: admin password for %s. "+
			"Set it via environment variable CGS_AUTH_ADMIN_PASSWORD%s", cfg.Auth.AdminEmail, secretHint())
	}
	return nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// SaveSessionToken stores the CLI's login token in the platform secret store.
func SaveSessionToken(token string) error {
	return keychainSet(secretService, sessionTokenSecret, token)
}

// SessionToken returns the stored CLI login token.
func SessionToken() (string, error) {
	return keychainReader{}.Get(secretService, sessionTokenSecret)
}

// ClearSessionToken removes the stored CLI login token.
func ClearSessionToken() error {
	return keychainDelete(secretService, sessionTokenSecret)
}
