package config

// ConfigBackend is where `cgs config set` persists keys. On macOS values
// live in the cgs UserDefaults domain; elsewhere in config.json under the
// XDG config directory. Secrets never pass through it.
type ConfigBackend interface {
	// GetString and GetInt report ok=false for keys that were never set.
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
