package config

import "time"

// Options configures the config loader.
type Options struct {
	// YAMLPath is the path to the primary YAML config file.
	YAMLPath string

	// EnvPath is the path to the fallback .env file, used only when YAML is absent.
	EnvPath string

	// EnvPrefix scopes environment overrides. With prefix "IDGEN" the key
	// idgen.retry_count is overridden by IDGEN_IDGEN_RETRY_COUNT; an empty
	// prefix maps it to IDGEN_RETRY_COUNT.
	EnvPrefix string
}

// ConfigProvider is the interface consumers depend on for reading configuration.
// Implementations must be safe for concurrent use.
type ConfigProvider interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string

	// IsSet checks whether the key is set in the file or the environment.
	IsSet(key string) bool

	// UnmarshalKey decodes the section under key into out using mapstructure
	// tags.
	UnmarshalKey(key string, out any) error

	// WatchChanges starts watching the config file for changes (YAML only).
	// Non-blocking: spawns a background goroutine.
	WatchChanges()

	// OnChange registers a callback that fires after a successful config reload.
	OnChange(fn func())

	// Source returns which config source is active: "yaml" or "env".
	Source() string
}
