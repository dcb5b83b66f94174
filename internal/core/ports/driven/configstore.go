package driven

// ConfigStore is a flat key/value view of persisted configuration.
// Keys use dot notation mirroring the file's tables, e.g. "filter.strict".
// Getters convert loosely typed decoded values and return the zero value
// when a key is absent or has another type; use Get to tell the two apart.
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts any decoded integer or float value.
	GetInt(key string) int

	GetBool(key string) bool

	// GetStringSlice returns a copy; non-string elements are dropped.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads configuration. A missing file is not an error.
	Load() error

	// Path returns where the configuration lives.
	Path() string
}
