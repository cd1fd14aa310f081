package driven

// ConfigStore holds the settings behind SettingsService. Keys are flat and
// dotted ("fetch.rate_per_second"); adapters decide how they are persisted.
// Typed getters return the zero value for a missing key or a value of
// another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int

	// GetFloat converts integer values.
	GetFloat(key string) float64

	GetStringSlice(key string) []string

	// Keys lists the set keys in sorted order.
	Keys() []string

	// Set stores value and persists it.
	Set(key string, value any) error

	// Save writes every value back to storage.
	Save() error

	// Load replaces the values with those in storage.
	Load() error

	// Path locates the backing file.
	Path() string
}
