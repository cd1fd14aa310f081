package domain

import "runtime"

// Default values for settings.
const (
	// DefaultSystemNamespace is the namespace of the implicit root types.
	DefaultSystemNamespace = "concerto@1.0.0"

	// DefaultFetchRate is the default number of external fetches per second.
	DefaultFetchRate = 2.0

	// DefaultFetchTimeoutSeconds is the default per-request timeout.
	DefaultFetchTimeoutSeconds = 30
)

// DefaultSystemTypes returns the implicit root types every model may extend.
func DefaultSystemTypes() []string {
	return []string{"Concept", "Asset", "Participant", "Transaction", "Event"}
}

// Settings contains all user-configurable settings.
type Settings struct {
	// Resolver holds name resolution behaviour settings.
	Resolver ResolverSettings

	// Fetch holds external import fetching settings.
	Fetch FetchSettings

	// Storage holds persistence settings.
	Storage StorageSettings
}

// ResolverSettings configures name resolution.
type ResolverSettings struct {
	// Workers is the number of documents resolved concurrently.
	Workers int

	// SystemNamespace is the namespace SystemTypes resolve into.
	// Empty disables system types.
	SystemNamespace string

	// SystemTypes are names that resolve without an import.
	SystemTypes []string
}

// FetchSettings configures fetching of externally hosted namespaces.
type FetchSettings struct {
	// RatePerSecond throttles requests to external hosts.
	RatePerSecond float64

	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int

	// GitHubToken authenticates requests for models hosted on GitHub.
	// Empty falls back to the GITHUB_TOKEN environment variable.
	GitHubToken string
}

// StorageSettings configures where runs and models are persisted.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.metaresolve/data.
	DataDir string
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Resolver: ResolverSettings{
			Workers:         runtime.NumCPU(),
			SystemNamespace: DefaultSystemNamespace,
			SystemTypes:     DefaultSystemTypes(),
		},
		Fetch: FetchSettings{
			RatePerSecond:  DefaultFetchRate,
			TimeoutSeconds: DefaultFetchTimeoutSeconds,
		},
	}
}
