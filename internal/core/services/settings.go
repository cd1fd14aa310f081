package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyResolverWorkers         = "resolver.workers"
	KeyResolverSystemNamespace = "resolver.system_namespace"
	KeyResolverSystemTypes     = "resolver.system_types"
	KeyFetchRate               = "fetch.rate_per_second"
	KeyFetchTimeout            = "fetch.timeout_seconds"
	KeyFetchGitHubToken        = "fetch.github_token"
	KeyStorageDataDir          = "storage.data_dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Missing or invalid values fall back to
// the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Resolver: domain.ResolverSettings{
			Workers:         s.getInt(KeyResolverWorkers, defaults.Resolver.Workers),
			SystemNamespace: s.getSystemNamespace(defaults.Resolver.SystemNamespace),
			SystemTypes:     s.getStringSlice(KeyResolverSystemTypes, defaults.Resolver.SystemTypes),
		},
		Fetch: domain.FetchSettings{
			RatePerSecond:  s.getFloat(KeyFetchRate, defaults.Fetch.RatePerSecond),
			TimeoutSeconds: s.getInt(KeyFetchTimeout, defaults.Fetch.TimeoutSeconds),
			GitHubToken:    s.configStore.GetString(KeyFetchGitHubToken),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
	}

	return settings, nil
}

// Save persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	values := []struct {
		key   string
		value any
	}{
		{KeyResolverWorkers, settings.Resolver.Workers},
		{KeyResolverSystemNamespace, settings.Resolver.SystemNamespace},
		{KeyResolverSystemTypes, settings.Resolver.SystemTypes},
		{KeyFetchRate, settings.Fetch.RatePerSecond},
		{KeyFetchTimeout, settings.Fetch.TimeoutSeconds},
		{KeyFetchGitHubToken, settings.Fetch.GitHubToken},
		{KeyStorageDataDir, settings.Storage.DataDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting from its textual form.
func (s *SettingsService) Set(key, value string) error {
	var parsed any
	switch key {
	case KeyResolverWorkers, KeyFetchTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case KeyFetchRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case KeyResolverSystemTypes:
		parsed = splitList(value)
	case KeyResolverSystemNamespace, KeyStorageDataDir, KeyFetchGitHubToken:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the setting keys understood by Set.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyResolverWorkers,
		KeyResolverSystemNamespace,
		KeyResolverSystemTypes,
		KeyFetchRate,
		KeyFetchTimeout,
		KeyFetchGitHubToken,
		KeyStorageDataDir,
	}
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

// getSystemNamespace distinguishes an unset namespace from one explicitly
// set to "", which disables system types.
func (s *SettingsService) getSystemNamespace(defaultVal string) string {
	if _, ok := s.configStore.Get(KeyResolverSystemNamespace); !ok {
		return defaultVal
	}
	return s.configStore.GetString(KeyResolverSystemNamespace)
}

// splitList splits a comma separated list, dropping blanks.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
