package services

import (
	"fmt"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
	"github.com/custodia-labs/typefinder/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySkipPattern     = "filter.skip_pattern"
	keyRestrictPattern = "filter.restrict_pattern"
	keyModules         = "filter.modules"
	keyIncludeLoaded   = "filter.include_loaded"
	keyStrict          = "filter.strict"
	keyPluginsDir      = "plugins.dir"
	keyCatalogDir      = "catalog.dir"
	keyHistoryLimit    = "catalog.history_limit"
)

// SettingsService maps application settings onto a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Patterns are not validated
// here; an invalid pattern surfaces when the filter is applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Filter: domain.FilterConfig{
			SkipPattern:          s.getString(keySkipPattern, defaults.Filter.SkipPattern),
			RestrictPattern:      s.getString(keyRestrictPattern, defaults.Filter.RestrictPattern),
			ModuleNames:          s.configStore.GetStringSlice(keyModules),
			IncludeLoadedModules: s.getBool(keyIncludeLoaded, defaults.Filter.IncludeLoadedModules),
			Strict:               s.getBool(keyStrict, defaults.Filter.Strict),
		},
		PluginsDir:   s.configStore.GetString(keyPluginsDir),
		CatalogDir:   s.configStore.GetString(keyCatalogDir),
		HistoryLimit: s.getInt(keyHistoryLimit, defaults.HistoryLimit),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}

	values := []struct {
		key   string
		value any
	}{
		{keySkipPattern, settings.Filter.SkipPattern},
		{keyRestrictPattern, settings.Filter.RestrictPattern},
		{keyModules, append([]string{}, settings.Filter.ModuleNames...)},
		{keyIncludeLoaded, settings.Filter.IncludeLoadedModules},
		{keyStrict, settings.Filter.Strict},
		{keyPluginsDir, settings.PluginsDir},
		{keyCatalogDir, settings.CatalogDir},
		{keyHistoryLimit, settings.HistoryLimit},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// getString returns the stored string, or defaultVal when the key is absent.
// A stored empty string is kept: it disables the pattern.
func (s *SettingsService) getString(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
