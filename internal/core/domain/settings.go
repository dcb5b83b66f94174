package domain

// AppSettings holds persisted application settings.
type AppSettings struct {
	// Filter is the module filter applied to every scan.
	Filter FilterConfig

	// PluginsDir is scanned for module files before every command.
	// Empty disables directory loading.
	PluginsDir string

	// CatalogDir holds the scan catalog database.
	// Empty means the default data directory.
	CatalogDir string

	// HistoryLimit is how many scans the history command lists.
	// Zero or less lists every scan.
	HistoryLimit int
}

// DefaultHistoryLimit is the default number of scans listed.
const DefaultHistoryLimit = 20

// DefaultAppSettings returns settings with the default filter and no
// plugin directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Filter:       DefaultFilterConfig(),
		HistoryLimit: DefaultHistoryLimit,
	}
}
