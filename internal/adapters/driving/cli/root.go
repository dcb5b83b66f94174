// Package cli provides the typefinder command-line interface built on cobra.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodia-labs/typefinder/internal/core/ports/driving"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// EnvPrefix prefixes environment variables bound to persistent flags,
// e.g. TYPEFINDER_PLUGINS_DIR.
const EnvPrefix = "TYPEFINDER"

// Host kinds accepted by --host.
const (
	HostManifest = "manifest"
	HostGoPlugin = "goplugin"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are the driving ports the commands run against.
type Services struct {
	TypeFinder driving.TypeFinder
	Catalog    driving.CatalogService
	Settings   driving.SettingsService

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Options are the resolved persistent flags handed to a Bootstrap.
type Options struct {
	ConfigDir string
	Host      string
}

// Bootstrap builds services once flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	typeFinder      driving.TypeFinder
	catalogService  driving.CatalogService
	settingsService driving.SettingsService
	closeServices   func() error

	bootstrap Bootstrap

	// pluginsDir is the resolved plugin directory for the current command.
	pluginsDir string

	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "typefinder",
	Short: "Discover types across loaded modules",
	Long: `typefinder scans the modules loaded in a host for types that satisfy
a contract: an interface, a base type, or an open generic definition.

Modules are filtered by skip and restrict patterns and can be augmented
by loading module files from a plugin directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "enable verbose output")
	flags.String("config-dir", "", "configuration directory (default ~/.typefinder)")
	flags.String("plugins-dir", "", "directory scanned for module files before each command")
	flags.String("host", HostManifest, "module host: manifest or goplugin")
	flags.String("skip", "", "regular expression of module names to skip")
	flags.String("restrict", "", "regular expression module names must match")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"verbose", "config-dir", "plugins-dir", "host", "skip", "restrict"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// RootCommand returns the root command for execution by main.
func RootCommand() *cobra.Command {
	return rootCmd
}

// SetVersion sets the version reported by the version command.
func SetVersion(ver string) {
	version = ver
}

// SetBootstrap sets the function building services for each invocation.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly. Injected services take
// precedence over the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		typeFinder, catalogService, settingsService, closeServices = nil, nil, nil, nil
		return
	}
	typeFinder = s.TypeFinder
	catalogService = s.Catalog
	settingsService = s.Settings
	closeServices = s.Close
}

// prepare resolves flags, builds services and applies configured settings
// to the type finder.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(v.GetBool("verbose"))

	if cmd == versionCmd {
		return nil
	}

	host := v.GetString("host")
	if host != HostManifest && host != HostGoPlugin {
		return fmt.Errorf("unknown host %q (want %s or %s)", host, HostManifest, HostGoPlugin)
	}

	if typeFinder == nil && bootstrap != nil {
		s, err := bootstrap(Options{ConfigDir: v.GetString("config-dir"), Host: host})
		if err != nil {
			return fmt.Errorf("initialising: %w", err)
		}
		SetServices(s)
	}

	pluginsDir = v.GetString("plugins-dir")
	if settingsService == nil || typeFinder == nil {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if !v.IsSet("plugins-dir") {
		pluginsDir = settings.PluginsDir
	}

	filter := settings.Filter
	if v.IsSet("skip") {
		filter.SkipPattern = v.GetString("skip")
	}
	if v.IsSet("restrict") {
		filter.RestrictPattern = v.GetString("restrict")
	}
	if err := typeFinder.SetFilter(filter); err != nil {
		return fmt.Errorf("applying filter: %w", err)
	}
	return nil
}

// Release closes the services built by the bootstrap or injected with a
// Close function. It is safe to call more than once.
func Release() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// requireFinder returns the type finder after loading the plugin directory.
func requireFinder() (driving.TypeFinder, error) {
	if typeFinder == nil {
		return nil, errors.New("type finder not configured")
	}
	if pluginsDir != "" {
		if err := typeFinder.AugmentFromDirectory(pluginsDir); err != nil {
			return nil, fmt.Errorf("loading %s: %w", pluginsDir, err)
		}
	}
	return typeFinder, nil
}
