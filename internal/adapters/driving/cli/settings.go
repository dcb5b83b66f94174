package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the persisted module filter and directories.

Flags and TYPEFINDER_* environment variables override these settings
for a single invocation.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a persisted setting.

Available keys:
  skip           - regular expression of module names to skip
  restrict       - regular expression module names must match
  modules        - comma-separated module names always scanned
  include-loaded - include already loaded modules (true/false)
  strict         - fail scans when a module's types cannot be enumerated (true/false)
  plugins-dir    - directory scanned for module files before each command
  catalog-dir    - directory holding the scan catalog
  history-limit  - number of scans the history command lists (0 for all)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Filter]")
	cmd.Printf("  Skip pattern:     %s\n", orNone(settings.Filter.SkipPattern))
	cmd.Printf("  Restrict pattern: %s\n", orNone(settings.Filter.RestrictPattern))
	cmd.Printf("  Modules:          %s\n", orNone(strings.Join(settings.Filter.ModuleNames, ", ")))
	cmd.Printf("  Include loaded:   %t\n", settings.Filter.IncludeLoadedModules)
	cmd.Printf("  Strict:           %t\n", settings.Filter.Strict)
	cmd.Println()

	cmd.Println("[Directories]")
	cmd.Printf("  Plugins: %s\n", orNone(settings.PluginsDir))
	cmd.Printf("  Catalog: %s\n", orDefault(settings.CatalogDir))
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Limit: %d\n", settings.HistoryLimit)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := applySetting(settings, args[0], args[1]); err != nil {
		return err
	}

	// Reject patterns the finder would refuse before persisting them.
	if typeFinder != nil {
		if err := typeFinder.SetFilter(settings.Filter); err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

// applySetting changes the field named key.
func applySetting(settings *domain.AppSettings, key, value string) error {
	switch key {
	case "skip":
		settings.Filter.SkipPattern = value
	case "restrict":
		settings.Filter.RestrictPattern = value
	case "modules":
		settings.Filter.ModuleNames = splitList(value)
	case "include-loaded", "strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected true or false, got %q", key, value)
		}
		if key == "strict" {
			settings.Filter.Strict = b
		} else {
			settings.Filter.IncludeLoadedModules = b
		}
	case "plugins-dir":
		settings.PluginsDir = value
	case "catalog-dir":
		settings.CatalogDir = value
	case "history-limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: expected a number, got %q", key, value)
		}
		settings.HistoryLimit = n
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
