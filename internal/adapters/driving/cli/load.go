package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driving"
)

var (
	loadWatch    bool
	loadDebounce time.Duration
)

var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Load module files from a directory",
	Long: `Loads every eligible module file in the directory that is not already
loaded, then prints the working set. Files that are not modules or fail to
load are skipped; run with --verbose to see why.

With --watch the directory is watched and new or changed files are loaded
as they appear, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVarP(&loadWatch, "watch", "w", false, "keep loading files added to the directory")
	loadCmd.Flags().DurationVar(&loadDebounce, "debounce", defaultDebounce, "quiet period before reloading after changes")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	dir := args[0]

	finder, err := requireFinder()
	if err != nil {
		return err
	}
	if err := finder.AugmentFromDirectory(dir); err != nil {
		return fmt.Errorf("loading %s: %w", dir, err)
	}

	modules, err := finder.WorkingModuleSet()
	if err != nil {
		return fmt.Errorf("building working set: %w", err)
	}
	printModules(cmd, modules)

	if !loadWatch {
		return nil
	}

	p := newPainter(cmd.OutOrStdout())
	cmd.Printf("\n%s Watching %s for module files (Ctrl+C to stop)...\n", p.render(headingStyle, "→"), dir)

	known := moduleSet(modules)
	return watchDirectory(cmd.Context(), dir, loadDebounce, func(changed []string) error {
		return reload(cmd, finder, dir, known, len(changed))
	})
}

// reload augments from dir again and prints modules not seen before.
func reload(cmd *cobra.Command, finder driving.TypeFinder, dir string, known map[string]struct{}, changes int) error {
	if err := finder.AugmentFromDirectory(dir); err != nil {
		return err
	}
	modules, err := finder.WorkingModuleSet()
	if err != nil {
		return err
	}

	p := newPainter(cmd.OutOrStdout())
	var added []domain.Module
	for _, m := range modules {
		if _, ok := known[m.FullName()]; !ok {
			known[m.FullName()] = struct{}{}
			added = append(added, m)
		}
	}

	cmd.Printf("%s %d change(s), %d new module(s)\n", p.render(headingStyle, "→"), changes, len(added))
	for _, m := range added {
		cmd.Printf("  + %s  %s\n", p.render(moduleStyle, m.FullName()), p.render(dimStyle, m.Location))
	}
	return nil
}

func moduleSet(modules []domain.Module) map[string]struct{} {
	set := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		set[m.FullName()] = struct{}{}
	}
	return set
}
