package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the modules a scan considers",
	Long: `Lists the working set: loaded modules that pass the skip and restrict
patterns, followed by configured modules loaded by name.`,
	Args: cobra.NoArgs,
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, _ []string) error {
	finder, err := requireFinder()
	if err != nil {
		return err
	}

	modules, err := finder.WorkingModuleSet()
	if err != nil {
		return fmt.Errorf("building working set: %w", err)
	}

	printModules(cmd, modules)
	return nil
}

func printModules(cmd *cobra.Command, modules []domain.Module) {
	p := newPainter(cmd.OutOrStdout())
	if len(modules) == 0 {
		cmd.Println("No modules in the working set.")
		return
	}

	cmd.Println(p.render(headingStyle, fmt.Sprintf("Modules (%d):", len(modules))))
	for _, m := range modules {
		location := m.Location
		if location == "" {
			location = "(built in)"
		}
		cmd.Printf("  %s  %s\n", p.render(moduleStyle, m.FullName()), p.render(dimStyle, location))
	}
}
