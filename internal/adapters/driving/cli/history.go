package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [scan-id]",
	Short: "Show recorded scans",
	Long: `Lists scans stored with "find --record", newest first.
If a scan ID is provided, shows the modules, matches and failures of that scan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", domain.DefaultHistoryLimit,
		"maximum number of scans to list, 0 for all (default from settings)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	if len(args) == 1 {
		record, err := catalogService.Get(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("scan %s not found", args[0])
			}
			return fmt.Errorf("failed to get scan: %w", err)
		}
		printRecord(cmd, record)
		return nil
	}

	limit := historyLimit
	if !cmd.Flags().Changed("limit") && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			limit = settings.HistoryLimit
		}
	}

	records, err := catalogService.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No scans recorded.")
		return nil
	}

	p := newPainter(cmd.OutOrStdout())
	cmd.Println(p.render(headingStyle, fmt.Sprintf("Scans (%d):", len(records))))
	for i := range records {
		r := &records[i]
		status := p.render(typeStyle, "ok")
		if !r.Succeeded() {
			status = p.render(failureStyle, fmt.Sprintf("%d failed", len(r.Failures)))
		}
		cmd.Printf("  %s  %s  %s  %d type(s)  %s\n",
			p.render(dimStyle, r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			r.Contract,
			len(r.Types),
			status)
	}
	return nil
}

func printRecord(cmd *cobra.Command, r *domain.ScanRecord) {
	p := newPainter(cmd.OutOrStdout())

	cmd.Println(p.render(headingStyle, "Scan "+r.ID))
	cmd.Printf("  Contract:  %s\n", r.Contract)
	cmd.Printf("  Concrete:  %t\n", r.ConcreteOnly)
	cmd.Printf("  Started:   %s\n", r.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("  Duration:  %s\n", r.Duration.Round(time.Microsecond))
	cmd.Println()

	cmd.Println(p.render(headingStyle, fmt.Sprintf("Modules (%d):", len(r.Modules))))
	for _, m := range r.Modules {
		cmd.Printf("  %s\n", p.render(moduleStyle, m))
	}
	cmd.Println()

	cmd.Println(p.render(headingStyle, fmt.Sprintf("Types (%d):", len(r.Types))))
	for _, id := range r.Types {
		cmd.Printf("  %s\n", p.render(typeStyle, string(id)))
	}

	if len(r.Failures) > 0 {
		cmd.Println()
		cmd.Println(p.render(failureStyle, fmt.Sprintf("Failed modules (%d):", len(r.Failures))))
		for _, msg := range r.Failures {
			cmd.Printf("  %s %s\n", p.render(warningStyle, "!"), msg)
		}
	}
}
