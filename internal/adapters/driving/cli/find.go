package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driving"
)

var (
	findAll    bool
	findStrict bool
	findRecord bool
	findJSON   bool
)

var findCmd = &cobra.Command{
	Use:   "find [contract]",
	Short: "Find types satisfying a contract",
	Long: `Finds every class in the working set that satisfies the contract.

A contract is a type ID such as "github.com/acme/shop.Entity". An open
generic contract is written "open:pkg.Repository" or "pkg.Repository[]"
and matches types implementing any closed instance of it.

Abstract classes are excluded unless --all is given. Interfaces never match.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

var derivedCmd = &cobra.Command{
	Use:   "derived [definition...]",
	Short: "Find types derived from generic definitions",
	Long: `Finds every type whose direct base is a closed instance of one of the
given generic definitions, e.g. "pkg.EntityConfig".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDerived,
}

func init() {
	findCmd.Flags().BoolVarP(&findAll, "all", "a", false, "include abstract classes")
	findCmd.Flags().BoolVar(&findStrict, "strict", false, "fail when a module's types cannot be enumerated")
	findCmd.Flags().BoolVar(&findRecord, "record", false, "store the scan in the catalog")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "output results as JSON")
	derivedCmd.Flags().BoolVar(&findStrict, "strict", false, "fail when a module's types cannot be enumerated")
	derivedCmd.Flags().BoolVar(&findJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(derivedCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	contract, err := domain.ParseContract(args[0])
	if err != nil {
		return err
	}

	finder, err := requireFinder()
	if err != nil {
		return err
	}
	if err := applyStrict(finder); err != nil {
		return err
	}

	started := time.Now()
	concreteOnly := !findAll
	types, scanErr := finder.FindTypes(contract, concreteOnly)
	if scanErr != nil && !isEnumerationError(scanErr) {
		return fmt.Errorf("scan failed: %w", scanErr)
	}

	if findRecord {
		if err := recordScan(cmd.Context(), finder, driving.ScanOutcome{
			Contract:     contract,
			ConcreteOnly: concreteOnly,
			StartedAt:    started,
			Types:        types,
			Err:          scanErr,
		}, cmd); err != nil {
			return err
		}
	}

	return report(cmd, types, scanErr)
}

func runDerived(cmd *cobra.Command, args []string) error {
	definitions := make([]domain.TypeID, 0, len(args))
	for _, arg := range args {
		definitions = append(definitions, domain.TypeID(arg))
	}

	finder, err := requireFinder()
	if err != nil {
		return err
	}
	if err := applyStrict(finder); err != nil {
		return err
	}

	types, scanErr := finder.FindDerivedOf(definitions...)
	if scanErr != nil && !isEnumerationError(scanErr) {
		return fmt.Errorf("scan failed: %w", scanErr)
	}
	return report(cmd, types, scanErr)
}

// applyStrict turns on strict enumeration when --strict was given.
// Strict mode from settings is kept otherwise.
func applyStrict(finder driving.TypeFinder) error {
	if !findStrict {
		return nil
	}
	filter := finder.Filter()
	filter.Strict = true
	return finder.SetFilter(filter)
}

func recordScan(ctx context.Context, finder driving.TypeFinder, scan driving.ScanOutcome, cmd *cobra.Command) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	modules, err := finder.WorkingModuleSet()
	if err != nil {
		return fmt.Errorf("building working set: %w", err)
	}
	scan.Modules = modules

	record, err := catalogService.Record(ctx, scan)
	if err != nil {
		return fmt.Errorf("recording scan: %w", err)
	}
	if !findJSON {
		cmd.Printf("Recorded scan %s\n", record.ID)
	}
	return nil
}

// report prints matches and any enumeration failures. The failures are
// returned so the command exits non-zero.
func report(cmd *cobra.Command, types []domain.TypeDescriptor, scanErr error) error {
	if findJSON {
		if err := outputTypesJSON(cmd, types, scanErr); err != nil {
			return err
		}
	} else {
		outputTypesTable(cmd, types)
		outputFailures(cmd, scanErr)
	}

	if scanErr != nil {
		return fmt.Errorf("scan incomplete: %w", scanErr)
	}
	return nil
}

type typeJSON struct {
	ID       domain.TypeID `json:"id"`
	Module   string        `json:"module"`
	Abstract bool          `json:"abstract,omitempty"`
	Base     domain.TypeID `json:"base,omitempty"`
}

type resultJSON struct {
	Types    []typeJSON `json:"types"`
	Failures []string   `json:"failures,omitempty"`
}

func outputTypesJSON(cmd *cobra.Command, types []domain.TypeDescriptor, scanErr error) error {
	out := resultJSON{Types: make([]typeJSON, 0, len(types))}
	for _, t := range types {
		entry := typeJSON{ID: t.ID, Module: t.Module, Abstract: t.Abstract}
		if t.Base != nil {
			entry.Base = t.Base.ID
		}
		out.Types = append(out.Types, entry)
	}

	var agg *domain.TypeEnumerationError
	if errors.As(scanErr, &agg) {
		out.Failures = agg.Messages()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputTypesTable(cmd *cobra.Command, types []domain.TypeDescriptor) {
	p := newPainter(cmd.OutOrStdout())
	if len(types) == 0 {
		cmd.Println("No matching types found.")
		return
	}

	cmd.Println(p.render(headingStyle, fmt.Sprintf("Types (%d):", len(types))))
	for _, t := range types {
		line := "  " + p.render(typeStyle, string(t.ID))
		if t.Abstract {
			line += " " + p.render(abstractStyle, "abstract")
		}
		line += "  " + p.render(dimStyle, t.Module)
		cmd.Println(line)
	}
}

func outputFailures(cmd *cobra.Command, scanErr error) {
	var agg *domain.TypeEnumerationError
	if !errors.As(scanErr, &agg) {
		return
	}

	p := newPainter(cmd.OutOrStdout())
	cmd.Println()
	cmd.Println(p.render(failureStyle, fmt.Sprintf("Failed modules (%d):", len(agg.Failures))))
	for _, msg := range agg.Messages() {
		cmd.Printf("  %s %s\n", p.render(warningStyle, "!"), msg)
	}
}

func isEnumerationError(err error) bool {
	var agg *domain.TypeEnumerationError
	return errors.As(err, &agg)
}
