package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tvschema/internal/build"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts build.Options
	var jsonOutput bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Merge, classify and publish the TV database",
		Long: `Merge the specification table with the spectral classification table,
derive the display technology schema and write the CSV and JSON outputs.

Use --dry-run to classify and print the summary without writing files or
recording the run in the history store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts.Logger = logger

			rep, err := build.Run(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, rep)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			renderBuildReport(out, rep, colorize)
			if !quiet {
				fmt.Fprintln(out)
				renderSummary(out, rep.Summary, colorize)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SpecsPath, "specs", "", "Specification table (.csv or .json)")
	cmd.Flags().StringVar(&opts.SpectralPath, "spectral", "", "Spectral classification table (.csv or .json)")
	cmd.Flags().StringVar(&opts.OutputCSV, "out-csv", "", "Output CSV path")
	cmd.Flags().StringVar(&opts.OutputJSON, "out-json", "", "Output JSON path")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Classify without writing outputs or history")
	cmd.Flags().DurationVar(&opts.LockTimeout, "lock-timeout", 5*time.Second, "Wait this long for a concurrent build to release the output directory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the build report as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the schema summary")
	return cmd
}

func renderBuildReport(out io.Writer, rep *build.Report, colorize bool) {
	for _, line := range renderSectionHeader("Build", colorize) {
		fmt.Fprintln(out, line)
	}
	var block statusBlock
	block.add("Run", statusInfo, shortRunID(rep.RunID))
	block.addf("Products", statusOK, "%d classified", rep.Products)
	block.addf("Spectral matches", statusInfo, "%d matched, %d without spectral data", rep.Merge.Matched, rep.Merge.Unmatched)
	if n := len(rep.Merge.DuplicateSpecIDs); n > 0 {
		block.addf("Duplicate product ids", statusWarn, "%d", n)
	}
	if n := len(rep.Merge.Orphans); n > 0 {
		block.addf("Orphan spectral rows", statusWarn, "%d dropped", n)
	}
	block.addf("Reclassified", statusInfo, "%d KSF -> Pseudo QD", len(rep.Reclassified))
	ksfKind := statusOK
	if len(rep.UnresolvedKSF) > 0 {
		ksfKind = statusWarn
	}
	block.addf("Unresolved KSF", ksfKind, "%d", len(rep.UnresolvedKSF))
	for _, flag := range rep.UnrecognizedBacklights {
		block.addf("Unrecognized backlight", statusWarn, "%q on %d products", flag.Value, flag.Count)
	}
	for _, fold := range rep.FoldedBrands {
		block.addf("Brand spelling", statusWarn, "%q matched %q on %d products", fold.Brand, fold.Configured, len(fold.ProductIDs))
	}
	block.add("Marketing rules", statusInfo, rep.RulesSource)

	if rep.DryRun {
		block.add("Outputs", statusSkip, "dry run, nothing written")
	} else {
		for _, path := range rep.Outputs {
			block.add("Wrote", statusOK, path)
		}
		if rep.StoreSaved {
			block.add("History", statusOK, "saved")
		} else {
			block.add("History", statusSkip, "not recorded")
		}
	}
	block.render(out, colorize)

	if len(rep.Reclassified) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(rep.Reclassified))
		for _, item := range rep.Reclassified {
			rows = append(rows, []string{item.ProductID, item.Name, item.MarketingLabel})
		}
		fmt.Fprintln(out, renderTable([]string{"Product", "Name", "Marketed as"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
