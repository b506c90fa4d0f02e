package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tvschema/internal/report"
	"tvschema/internal/store"
)

type summaryOutput struct {
	Run              store.Run                `json:"run"`
	Summary          report.Summary           `json:"summary"`
	Reclassification []store.Reclassification `json:"reclassified"`
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize a stored build (latest by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				run, err := resolveRun(cmd, st, runID)
				if err != nil {
					return err
				}
				table, err := st.LoadRecords(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				items, err := st.LoadReclassifications(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				result := summaryOutput{Run: *run, Summary: report.Build(table), Reclassification: items}
				if jsonOutput {
					return writeJSON(cmd, result)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Run %s finished %s (%d products)\n\n",
					run.ID, run.FinishedAt.Local().Format("2006-01-02 15:04:05"), run.TotalProducts)
				renderSummary(out, result.Summary, colorize)
				if len(items) > 0 {
					fmt.Fprintln(out)
					for _, line := range renderSectionHeader(fmt.Sprintf("Reclassified as Pseudo QD (%d)", len(items)), colorize) {
						fmt.Fprintln(out, line)
					}
					rows := make([][]string, 0, len(items))
					for _, item := range items {
						rows = append(rows, []string{item.Name, item.MarketingLabel})
					}
					fmt.Fprintln(out, renderTable([]string{"Name", "Marketed as"}, rows, nil))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id (defaults to the latest run)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	return cmd
}

func resolveRun(cmd *cobra.Command, st *store.Store, runID string) (*store.Run, error) {
	if runID != "" {
		return st.GetRun(cmd.Context(), runID)
	}
	run, err := st.LatestRun(cmd.Context())
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, errors.New("no builds recorded yet; run `tvschema build` first")
	}
	return run, nil
}
