package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tvschema/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify inputs, output directories and rule overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)
			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				block := checkBlock(results)
				if ctx.configPath != "" {
					block.lines = append([]statusLine{{label: "Config", kind: statusInfo, message: ctx.configPath}}, block.lines...)
				}
				block.render(out, colorize)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New(pluralChecks(len(failed)) + " failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print check results as JSON")
	return cmd
}

func checkBlock(results []preflight.Result) *statusBlock {
	block := &statusBlock{}
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		block.add(r.Name, kind, r.Detail)
	}
	return block
}
func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
