package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tvschema/internal/rules"
	"tvschema/internal/taxonomy"
	"tvschema/internal/textutil"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the marketing label rule table",
	}
	rulesCmd.AddCommand(newRulesDumpCommand())
	rulesCmd.AddCommand(newRulesListCommand(ctx))
	rulesCmd.AddCommand(newRulesLabelCommand(ctx))
	return rulesCmd
}

func newRulesDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "dump",
		Short:       "Print the built-in rule table as YAML",
		Long:        "Print the built-in rule table. Save the output, edit it and set classification.marketing_rules_path to use it.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(rules.DefaultYAML())
			return err
		},
	}
}

func newRulesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the effective rules per brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := effectiveCatalog(ctx)
			if err != nil {
				return err
			}
			table, err := catalog.Table()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", catalog.Source())
			var rows [][]string
			for _, brand := range table.Brands {
				if len(brand.Rules) == 0 {
					rows = append(rows, []string{brand.Brand, "-", "(no label)", ""})
					continue
				}
				for i, rule := range brand.Rules {
					rows = append(rows, []string{brand.Brand, fmt.Sprintf("%d", i+1), textutil.OrDash(rule.Label), describeRule(rule)})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Brand", "#", "Label", "When"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
}

func newRulesLabelCommand(ctx *commandContext) *cobra.Command {
	var arch string
	cmd := &cobra.Command{
		Use:   "label <brand> <fullname>",
		Short: "Show the marketing label a product name would receive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := effectiveCatalog(ctx)
			if err != nil {
				return err
			}
			table, err := catalog.Table()
			if err != nil {
				return err
			}
			match := table.Lookup(args[0], args[1], taxonomy.ColorArchitecture(strings.TrimSpace(arch)))
			out := cmd.OutOrStdout()
			switch {
			case !match.KnownBrand:
				fmt.Fprintf(out, "No rules for brand %q; label is empty\n", args[0])
			case match.Rule < 0:
				fmt.Fprintln(out, "No rule matched; label is empty")
			default:
				fmt.Fprintf(out, "%s (rule %d)\n", match.Label, match.Rule+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&arch, "arch", "", "Raw spectral color architecture (e.g. KSF, QD-LCD)")
	return cmd
}

func effectiveCatalog(ctx *commandContext) (*rules.Catalog, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	return rules.NewCatalog(cfg.Classification.MarketingRulesPath, logger), nil
}

func describeRule(rule rules.Rule) string {
	var parts []string
	if rule.Prefix != "" {
		parts = append(parts, fmt.Sprintf("starts with %q", rule.Prefix))
	}
	if len(rule.ContainsAll) > 0 {
		parts = append(parts, "all of "+strings.Join(rule.ContainsAll, ", "))
	}
	if len(rule.ContainsAny) > 0 {
		parts = append(parts, "any of "+strings.Join(rule.ContainsAny, ", "))
	}
	if len(rule.Excludes) > 0 {
		parts = append(parts, "none of "+strings.Join(rule.Excludes, ", "))
	}
	if len(rule.Architectures) > 0 {
		archs := make([]string, len(rule.Architectures))
		for i, a := range rule.Architectures {
			archs[i] = a.String()
		}
		parts = append(parts, "arch in "+strings.Join(archs, ", "))
	}
	if len(parts) == 0 {
		return "always"
	}
	return strings.Join(parts, "; ")
}
