package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/engine"
)

// newCompareCommand creates the "compare" subcommand that packs a backlog under alternative settings.
func newCompareCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "compare BACKLOG",
		Short: "Pack the backlog under what-if settings and rank the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			input, err := loadInput(cmd, args[0], &in)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(input.Settings)
			results := engine.CompareScenarios(scenarios, input.Container, input.Items, logger)
			best := engine.Best(results)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tSCENARIO\tPLACED\tFAILED\tUTILIZATION\tWEIGHT")
			for i, r := range results {
				mark := ""
				if i == best {
					mark = "*"
				}
				if r.Err != nil {
					logger.Warn("scenario failed", zap.String("scenario", r.Scenario.Name), zap.Error(r.Err))
					fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t%v\n", mark, r.Scenario.Name, r.Err)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f%%\t%.2f kg\n",
					mark, r.Scenario.Name, r.Placed, r.Failed, r.Utilization, r.Weight)
			}
			return tw.Flush()
		},
	}

	addInputFlags(cmd, &in)
	return cmd
}
