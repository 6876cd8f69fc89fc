package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CrateFill/internal/model"
)

// newEstimateCommand creates the "estimate" subcommand that checks a backlog against its container without packing.
func newEstimateCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "estimate BACKLOG",
		Short: "Compare backlog volume and weight with the container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadInput(cmd, args[0], &in)
			if err != nil {
				return err
			}
			est := model.EstimateLoad(input.Items, input.Container, input.Settings.GridSize)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Units:\t%d\n", est.Units)
			fmt.Fprintf(tw, "Backlog volume:\t%.3f m3\n", est.BacklogVolume/1e9)
			fmt.Fprintf(tw, "Grid volume:\t%.3f m3 (container %.3f m3)\n", est.GridVolume/1e9, est.ContainerVolume/1e9)
			fmt.Fprintf(tw, "Volume ratio:\t%.1f%%\n", est.VolumeRatio*100)
			fmt.Fprintf(tw, "Backlog weight:\t%.2f / %.2f kg\n", est.BacklogWeight, est.MaxWeight)
			fmt.Fprintf(tw, "Weight ratio:\t%.1f%%\n", est.WeightRatio*100)
			fmt.Fprintf(tw, "Limiting factor:\t%s\n", est.LimitingFactor)
			return tw.Flush()
		},
	}

	addInputFlags(cmd, &in)
	return cmd
}
