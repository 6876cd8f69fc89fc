package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CrateFill/internal/export"
	"github.com/piwi3910/CrateFill/internal/project"
)

// newProjectCommand groups subcommands working on saved project files.
func newProjectCommand() *cobra.Command {
	return newGroupCommand("project", "Work with saved project files",
		newProjectPackCommand(),
	)
}

func newProjectPackCommand() *cobra.Command {
	var out packOutputs

	cmd := &cobra.Command{
		Use:   "pack PROJECT",
		Short: "Pack a project file and store the result back into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.LoadProject(args[0])
			if err != nil {
				return err
			}
			reapplySettingFlags(cmd, &p.Settings)
			input := backlogInput{Container: p.Container, Items: p.Items, Settings: p.Settings}

			result, err := runPack(cmd, input)
			if err != nil {
				return err
			}
			p.Result = &result
			if err := project.SaveProject(args[0], p); err != nil {
				return err
			}

			if !out.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", p.Name)
				if err := export.WriteReport(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}
			return writeOutputs(cmd, out, input, result)
		},
	}

	cmd.Flags().StringVar(&out.pdf, "pdf", "", "Write the level-by-level load plan PDF")
	cmd.Flags().StringVar(&out.labels, "labels", "", "Write a PDF sheet of QR labels")
	cmd.Flags().StringVar(&out.xlsx, "xlsx", "", "Write the manifest workbook")
	cmd.Flags().StringVar(&out.chart, "chart", "", "Write the layer fill chart PNG")
	cmd.Flags().StringVar(&out.session, "save-session", "", "Record the run in the session history under this name")
	cmd.Flags().BoolVarP(&out.quiet, "quiet", "q", false, "Do not print the report")
	return cmd
}
