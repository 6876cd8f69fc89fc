package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/project"
)

// newCatalogCommand groups the container and box preset subcommands.
func newCatalogCommand() *cobra.Command {
	return newGroupCommand("catalog", "Manage container and box presets",
		newCatalogListCommand(),
		newCatalogExportCommand(),
		newCatalogImportCommand(),
	)
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List container and box presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := ConfigFromContext(cmd.Context())
			cat, err := project.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CONTAINER\tID\tW x H x D (mm)\tMAX KG")
			for _, c := range cat.Containers {
				fmt.Fprintf(tw, "%s\t%s\t%g x %g x %g\t%g\n", c.Name, c.ID, c.Width, c.Height, c.Depth, c.MaxWeight)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "BOX\tID\tW x H x D (mm)\tKG\tROTATABLE")
			for _, b := range cat.Boxes {
				fmt.Fprintf(tw, "%s\t%s\t%g x %g x %g\t%g\t%s\n", b.Name, b.ID, b.Width, b.Height, b.Depth, b.Weight, yesNo(b.Rotatable))
			}
			return tw.Flush()
		},
	}
}

func newCatalogExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Write the catalog to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFromContext(cmd.Context())
			cat, err := project.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return err
			}
			if err := project.SaveCatalog(args[0], cat); err != nil {
				return err
			}
			LoggerFromContext(cmd.Context()).Info("catalog exported", zap.String("path", args[0]))
			return nil
		},
	}
}

func newCatalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Merge presets from a catalog JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFromContext(cmd.Context())
			cat, err := project.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return err
			}
			merged, added, err := project.ImportCatalog(args[0], cat)
			if err != nil {
				return err
			}
			if err := project.SaveCatalog(cfg.CatalogPath(), merged); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d presets\n", added)
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
