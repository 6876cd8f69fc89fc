package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CrateFill/internal/project"
)

// newBackupCommand groups the backup subcommands.
func newBackupCommand() *cobra.Command {
	return newGroupCommand("backup", "Export or restore the catalog and templates",
		newBackupExportCommand(),
		newBackupImportCommand(),
	)
}

func newBackupExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Write catalog and templates to one backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFromContext(cmd.Context())
			cat, err := project.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return err
			}
			templates, err := project.LoadTemplates(cfg.TemplatesPath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cat, templates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
			return nil
		},
	}
}

func newBackupImportCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Restore catalog and templates from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFromContext(cmd.Context())
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}

			cat := backup.Catalog
			templates := backup.Templates
			if !replace {
				if cat, err = project.LoadCatalog(cfg.CatalogPath()); err != nil {
					return err
				}
				cat.Merge(backup.Catalog)
				if templates, err = project.LoadTemplates(cfg.TemplatesPath()); err != nil {
					return err
				}
				for _, t := range backup.Templates.Templates {
					if templates.FindByID(t.ID) == nil {
						templates.Add(t)
					}
				}
			}

			if err := project.SaveCatalog(cfg.CatalogPath(), cat); err != nil {
				return err
			}
			if err := project.SaveTemplates(cfg.TemplatesPath(), templates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d containers, %d boxes, %d templates\n",
				len(cat.Containers), len(cat.Boxes), len(templates.Templates))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace existing data instead of merging")
	return cmd
}
