package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/model"
	"github.com/piwi3910/CrateFill/internal/project"
)

// newTemplatesCommand groups the load template subcommands.
func newTemplatesCommand() *cobra.Command {
	return newGroupCommand("templates", "Save and reuse recurring loads",
		newTemplatesListCommand(),
		newTemplatesSaveCommand(),
		newTemplatesUseCommand(),
		newTemplatesDeleteCommand(),
	)
}

func loadTemplateStore(cmd *cobra.Command) (model.TemplateStore, string, error) {
	path := ConfigFromContext(cmd.Context()).TemplatesPath()
	store, err := project.LoadTemplates(path)
	return store, path, err
}

func newTemplatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved load templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := loadTemplateStore(cmd)
			if err != nil {
				return err
			}
			if len(store.Templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates saved.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tID\tITEMS\tUNITS\tDESCRIPTION")
			for _, t := range store.Templates {
				units := 0
				for _, it := range t.Items {
					units += it.Quantity
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", t.Name, t.ID, len(t.Items), units, t.Description)
			}
			return tw.Flush()
		},
	}
}

func newTemplatesSaveCommand() *cobra.Command {
	var (
		in          inputFlags
		description string
	)

	cmd := &cobra.Command{
		Use:   "save NAME BACKLOG",
		Short: "Save a backlog and its container as a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadInput(cmd, args[1], &in)
			if err != nil {
				return err
			}
			store, path, err := loadTemplateStore(cmd)
			if err != nil {
				return err
			}
			if existing := store.FindByName(args[0]); existing != nil {
				store.Remove(existing.ID)
			}
			store.Add(model.NewLoadTemplate(args[0], description, input.Container, input.Items, input.Settings))
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			LoggerFromContext(cmd.Context()).Info("template saved", zap.String("name", args[0]))
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().StringVar(&description, "description", "", "Template description")
	return cmd
}

func newTemplatesUseCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "use TEMPLATE PROJECT",
		Short: "Start a project file from a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := loadTemplateStore(cmd)
			if err != nil {
				return err
			}
			t := store.FindByName(args[0])
			if t == nil {
				t = store.FindByID(args[0])
			}
			if t == nil {
				return fmt.Errorf("template %q not found", args[0])
			}
			if name == "" {
				name = t.Name
			}
			if err := project.SaveProject(args[1], t.ToProject(name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s from template %s\n", args[1], t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (defaults to the template name)")
	return cmd
}

func newTemplatesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TEMPLATE",
		Short: "Delete a template by name or ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, path, err := loadTemplateStore(cmd)
			if err != nil {
				return err
			}
			id := args[0]
			if t := store.FindByName(args[0]); t != nil {
				id = t.ID
			}
			if !store.Remove(id) {
				return fmt.Errorf("template %q not found", args[0])
			}
			return project.SaveTemplates(path, store)
		},
	}
}
