package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CrateFill/internal/export"
	"github.com/piwi3910/CrateFill/internal/session"
)

// newSessionsCommand groups the session history subcommands.
func newSessionsCommand() *cobra.Command {
	return newGroupCommand("sessions", "Browse recorded pack runs",
		newSessionsListCommand(),
		newSessionsShowCommand(),
		newSessionsDeleteCommand(),
	)
}

func openStore(cmd *cobra.Command) (*session.Store, error) {
	cfg := ConfigFromContext(cmd.Context())
	return session.Open(cfg.DBPath, LoggerFromContext(cmd.Context()))
}

func parseSessionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}

func newSessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED\tCONTAINER\tPLACED\tFAILED\tUTILIZATION")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%.2f%%\n",
					s.ID, s.Name, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Container,
					s.Placed, s.Failed, s.Utilization)
			}
			return tw.Flush()
		},
	}
}

func newSessionsShowCommand() *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print the report of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			s, err := store.Get(cmd.Context(), id)
			if errors.Is(err, session.ErrNotFound) {
				return fmt.Errorf("session %d not found", id)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session %d: %s (%s)\n\n", s.ID, s.Name, s.CreatedAt.Local().Format("2006-01-02 15:04"))
			if err := export.WriteReport(cmd.OutOrStdout(), s.Result); err != nil {
				return err
			}
			if pdfPath != "" {
				return export.ExportPDF(pdfPath, s.Result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write the stored load plan as PDF")
	return cmd
}

func newSessionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, session.ErrNotFound) {
					return fmt.Errorf("session %d not found", id)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %d\n", id)
			return nil
		},
	}
}
