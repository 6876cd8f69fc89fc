package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/engine"
	"github.com/piwi3910/CrateFill/internal/export"
	"github.com/piwi3910/CrateFill/internal/model"
	"github.com/piwi3910/CrateFill/internal/project"
	"github.com/piwi3910/CrateFill/internal/session"
)

// packOutputs lists optional artifacts written after a run.
type packOutputs struct {
	pdf         string
	labels      string
	xlsx        string
	report      string
	chart       string
	projectPath string
	session     string
	quiet       bool
}

// newPackCommand creates the "pack" subcommand that loads a backlog into its container.
func newPackCommand() *cobra.Command {
	var (
		in  inputFlags
		out packOutputs
	)

	cmd := &cobra.Command{
		Use:   "pack BACKLOG",
		Short: "Pack a backlog (json, csv, xlsx or dxf) into a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			input, err := loadInput(cmd, args[0], &in)
			if err != nil {
				return err
			}

			result, err := runPack(cmd, input)
			if err != nil {
				return err
			}

			if !out.quiet {
				if err := export.WriteReport(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}
			if err := writeOutputs(cmd, out, input, result); err != nil {
				return err
			}

			logger.Info("pack finished",
				zap.Int("placed", result.PlacedCount()),
				zap.Int("failed", result.FailedCount()),
				zap.Float64("utilization", result.Utilization),
				zap.Duration("elapsed", result.Elapsed))
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().StringVar(&out.pdf, "pdf", "", "Write the level-by-level load plan PDF")
	cmd.Flags().StringVar(&out.labels, "labels", "", "Write a PDF sheet of QR labels, one per placed unit")
	cmd.Flags().StringVar(&out.xlsx, "xlsx", "", "Write the manifest workbook")
	cmd.Flags().StringVar(&out.report, "report", "", "Also write the text report to a file")
	cmd.Flags().StringVar(&out.chart, "chart", "", "Write the layer fill chart PNG")
	cmd.Flags().StringVar(&out.projectPath, "save-project", "", "Save inputs and result as a project file")
	cmd.Flags().StringVar(&out.session, "save-session", "", "Record the run in the session history under this name")
	cmd.Flags().BoolVarP(&out.quiet, "quiet", "q", false, "Do not print the report")

	return cmd
}

// runPack packs in the background and logs progress at roughly every tenth
// of the backlog.
func runPack(cmd *cobra.Command, input backlogInput) (model.PackResult, error) {
	logger := LoggerFromContext(cmd.Context())

	run := engine.RunAsync(cmd.Context(), input.Settings, input.Container, input.Items, engine.WithLogger(logger))
	lastDecile := -1
	for p := range run.Progress {
		if p.Total == 0 {
			continue
		}
		decile := p.Completed * 10 / p.Total
		if decile != lastDecile {
			lastDecile = decile
			logger.Debug("packing", zap.Int("completed", p.Completed), zap.Int("total", p.Total))
		}
	}
	result, err := run.Wait()
	if err != nil {
		return model.PackResult{}, err
	}
	return result, nil
}

func writeOutputs(cmd *cobra.Command, out packOutputs, input backlogInput, result model.PackResult) error {
	logger := LoggerFromContext(cmd.Context())

	writers := []struct {
		path  string
		kind  string
		write func(string, model.PackResult) error
	}{
		{out.pdf, "load plan", export.ExportPDF},
		{out.labels, "labels", export.ExportLabels},
		{out.xlsx, "manifest", export.ExportExcel},
		{out.report, "report", export.SaveReport},
		{out.chart, "chart", export.SaveLayerFillChart},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := w.write(w.path, result); err != nil {
			return fmt.Errorf("write %s: %w", w.kind, err)
		}
		logger.Info("wrote "+w.kind, zap.String("path", w.path))
	}

	if out.projectPath != "" {
		p := model.NewProject()
		p.Name = strings.TrimSuffix(filepath.Base(out.projectPath), filepath.Ext(out.projectPath))
		p.Container = input.Container
		p.Items = input.Items
		p.Settings = input.Settings
		p.Result = &result
		if err := project.SaveProject(out.projectPath, p); err != nil {
			return err
		}
		logger.Info("wrote project", zap.String("path", out.projectPath))
	}

	if out.session != "" {
		cfg := ConfigFromContext(cmd.Context())
		store, err := session.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(cmd.Context(), out.session, input.Container, input.Items, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved session %d (%s)\n", id, out.session)
	}
	return nil
}
