package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/importer"
	"github.com/piwi3910/CrateFill/internal/model"
	"github.com/piwi3910/CrateFill/internal/project"
)

// inputFlags select the container and DXF extrusion for a backlog file.
type inputFlags struct {
	container    string
	maxWeight    float64
	preset       string
	dxfThickness float64
	dxfWeight    float64
	dxfQuantity  int
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	cmd.Flags().StringVar(&f.container, "container", "", "Container size as WIDTHxHEIGHTxDEPTH in mm")
	cmd.Flags().Float64Var(&f.maxWeight, "max-weight", 0, "Container weight limit in kg (with --container)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Container preset name or ID from the catalog")
	cmd.Flags().Float64Var(&f.dxfThickness, "dxf-thickness", 0, "Extrusion height for DXF outlines in mm (default one grid cell)")
	cmd.Flags().Float64Var(&f.dxfWeight, "dxf-weight", 0, "Weight per DXF part in kg")
	cmd.Flags().IntVar(&f.dxfQuantity, "dxf-qty", 1, "Units per DXF outline")
}

// backlogInput is a container, its items and the settings to pack them with.
type backlogInput struct {
	Container model.Container
	Items     []model.Item
	Settings  model.PackSettings
}

// loadInput reads a backlog file, choosing the reader by extension. JSON
// backlogs carry their own container and settings; flags given on the
// command line take precedence over both.
func loadInput(cmd *cobra.Command, path string, f *inputFlags) (backlogInput, error) {
	cfg := ConfigFromContext(cmd.Context())
	logger := LoggerFromContext(cmd.Context())
	in := backlogInput{Settings: cfg.Pack}

	var res importer.ImportResult
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		b, err := importer.LoadBacklog(path, cfg.Pack)
		if err != nil {
			return in, err
		}
		in.Container = b.Container
		in.Items = b.Items
		if b.Settings != nil {
			in.Settings = *b.Settings
			reapplySettingFlags(cmd, &in.Settings)
		}
	case ".csv", ".tsv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(path)
	case ".dxf":
		opts := importer.DefaultDXFOptions(cfg.Pack.GridSize)
		if f.dxfThickness > 0 {
			opts.Thickness = f.dxfThickness
		}
		opts.Weight = f.dxfWeight
		if f.dxfQuantity > 0 {
			opts.Quantity = f.dxfQuantity
		}
		res = importer.ImportDXF(path, opts)
	default:
		return in, fmt.Errorf("unsupported backlog format %q", ext)
	}

	for _, w := range res.Warnings {
		logger.Warn("import warning", zap.String("path", path), zap.String("warning", w))
	}
	if len(res.Errors) > 0 {
		return in, fmt.Errorf("import %s: %s", path, strings.Join(res.Errors, "; "))
	}
	if res.Items != nil {
		in.Items = res.Items
	}

	if f.container != "" || f.preset != "" {
		c, err := resolveContainer(cmd, f)
		if err != nil {
			return in, err
		}
		in.Container = c
	} else if in.Container.Volume() == 0 {
		return in, fmt.Errorf("%s has no container: pass --container or --preset", path)
	}

	logger.Debug("backlog loaded",
		zap.String("path", path),
		zap.Int("items", len(in.Items)),
		zap.Float64("container_width", in.Container.Width),
		zap.Float64("container_height", in.Container.Height),
		zap.Float64("container_depth", in.Container.Depth))
	return in, nil
}

// reapplySettingFlags restores explicitly set pack flags over settings read
// from a backlog file.
func reapplySettingFlags(cmd *cobra.Command, s *model.PackSettings) {
	flags := cmd.Flags()
	if flags.Changed("grid") {
		s.GridSize, _ = flags.GetInt("grid")
	}
	if flags.Changed("support") {
		s.SupportThreshold, _ = flags.GetFloat64("support")
	}
	if flags.Changed("rotation") {
		s.AllowRotation, _ = flags.GetBool("rotation")
	}
}

func resolveContainer(cmd *cobra.Command, f *inputFlags) (model.Container, error) {
	if f.preset != "" {
		cfg := ConfigFromContext(cmd.Context())
		cat, err := project.LoadCatalog(cfg.CatalogPath())
		if err != nil {
			return model.Container{}, fmt.Errorf("load catalog: %w", err)
		}
		p := cat.FindContainerByName(f.preset)
		if p == nil {
			p = cat.FindContainerByID(f.preset)
		}
		if p == nil {
			return model.Container{}, fmt.Errorf("container preset %q not found", f.preset)
		}
		c := p.ToContainer()
		if f.maxWeight > 0 {
			c.MaxWeight = f.maxWeight
		}
		return c, nil
	}

	dims, err := parseDims(f.container)
	if err != nil {
		return model.Container{}, err
	}
	return model.NewContainer(dims[0], dims[1], dims[2], f.maxWeight), nil
}

// parseDims parses "WxHxD" (x, X or * separated) into three positive sizes.
func parseDims(s string) ([3]float64, error) {
	var dims [3]float64
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == 'x' || r == 'X' || r == '*' || r == '×'
	})
	if len(parts) != 3 {
		return dims, fmt.Errorf("container %q: expected WIDTHxHEIGHTxDEPTH", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 {
			return dims, fmt.Errorf("container %q: invalid dimension %q", s, p)
		}
		dims[i] = v
	}
	return dims, nil
}
