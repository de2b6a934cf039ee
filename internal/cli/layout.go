package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/cartonry/cartonry/pkg/box"
	"github.com/cartonry/cartonry/pkg/layout"
	"github.com/cartonry/cartonry/pkg/meshio"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	config string // design request TOML path
	outDir string // output directory for SVGs and placements.json
	prefix string // output file name prefix
}

// newLayoutCmd creates the layout command. It computes the box
// dimensions from the configured product (the same optimization the
// design command runs), places the [text] elements on the box
// surfaces, and writes one SVG per used surface plus a
// placements.json manifest.
func newLayoutCmd() *cobra.Command {
	opts := layoutOpts{outDir: ".", prefix: "label"}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Place label text on the box surfaces and export SVGs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "design request TOML file (required)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", opts.outDir, "output directory")
	cmd.Flags().StringVar(&opts.prefix, "prefix", opts.prefix, "output file name prefix")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runLayout(cmd *cobra.Command, opts *layoutOpts) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	content, err := cfg.textContent()
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("config %s: no [text] elements to lay out", opts.config)
	}

	dims, err := boxDims(cfg)
	if err != nil {
		return err
	}
	logger.Debug("box dimensions", "dims", dims)

	placements := layout.NewEngine(logger).Layout(dims, content)

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	paths, err := layout.SaveSVGs(opts.outDir, opts.prefix, dims, placements)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Info("wrote surface", "path", p)
	}

	manifest := filepath.Join(opts.outDir, opts.prefix+"_placements.json")
	data, err := json.MarshalIndent(placements, "", "  ")
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}
	if err := os.WriteFile(manifest, data, 0o644); err != nil {
		return fmt.Errorf("write placements: %w", err)
	}
	logger.Info("wrote placements", "path", manifest, "elements", len(placements))

	fmt.Fprintf(cmd.OutOrStdout(), "placed %d elements on %d surfaces\n",
		len(placements), len(paths))
	return nil
}

// boxDims computes the optimized box dimensions for the configured
// product, matching what the design command would generate.
func boxDims(cfg *designConfig) (mgl64.Vec3, error) {
	product, err := meshio.ReadFile(cfg.Product)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("load product: %w", err)
	}
	bb, err := product.BoundingBox()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return box.OptimizeDimensions(bb, cfg.Box.Padding, cfg.constraints()), nil
}
