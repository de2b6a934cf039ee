package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/cartonry/cartonry/pkg/meshio"
	"github.com/cartonry/cartonry/pkg/pipeline"
)

// designOpts holds the command-line flags for the design command.
type designOpts struct {
	config string // design request TOML path
	outDir string // output directory for generated meshes
}

// newDesignCmd creates the design command. It runs the full pipeline:
// load the product mesh, optimize the box dimensions, generate the
// shell and holder, and write shell.stl, holder.stl and package.stl
// to the output directory.
func newDesignCmd() *cobra.Command {
	opts := designOpts{outDir: "."}

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Generate a box shell and internal holder for a product mesh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesign(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "design request TOML file (required)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", opts.outDir, "output directory")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runDesign(cmd *cobra.Command, opts *designOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	boxType, err := cfg.boxType()
	if err != nil {
		return err
	}
	holderSpec, err := cfg.holderSpec()
	if err != nil {
		return err
	}

	product, err := meshio.ReadFile(cfg.Product)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	logger.Debug("loaded product", "path", cfg.Product, "triangles", product.TriangleCount())

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := newProgress(logger)
	runner := pipeline.NewRunner(newKernel(), logger)
	result, err := runner.Run(ctx, pipeline.Request{
		Product:       product,
		BoxType:       boxType,
		Padding:       cfg.Box.Padding,
		WallThickness: cfg.Box.WallThickness,
		Constraints:   cfg.constraints(),
		Holder:        holderSpec,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Generated package %.0fx%.0fx%.0f mm",
		result.Dims.X(), result.Dims.Y(), result.Dims.Z()))

	for _, out := range []struct {
		name string
		mesh *geom.Mesh
	}{
		{"shell.stl", result.Shell},
		{"holder.stl", result.Holder},
		{"package.stl", result.Combined},
	} {
		path := filepath.Join(opts.outDir, out.name)
		if err := meshio.WriteFile(path, out.mesh); err != nil {
			return fmt.Errorf("write %s: %w", out.name, err)
		}
		logger.Info("wrote mesh", "path", path, "triangles", out.mesh.TriangleCount())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "job %s: box %.1f x %.1f x %.1f mm, product volume %.1f mm³\n",
		result.JobID, result.Dims.X(), result.Dims.Y(), result.Dims.Z(), result.Product.MeshVolume)
	return nil
}
