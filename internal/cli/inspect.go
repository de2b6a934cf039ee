package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cartonry/cartonry/pkg/meshio"
	"github.com/cartonry/cartonry/pkg/pipeline"
)

// newInspectCmd creates the inspect command, which prints the
// measurements of an STL file: bounding box, volume, surface area and
// triangle count.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the measurements of a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	mesh, err := meshio.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load mesh: %w", err)
	}
	desc, err := pipeline.Describe(mesh)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dimensions:   %.2f x %.2f x %.2f mm\n",
		desc.Dimensions.X(), desc.Dimensions.Y(), desc.Dimensions.Z())
	fmt.Fprintf(out, "box volume:   %.2f mm³\n", desc.BoxVolume)
	fmt.Fprintf(out, "mesh volume:  %.2f mm³\n", desc.MeshVolume)
	fmt.Fprintf(out, "surface area: %.2f mm²\n", desc.SurfaceArea)
	fmt.Fprintf(out, "triangles:    %d\n", desc.Triangles)
	return nil
}
