package layout

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/go-gl/mathgl/mgl64"
)

// WriteSurfaceSVG renders the placements assigned to one surface as an
// SVG panel, one text element per placement. Coordinates are
// millimeters interpreted as SVG user units; the consuming print
// pipeline applies physical units.
func WriteSurfaceSVG(w io.Writer, surface Surface, dims mgl64.Vec3, placements []Placement) error {
	width, height := surface.Extent(dims)

	canvas := svg.New(w)
	canvas.Start(round(width), round(height))
	canvas.Rect(0, 0, round(width), round(height), "fill:white;stroke:black;stroke-width:1")

	for _, p := range placements {
		if p.Surface != surface {
			continue
		}
		style := fmt.Sprintf("font-size:%g;font-weight:%s;fill:%s;text-anchor:middle",
			p.Style.FontSize, weightOrDefault(p.Style.Weight), colorOrDefault(p.Style.Color))

		rotated := p.Orientation != Horizontal
		if rotated {
			canvas.Gtransform(fmt.Sprintf("rotate(%d %d %d)", int(p.Orientation), round(p.X), round(p.Y)))
		}

		// One <text> per line, stepped by the line height.
		lines := strings.Split(p.Content, "\n")
		lineH := p.Style.FontSize * lineHeightFactor
		y := p.Y - lineH*float64(len(lines)-1)/2
		for _, line := range lines {
			canvas.Text(round(p.X), round(y), line, style)
			y += lineH
		}

		if rotated {
			canvas.Gend()
		}
	}

	canvas.End()
	return nil
}

// SaveSVGs writes one SVG file per surface that has at least one
// placement, named <prefix>_<surface>.svg under dir. It returns the
// written paths in surface order.
func SaveSVGs(dir, prefix string, dims mgl64.Vec3, placements []Placement) ([]string, error) {
	used := make(map[Surface]bool)
	for _, p := range placements {
		used[p.Surface] = true
	}

	var paths []string
	for _, s := range surfaceOrder {
		if !used[s] {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.svg", prefix, s))
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("layout: creating %s: %w", path, err)
		}
		err = WriteSurfaceSVG(f, s, dims, placements)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("layout: writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func round(v float64) int {
	return int(math.Round(v))
}

func weightOrDefault(w string) string {
	if w == "" {
		return "normal"
	}
	return w
}

func colorOrDefault(c string) string {
	if c == "" {
		return "#000000"
	}
	return c
}
