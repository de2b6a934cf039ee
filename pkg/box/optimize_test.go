package box

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cartonry/cartonry/pkg/geom"
)

func bboxOf(w, h, d float64) geom.BoundingBox {
	return geom.BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{w, h, d}}
}

func vecsClose(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestConstraintsValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Constraints
		wantErr bool
	}{
		{"empty", Constraints{}, false},
		{"all set", Constraints{MaxWidth: 1, MaxHeight: 2, MaxDepth: 3, MaxVolume: 4}, false},
		{"negative width", Constraints{MaxWidth: -1}, true},
		{"negative volume", Constraints{MaxVolume: -100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptimizeDimensions(t *testing.T) {
	tests := []struct {
		name    string
		product geom.BoundingBox
		padding float64
		c       Constraints
		want    mgl64.Vec3
	}{
		{
			name:    "no constraints adds padding on all sides",
			product: bboxOf(100, 50, 30),
			padding: 10,
			want:    mgl64.Vec3{120, 70, 50},
		},
		{
			name:    "zero padding passes extent through",
			product: bboxOf(100, 50, 30),
			want:    mgl64.Vec3{100, 50, 30},
		},
		{
			name:    "width bound rescales uniformly",
			product: bboxOf(200, 100, 50),
			c:       Constraints{MaxWidth: 100},
			want:    mgl64.Vec3{100, 50, 25},
		},
		{
			name:    "satisfied bound leaves dims alone",
			product: bboxOf(200, 100, 50),
			c:       Constraints{MaxWidth: 300},
			want:    mgl64.Vec3{200, 100, 50},
		},
		{
			name:    "volume bound uses cube root",
			product: bboxOf(100, 100, 100),
			c:       Constraints{MaxVolume: 125000},
			want:    mgl64.Vec3{50, 50, 50},
		},
		{
			name:    "height bound after width bound",
			product: bboxOf(200, 200, 100),
			c:       Constraints{MaxWidth: 100, MaxHeight: 50},
			// Width bound halves everything to (100,100,50); the
			// height bound then halves again to (50,50,25).
			want: mgl64.Vec3{50, 50, 25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OptimizeDimensions(tt.product, tt.padding, tt.c)
			if !vecsClose(got, tt.want, 1e-9) {
				t.Errorf("OptimizeDimensions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptimizeDimensionsPreservesAspectRatio(t *testing.T) {
	product := bboxOf(300, 150, 75)
	got := OptimizeDimensions(product, 0, Constraints{MaxWidth: 100})

	if math.Abs(got.X()/got.Y()-2) > 1e-9 {
		t.Errorf("width/height ratio = %g, want 2", got.X()/got.Y())
	}
	if math.Abs(got.Y()/got.Z()-2) > 1e-9 {
		t.Errorf("height/depth ratio = %g, want 2", got.Y()/got.Z())
	}
}

func TestOptimizeDimensionsRespectsAllBounds(t *testing.T) {
	product := bboxOf(500, 400, 300)
	c := Constraints{MaxWidth: 250, MaxHeight: 100, MaxDepth: 120, MaxVolume: 1e6}
	got := OptimizeDimensions(product, 5, c)

	if got.X() > c.MaxWidth+1e-9 {
		t.Errorf("width %g exceeds bound %g", got.X(), c.MaxWidth)
	}
	if got.Y() > c.MaxHeight+1e-9 {
		t.Errorf("height %g exceeds bound %g", got.Y(), c.MaxHeight)
	}
	if got.Z() > c.MaxDepth+1e-9 {
		t.Errorf("depth %g exceeds bound %g", got.Z(), c.MaxDepth)
	}
	if v := got.X() * got.Y() * got.Z(); v > c.MaxVolume+1e-6 {
		t.Errorf("volume %g exceeds bound %g", v, c.MaxVolume)
	}
}

func TestOptimizeDimensionsZeroExtent(t *testing.T) {
	// A flat product with zero padding keeps its zero axis; callers
	// guard before generating a shell.
	got := OptimizeDimensions(bboxOf(100, 50, 0), 0, Constraints{})
	if got.Z() != 0 {
		t.Errorf("depth = %g, want 0", got.Z())
	}
}
