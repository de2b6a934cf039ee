// Package box computes packaging box dimensions from product bounds
// and designer constraints, and generates hollow shell meshes through
// a solid-geometry kernel.
package box

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Type identifies a box construction style.
type Type int

const (
	Standard  Type = iota // regular rectangular box
	Sleeve                // box with a sliding sleeve
	Clamshell             // hinged box that opens like a clamshell
	Tray                  // open tray with a lid
	Custom                // custom-shaped box
)

var typeNames = map[Type]string{
	Standard:  "standard",
	Sleeve:    "sleeve",
	Clamshell: "clamshell",
	Tray:      "tray",
	Custom:    "custom",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts a type name ("standard", "sleeve", ...) to a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return Standard, fmt.Errorf("unknown box type %q", s)
}

// Fallback returns the implemented type that generation for t delegates
// to, and whether a delegation happens. Sleeve, clamshell, tray and
// custom construction are not implemented; they produce the standard
// shell so the pipeline stays usable with partially-implemented design
// variants. Callers that need to detect the substitution can check the
// second return value; Generator logs it at warn level.
func (t Type) Fallback() (Type, bool) {
	switch t {
	case Standard:
		return Standard, false
	default:
		return Standard, true
	}
}

// Spec describes a box shell to generate. OuterDims is the cavity the
// product (plus padding) needs; see Generator.Generate for how wall
// thickness relates to the true external envelope.
type Spec struct {
	Type          Type       `json:"type"`
	OuterDims     mgl64.Vec3 `json:"outer_dims"`     // mm
	WallThickness float64    `json:"wall_thickness"` // mm
}

// Validate checks that the spec produces a non-degenerate shell:
// positive wall thickness and OuterDims > 2*WallThickness
// componentwise, so the inner cavity has positive volume.
func (s Spec) Validate() error {
	if s.WallThickness <= 0 {
		return fmt.Errorf("wall thickness must be positive, got %g", s.WallThickness)
	}
	for i, axis := range [3]string{"width", "height", "depth"} {
		if s.OuterDims[i] <= 2*s.WallThickness {
			return fmt.Errorf("%s %g must exceed twice the wall thickness (%g)",
				axis, s.OuterDims[i], 2*s.WallThickness)
		}
	}
	return nil
}

// GenerationError represents a shell construction failure, either a
// degenerate spec caught before the solid operation or a failure
// inside the geometry kernel.
type GenerationError struct {
	Stage string // "validate", "subtract", "mesh"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("box generation: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
