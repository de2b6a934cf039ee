package geom

import (
	"errors"
	"fmt"
)

// ErrEmptyMesh indicates an operation that requires geometry was given
// a mesh with zero vertices.
var ErrEmptyMesh = errors.New("mesh has no vertices")

// GeometryError represents a malformed or unusable mesh input.
type GeometryError struct {
	Op  string // operation that failed, e.g. "bounding box"
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s: %v", e.Op, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}
