package kernel

import (
	"fmt"
	"time"

	"github.com/cartonry/cartonry/pkg/geom"
)

// DefaultMeshTimeout is the hard limit for a single solid-to-mesh
// conversion. Meshing is the only expensive step of a boolean
// pipeline, and a pathological input (near-degenerate subtraction,
// self-intersecting import) can otherwise stall a design job.
const DefaultMeshTimeout = 60 * time.Second

// meshResult is the internal type used to pass meshing results
// through channels.
type meshResult struct {
	mesh *geom.Mesh
	err  error
}

// MeshWithTimeout converts a solid to a mesh, returning an error if
// the conversion exceeds timeout. A timeout of zero means
// DefaultMeshTimeout.
//
// On timeout, the meshing goroutine may still be running; its result
// is discarded when it eventually completes. The kernel contract
// forbids sharing geometry buffers across invocations, so the
// abandoned goroutine cannot corrupt later calls.
func MeshWithTimeout(k Kernel, s Solid, timeout time.Duration) (*geom.Mesh, error) {
	if timeout <= 0 {
		timeout = DefaultMeshTimeout
	}

	ch := make(chan meshResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- meshResult{err: fmt.Errorf("panic during meshing: %v", r)}
			}
		}()
		m, err := k.ToMesh(s)
		ch <- meshResult{mesh: m, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.mesh, res.err
	case <-timer.C:
		return nil, fmt.Errorf("solid meshing timed out after %s", timeout)
	}
}
