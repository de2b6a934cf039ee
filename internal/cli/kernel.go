package cli

import (
	"github.com/cartonry/cartonry/pkg/kernel"
	"github.com/cartonry/cartonry/pkg/kernel/sdfx"
)

// newKernel constructs the solid-geometry kernel the CLI runs against.
// Kept in one place so an alternative backend only touches this file.
func newKernel() kernel.Kernel {
	return sdfx.New()
}
