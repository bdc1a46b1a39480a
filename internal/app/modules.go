package app

import (
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/buildrig/buildrig/products/mlbindings"
	"github.com/buildrig/buildrig/products/mlruntime"
)

// coreModules is the definitive list of all product adapters that are
// compiled into the buildrig binary.
var coreModules = []registry.Module{
	&mlruntime.Module{},
	&mlbindings.Module{},
}
