package registry

import (
	"github.com/buildrig/buildrig/internal/config"
)

// Module is the interface every compiled-in product adapter implements to
// be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered handlers and definitions for a single
// application instance.
type Registry struct {
	HandlerRegistry    map[string]*RegisteredHandler
	DefinitionRegistry map[string]*config.AdapterDefinition
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		HandlerRegistry:    make(map[string]*RegisteredHandler),
		DefinitionRegistry: make(map[string]*config.AdapterDefinition),
	}
}

// PopulateDefinitionsFromModel copies the loaded adapter definitions from
// the config model into the registry for easy access during execution.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for key, val := range model.Adapters {
		r.DefinitionRegistry[key] = val
	}
}
