package registry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// RegisteredHandler holds the compiled Go parts of an adapter's phase
// handler. All phase handlers of one adapter share a single input struct,
// so InputType is the same for its build, test and install entries.
type RegisteredHandler struct {
	NewInput  func() any
	InputType reflect.Type
	Fn        any
}

// RegisterHandler registers a Go function for an adapter's phase.
func (r *Registry) RegisterHandler(name string, handler *RegisteredHandler) {
	if _, exists := r.HandlerRegistry[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering adapter handler.", "name", name)
	r.HandlerRegistry[name] = handler
}
