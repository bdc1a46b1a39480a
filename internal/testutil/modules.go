package testutil

import (
	"context"
	"reflect"

	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/registry"
)

// SimpleModule is a test helper for easily creating a fake adapter module
// that registers a fixed set of phase handlers, keyed by handler name.
type SimpleModule struct {
	Handlers map[string]*registry.RegisteredHandler
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for name, handler := range m.Handlers {
		r.RegisterHandler(name, handler)
	}
}

// NoOpModule registers a single "NoOp" build handler that takes no inputs
// and does nothing. It's useful for tests that should fail before
// execution begins but still need a handler that passes registry
// validation.
type NoOpModule struct{}

// Register implements the registry.Module interface.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterHandler("NoOp", &registry.RegisteredHandler{
		NewInput:  func() any { return new(struct{}) },
		InputType: reflect.TypeOf(struct{}{}),
		Fn: func(ctx context.Context, bc *product.BuildContext, input *struct{}) (any, error) {
			return nil, nil
		},
	})
}
