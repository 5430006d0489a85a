package workflow

import (
	"context"
	"fmt"
	"sync"
)

// RunnerFactory builds a Runner for one generator.
type RunnerFactory func(ctx context.Context) (*Runner, error)

// Registry keeps generator factories in registration order.
type Registry interface {
	Register(name string, factory RunnerFactory) error
	Create(ctx context.Context, name string) (*Runner, error)
	List() []string
}

type registry struct {
	mu        sync.RWMutex
	names     []string
	factories map[string]RunnerFactory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]RunnerFactory),
	}
}

func (r *registry) Register(name string, factory RunnerFactory) error {
	if name == "" {
		return fmt.Errorf("generator name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("generator %q is already registered", name)
	}

	r.factories[name] = factory
	r.names = append(r.names, name)
	return nil
}

func (r *registry) Create(ctx context.Context, name string) (*Runner, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("generator %q is not registered", name)
	}

	return factory(ctx)
}

func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.names...)
}
