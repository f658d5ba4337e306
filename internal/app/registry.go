package app

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry maps references to application factories
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]map[string]Factory),
	}
}

// Register adds a factory under ref. Registering the same reference twice
// is an error.
func (r *Registry) Register(ref string, factory Factory) error {
	parsed, err := ParseReference(ref)
	if err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("factory for %s cannot be nil", parsed)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	attrs, ok := r.modules[parsed.Module]
	if !ok {
		attrs = make(map[string]Factory)
		r.modules[parsed.Module] = attrs
	}
	if _, exists := attrs[parsed.Attr]; exists {
		return fmt.Errorf("application %s already registered", parsed)
	}
	attrs[parsed.Attr] = factory
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(ref string, factory Factory) {
	if err := r.Register(ref, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under ref
func (r *Registry) Lookup(ref string) (Factory, error) {
	parsed, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	attrs, ok := r.modules[parsed.Module]
	if !ok {
		return nil, &LoadError{
			Ref:    ref,
			Reason: ReasonModuleNotFound,
			Err:    fmt.Errorf("could not find module %q", parsed.Module),
		}
	}
	factory, ok := attrs[parsed.Attr]
	if !ok {
		return nil, &LoadError{
			Ref:    ref,
			Reason: ReasonAttrNotFound,
			Err:    fmt.Errorf("attribute %q not found in module %q", parsed.Attr, parsed.Module),
		}
	}
	return factory, nil
}

// Load resolves ref and runs its factory. A factory that fails or panics
// produces a LoadError with ReasonInitFailed.
func (r *Registry) Load(ref string, opts Options) (application Application, err error) {
	factory, err := r.Lookup(ref)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			application = nil
			err = &LoadError{Ref: ref, Reason: ReasonInitFailed, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	application, err = factory(opts)
	if err != nil {
		return nil, &LoadError{Ref: ref, Reason: ReasonInitFailed, Err: err}
	}
	if application == nil {
		return nil, &LoadError{Ref: ref, Reason: ReasonInitFailed, Err: errors.New("factory returned no application")}
	}
	return application, nil
}

// References lists every registered reference in sorted order
func (r *Registry) References() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var refs []string
	for module, attrs := range r.modules {
		for attr := range attrs {
			refs = append(refs, Reference{Module: module, Attr: attr}.String())
		}
	}
	sort.Strings(refs)
	return refs
}
