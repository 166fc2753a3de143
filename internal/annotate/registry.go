package annotate

import (
	"fmt"
	"sort"

	"launchscanner/internal/ports"
)

// Registry keeps a mapping from annotator names to their implementations.
type Registry struct {
	annotators map[string]ports.Annotator
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{annotators: map[string]ports.Annotator{}}
}

// Register adds or replaces an annotator implementation.
func (r *Registry) Register(a ports.Annotator) {
	if r.annotators == nil {
		r.annotators = map[string]ports.Annotator{}
	}
	r.annotators[a.Name()] = a
}

// Resolve returns an annotator by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Annotator, error) {
	if a, ok := r.annotators[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("annotator %s is not registered", name)
}

// Names lists registered annotators for CLI help output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.annotators))
	for name := range r.annotators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
