package pipeline

import (
	"sort"

	"github.com/go-logr/logr"
)

// Registry is a catalog of passes addressable by name. Each driver owns its registry,
// so independent pipelines never share state. Registry is not safe for concurrent modification.
type Registry struct {
	passes []Pass
	index  map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds passes in given order. Registering a name that is already known is a no-op,
// so repeated initialization leaves the registry unchanged.
func (r *Registry) Register(passes ...Pass) *Registry {
	for _, p := range passes {
		if _, has := r.index[p.Name]; has {
			continue
		}
		r.index[p.Name] = len(r.passes)
		r.passes = append(r.passes, p)
	}
	return r
}

// Get returns pass by name.
func (r *Registry) Get(name string) (Pass, bool) {
	i, has := r.index[name]
	if !has {
		return Pass{}, false
	}
	return r.passes[i], true
}

// Names returns names of registered passes in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name
	}
	return names
}

// All returns registered passes in registration order.
func (r *Registry) All() []Pass {
	return append([]Pass(nil), r.passes...)
}

// Select builds pipeline from named passes in given order.
// Fails if some name is unknown or if selected passes violate their After constraints.
func (r *Registry) Select(names []string, options ...Option) (*Pipeline, error) {
	var unknown []string
	passes := make([]Pass, 0, len(names))
	position := make(map[string]int, len(names))
	for _, name := range names {
		p, has := r.Get(name)
		if !has {
			unknown = append(unknown, name)
			continue
		}
		if _, has := position[name]; !has {
			position[name] = len(passes)
		}
		passes = append(passes, p)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, unknownPassError(unknown)
	}

	for i, p := range passes {
		for _, after := range p.After {
			j, has := position[after]
			if has && j > i {
				return nil, passOrderError(p.Name, after)
			}
		}
	}

	return New(passes, options...), nil
}

// Pipeline builds pipeline running all registered passes in registration order.
func (r *Registry) Pipeline(log logr.Logger) *Pipeline {
	return New(r.passes, WithLogger(log))
}
