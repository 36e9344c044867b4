package element

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/c360/pipewright/errors"
)

// Registry is the element lookup surface consumed by negotiation and parsing.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Exists reports whether an element type is registered
	Exists(name string) bool

	// Get returns the full metadata for an element type
	Get(name string) (Info, bool)

	// PadTemplates returns the pad templates of an element type
	PadTemplates(name string) ([]PadTemplate, error)

	// Names returns all registered element names in sorted order
	Names() []string

	// ListByCategory returns elements whose derived category matches,
	// sorted by name. A limit of 0 means no limit.
	ListByCategory(category string, limit int) []Info

	// Search returns elements matching the query in the given fields
	// (name, description, caps). Empty fields searches all three.
	Search(query string, fields []string, limit int) []Info
}

// StaticRegistry is an in-memory Registry populated at construction time
type StaticRegistry struct {
	mu       sync.RWMutex
	elements map[string]Info
}

// NewStaticRegistry creates an empty registry
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		elements: make(map[string]Info),
	}
}

// Register adds an element type. Registering a duplicate name is an error.
func (r *StaticRegistry) Register(info Info) error {
	if info.Name == "" {
		return errors.WrapInvalid(
			fmt.Errorf("element name is empty"),
			"StaticRegistry", "Register",
			"provide a non-empty element name",
		)
	}
	if len(info.PadTemplates) == 0 {
		return errors.WrapInvalid(
			errors.ErrNoPadTemplates,
			"StaticRegistry", "Register",
			fmt.Sprintf("declare at least one pad template for %q", info.Name),
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.elements[info.Name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("element %q already registered", info.Name),
			"StaticRegistry", "Register",
			"use a unique element name",
		)
	}
	r.elements[info.Name] = info
	return nil
}

// Exists reports whether an element type is registered
func (r *StaticRegistry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.elements[name]
	return ok
}

// Get returns the full metadata for an element type
func (r *StaticRegistry) Get(name string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.elements[name]
	return info, ok
}

// PadTemplates returns the pad templates of an element type
func (r *StaticRegistry) PadTemplates(name string) ([]PadTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.elements[name]
	if !ok {
		return nil, errors.WrapInvalid(
			errors.ErrElementNotFound,
			"StaticRegistry", "PadTemplates",
			fmt.Sprintf("check that element %q is registered", name),
		)
	}
	return info.PadTemplates, nil
}

// Names returns all registered element names in sorted order
func (r *StaticRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.elements))
	for name := range r.elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListByCategory returns elements whose derived category matches, sorted by name
func (r *StaticRegistry) ListByCategory(category string, limit int) []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Info
	for _, info := range r.elements {
		if info.Category() == category {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Search returns elements matching the query in the given fields, sorted by name
func (r *StaticRegistry) Search(query string, fields []string, limit int) []Info {
	if len(fields) == 0 {
		fields = []string{"name", "description", "caps"}
	}
	query = strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Info
	for _, info := range r.elements {
		if matchesQuery(info, query, fields) {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func matchesQuery(info Info, query string, fields []string) bool {
	for _, field := range fields {
		switch field {
		case "name":
			if strings.Contains(strings.ToLower(info.Name), query) {
				return true
			}
		case "description":
			if strings.Contains(strings.ToLower(info.Description), query) ||
				strings.Contains(strings.ToLower(info.LongName), query) {
				return true
			}
		case "caps":
			for _, t := range info.PadTemplates {
				if strings.Contains(strings.ToLower(t.Caps.String()), query) {
					return true
				}
			}
		}
	}
	return false
}
