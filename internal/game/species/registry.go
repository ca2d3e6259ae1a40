package species

import "fmt"

// Registry is the read-only species lookup handed to battle sessions.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	byID map[string]*Template
}

// NewRegistry indexes templates by ID.
//
// Precondition: every template must be non-nil.
// Postcondition: Returns an error if two templates share an ID.
func NewRegistry(templates ...*Template) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %q", t.ID)
		}
		r.byID[t.ID] = t
	}
	return r, nil
}

// LoadDirectory loads every template in dir into a Registry.
func LoadDirectory(dir string) (*Registry, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(templates...)
}

// Get returns the template for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Len returns the number of registered species.
func (r *Registry) Len() int { return len(r.byID) }
