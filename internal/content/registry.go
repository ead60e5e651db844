package content

import (
	"strings"
)

// ReservedPrefix marks built-in contents. They are seeded at startup and
// cannot be overwritten by authoring.
const ReservedPrefix = "system_"

const (
	Board  = "system_board"
	Editor = "system_editor"
)

func IsReserved(name string) bool {
	return strings.HasPrefix(strings.TrimSpace(name), ReservedPrefix)
}

// ValidateName trims the name and rejects blank or reserved names.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "name is required"}
	}
	if IsReserved(name) {
		return "", &ValidationError{Field: "name", Reason: "names starting with " + ReservedPrefix + " are reserved"}
	}
	return name, nil
}

// Registry maps content names to definitions. It only grows; entries are
// overwritten by re-registration, never removed.
type Registry struct {
	defs  map[string]Definition
	order []string
}

func NewRegistry() *Registry {
	return &Registry{defs: map[string]Definition{}}
}

func (r *Registry) Register(name string, def Definition) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	r.put(name, def)
	return nil
}

// Seed registers a built-in definition, skipping the reserved-prefix check.
func (r *Registry) Seed(name string, def Definition) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	r.put(name, def)
	return nil
}

func (r *Registry) put(name string, def Definition) {
	if _, ok := r.defs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.defs[name] = def
}

func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Names returns registered names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.order) }
