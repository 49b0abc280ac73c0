package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/calform/pkg/domain"
)

// Registry is the static schema of persisted fields.
// It is built once at startup and never mutated, so it is safe for concurrent reads.
type Registry struct {
	fields  []domain.FieldDescriptor
	index   map[string]int
	groups  []domain.DependentGroup
	groupOf map[string]string
}

// New validates the descriptors and groups and builds a Registry.
// Keys must be unique and non-empty; group members must be registered fields
// and a field may belong to at most one group.
func New(fields []domain.FieldDescriptor, groups ...domain.DependentGroup) (*Registry, error) {
	r := &Registry{
		fields:  make([]domain.FieldDescriptor, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
		groupOf: make(map[string]string),
	}

	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			return nil, fmt.Errorf("field key cannot be empty")
		}
		if _, exists := r.index[key]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateField, key)
		}
		if f.Kind == "" {
			f.Kind = domain.KindScalar
		}
		if _, err := domain.ParseValueKind(string(f.Kind)); err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		f.Key = key
		r.index[key] = len(r.fields)
		r.fields = append(r.fields, f)
	}

	seenGroups := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("group name cannot be empty")
		}
		if seenGroups[g.Name] {
			return nil, fmt.Errorf("group %s declared twice", g.Name)
		}
		seenGroups[g.Name] = true

		members := make([]string, 0, len(g.Members))
		for _, member := range g.Members {
			member = strings.TrimSpace(member)
			if _, ok := r.index[member]; !ok {
				return nil, fmt.Errorf("group %s: %w: %s", g.Name, domain.ErrUnknownField, member)
			}
			if other, taken := r.groupOf[member]; taken {
				return nil, fmt.Errorf("%w: %s in %s and %s", domain.ErrGroupOverlap, member, other, g.Name)
			}
			r.groupOf[member] = g.Name
			members = append(members, member)
		}
		r.groups = append(r.groups, domain.DependentGroup{
			Name:    g.Name,
			Members: members,
		})
	}

	return r, nil
}

// MustNew is like New but panics on an invalid declaration.
// Intended for package-level, deployment-time registries.
func MustNew(fields []domain.FieldDescriptor, groups ...domain.DependentGroup) *Registry {
	r, err := New(fields, groups...)
	if err != nil {
		panic(err)
	}
	return r
}

// Fields returns the descriptors in declaration order.
func (r *Registry) Fields() []domain.FieldDescriptor {
	return slices.Clone(r.fields)
}

// Keys returns the field keys in declaration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r *Registry) Len() int {
	return len(r.fields)
}

// Lookup returns the descriptor for key.
func (r *Registry) Lookup(key string) (domain.FieldDescriptor, bool) {
	i, ok := r.index[key]
	if !ok {
		return domain.FieldDescriptor{}, false
	}
	return r.fields[i], true
}

// Groups returns the declared dependent groups.
func (r *Registry) Groups() []domain.DependentGroup {
	out := make([]domain.DependentGroup, len(r.groups))
	for i, g := range r.groups {
		out[i] = domain.DependentGroup{Name: g.Name, Members: slices.Clone(g.Members)}
	}
	return out
}

// GroupOf returns the name of the group key belongs to.
func (r *Registry) GroupOf(key string) (string, bool) {
	name, ok := r.groupOf[key]
	return name, ok
}

// Members returns the keys of the named group.
func (r *Registry) Members(group string) []string {
	for _, g := range r.groups {
		if g.Name == group {
			return slices.Clone(g.Members)
		}
	}
	return nil
}
