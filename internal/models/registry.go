package models

import (
	"sort"
	"strings"
	"sync"

	"github.com/schollz/orbiter/internal/orbiterr"
)

// Registry is a process-wide keyed lookup from model-type identifier to
// Model. Construct one with NewRegistry (empty) or NewBuiltinRegistry
// (pre-populated with the built-ins); the zero value has no map, so
// Register on it panics.
type Registry struct {
	mu     sync.RWMutex
	models map[string]Model
}

// NewRegistry returns an empty registry. Use NewBuiltinRegistry to get one
// pre-populated with every concrete model in this package.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model)}
}

// Register adds a model, failing if its type identifier is already taken or
// its declared schema is inconsistent.
func (r *Registry) Register(m Model) error {
	if err := ValidateSchema(m.ParameterSchema()); err != nil {
		return err
	}

	meta := m.Metadata()
	if meta.Type == "" {
		return &orbiterr.StateError{Reason: "model registration: empty type identifier"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.models[meta.Type]; exists {
		return &orbiterr.StateError{Reason: "model registration: duplicate type " + meta.Type}
	}
	r.models[meta.Type] = m
	return nil
}

// Unregister removes a model type. Unregistering an unknown type is a no-op,
// mirroring lookup's totality: registry mutation never panics on a bad key.
func (r *Registry) Unregister(modelType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.models, modelType)
}

// Lookup is total: it returns (nil, false) rather than erroring, so callers
// that want a LookupError construct one themselves at the call site where
// the animation/track context is available.
func (r *Registry) Lookup(modelType string) (Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[modelType]
	return m, ok
}

// MustLookup is a convenience for call sites that want a LookupError rather
// than a bool.
func (r *Registry) MustLookup(modelType string) (Model, error) {
	m, ok := r.Lookup(modelType)
	if !ok {
		return nil, &orbiterr.LookupError{Kind: "model", ID: modelType}
	}
	return m, nil
}

// Filter narrows List by category, tags, and a case-insensitive substring
// query matched against name/category/tags/description.
type Filter struct {
	Category string
	Tags     []string
	Query    string
}

func (f Filter) matches(meta Metadata) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, meta.Category) {
		return false
	}
	for _, want := range f.Tags {
		found := false
		for _, have := range meta.Tags {
			if strings.EqualFold(want, have) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		haystack := strings.ToLower(strings.Join(append([]string{
			meta.DisplayName, meta.Category, meta.Description,
		}, meta.Tags...), " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// List enumerates registered models matching filter, sorted by type
// identifier for deterministic output.
func (r *Registry) List(filter Filter) []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		if filter.matches(m.Metadata()) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Metadata().Type < out[j].Metadata().Type
	})
	return out
}

// ListCategories returns every distinct category among registered models,
// sorted.
func (r *Registry) ListCategories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range r.models {
		seen[m.Metadata().Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ValidateSchema checks a parameter schema for structural problems:
// default out of range (scalars with both Min and Max set), unknown
// enumerant, and duplicate parameter name. DependsOn predicates are opaque
// functions and are not inspected, so cyclic dependencies are not detected.
func ValidateSchema(schema []ParameterDefinition) error {
	seen := make(map[string]bool, len(schema))
	for _, pd := range schema {
		if seen[pd.Name] {
			return &orbiterr.ValidationError{
				Path: pd.Name, Kind: "duplicate_parameter", Severity: orbiterr.SeverityError,
				Message: "parameter declared more than once in schema",
			}
		}
		seen[pd.Name] = true

		if pd.Kind == KindScalar && pd.Min != nil && pd.Max != nil {
			if pd.Default.Kind == KindScalar && (pd.Default.Scalar < *pd.Min || pd.Default.Scalar > *pd.Max) {
				return &orbiterr.ValidationError{
					Path: pd.Name, Kind: "default_out_of_range", Severity: orbiterr.SeverityError,
					Message: "default value falls outside declared min/max",
				}
			}
		}

		if pd.Kind == KindEnum && len(pd.EnumValues) > 0 && pd.Default.Kind == KindEnum {
			ok := false
			for _, e := range pd.EnumValues {
				if e == pd.Default.Enum {
					ok = true
					break
				}
			}
			if !ok {
				return &orbiterr.ValidationError{
					Path: pd.Name, Kind: "unknown_enumerant", Severity: orbiterr.SeverityError,
					Message: "default value is not among the declared enum values",
				}
			}
		}
	}
	return nil
}
