// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package types

// Descriptor is the registry record describing a concrete backend type
// (spec §3.2): its concrete name, mangling suffix, ownership traits, and
// the operations the container engine and backends need to emit correct
// code around it.
type Descriptor struct {
	// ConcreteName is the type's spelling in the target language, e.g.
	// "vec_int", "std::vector<int>", "Vec<i32>", "[]int".
	ConcreteName string

	// Suffix is used for function-name mangling, e.g. "int", "str",
	// "vec_int".
	Suffix string

	// HeapOwned is true when values of this type own heap memory that must
	// be freed.
	HeapOwned bool

	// NeedsDestructor is true when a destroy/drop function must run on
	// scope exit (needs-drop in the container engine's template vocabulary).
	NeedsDestructor bool

	// NeedsCopy is true when storing a value requires a copy-on-insert
	// (e.g. strdup for C-like strings) rather than a bitwise move.
	NeedsCopy bool

	// Format is the printf-style format specifier for the C-like backend,
	// e.g. "%d", "%f", "%s".
	Format string

	// ZeroValue is the target-language literal for this type's default
	// value, e.g. "0", "0.0", "NULL", `""`.
	ZeroValue string

	// EqualFn is the name of the equality predicate for this type, used by
	// generated container "contains"/"remove" operations, e.g.
	// "int_eq", "str_eq".
	EqualFn string
}

// Registry maps a SourceType rendering (its String() form) to the concrete
// Descriptor a particular backend instance has registered for it. One
// Registry is built per backend instantiation (spec §3.6 "the registry is
// authoritative").
//
// Construction follows the teacher's CallResolver.BuildIndex pattern: build
// the lookup maps once, then resolve with O(1) lookups.
type Registry struct {
	byTypeName map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTypeName: make(map[string]Descriptor)}
}

// Register adds or replaces the descriptor for a SourceType rendering.
func (r *Registry) Register(typeName string, d Descriptor) {
	r.byTypeName[typeName] = d
}

// Lookup returns the descriptor registered for a SourceType, if any.
func (r *Registry) Lookup(t SourceType) (Descriptor, bool) {
	d, ok := r.byTypeName[t.String()]
	return d, ok
}

// MustLookup returns the descriptor or panics; only used where spec
// invariant §3.6 guarantees an entry exists (every InferredType the
// emitter will encounter has a descriptor).
func (r *Registry) MustLookup(t SourceType) Descriptor {
	d, ok := r.Lookup(t)
	if !ok {
		panic("types: no descriptor registered for " + t.String())
	}
	return d
}

// Has reports whether a descriptor is registered for t.
func (r *Registry) Has(t SourceType) bool {
	_, ok := r.byTypeName[t.String()]
	return ok
}

// RegisterPrimitives seeds a registry with descriptors for int/float/bool/
// str/char/none using the given per-kind descriptor table. Each backend
// calls this with its own concrete mappings.
func (r *Registry) RegisterPrimitives(table map[Kind]Descriptor) {
	for k, d := range table {
		r.Register(Primitive(k).String(), d)
	}
}
