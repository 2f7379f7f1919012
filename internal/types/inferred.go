// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package types

// Inferred is a SourceType extended with the concrete backend type chosen
// by the inference engine (spec §3.2). It is attached to every expression
// and binding once inference completes (spec §3.6 invariant).
type Inferred struct {
	Source  SourceType
	Concrete Descriptor // chosen concrete descriptor once a backend is selected
	// Resolved reports whether inference successfully assigned a concrete
	// type; false means the binding still carries "unknown" after all four
	// passes (spec §4.2 "any binding still carrying unknown becomes E2002").
	Resolved bool
}

// NewInferred wraps a SourceType before a backend's descriptor has been
// attached. The inference engine and the mapping phase call
// ResolveAgainst to attach a backend's concrete Descriptor.
func NewInferred(t SourceType) Inferred {
	return Inferred{Source: t, Resolved: !t.IsUnknown()}
}

// ResolveAgainst attaches a backend-concrete Descriptor, producing the
// fully Inferred type the emitter consumes.
func (it Inferred) ResolveAgainst(reg *Registry) (Inferred, bool) {
	d, ok := reg.Lookup(it.Source)
	if !ok {
		return it, false
	}
	it.Concrete = d
	return it, true
}

// String renders the inferred type's concrete spelling if resolved,
// otherwise the abstract SourceType spelling.
func (it Inferred) String() string {
	if it.Concrete.ConcreteName != "" {
		return it.Concrete.ConcreteName
	}
	return it.Source.String()
}
