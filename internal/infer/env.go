// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package infer implements the four-pass type inference engine (spec
// §4.2): literal & annotation, container-refinement, nested-structure,
// and key/value passes, each a pure function of the previous pass's
// bindings, dispatched through a per-expression-kind strategy registry.
package infer

import "github.com/kraklabs/mgen/internal/types"

// Env is the binding environment for one function: the set of local
// names currently known to be bound, and the SourceType inferred for
// each so far. Shared across all four passes for a single function so
// later passes can refine a type a prior pass left "unknown".
type Env struct {
	bindings map[string]*types.SourceType
	records  map[string]bool // names of declared record types, for typing record-constructor calls
}

// NewEnv creates an empty binding environment seeded with the set of
// record names the module declares.
func NewEnv(recordNames []string) *Env {
	e := &Env{bindings: make(map[string]*types.SourceType), records: make(map[string]bool)}
	for _, n := range recordNames {
		e.records[n] = true
	}
	return e
}

// Bind records name's type, overwriting any prior binding.
func (e *Env) Bind(name string, t types.SourceType) {
	cp := t
	e.bindings[name] = &cp
}

// Lookup returns the current type for name, if bound.
func (e *Env) Lookup(name string) (types.SourceType, bool) {
	t, ok := e.bindings[name]
	if !ok {
		return types.Unknown, false
	}
	return *t, true
}

// RefineElem mutates the element type of a list/set binding in place,
// used by the container-refinement pass so every reference to the same
// binding observes the refined type.
func (e *Env) RefineElem(name string, elem types.SourceType) {
	t, ok := e.bindings[name]
	if !ok || (t.Kind != types.KindList && t.Kind != types.KindSet) {
		return
	}
	t.Elem = &elem
}

// RefineKeyValue mutates a dict binding's key and/or value type in
// place.
func (e *Env) RefineKeyValue(name string, key, value *types.SourceType) {
	t, ok := e.bindings[name]
	if !ok || t.Kind != types.KindDict {
		return
	}
	if key != nil {
		t.Key = key
	}
	if value != nil {
		t.Value = value
	}
}

// HasRecord reports whether name was declared as a record type in the
// module.
func (e *Env) HasRecord(name string) bool { return e.records[name] }

// Names returns every bound name, for the final unresolved-binding scan.
func (e *Env) Names() []string {
	out := make([]string, 0, len(e.bindings))
	for n := range e.bindings {
		out = append(out, n)
	}
	return out
}
