// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"strings"

	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// Family names the container shape being generated.
type Family string

const (
	FamilyVec Family = "vec"
	FamilyMap Family = "map"
	FamilySet Family = "set"
)

// ID is a container request's deterministic identity: its mangled suffix
// doubles as both the generated type name and the id under which
// Generate memoizes its output (spec §4.4 "identical requests return the
// same id").
type ID string

// Request names a container family and its concrete type arguments. For
// FamilyMap, Args holds exactly [key, value]; otherwise exactly [elem].
type Request struct {
	Family Family
	Args   []types.Descriptor
}

// id computes the request's deterministic ID via suffix mangling:
// vec<int> -> vec_int, map<str,int> -> map_str_int,
// vec<vec<int>> -> vec_vec_int (spec §4.4).
func (r Request) id() ID {
	parts := make([]string, 0, len(r.Args)+1)
	parts = append(parts, string(r.Family))
	for _, a := range r.Args {
		parts = append(parts, a.Suffix)
	}
	return ID(strings.Join(parts, "_"))
}

// Artifact is one container's rendered output.
type Artifact struct {
	ID         ID
	HeaderText string
	SourceText string
	// DependsOn lists the IDs of other containers this one's types
	// require (e.g. vec<vec<int>> depends on vec<int>), in no particular
	// order; Engine.NeededDependencies topologically sorts them.
	DependsOn []ID
}

// Engine generates and memoizes container implementations across one
// compile (spec §4.4). Zero value is not usable; construct with New.
type Engine struct {
	requests map[ID]Request
	order    []ID // request order, for deterministic iteration
	cache    map[ID]Artifact
}

// New creates an empty container Engine.
func New() *Engine {
	return &Engine{
		requests: make(map[ID]Request),
		cache:    make(map[ID]Artifact),
	}
}

// Request registers (or returns the existing) ID for family+args.
// Idempotent: the same family and type arguments always yield the same
// ID and are emitted only once (spec §4.4 "request ... idempotent").
func (e *Engine) Request(family Family, args ...types.Descriptor) ID {
	req := Request{Family: family, Args: args}
	id := req.id()
	if _, ok := e.requests[id]; !ok {
		e.requests[id] = req
		e.order = append(e.order, id)
	}
	return id
}

// Generate renders the header/source text for a previously requested
// container ID, memoizing the result for the life of the Engine.
func (e *Engine) Generate(id ID) (Artifact, []diag.Diagnostic) {
	if art, ok := e.cache[id]; ok {
		return art, nil
	}
	req, ok := e.requests[id]
	if !ok {
		return Artifact{}, []diag.Diagnostic{
			diag.NewErrorWithDefault(diag.ECodeContainerUnknownType,
				"container requested before being registered: "+string(id), diag.Location{}),
		}
	}
	art, diags := e.render(id, req)
	if len(diags) > 0 {
		return Artifact{}, diags
	}
	e.cache[id] = art
	return art, nil
}

// NeededDependencies returns the topologically ordered list of container
// IDs that must be emitted before id (its nested element/key/value
// containers), not including id itself.
func (e *Engine) NeededDependencies(id ID) ([]ID, []diag.Diagnostic) {
	art, diags := e.Generate(id)
	if len(diags) > 0 {
		return nil, diags
	}
	var out []ID
	seen := map[ID]bool{}
	var visit func(ID)
	visit = func(cur ID) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		a, ok := e.cache[cur]
		if !ok {
			a, _ = e.Generate(cur)
		}
		for _, dep := range a.DependsOn {
			visit(dep)
			out = append(out, dep)
		}
	}
	for _, dep := range art.DependsOn {
		visit(dep)
	}
	return out, nil
}

// Emitted returns every container ID requested so far, in request order
// (used by the C-like backend to emit each container's files, one after
// another).
func (e *Engine) Emitted() []ID {
	out := make([]ID, len(e.order))
	copy(out, e.order)
	return out
}
