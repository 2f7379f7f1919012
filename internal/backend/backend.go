// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package backend defines the shared contract every target-language
// converter implements (spec §4.3) and the string-keyed registry the
// pipeline's generation phase resolves a target name against, mirroring
// the teacher's factory-by-string-key idiom (pkg/llm.NewProvider).
package backend

import (
	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

// Output is one backend's rendered result: a set of files keyed by their
// path relative to the output directory.
type Output struct {
	Files map[string]string
	// BuildFiles lists which of Files' keys are build-system inputs (a
	// Makefile, Cargo.toml, *.cabal, dune-project, ...) that the build
	// phase's external collaborator should know about, as opposed to
	// generated source.
	BuildFiles []string
}

// Backend converts a validated, type-inferred SourceModule into a target
// language's source text (spec §4.3). A Backend owns its own Registry
// descriptor table (Registry) and name-mangling rules (Name); it does not
// mutate the module it's given.
type Backend interface {
	// Target is the string this backend is registered under and the
	// value accepted by --target.
	Target() string

	// Registry returns the type-descriptor table this backend resolves
	// InferredTypes against (spec §3.6). Built once per Backend instance.
	Registry() *types.Registry

	// Emit converts the whole module to this backend's output files.
	Emit(module *astutil.SourceModule, p *prefs.Bag) (Output, []diag.Diagnostic)

	// Name maps a SourceLang identifier to its spelling in the target
	// language (reserved-word escaping, case convention).
	Name(ident string) string
}

// Registry resolves a target name to the Backend that implements it.
type Registry struct {
	byTarget map[string]func() Backend
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{byTarget: make(map[string]func() Backend)}
}

// Register adds a backend constructor under the given target name.
func (r *Registry) Register(target string, factory func() Backend) {
	r.byTarget[target] = factory
}

// Get constructs a fresh Backend instance for target, if registered.
func (r *Registry) Get(target string) (Backend, bool) {
	factory, ok := r.byTarget[target]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Targets lists every registered target name.
func (r *Registry) Targets() []string {
	out := make([]string, 0, len(r.byTarget))
	for t := range r.byTarget {
		out = append(out, t)
	}
	return out
}
