// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package mgen is the public library entry point: parse SourceLang text,
// run it through the seven-phase pipeline against a named target, and
// return the result. It is the thin public facade over
// internal/pipeline, in the same spirit as the teacher's
// pkg/ingestion.NewLocalPipeline constructor wrapping internal wiring
// behind one call the CLI (or any other caller) can use without touching
// internal packages directly.
package mgen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/backend"
	"github.com/kraklabs/mgen/internal/backend/clike"
	"github.com/kraklabs/mgen/internal/backend/cpplike"
	"github.com/kraklabs/mgen/internal/backend/golike"
	"github.com/kraklabs/mgen/internal/backend/hslike"
	"github.com/kraklabs/mgen/internal/backend/ocamllike"
	"github.com/kraklabs/mgen/internal/backend/rustlike"
	"github.com/kraklabs/mgen/internal/build"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/pipeline"
	"github.com/kraklabs/mgen/internal/prefs"
)

// Backends is the fixed registry of every target this build ships (spec
// §4.6): registered once here rather than via package init() so a caller
// embedding this library controls exactly when backend construction
// happens.
func Backends() *backend.Registry {
	r := backend.NewRegistry()
	r.Register("c-like", clike.New)
	r.Register("cpp-like", cpplike.New)
	r.Register("rust-like", rustlike.New)
	r.Register("go-like", golike.New)
	r.Register("hs-like", hslike.New)
	r.Register("ocaml-like", ocamllike.New)
	return r
}

// SchemaFor returns the preferences schema for a registered target, or
// false if target isn't registered.
func SchemaFor(target string) (prefs.Schema, bool) {
	switch target {
	case "c-like":
		return clike.Schema(), true
	case "cpp-like":
		return cpplike.Schema(), true
	case "rust-like":
		return rustlike.Schema(), true
	case "go-like":
		return golike.Schema(), true
	case "hs-like":
		return hslike.Schema(), true
	case "ocaml-like":
		return ocamllike.Schema(), true
	default:
		return prefs.Schema{}, false
	}
}

// Options configures one Compile call.
type Options struct {
	// Target is the registered backend name ("c-like", "go-like", ...).
	Target string
	// Preferences overrides the target's default preferences bag; nil
	// uses the schema's defaults unmodified.
	Preferences *prefs.Bag
	// RunBuild hands the generated output to the build Invoker (spec
	// §4.5 step 7); false skips the Build phase entirely.
	RunBuild bool
	Invoker  build.Invoker
	Logger   *slog.Logger
}

// Compile parses sourceText as filename and runs it through the full
// seven-phase pipeline against opts.Target, returning the aggregate
// PipelineResult. A parse failure is reported as a synthetic failed
// Validation-phase result rather than a Go error, so callers always get
// one PipelineResult shape back regardless of which phase failed.
func Compile(sourceText, filename string, opts Options) (*pipeline.PipelineResult, error) {
	if opts.Target == "" {
		return nil, fmt.Errorf("mgen: target is required")
	}

	reader := astutil.NewReader()
	module, parseDiags := reader.Read(filename, sourceText)
	if len(parseDiags) > 0 {
		return &pipeline.PipelineResult{
			Phases: []pipeline.PhaseResult{{
				Name:        pipeline.PhaseValidation,
				OK:          false,
				Diagnostics: parseDiags,
			}},
			Diagnostics: parseDiags,
		}, nil
	}

	p := opts.Preferences
	if p == nil {
		schema, ok := SchemaFor(opts.Target)
		if !ok {
			return nil, fmt.Errorf("mgen: unknown target %q", opts.Target)
		}
		p = prefs.NewBag(schema)
	}

	orch := pipeline.NewOrchestrator(Backends(), opts.Invoker, opts.Logger)
	return orch.Compile(context.Background(), module, opts.Target, p, opts.RunBuild), nil
}

// Targets lists every target name this build's registry answers to.
func Targets() []string {
	return Backends().Targets()
}

// Explain renders the fixed suggestion text for an error code, if any is
// registered, for the `mgen explain <code>` CLI subcommand.
func Explain(code string) (string, bool) {
	s := diag.DefaultSuggestion(diag.Code(code))
	return s, s != ""
}
