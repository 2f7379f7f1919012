// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package pipeline implements the seven-phase compile orchestrator (spec
// §4.5): Validation, Analysis, Source optimization, Mapping, Target
// optimization, Generation, Build. It is the adapted
// ingestion.LocalPipeline.Run: the same per-step structured slog
// events, the same single aggregate result accumulated across steps, and
// the same fatal-on-first-error short-circuiting, generalized from one
// fixed ingestion sequence to phases driven by a pluggable Backend.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/backend"
	"github.com/kraklabs/mgen/internal/build"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/infer"
	"github.com/kraklabs/mgen/internal/mapping"
	"github.com/kraklabs/mgen/internal/metrics"
	"github.com/kraklabs/mgen/internal/optimize"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/validator"
)

// PhaseName identifies one of the seven pipeline phases, used as the
// metrics label and the slog event prefix.
type PhaseName string

const (
	PhaseValidation         PhaseName = "validation"
	PhaseAnalysis           PhaseName = "analysis"
	PhaseSourceOptimization PhaseName = "source_optimization"
	PhaseMapping            PhaseName = "mapping"
	PhaseTargetOptimization PhaseName = "target_optimization"
	PhaseGeneration         PhaseName = "generation"
	PhaseBuild              PhaseName = "build"
)

// PhaseResult is the per-phase contract every step returns (spec §4.5
// "Contract"): whether it succeeded, the diagnostics it produced, and how
// long it took.
type PhaseResult struct {
	Name        PhaseName
	OK          bool
	Diagnostics []diag.Diagnostic
	Duration    time.Duration
}

// PipelineResult is the orchestrator's public return: every phase that
// ran (in order, stopping at the first failure), plus the final backend
// Output and build Result when Generation/Build succeeded.
type PipelineResult struct {
	Phases      []PhaseResult
	Diagnostics []diag.Diagnostic
	Output      backend.Output
	Build       build.Result
	OK          bool
}

// Orchestrator wires the concrete collaborators the seven phases call
// into: a backend registry to resolve --target, and an optional build
// Invoker (defaults to a no-op).
type Orchestrator struct {
	Backends *backend.Registry
	Invoker  build.Invoker
	Logger   *slog.Logger
}

// NewOrchestrator builds an Orchestrator with the given backend registry.
// A nil logger falls back to slog.Default(); a nil Invoker falls back to
// build.NoopInvoker.
func NewOrchestrator(backends *backend.Registry, invoker build.Invoker, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if invoker == nil {
		invoker = build.NoopInvoker{}
	}
	return &Orchestrator{Backends: backends, Invoker: invoker, Logger: logger}
}

// Compile runs all seven phases over module against target, using p as
// the backend's preferences bag. It mutates module in place (the
// optimization and mapping phases rewrite the AST) and stops at the first
// phase reporting OK=false.
func (o *Orchestrator) Compile(ctx context.Context, module *astutil.SourceModule, target string, p *prefs.Bag, runBuild bool) *PipelineResult {
	runID := fmt.Sprintf("%s:%s", module.FilePath, target)
	o.Logger.Info("mgen.compile.start", "file", module.FilePath, "target", target, "run_id", runID)

	result := &PipelineResult{}

	b, ok := o.Backends.Get(target)
	if !ok {
		phase := PhaseResult{Name: PhaseValidation, OK: false, Diagnostics: []diag.Diagnostic{
			diag.NewError(diag.ECodeUnknownImport, "unknown target: "+target, diag.Location{}),
		}}
		result.Phases = append(result.Phases, phase)
		result.Diagnostics = append(result.Diagnostics, phase.Diagnostics...)
		metrics.CountCompile(true)
		return result
	}

	phases := []func() PhaseResult{
		func() PhaseResult { return o.runValidation(module) },
		func() PhaseResult { return o.runAnalysis(module, b) },
		func() PhaseResult { return o.runSourceOptimization(module) },
		func() PhaseResult { return o.runMapping(module, b) },
		func() PhaseResult { return o.runTargetOptimization(module) },
		func() PhaseResult { return o.runGeneration(module, b, p, result) },
	}
	if runBuild {
		phases = append(phases, func() PhaseResult { return o.runBuild(ctx, target, result) })
	}

	for _, run := range phases {
		phase := run()
		result.Phases = append(result.Phases, phase)
		result.Diagnostics = append(result.Diagnostics, phase.Diagnostics...)
		o.logPhase(phase, runID)
		if !phase.OK {
			metrics.CountCompile(true)
			return result
		}
	}

	result.OK = true
	metrics.CountCompile(false)
	o.Logger.Info("mgen.compile.complete", "run_id", runID, "phases", len(result.Phases))
	return result
}

func (o *Orchestrator) logPhase(phase PhaseResult, runID string) {
	metrics.ObservePhaseDuration(string(phase.Name), phase.Duration.Seconds())
	for _, d := range phase.Diagnostics {
		metrics.CountDiagnostic(string(d.Code)[:2], d.Kind.String())
	}
	o.Logger.Info("mgen.compile.phase",
		"run_id", runID, "phase", phase.Name, "ok", phase.OK,
		"diagnostics", len(phase.Diagnostics), "duration_ms", phase.Duration.Milliseconds())
}

func (o *Orchestrator) runValidation(module *astutil.SourceModule) PhaseResult {
	start := time.Now()
	ok, diags := validator.Validate(module)
	return PhaseResult{Name: PhaseValidation, OK: ok, Diagnostics: diags, Duration: time.Since(start)}
}

// runAnalysis extracts the structural summary the spec calls for
// (function list, record list, import list) — already held on
// SourceModule from parsing, so this phase confirms the summary is well
// formed (no duplicate top-level names) — then runs the multi-pass type
// inference engine against the chosen backend's target-registry (spec
// §4.2 "infer(module, target-registry)"), attaching an InferredType to
// every expression and binding before any rewrite phase runs.
func (o *Orchestrator) runAnalysis(module *astutil.SourceModule, b backend.Backend) PhaseResult {
	start := time.Now()
	var diags []diag.Diagnostic
	seen := make(map[string]bool, len(module.Functions)+len(module.Classes))
	for _, fn := range module.Functions {
		if seen[fn.Name] {
			diags = append(diags, diag.NewErrorWithDefault(diag.ECodeSyntax,
				"duplicate top-level function: "+fn.Name, fn.Loc()))
		}
		seen[fn.Name] = true
	}
	for _, cd := range module.Classes {
		if seen[cd.Name] {
			diags = append(diags, diag.NewErrorWithDefault(diag.ECodeSyntax,
				"duplicate top-level declaration: "+cd.Name, cd.Loc()))
		}
		seen[cd.Name] = true
	}
	if len(diags) > 0 {
		return PhaseResult{Name: PhaseAnalysis, OK: false, Diagnostics: diags, Duration: time.Since(start)}
	}

	_, inferDiags := infer.Infer(module, b.Registry())
	diags = append(diags, inferDiags...)
	return PhaseResult{Name: PhaseAnalysis, OK: len(diags) == 0, Diagnostics: diags, Duration: time.Since(start)}
}

func (o *Orchestrator) runSourceOptimization(module *astutil.SourceModule) PhaseResult {
	start := time.Now()
	optimize.FoldSource(module)
	return PhaseResult{Name: PhaseSourceOptimization, OK: true, Duration: time.Since(start)}
}

func (o *Orchestrator) runMapping(module *astutil.SourceModule, b backend.Backend) PhaseResult {
	start := time.Now()
	diags := mapping.Resolve(module, b.Registry())
	return PhaseResult{Name: PhaseMapping, OK: len(diags) == 0, Diagnostics: diags, Duration: time.Since(start)}
}

func (o *Orchestrator) runTargetOptimization(module *astutil.SourceModule) PhaseResult {
	start := time.Now()
	optimize.LowerComprehensions(module)
	return PhaseResult{Name: PhaseTargetOptimization, OK: true, Duration: time.Since(start)}
}

func (o *Orchestrator) runGeneration(module *astutil.SourceModule, b backend.Backend, p *prefs.Bag, result *PipelineResult) PhaseResult {
	start := time.Now()
	out, diags := b.Emit(module, p)
	result.Output = out
	ok := true
	for _, d := range diags {
		if d.Kind == diag.Error {
			ok = false
		}
	}
	return PhaseResult{Name: PhaseGeneration, OK: ok, Diagnostics: diags, Duration: time.Since(start)}
}

func (o *Orchestrator) runBuild(ctx context.Context, target string, result *PipelineResult) PhaseResult {
	start := time.Now()
	res, err := o.Invoker.Invoke(ctx, target, result.Output)
	if err != nil {
		return PhaseResult{Name: PhaseBuild, OK: false, Duration: time.Since(start), Diagnostics: []diag.Diagnostic{
			diag.NewErrorWithDefault(diag.ECodeBuildTimeout, "build collaborator failed: "+err.Error(), diag.Location{}),
		}}
	}
	result.Build = res
	return PhaseResult{Name: PhaseBuild, OK: true, Duration: time.Since(start)}
}
