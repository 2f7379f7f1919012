// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package build specifies the interface of the Build phase's external
// collaborator (spec §1 "compiler-invocation layer", §4.5 step 7): the
// component that would spawn gcc/cargo/ghc/etc. against the generated
// source text. Actually invoking a toolchain is out of CORE scope, so
// this package defines the seam and a no-op implementation the
// orchestrator can call whether or not a real one is wired in, mirroring
// the teacher's MockProvider stand-in for pkg/llm.Provider.
package build

import (
	"context"

	"github.com/kraklabs/mgen/internal/backend"
)

// Result reports what an Invoker did with the generated output. Success
// is true unless the collaborator itself failed to run (a failing build
// from the invoked toolchain is not this package's concern to interpret;
// Log carries whatever the collaborator captured).
type Result struct {
	Invoked bool
	Success bool
	Log     string
}

// Invoker hands a backend's generated Output to an external toolchain.
// The CORE pipeline only needs this interface; a concrete Invoker lives
// outside this repo's scope.
type Invoker interface {
	Invoke(ctx context.Context, target string, out backend.Output) (Result, error)
}

// NoopInvoker never shells out; it reports that the Build phase was
// skipped. It is the default when the orchestrator is built without a
// real Invoker wired in (spec §4.5 step 7 "optional").
type NoopInvoker struct{}

func (NoopInvoker) Invoke(_ context.Context, _ string, _ backend.Output) (Result, error) {
	return Result{Invoked: false}, nil
}
