// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/backend"
	"github.com/kraklabs/mgen/internal/backend/golike"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

func testRegistry() *backend.Registry {
	r := backend.NewRegistry()
	r.Register("go-like", golike.New)
	return r
}

func TestCompile_SimpleFunctionSucceeds(t *testing.T) {
	module := astutil.NewSourceModule("add.src", "")
	ret := &astutil.Return{Value: &astutil.BinOp{
		Op:    "+",
		Left:  &astutil.Name{Ident: "a"},
		Right: &astutil.Name{Ident: "b"},
	}}
	fn := &astutil.FuncDef{
		Name: "add",
		Params: []astutil.Param{
			{Name: "a", Annotation: types.Primitive(types.KindInt)},
			{Name: "b", Annotation: types.Primitive(types.KindInt)},
		},
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  true,
		Body:       []astutil.Statement{ret},
	}
	module.Functions = append(module.Functions, fn)

	o := NewOrchestrator(testRegistry(), nil, nil)
	result := o.Compile(context.Background(), module, "go-like", prefs.NewBag(golike.Schema()), false)

	require.True(t, result.OK, "%+v", result.Diagnostics)
	assert.Len(t, result.Phases, 6)
	assert.Contains(t, result.Output.Files, "generated.go")
}

func TestCompile_UnannotatedParamFailsAtValidation(t *testing.T) {
	module := astutil.NewSourceModule("bad.src", "")
	fn := &astutil.FuncDef{
		Name:       "f",
		Params:     []astutil.Param{{Name: "x"}},
		HasReturn:  true,
		ReturnType: types.Primitive(types.KindInt),
		Body:       []astutil.Statement{&astutil.Return{Value: &astutil.Literal{Kind: astutil.LitInt, Raw: "1"}}},
	}
	module.Functions = append(module.Functions, fn)

	o := NewOrchestrator(testRegistry(), nil, nil)
	result := o.Compile(context.Background(), module, "go-like", prefs.NewBag(golike.Schema()), false)

	require.False(t, result.OK)
	assert.Len(t, result.Phases, 1)
	assert.Equal(t, PhaseValidation, result.Phases[0].Name)
}

func TestCompile_UnknownTargetFails(t *testing.T) {
	module := astutil.NewSourceModule("t.src", "")
	o := NewOrchestrator(testRegistry(), nil, nil)
	result := o.Compile(context.Background(), module, "nope", nil, false)

	require.False(t, result.OK)
	assert.Len(t, result.Phases, 1)
}
