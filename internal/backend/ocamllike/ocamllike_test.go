// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package ocamllike

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

func TestEmit_SimpleFunction(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	ret := &astutil.Return{Value: &astutil.Name{Ident: "x"}}
	fn := &astutil.FuncDef{
		Name:       "double",
		Params:     []astutil.Param{{Name: "x", Annotation: types.Primitive(types.KindInt)}},
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  true,
		Body:       []astutil.Statement{ret},
	}
	module.Functions = append(module.Functions, fn)

	b := New()
	out, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Empty(t, diags)
	src := out.Files["generated.ml"]
	assert.Contains(t, src, "let double x =")
	assert.Contains(t, src, "x")
}

func TestEmit_RecordWithField(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	cd := &astutil.ClassDef{
		Name:   "Point",
		Fields: []astutil.Field{{Name: "x", Annotation: types.Primitive(types.KindInt)}},
	}
	module.Classes = append(module.Classes, cd)

	b := New()
	out, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Empty(t, diags)
	src := out.Files["generated.ml"]
	assert.Contains(t, src, "type point = {")
	assert.Contains(t, src, "x : int;")
}

func TestEmit_WhileBodyIsUnsupported(t *testing.T) {
	// A function whose body is a while-loop doesn't reduce to a single
	// expression; the backend reports E5001 rather than silently
	// dropping the loop.
	module := astutil.NewSourceModule("t.py", "")
	fn := &astutil.FuncDef{
		Name:   "loopy",
		Params: nil,
		Body: []astutil.Statement{
			&astutil.While{Cond: &astutil.Literal{Kind: astutil.LitBool, Raw: "True"}, Body: nil},
		},
	}
	module.Functions = append(module.Functions, fn)

	b := New()
	_, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Len(t, diags, 1)
	assert.Equal(t, diag.ECodeCodegenUnsupported, diags[0].Code)
}

func TestMapType_NestedList(t *testing.T) {
	b := New().(*mlBackend)
	e := &emitter{b: b}
	got := e.mapType(types.ListOf(types.ListOf(types.Primitive(types.KindInt))))
	assert.Equal(t, "int list list", got)
}
