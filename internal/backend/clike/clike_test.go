// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package clike

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

func TestEmit_FunctionUsingListRegistersContainer(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	xs := &astutil.Name{Ident: "xs"}
	xs.SetType(types.NewInferred(types.ListOf(types.Primitive(types.KindInt))))
	ret := &astutil.Return{Value: &astutil.Call{
		Func: &astutil.Name{Ident: "len"},
		Args: []astutil.Expression{xs},
	}}
	fn := &astutil.FuncDef{
		Name:       "count",
		Params:     []astutil.Param{{Name: "xs", Annotation: types.ListOf(types.Primitive(types.KindInt))}},
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  true,
		Body:       []astutil.Statement{ret},
	}
	module.Functions = append(module.Functions, fn)

	b := New()
	out, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Empty(t, diags)
	assert.Contains(t, out.Files, "generated.h")
	assert.Contains(t, out.Files, "vec_int.h")
	assert.Contains(t, out.Files, "vec_int.c")
	assert.Contains(t, out.Files["generated.h"], "long count(vec_int* xs)")
}

func TestDescriptorFor_Primitives(t *testing.T) {
	b := New().(*cBackend)
	e := &emitter{b: b}
	d := e.descriptorFor(types.Primitive(types.KindStr))
	assert.Equal(t, "char*", d.ConcreteName)
	assert.True(t, d.NeedsDestructor)
}
