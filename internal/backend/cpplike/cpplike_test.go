// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package cpplike

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
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
	src := out.Files["generated.hpp"]
	assert.Contains(t, src, "long double(long x)")
	assert.Contains(t, src, "return x")
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
	src := out.Files["generated.hpp"]
	assert.Contains(t, src, "struct Point {")
	assert.Contains(t, src, "long x")
}

func TestMapType_NestedList(t *testing.T) {
	b := New().(*cppBackend)
	e := &emitter{b: b}
	got := e.mapType(types.ListOf(types.ListOf(types.Primitive(types.KindInt))))
	assert.Equal(t, "std::vector<std::vector<long>>", got)
}

func TestEmit_Namespace(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	b := New()
	bag := prefs.NewBag(Schema())
	bag.Set("namespace", "mg")
	out, diags := b.Emit(module, bag)
	require.Empty(t, diags)
	src := out.Files["generated.hpp"]
	assert.Contains(t, src, "namespace mg {")
}
