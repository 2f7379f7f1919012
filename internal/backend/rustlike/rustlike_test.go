// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package rustlike

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
	src := out.Files["generated.rs"]
	assert.Contains(t, src, "pub fn double(x: i64) -> i64 {")
	assert.Contains(t, src, "x")
}

func TestEmit_CounterMutableAndImmutableReceivers(t *testing.T) {
	// Counter { n: int }, bump(self, k: int) -> None: self.n += k,
	// value(self) -> int: return self.n  (spec scenario S4).
	module := astutil.NewSourceModule("t.py", "")
	self := types.Record("Counter")
	bump := &astutil.FuncDef{
		Name: "bump",
		Params: []astutil.Param{
			{Name: "self", Annotation: self},
			{Name: "k", Annotation: types.Primitive(types.KindInt)},
		},
		Body: []astutil.Statement{
			&astutil.AugAssign{
				Target: &astutil.Attribute{Value: &astutil.Name{Ident: "self"}, Attr: "n"},
				Op:     "+",
				Value:  &astutil.Name{Ident: "k"},
			},
		},
	}
	value := &astutil.FuncDef{
		Name:       "value",
		Params:     []astutil.Param{{Name: "self", Annotation: self}},
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  true,
		Body: []astutil.Statement{
			&astutil.Return{Value: &astutil.Attribute{Value: &astutil.Name{Ident: "self"}, Attr: "n"}},
		},
	}
	cd := &astutil.ClassDef{
		Name:    "Counter",
		Fields:  []astutil.Field{{Name: "n", Annotation: types.Primitive(types.KindInt)}},
		Methods: []*astutil.FuncDef{bump, value},
	}
	module.Classes = append(module.Classes, cd)

	b := New()
	out, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Empty(t, diags)
	src := out.Files["generated.rs"]
	assert.Contains(t, src, "pub fn bump(&mut self, k: i64) {")
	assert.Contains(t, src, "pub fn value(&self) -> i64 {")
}

func TestMapType_NestedList(t *testing.T) {
	b := New().(*rustBackend)
	e := &emitter{b: b}
	got := e.mapType(types.ListOf(types.ListOf(types.Primitive(types.KindInt))))
	assert.Equal(t, "Vec<Vec<i64>>", got)
}
