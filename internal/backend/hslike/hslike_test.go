// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package hslike

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

func TestEmit_SingleExpressionFunction(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	ret := &astutil.Return{Value: &astutil.Name{Ident: "x"}}
	fn := &astutil.FuncDef{
		Name:       "identity",
		Params:     []astutil.Param{{Name: "x", Annotation: types.Primitive(types.KindInt)}},
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  true,
		Body:       []astutil.Statement{ret},
	}
	module.Functions = append(module.Functions, fn)

	b := New()
	out, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Empty(t, diags)
	assert.Contains(t, out.Files["generated.hs"], "identity :: Int -> Int")
	assert.Contains(t, out.Files["generated.hs"], "identity x = x")
}

func TestEmit_WhileLoopProducesDiagnostic(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	loop := &astutil.While{Cond: &astutil.Literal{Kind: astutil.LitBool, Raw: "True"}}
	fn := &astutil.FuncDef{Name: "spin", HasReturn: false, Body: []astutil.Statement{loop}}
	module.Functions = append(module.Functions, fn)

	b := New()
	_, diags := b.Emit(module, prefs.NewBag(Schema()))
	require.Len(t, diags, 1)
	assert.Equal(t, "E5001", string(diags[0].Code))
}
