// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/types"
)

func TestLowerComprehensions_ListCompBecomesLoop(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	comp := &astutil.ListComp{
		Elem: &astutil.Name{Ident: "x"},
		Clause: astutil.Comprehension{
			Target: &astutil.Name{Ident: "x"},
			Iter:   &astutil.Name{Ident: "xs"},
		},
	}
	decl := &astutil.AnnAssign{Target: "ys", Annotation: types.ListOf(types.Primitive(types.KindInt)), Value: comp}
	fn := &astutil.FuncDef{Name: "f", Body: []astutil.Statement{decl}}
	module.Functions = append(module.Functions, fn)

	LowerComprehensions(module)

	require.Len(t, fn.Body, 3)
	accDecl, ok := fn.Body[0].(*astutil.AnnAssign)
	require.True(t, ok)
	loop, ok := fn.Body[1].(*astutil.For)
	require.True(t, ok)
	require.Len(t, loop.Body, 1)
	final, ok := fn.Body[2].(*astutil.AnnAssign)
	require.True(t, ok)
	name, ok := final.Value.(*astutil.Name)
	require.True(t, ok)
	assert.Equal(t, accDecl.Target, name.Ident)
}

func TestLowerComprehensions_NonComprehensionUntouched(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	decl := &astutil.AnnAssign{Target: "x", Annotation: types.Primitive(types.KindInt), Value: &astutil.Literal{Kind: astutil.LitInt, Raw: "1"}}
	fn := &astutil.FuncDef{Name: "f", Body: []astutil.Statement{decl}}
	module.Functions = append(module.Functions, fn)

	LowerComprehensions(module)

	assert.Len(t, fn.Body, 1)
}
