// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/mgen/internal/astutil"
)

func TestFoldSource_ConstantArithmetic(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	ret := &astutil.Return{Value: &astutil.BinOp{
		Op:    "+",
		Left:  &astutil.Literal{Kind: astutil.LitInt, Raw: "2"},
		Right: &astutil.Literal{Kind: astutil.LitInt, Raw: "3"},
	}}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{ret}}
	module.Functions = append(module.Functions, fn)

	FoldSource(module)

	lit, ok := fn.Body[0].(*astutil.Return).Value.(*astutil.Literal)
	assert.True(t, ok)
	assert.Equal(t, "5", lit.Raw)
}

func TestFoldSource_DeadBranchElimination(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	ifs := &astutil.If{
		Cond: &astutil.Literal{Kind: astutil.LitBool, Raw: "False"},
		Body: []astutil.Statement{&astutil.Return{Value: &astutil.Literal{Kind: astutil.LitInt, Raw: "1"}}},
		Else: []astutil.Statement{&astutil.Return{Value: &astutil.Literal{Kind: astutil.LitInt, Raw: "2"}}},
	}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{ifs}}
	module.Functions = append(module.Functions, fn)

	FoldSource(module)

	require := assert.New(t)
	require.Len(fn.Body, 1)
	ret, ok := fn.Body[0].(*astutil.Return)
	require.True(ok)
	lit := ret.Value.(*astutil.Literal)
	require.Equal("2", lit.Raw)
}

func TestFoldSource_StripsLeadingDocstring(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	doc := &astutil.ExprStmt{Expr: &astutil.Literal{Kind: astutil.LitStr, Raw: "doc"}}
	ret := &astutil.Return{Value: &astutil.Literal{Kind: astutil.LitInt, Raw: "1"}}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{doc, ret}}
	module.Functions = append(module.Functions, fn)

	FoldSource(module)

	assert.Len(t, fn.Body, 1)
}
