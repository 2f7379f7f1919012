// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

func fn(name string, params []astutil.Param, hasReturn bool, body ...astutil.Statement) *astutil.FuncDef {
	return &astutil.FuncDef{
		Name:       name,
		Params:     params,
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  hasReturn,
		Body:       body,
	}
}

func TestValidate_MissingReturnAnnotation(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	module.Functions = append(module.Functions, fn("f", nil, false))

	ok, diags := Validate(module)
	require.False(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.ECodeMissingReturnAnnot, diags[0].Code)
}

func TestValidate_MissingParamAnnotation(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	params := []astutil.Param{{Name: "x", Annotation: types.Unknown}}
	module.Functions = append(module.Functions, fn("f", params, true))

	ok, diags := Validate(module)
	require.False(t, ok)
	assert.Equal(t, diag.ECodeMissingParamAnnot, diags[0].Code)
}

func TestValidate_RejectsReflectionBuiltin(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	call := &astutil.Call{Func: &astutil.Name{Ident: "eval"}}
	body := []astutil.Statement{&astutil.ExprStmt{Expr: call}}
	module.Functions = append(module.Functions, fn("f", nil, true, body...))

	ok, diags := Validate(module)
	require.False(t, ok)
	assert.Equal(t, diag.ECodeUnsupportedReflection, diags[0].Code)
}

func TestValidate_AcceptsCleanFunction(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	params := []astutil.Param{{Name: "x", Annotation: types.Primitive(types.KindInt)}}
	ret := &astutil.Return{Value: &astutil.Name{Ident: "x"}}
	module.Functions = append(module.Functions, fn("f", params, true, ret))

	ok, diags := Validate(module)
	assert.True(t, ok)
	assert.Empty(t, diags)
}

func TestValidate_AcceptsNonCapturingLambdaInComprehension(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	lam := &astutil.Lambda{Param: "x", Body: &astutil.Name{Ident: "x"}}
	listComp := &astutil.ListComp{
		Elem: &astutil.Call{Func: lam, Args: []astutil.Expression{&astutil.Name{Ident: "x"}}},
		Clause: astutil.Comprehension{
			Target: &astutil.Name{Ident: "x"},
			Iter:   &astutil.Name{Ident: "xs"},
		},
	}
	params := []astutil.Param{{Name: "xs", Annotation: types.ListOf(types.Primitive(types.KindInt))}}
	ret := &astutil.Return{Value: listComp}
	module.Functions = append(module.Functions, fn("f", params, true, ret))

	ok, diags := Validate(module)
	assert.True(t, ok)
	assert.Empty(t, diags)
}

func TestValidate_RejectsCapturingLambda(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	lam := &astutil.Lambda{Param: "x", Body: &astutil.Name{Ident: "threshold"}}
	assign := &astutil.ExprStmt{Expr: lam}
	params := []astutil.Param{{Name: "threshold", Annotation: types.Primitive(types.KindInt)}}
	module.Functions = append(module.Functions, fn("f", params, true, assign))

	ok, diags := Validate(module)
	require.False(t, ok)
	assert.Equal(t, diag.ECodeUnsupportedLambda, diags[0].Code)
}
