// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/types"
)

func TestInfer_LiteralAndAnnotationPass(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	// def f(x: int) -> int: return x
	x := &astutil.Name{Ident: "x"}
	ret := &astutil.Return{Value: x}
	fn := &astutil.FuncDef{
		Name:       "f",
		Params:     []astutil.Param{{Name: "x", Annotation: types.Primitive(types.KindInt)}},
		ReturnType: types.Primitive(types.KindInt),
		HasReturn:  true,
		Body:       []astutil.Statement{ret},
	}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	assert.Empty(t, diags)
	assert.Equal(t, types.KindInt, x.Type().Source.Kind)
}

func TestInfer_ContainerRefinementFromAppend(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	// def f() -> None:
	//   xs = []
	//   xs.append(1)
	xsAssign := &astutil.AnnAssign{Target: "xs", Annotation: types.ListOf(types.Unknown)}
	appendCall := &astutil.MethodCall{
		Receiver: &astutil.Name{Ident: "xs"},
		Method:   "append",
		Args:     []astutil.Expression{&astutil.Literal{Kind: astutil.LitInt, Raw: "1"}},
	}
	fn := &astutil.FuncDef{
		Name:      "f",
		HasReturn: true,
		Body:      []astutil.Statement{xsAssign, &astutil.ExprStmt{Expr: appendCall}},
	}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	assert.Empty(t, diags)
}

func TestInfer_UnresolvedBindingProducesDiagnostic(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	assign := &astutil.AnnAssign{Target: "xs", Annotation: types.ListOf(types.Unknown)}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{assign}}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "E2002", string(diags[0].Code))
}

func TestInfer_ThreeLevelContainerNestingRejected(t *testing.T) {
	// def f() -> None: out: list[list[list[int]]] = []
	module := astutil.NewSourceModule("t.py", "")
	deep := types.ListOf(types.ListOf(types.ListOf(types.Primitive(types.KindInt))))
	assign := &astutil.AnnAssign{Target: "out", Annotation: deep}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{assign}}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "E2003", string(diags[0].Code))
}

func TestInfer_TwoLevelContainerNestingAccepted(t *testing.T) {
	// def f() -> None: out: list[list[int]] = []
	module := astutil.NewSourceModule("t.py", "")
	nested := types.ListOf(types.ListOf(types.Primitive(types.KindInt)))
	assign := &astutil.AnnAssign{Target: "out", Annotation: nested}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{assign}}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	assert.Empty(t, diags)
}

func TestInfer_BareListAnnotationRefinedFromLiteral(t *testing.T) {
	// def build() -> list:
	//   out: list = []
	//   row: list = [1, 2, 3]
	//   out.append(row)
	//   return out
	module := astutil.NewSourceModule("t.py", "")
	outAssign := &astutil.AnnAssign{Target: "out", Annotation: types.ListOf(types.Unknown), Value: &astutil.ListLit{}}
	rowAssign := &astutil.AnnAssign{
		Target:     "row",
		Annotation: types.ListOf(types.Unknown),
		Value: &astutil.ListLit{Elems: []astutil.Expression{
			&astutil.Literal{Kind: astutil.LitInt, Raw: "1"},
			&astutil.Literal{Kind: astutil.LitInt, Raw: "2"},
			&astutil.Literal{Kind: astutil.LitInt, Raw: "3"},
		}},
	}
	appendCall := &astutil.MethodCall{
		Receiver: &astutil.Name{Ident: "out"},
		Method:   "append",
		Args:     []astutil.Expression{&astutil.Name{Ident: "row"}},
	}
	ret := &astutil.Return{Value: &astutil.Name{Ident: "out"}}
	fn := &astutil.FuncDef{
		Name:       "build",
		ReturnType: types.ListOf(types.Unknown),
		HasReturn:  true,
		Body:       []astutil.Statement{outAssign, rowAssign, &astutil.ExprStmt{Expr: appendCall}, ret},
	}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	assert.Empty(t, diags)
}

func TestInfer_DictKeyValueRefinement(t *testing.T) {
	module := astutil.NewSourceModule("t.py", "")
	// def f() -> None:
	//   d = {}
	//   d["a"] = 1
	dAssign := &astutil.AnnAssign{Target: "d", Annotation: types.DictOf(types.Unknown, types.Unknown)}
	store := &astutil.Assign{
		Target: &astutil.Subscript{Value: &astutil.Name{Ident: "d"}, Index: &astutil.Literal{Kind: astutil.LitStr, Raw: "a"}},
		Value:  &astutil.Literal{Kind: astutil.LitInt, Raw: "1"},
	}
	fn := &astutil.FuncDef{Name: "f", HasReturn: true, Body: []astutil.Statement{dAssign, store}}
	module.Functions = append(module.Functions, fn)

	_, diags := Infer(module, nil)
	assert.Empty(t, diags)
}
