// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package ocamllike implements the OCaml-like backend (spec §4.3, target
// "ocaml-like"). Like hslike, OCaml's let-binding style doesn't map
// cleanly onto arbitrary while/for mutation, so this backend covers
// records, expressions, and function bodies that reduce to a single
// expression (a trailing return, or an if/elif/else chain whose branches
// each reduce the same way), reporting E5001 for anything that needs genuine mutable
// control flow (see DESIGN.md backend-scope decisions).
package ocamllike

import (
	"fmt"
	"strings"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/backend"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/ops"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

func Schema() prefs.Schema {
	return prefs.Schema{Fields: []prefs.FieldSchema{
		{Key: "module_name", Kind: prefs.KindString, Default: "Generated"},
	}}
}

type mlBackend struct{ registry *types.Registry }

func New() backend.Backend {
	b := &mlBackend{registry: types.NewRegistry()}
	b.registry.RegisterPrimitives(map[types.Kind]types.Descriptor{
		types.KindInt:   {ConcreteName: "int", Suffix: "int"},
		types.KindFloat: {ConcreteName: "float", Suffix: "float"},
		types.KindBool:  {ConcreteName: "bool", Suffix: "bool"},
		types.KindStr:   {ConcreteName: "string", Suffix: "str"},
		types.KindChar:  {ConcreteName: "char", Suffix: "char"},
		types.KindNone:  {ConcreteName: "unit", Suffix: "unit"},
	})
	return b
}

func (b *mlBackend) Target() string            { return "ocaml-like" }
func (b *mlBackend) Registry() *types.Registry { return b.registry }
func (b *mlBackend) Name(ident string) string  { return ident }

type emitter struct {
	sb    strings.Builder
	b     *mlBackend
	diags []diag.Diagnostic
}

func (b *mlBackend) Emit(module *astutil.SourceModule, p *prefs.Bag) (backend.Output, []diag.Diagnostic) {
	e := &emitter{b: b}
	for _, cd := range module.Classes {
		e.emitRecord(cd)
	}
	for _, fn := range module.Functions {
		e.emitFunc(fn)
	}
	name := "generated"
	if p != nil && p.String("module_name") != "" {
		name = strings.ToLower(p.String("module_name"))
	}
	return backend.Output{Files: map[string]string{name + ".ml": e.sb.String()}}, e.diags
}

func (e *emitter) mapType(t types.SourceType) string {
	switch t.Kind {
	case types.KindList:
		return e.mapType(derefOr(t.Elem)) + " list"
	case types.KindSet:
		return e.mapType(derefOr(t.Elem)) + " set"
	case types.KindDict:
		return "(" + e.mapType(derefOr(t.Key)) + ", " + e.mapType(derefOr(t.Value)) + ") Hashtbl.t"
	case types.KindRecord:
		return strings.ToLower(t.RecordName)
	default:
		if d, ok := e.b.registry.Lookup(t); ok {
			return d.ConcreteName
		}
		return "unit"
	}
}

func derefOr(t *types.SourceType) types.SourceType {
	if t == nil {
		return types.Unknown
	}
	return *t
}

func (e *emitter) emitRecord(cd *astutil.ClassDef) {
	e.sb.WriteString("type " + strings.ToLower(cd.Name) + " = {\n")
	for _, f := range cd.Fields {
		e.sb.WriteString("  " + f.Name + " : " + e.mapType(f.Annotation) + ";\n")
	}
	e.sb.WriteString("}\n\n")
	for _, m := range cd.Methods {
		e.emitFunc(m)
	}
}

func (e *emitter) emitFunc(fn *astutil.FuncDef) {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	argList := "()"
	if len(names) > 0 {
		argList = strings.Join(names, " ")
	}
	body, ok := e.singleExpr(fn.Body)
	if !ok {
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"ocaml-like backend: function body must reduce to a single expression (no loops or mutation)", fn.Loc()))
		body = "failwith \"unsupported\""
	}
	e.sb.WriteString("let " + fn.Name + " " + argList + " =\n  " + body + "\n\n")
}

func (e *emitter) singleExpr(body []astutil.Statement) (string, bool) {
	if len(body) == 1 {
		if ret, ok := body[0].(*astutil.Return); ok && ret.Value != nil {
			return e.expr(ret.Value), true
		}
		if ifs, ok := body[0].(*astutil.If); ok {
			return e.ifExpr(ifs)
		}
	}
	return "", false
}

func (e *emitter) ifExpr(ifs *astutil.If) (string, bool) {
	thenExpr, ok := e.singleExpr(ifs.Body)
	if !ok {
		return "", false
	}
	elseExpr := "failwith \"unmatched\""
	if ifs.Else != nil {
		ex, ok := e.singleExpr(ifs.Else)
		if !ok {
			return "", false
		}
		elseExpr = ex
	} else if len(ifs.Elifs) > 0 {
		ex, ok := e.ifExpr(&astutil.If{Cond: ifs.Elifs[0].Cond, Body: ifs.Elifs[0].Body, Elifs: ifs.Elifs[1:], Else: ifs.Else})
		if !ok {
			return "", false
		}
		elseExpr = ex
	}
	return fmt.Sprintf("(if %s then %s else %s)", e.expr(ifs.Cond), thenExpr, elseExpr), true
}

func (e *emitter) expr(node astutil.Expression) string {
	if node == nil {
		return ""
	}
	switch n := node.(type) {
	case *astutil.Literal:
		return e.literal(n)
	case *astutil.Name:
		return n.Ident
	case *astutil.BinOp:
		spec, ok := ops.Binary(n.Op)
		if !ok {
			return e.expr(n.Left)
		}
		infix := spec.Infix
		if n.Left.Type().Source.Kind == types.KindFloat {
			infix = infix + "."
		}
		if spec.Category == ops.CategoryCall {
			return fmt.Sprintf("(%s %s %s)", spec.Call, e.expr(n.Left), e.expr(n.Right))
		}
		return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), infix, e.expr(n.Right))
	case *astutil.UnaryOp:
		spec, ok := ops.Unary(n.Op)
		if !ok {
			return e.expr(n.Operand)
		}
		if n.Op == "not" {
			return "(not " + e.expr(n.Operand) + ")"
		}
		return "(" + spec.Infix + e.expr(n.Operand) + ")"
	case *astutil.CompareOp:
		spec, ok := ops.Compare(n.Op)
		if ok && spec.Category == ops.CategoryInfix {
			return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), spec.Infix, e.expr(n.Right))
		}
		member := fmt.Sprintf("(List.mem %s %s)", e.expr(n.Left), e.expr(n.Right))
		if n.Op == "not in" {
			return "(not " + member + ")"
		}
		return member
	case *astutil.BoolOp:
		hsOp := "&&"
		if n.Op == "or" {
			hsOp = "||"
		}
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = e.expr(v)
		}
		return "(" + strings.Join(parts, " "+hsOp+" ") + ")"
	case *astutil.Call:
		name, _ := n.Func.(*astutil.Name)
		fn := ""
		if name != nil {
			fn = name.Ident
		}
		if fn == "len" {
			return "(List.length " + e.expr(n.Args[0]) + ")"
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = e.expr(a)
		}
		return "(" + fn + " " + strings.Join(args, " ") + ")"
	case *astutil.Conditional:
		return fmt.Sprintf("(if %s then %s else %s)", e.expr(n.Cond), e.expr(n.Then), e.expr(n.Else))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"ocaml-like backend: unsupported expression", node.Loc()))
		return "failwith \"unsupported\""
	}
}

func (e *emitter) literal(n *astutil.Literal) string {
	switch n.Kind {
	case astutil.LitInt:
		return n.Raw
	case astutil.LitFloat:
		return n.Raw
	case astutil.LitBool:
		if n.Raw == "True" {
			return "true"
		}
		return "false"
	case astutil.LitStr:
		return fmt.Sprintf("%q", n.Raw)
	case astutil.LitNone:
		return "()"
	default:
		return ""
	}
}
