// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package hslike implements the Haskell-like backend (spec §4.3, target
// "hs-like"). Haskell has no native mutable loop or assignment statement,
// so this backend covers the purely-functional slice of the accepted
// subset (literals, expressions, calls, if/return-only function bodies)
// and reports E5001 for while/for/assign, a deliberate backend-scope
// decision recorded in DESIGN.md rather than an attempt to lower
// imperative loops to folds.
package hslike

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

type hsBackend struct{ registry *types.Registry }

func New() backend.Backend {
	b := &hsBackend{registry: types.NewRegistry()}
	b.registry.RegisterPrimitives(map[types.Kind]types.Descriptor{
		types.KindInt:   {ConcreteName: "Int", Suffix: "int"},
		types.KindFloat: {ConcreteName: "Double", Suffix: "float"},
		types.KindBool:  {ConcreteName: "Bool", Suffix: "bool"},
		types.KindStr:   {ConcreteName: "String", Suffix: "str"},
		types.KindChar:  {ConcreteName: "Char", Suffix: "char"},
		types.KindNone:  {ConcreteName: "()", Suffix: "unit"},
	})
	return b
}

func (b *hsBackend) Target() string            { return "hs-like" }
func (b *hsBackend) Registry() *types.Registry { return b.registry }
func (b *hsBackend) Name(ident string) string  { return ident }

type emitter struct {
	sb    strings.Builder
	b     *hsBackend
	diags []diag.Diagnostic
}

func (b *hsBackend) Emit(module *astutil.SourceModule, p *prefs.Bag) (backend.Output, []diag.Diagnostic) {
	e := &emitter{b: b}
	name := "Generated"
	if p != nil && p.String("module_name") != "" {
		name = p.String("module_name")
	}
	e.sb.WriteString("module " + name + " where\n\n")

	for _, cd := range module.Classes {
		e.emitRecord(cd)
	}
	for _, fn := range module.Functions {
		e.emitFunc(fn)
	}
	return backend.Output{Files: map[string]string{strings.ToLower(name) + ".hs": e.sb.String()}}, e.diags
}

func (e *emitter) mapType(t types.SourceType) string {
	switch t.Kind {
	case types.KindList:
		return "[" + e.mapType(derefOr(t.Elem)) + "]"
	case types.KindSet:
		return "Set " + e.mapType(derefOr(t.Elem))
	case types.KindDict:
		return "Map " + e.mapType(derefOr(t.Key)) + " " + e.mapType(derefOr(t.Value))
	case types.KindRecord:
		return t.RecordName
	default:
		if d, ok := e.b.registry.Lookup(t); ok {
			return d.ConcreteName
		}
		return "()"
	}
}

func derefOr(t *types.SourceType) types.SourceType {
	if t == nil {
		return types.Unknown
	}
	return *t
}

func (e *emitter) emitRecord(cd *astutil.ClassDef) {
	e.sb.WriteString("data " + cd.Name + " = " + cd.Name + " {\n")
	for i, f := range cd.Fields {
		sep := ","
		if i == len(cd.Fields)-1 {
			sep = ""
		}
		e.sb.WriteString(fmt.Sprintf("  %s%s :: %s%s\n", lowerFirst(cd.Name), capFirst(f.Name), e.mapType(f.Annotation), sep))
	}
	e.sb.WriteString("}\n\n")
	for _, m := range cd.Methods {
		e.emitFunc(m)
	}
}

func capFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// emitFunc renders one function as a Haskell type signature plus a single
// equation; functions with loops or assignment statements in their body
// are rejected with E5001 rather than silently producing incorrect code.
func (e *emitter) emitFunc(fn *astutil.FuncDef) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, e.mapType(p.Annotation))
	}
	ret := "()"
	if fn.HasReturn {
		ret = e.mapType(fn.ReturnType)
	}
	sigTypes := append(params, ret)
	e.sb.WriteString(fn.Name + " :: " + strings.Join(sigTypes, " -> ") + "\n")

	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	body, ok := e.singleReturnExpr(fn.Body)
	if !ok {
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"hs-like backend: function body must reduce to a single expression (no loops or mutation)", fn.Loc()))
		e.sb.WriteString(fn.Name + " " + strings.Join(names, " ") + " = undefined\n\n")
		return
	}
	e.sb.WriteString(fn.Name + " " + strings.Join(names, " ") + " = " + body + "\n\n")
}

// singleReturnExpr accepts only a body made of a trailing return and, at
// most, a chain of if/elif/else each itself reducible the same way;
// anything else (while, for, assignment, assert) is unsupported.
func (e *emitter) singleReturnExpr(body []astutil.Statement) (string, bool) {
	if len(body) == 1 {
		if ret, ok := body[0].(*astutil.Return); ok && ret.Value != nil {
			return e.expr(ret.Value), true
		}
	}
	if len(body) == 1 {
		if ifs, ok := body[0].(*astutil.If); ok {
			return e.ifExpr(ifs)
		}
	}
	return "", false
}

func (e *emitter) ifExpr(ifs *astutil.If) (string, bool) {
	thenExpr, ok := e.singleReturnExpr(ifs.Body)
	if !ok {
		return "", false
	}
	elseExpr := "undefined"
	if ifs.Else != nil {
		ex, ok := e.singleReturnExpr(ifs.Else)
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
		if spec.Category == ops.CategoryCall {
			return fmt.Sprintf("(%s %s %s)", spec.Call, e.expr(n.Left), e.expr(n.Right))
		}
		return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), spec.Infix, e.expr(n.Right))
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
		member := fmt.Sprintf("(elem %s %s)", e.expr(n.Left), e.expr(n.Right))
		if n.Op == "not in" {
			return "(not " + member + ")"
		}
		return member
	case *astutil.BoolOp:
		spec, _ := ops.Bool(n.Op)
		hsOp := "&&"
		if spec.Infix == "||" {
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
			return "(length " + e.expr(n.Args[0]) + ")"
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
			"hs-like backend: unsupported expression", node.Loc()))
		return "undefined"
	}
}

func (e *emitter) literal(n *astutil.Literal) string {
	switch n.Kind {
	case astutil.LitInt, astutil.LitFloat:
		return n.Raw
	case astutil.LitBool:
		if n.Raw == "True" {
			return "True"
		}
		return "False"
	case astutil.LitStr:
		return fmt.Sprintf("%q", n.Raw)
	case astutil.LitNone:
		return "()"
	default:
		return ""
	}
}
