// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package cpplike implements the C++-like backend (spec §4.3, target
// "cpp-like"): unlike clike, C++'s std::vector/std::map/std::set templates
// cover the container engine's job natively, so this backend maps
// list/set/dict straight onto them instead of requesting anything from
// internal/container (see DESIGN.md).
package cpplike

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
		{Key: "namespace", Kind: prefs.KindString, Default: ""},
	}}
}

type cppBackend struct{ registry *types.Registry }

func New() backend.Backend {
	b := &cppBackend{registry: types.NewRegistry()}
	b.registry.RegisterPrimitives(map[types.Kind]types.Descriptor{
		types.KindInt:   {ConcreteName: "long", Suffix: "int", ZeroValue: "0", EqualFn: "=="},
		types.KindFloat: {ConcreteName: "double", Suffix: "float", ZeroValue: "0.0", EqualFn: "=="},
		types.KindBool:  {ConcreteName: "bool", Suffix: "bool", ZeroValue: "false", EqualFn: "=="},
		types.KindStr:   {ConcreteName: "std::string", Suffix: "str", ZeroValue: `""`, EqualFn: "=="},
		types.KindChar:  {ConcreteName: "char", Suffix: "char", ZeroValue: "0", EqualFn: "=="},
		types.KindNone:  {ConcreteName: "void", Suffix: "void"},
	})
	return b
}

func (b *cppBackend) Target() string            { return "cpp-like" }
func (b *cppBackend) Registry() *types.Registry { return b.registry }
func (b *cppBackend) Name(ident string) string  { return ident }

type emitter struct {
	b      *cppBackend
	header strings.Builder
	diags  []diag.Diagnostic
}

func (b *cppBackend) Emit(module *astutil.SourceModule, p *prefs.Bag) (backend.Output, []diag.Diagnostic) {
	e := &emitter{b: b}
	e.header.WriteString("#pragma once\n#include <vector>\n#include <map>\n#include <set>\n#include <string>\n\n")
	ns := ""
	if p != nil {
		ns = p.String("namespace")
	}
	if ns != "" {
		e.header.WriteString("namespace " + ns + " {\n\n")
	}
	for _, cd := range module.Classes {
		e.emitRecord(cd)
	}
	for _, fn := range module.Functions {
		e.emitFunc(fn, 0)
	}
	if ns != "" {
		e.header.WriteString("\n} // namespace " + ns + "\n")
	}
	return backend.Output{Files: map[string]string{"generated.hpp": e.header.String()}}, e.diags
}

func (e *emitter) mapType(t types.SourceType) string {
	switch t.Kind {
	case types.KindList:
		return "std::vector<" + e.mapType(derefOr(t.Elem)) + ">"
	case types.KindSet:
		return "std::set<" + e.mapType(derefOr(t.Elem)) + ">"
	case types.KindDict:
		return "std::map<" + e.mapType(derefOr(t.Key)) + ", " + e.mapType(derefOr(t.Value)) + ">"
	case types.KindRecord:
		return t.RecordName
	default:
		if d, ok := e.b.registry.Lookup(t); ok {
			return d.ConcreteName
		}
		return "auto"
	}
}

func derefOr(t *types.SourceType) types.SourceType {
	if t == nil {
		return types.Unknown
	}
	return *t
}

func (e *emitter) emitRecord(cd *astutil.ClassDef) {
	e.header.WriteString("struct " + cd.Name + " {\n")
	for _, f := range cd.Fields {
		e.header.WriteString("    " + e.mapType(f.Annotation) + " " + f.Name + ";\n")
	}
	for _, m := range cd.Methods {
		e.emitMethod(m, 1)
	}
	e.header.WriteString("};\n\n")
}

func (e *emitter) emitMethod(fn *astutil.FuncDef, depth int) {
	e.emitFuncLike(fn, depth, true)
}

func (e *emitter) emitFunc(fn *astutil.FuncDef, depth int) {
	e.emitFuncLike(fn, depth, false)
}

func (e *emitter) emitFuncLike(fn *astutil.FuncDef, depth int, isMethod bool) {
	ind := strings.Repeat("    ", depth)
	retType := "void"
	if fn.HasReturn && fn.ReturnType.Kind != types.KindNone {
		retType = e.mapType(fn.ReturnType)
	}
	var sig strings.Builder
	sig.WriteString(ind + retType + " " + fn.Name + "(")
	start := 0
	if isMethod {
		start = 1
	}
	for i := start; i < len(fn.Params); i++ {
		if i > start {
			sig.WriteString(", ")
		}
		sig.WriteString(e.mapType(fn.Params[i].Annotation) + " " + fn.Params[i].Name)
	}
	sig.WriteString(") {\n")
	e.header.WriteString(sig.String())
	e.emitBlock(fn.Body, depth+1)
	e.header.WriteString(ind + "}\n")
}

func (e *emitter) emitBlock(body []astutil.Statement, depth int) {
	for _, s := range body {
		e.emitStatement(s, depth)
	}
}

func (e *emitter) emitStatement(s astutil.Statement, depth int) {
	ind := strings.Repeat("    ", depth)
	switch st := s.(type) {
	case *astutil.AnnAssign:
		val := e.descZero(st.Annotation)
		if st.Value != nil {
			val = e.expr(st.Value)
		}
		e.header.WriteString(ind + e.mapType(st.Annotation) + " " + st.Target + " = " + val + ";\n")
	case *astutil.Assign:
		e.header.WriteString(ind + e.expr(st.Target) + " = " + e.expr(st.Value) + ";\n")
	case *astutil.AugAssign:
		spec, ok := ops.Augmented(st.Op)
		if ok && spec.Category == ops.CategoryInfix {
			e.header.WriteString(fmt.Sprintf("%s%s %s= %s;\n", ind, e.expr(st.Target), spec.Infix, e.expr(st.Value)))
		}
	case *astutil.ExprStmt:
		e.header.WriteString(ind + e.expr(st.Expr) + ";\n")
	case *astutil.Return:
		if st.Value != nil {
			e.header.WriteString(ind + "return " + e.expr(st.Value) + ";\n")
		} else {
			e.header.WriteString(ind + "return;\n")
		}
	case *astutil.If:
		e.header.WriteString(ind + "if (" + e.expr(st.Cond) + ") {\n")
		e.emitBlock(st.Body, depth+1)
		for _, el := range st.Elifs {
			e.header.WriteString(ind + "} else if (" + e.expr(el.Cond) + ") {\n")
			e.emitBlock(el.Body, depth+1)
		}
		if st.Else != nil {
			e.header.WriteString(ind + "} else {\n")
			e.emitBlock(st.Else, depth+1)
		}
		e.header.WriteString(ind + "}\n")
	case *astutil.While:
		e.header.WriteString(ind + "while (" + e.expr(st.Cond) + ") {\n")
		e.emitBlock(st.Body, depth+1)
		e.header.WriteString(ind + "}\n")
	case *astutil.For:
		target, _ := st.Target.(*astutil.Name)
		name := "it"
		if target != nil {
			name = target.Ident
		}
		e.header.WriteString(ind + "for (auto& " + name + " : " + e.expr(st.Iter) + ") {\n")
		e.emitBlock(st.Body, depth+1)
		e.header.WriteString(ind + "}\n")
	case *astutil.Break:
		e.header.WriteString(ind + "break;\n")
	case *astutil.Continue:
		e.header.WriteString(ind + "continue;\n")
	case *astutil.Assert:
		e.header.WriteString(ind + "assert(" + e.expr(st.Cond) + ");\n")
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"cpp-like backend: unsupported statement", s.Loc()))
	}
}

func (e *emitter) descZero(t types.SourceType) string {
	if d, ok := e.b.registry.Lookup(t); ok {
		return d.ZeroValue
	}
	return "{}"
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
			return fmt.Sprintf("%s(%s, %s)", spec.Call, e.expr(n.Left), e.expr(n.Right))
		}
		return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), spec.Infix, e.expr(n.Right))
	case *astutil.UnaryOp:
		spec, ok := ops.Unary(n.Op)
		if !ok {
			return e.expr(n.Operand)
		}
		if n.Op == "not" {
			return "!" + e.expr(n.Operand)
		}
		return spec.Infix + e.expr(n.Operand)
	case *astutil.CompareOp:
		spec, ok := ops.Compare(n.Op)
		if ok && spec.Category == ops.CategoryInfix {
			return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), spec.Infix, e.expr(n.Right))
		}
		found := fmt.Sprintf("(std::find(%s.begin(), %s.end(), %s) != %s.end())",
			e.expr(n.Right), e.expr(n.Right), e.expr(n.Left), e.expr(n.Right))
		if n.Op == "not in" {
			return "!" + found
		}
		return found
	case *astutil.BoolOp:
		spec, _ := ops.Bool(n.Op)
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = e.expr(v)
		}
		return "(" + strings.Join(parts, " "+spec.Infix+" ") + ")"
	case *astutil.Call:
		name, _ := n.Func.(*astutil.Name)
		if name != nil && name.Ident == "len" {
			return e.expr(n.Args[0]) + ".size()"
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = e.expr(a)
		}
		fn := ""
		if name != nil {
			fn = name.Ident
		}
		return fn + "(" + strings.Join(args, ", ") + ")"
	case *astutil.MethodCall:
		recv := e.expr(n.Receiver)
		switch n.Method {
		case "append", "push":
			return recv + ".push_back(" + e.expr(n.Args[0]) + ")"
		case "add", "insert":
			return recv + ".insert(" + e.expr(n.Args[0]) + ")"
		default:
			args := make([]string, len(n.Args))
			for i, a := range n.Args {
				args[i] = e.expr(a)
			}
			return recv + "." + n.Method + "(" + strings.Join(args, ", ") + ")"
		}
	case *astutil.Attribute:
		return e.expr(n.Value) + "." + n.Attr
	case *astutil.Subscript:
		return e.expr(n.Value) + "[" + e.expr(n.Index) + "]"
	case *astutil.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", e.expr(n.Cond), e.expr(n.Then), e.expr(n.Else))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"cpp-like backend: unsupported expression", node.Loc()))
		return ""
	}
}

func (e *emitter) literal(n *astutil.Literal) string {
	switch n.Kind {
	case astutil.LitInt, astutil.LitFloat:
		return n.Raw
	case astutil.LitBool:
		if n.Raw == "True" {
			return "true"
		}
		return "false"
	case astutil.LitStr:
		return fmt.Sprintf("%q", n.Raw)
	case astutil.LitNone:
		return "nullptr"
	default:
		return ""
	}
}
