// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package rustlike implements the Rust-like backend (spec §4.3, target
// "rust-like"): maps list/set/dict onto Vec/HashSet/HashMap, which, like
// C++'s standard containers, make internal/container unnecessary for
// this target.
package rustlike

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
		{Key: "crate_name", Kind: prefs.KindString, Default: "generated"},
	}}
}

type rustBackend struct{ registry *types.Registry }

func New() backend.Backend {
	b := &rustBackend{registry: types.NewRegistry()}
	b.registry.RegisterPrimitives(map[types.Kind]types.Descriptor{
		types.KindInt:   {ConcreteName: "i64", Suffix: "int", ZeroValue: "0"},
		types.KindFloat: {ConcreteName: "f64", Suffix: "float", ZeroValue: "0.0"},
		types.KindBool:  {ConcreteName: "bool", Suffix: "bool", ZeroValue: "false"},
		types.KindStr:   {ConcreteName: "String", Suffix: "str", ZeroValue: "String::new()"},
		types.KindChar:  {ConcreteName: "char", Suffix: "char", ZeroValue: "'\\0'"},
		types.KindNone:  {ConcreteName: "()", Suffix: "unit"},
	})
	return b
}

func (b *rustBackend) Target() string            { return "rust-like" }
func (b *rustBackend) Registry() *types.Registry { return b.registry }
func (b *rustBackend) Name(ident string) string  { return ident }

type emitter struct {
	sb    strings.Builder
	b     *rustBackend
	diags []diag.Diagnostic
}

func (b *rustBackend) Emit(module *astutil.SourceModule, p *prefs.Bag) (backend.Output, []diag.Diagnostic) {
	e := &emitter{b: b}
	e.sb.WriteString("use std::collections::{HashMap, HashSet};\n\n")
	for _, cd := range module.Classes {
		e.emitRecord(cd)
	}
	for _, fn := range module.Functions {
		e.emitFunc(fn, 0, false)
	}
	crate := "generated"
	if p != nil && p.String("crate_name") != "" {
		crate = p.String("crate_name")
	}
	return backend.Output{Files: map[string]string{crate + ".rs": e.sb.String()}}, e.diags
}

func (e *emitter) mapType(t types.SourceType) string {
	switch t.Kind {
	case types.KindList:
		return "Vec<" + e.mapType(derefOr(t.Elem)) + ">"
	case types.KindSet:
		return "HashSet<" + e.mapType(derefOr(t.Elem)) + ">"
	case types.KindDict:
		return "HashMap<" + e.mapType(derefOr(t.Key)) + ", " + e.mapType(derefOr(t.Value)) + ">"
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
	e.sb.WriteString("pub struct " + cd.Name + " {\n")
	for _, f := range cd.Fields {
		e.sb.WriteString("    pub " + f.Name + ": " + e.mapType(f.Annotation) + ",\n")
	}
	e.sb.WriteString("}\n\n")
	if len(cd.Methods) > 0 {
		e.sb.WriteString("impl " + cd.Name + " {\n")
		for _, m := range cd.Methods {
			e.emitMethod(m, 1)
		}
		e.sb.WriteString("}\n\n")
	}
}

// emitMethod picks a `&mut self` or `&self` receiver per spec §4.3's
// Rust-like obligation: mutable only when a pre-scan of the body finds an
// assignment (or mutating method call) that targets a field of the
// receiver (testable property 13, scenario S4).
func (e *emitter) emitMethod(fn *astutil.FuncDef, depth int) {
	e.emitFuncLike(fn, depth, true, methodMutatesReceiver(fn))
}

func (e *emitter) emitFunc(fn *astutil.FuncDef, depth int, isMethod bool) {
	e.emitFuncLike(fn, depth, isMethod, isMethod)
}

func (e *emitter) emitFuncLike(fn *astutil.FuncDef, depth int, isMethod, mutable bool) {
	ind := strings.Repeat("    ", depth)
	retType := ""
	if fn.HasReturn && fn.ReturnType.Kind != types.KindNone {
		retType = " -> " + e.mapType(fn.ReturnType)
	}
	var sig strings.Builder
	sig.WriteString(ind + "pub fn " + fn.Name + "(")
	start := 0
	if isMethod {
		if mutable {
			sig.WriteString("&mut self")
		} else {
			sig.WriteString("&self")
		}
		start = 1
	}
	for i := start; i < len(fn.Params); i++ {
		if i > start || isMethod {
			sig.WriteString(", ")
		}
		sig.WriteString(fn.Params[i].Name + ": " + e.mapType(fn.Params[i].Annotation))
	}
	sig.WriteString(")" + retType + " {\n")
	e.sb.WriteString(sig.String())
	e.emitBlock(fn.Body, depth+1)
	e.sb.WriteString(ind + "}\n\n")
}

// methodMutatesReceiver reports whether fn's body assigns to (or calls a
// mutating method on) a field of its first parameter — the receiver.
func methodMutatesReceiver(fn *astutil.FuncDef) bool {
	if len(fn.Params) == 0 {
		return false
	}
	return blockMutates(fn.Body, fn.Params[0].Name)
}

func blockMutates(body []astutil.Statement, self string) bool {
	for _, s := range body {
		if stmtMutates(s, self) {
			return true
		}
	}
	return false
}

func stmtMutates(s astutil.Statement, self string) bool {
	switch st := s.(type) {
	case *astutil.Assign:
		return targetsSelf(st.Target, self)
	case *astutil.AugAssign:
		return targetsSelf(st.Target, self)
	case *astutil.ExprStmt:
		return exprMutatesSelf(st.Expr, self)
	case *astutil.If:
		if blockMutates(st.Body, self) {
			return true
		}
		for _, el := range st.Elifs {
			if blockMutates(el.Body, self) {
				return true
			}
		}
		return st.Else != nil && blockMutates(st.Else, self)
	case *astutil.While:
		return blockMutates(st.Body, self)
	case *astutil.For:
		return blockMutates(st.Body, self)
	default:
		return false
	}
}

func targetsSelf(target astutil.Expression, self string) bool {
	switch t := target.(type) {
	case *astutil.Attribute:
		n, ok := t.Value.(*astutil.Name)
		return ok && n.Ident == self
	case *astutil.Subscript:
		return targetsSelf(t.Value, self)
	default:
		return false
	}
}

func exprMutatesSelf(e astutil.Expression, self string) bool {
	mc, ok := e.(*astutil.MethodCall)
	if !ok {
		return false
	}
	switch mc.Method {
	case "append", "push", "add", "insert", "remove", "pop", "clear", "update", "extend":
		attr, ok := mc.Receiver.(*astutil.Attribute)
		if !ok {
			return false
		}
		n, ok := attr.Value.(*astutil.Name)
		return ok && n.Ident == self
	default:
		return false
	}
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
		val := "Default::default()"
		if st.Value != nil {
			val = e.expr(st.Value)
		}
		e.sb.WriteString(ind + "let mut " + st.Target + ": " + e.mapType(st.Annotation) + " = " + val + ";\n")
	case *astutil.Assign:
		e.sb.WriteString(ind + e.expr(st.Target) + " = " + e.expr(st.Value) + ";\n")
	case *astutil.AugAssign:
		spec, ok := ops.Augmented(st.Op)
		if ok && spec.Category == ops.CategoryInfix {
			e.sb.WriteString(fmt.Sprintf("%s%s %s= %s;\n", ind, e.expr(st.Target), spec.Infix, e.expr(st.Value)))
		}
	case *astutil.ExprStmt:
		e.sb.WriteString(ind + e.expr(st.Expr) + ";\n")
	case *astutil.Return:
		if st.Value != nil {
			e.sb.WriteString(ind + e.expr(st.Value) + "\n")
		}
	case *astutil.If:
		e.sb.WriteString(ind + "if " + e.expr(st.Cond) + " {\n")
		e.emitBlock(st.Body, depth+1)
		for _, el := range st.Elifs {
			e.sb.WriteString(ind + "} else if " + e.expr(el.Cond) + " {\n")
			e.emitBlock(el.Body, depth+1)
		}
		if st.Else != nil {
			e.sb.WriteString(ind + "} else {\n")
			e.emitBlock(st.Else, depth+1)
		}
		e.sb.WriteString(ind + "}\n")
	case *astutil.While:
		e.sb.WriteString(ind + "while " + e.expr(st.Cond) + " {\n")
		e.emitBlock(st.Body, depth+1)
		e.sb.WriteString(ind + "}\n")
	case *astutil.For:
		target, _ := st.Target.(*astutil.Name)
		name := "it"
		if target != nil {
			name = target.Ident
		}
		e.sb.WriteString(ind + "for " + name + " in &" + e.expr(st.Iter) + " {\n")
		e.emitBlock(st.Body, depth+1)
		e.sb.WriteString(ind + "}\n")
	case *astutil.Break:
		e.sb.WriteString(ind + "break;\n")
	case *astutil.Continue:
		e.sb.WriteString(ind + "continue;\n")
	case *astutil.Assert:
		e.sb.WriteString(ind + "assert!(" + e.expr(st.Cond) + ");\n")
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"rust-like backend: unsupported statement", s.Loc()))
	}
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
		member := fmt.Sprintf("%s.contains(&%s)", e.expr(n.Right), e.expr(n.Left))
		if n.Op == "not in" {
			return "!" + member
		}
		return member
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
			return e.expr(n.Args[0]) + ".len()"
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
			return recv + ".push(" + e.expr(n.Args[0]) + ")"
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
		return fmt.Sprintf("(if %s { %s } else { %s })", e.expr(n.Cond), e.expr(n.Then), e.expr(n.Else))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"rust-like backend: unsupported expression", node.Loc()))
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
		return fmt.Sprintf("%q.to_string()", n.Raw)
	case astutil.LitNone:
		return "None"
	default:
		return ""
	}
}
