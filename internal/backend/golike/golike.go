// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package golike implements the Go-like backend (spec §4.3, target
// "go-like"): it lowers the accepted SourceLang subset onto literal,
// idiomatic Go syntax, using Go's built-in generic slice/map types
// directly rather than per-instantiation codegen (see DESIGN.md
// "Container strategy split").
package golike

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/backend"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/ops"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

// Schema is the Go-like backend's preference schema (spec §4.6).
func Schema() prefs.Schema {
	return prefs.Schema{Fields: []prefs.FieldSchema{
		{Key: "package_name", Kind: prefs.KindString, Default: "generated"},
		{Key: "use_pointer_receivers", Kind: prefs.KindBool, Default: true},
	}}
}

var goReserved = map[string]bool{
	"func": true, "package": true, "import": true, "type": true, "var": true,
	"const": true, "range": true, "defer": true, "go": true, "chan": true,
	"select": true, "map": true, "struct": true, "interface": true,
}

type goBackend struct {
	registry *types.Registry
}

// New constructs a Go-like Backend instance with its own type registry.
func New() backend.Backend {
	b := &goBackend{registry: types.NewRegistry()}
	b.registry.RegisterPrimitives(map[types.Kind]types.Descriptor{
		types.KindInt:   {ConcreteName: "int", Suffix: "int", ZeroValue: "0", EqualFn: "=="},
		types.KindFloat: {ConcreteName: "float64", Suffix: "float64", ZeroValue: "0.0", EqualFn: "=="},
		types.KindBool:  {ConcreteName: "bool", Suffix: "bool", ZeroValue: "false", EqualFn: "=="},
		types.KindStr:   {ConcreteName: "string", Suffix: "string", ZeroValue: `""`, EqualFn: "=="},
		types.KindChar:  {ConcreteName: "rune", Suffix: "rune", ZeroValue: "0", EqualFn: "=="},
		types.KindNone:  {ConcreteName: "struct{}", Suffix: "void", ZeroValue: "struct{}{}"},
	})
	return b
}

func (b *goBackend) Target() string            { return "go-like" }
func (b *goBackend) Registry() *types.Registry { return b.registry }

// Name maps a SourceLang identifier to its Go spelling: a trailing
// underscore escapes the small set of SourceLang identifiers that
// collide with a Go keyword, otherwise the identifier passes through
// unchanged (locals keep the source's naming convention).
func (b *goBackend) Name(ident string) string {
	if goReserved[ident] {
		return ident + "_"
	}
	return ident
}

// exportedName capitalizes ident's first rune, for top-level
// function/record names (idiomatic exported Go identifiers).
func exportedName(ident string) string {
	if ident == "" {
		return ident
	}
	r := []rune(ident)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

type emitter struct {
	b        *goBackend
	sb       strings.Builder
	diags    []diag.Diagnostic
	declared map[string]bool
	prefs    *prefs.Bag
}

// Emit converts module into a single Go source file (spec §4.5 Generation
// phase).
func (b *goBackend) Emit(module *astutil.SourceModule, p *prefs.Bag) (backend.Output, []diag.Diagnostic) {
	e := &emitter{b: b, prefs: p}

	pkg := "generated"
	if p != nil {
		if v := p.String("package_name"); v != "" {
			pkg = v
		}
	}
	e.sb.WriteString("// Code generated by mgen. DO NOT EDIT.\n\n")
	e.sb.WriteString("package " + pkg + "\n\n")

	for _, cd := range module.Classes {
		e.emitRecord(cd)
	}
	for _, fn := range module.Functions {
		e.emitFunc(fn)
	}

	out := backend.Output{Files: map[string]string{pkg + ".go": e.sb.String()}}
	return out, e.diags
}

func (e *emitter) emitRecord(cd *astutil.ClassDef) {
	var sig strings.Builder
	sig.WriteString("type ")
	sig.WriteString(exportedName(cd.Name))
	sig.WriteString(" struct {\n")
	for _, f := range cd.Fields {
		sig.WriteString("\t")
		sig.WriteString(exportedName(f.Name))
		sig.WriteString(" ")
		sig.WriteString(e.mapType(f.Annotation))
		sig.WriteString("\n")
	}
	sig.WriteString("}\n\n")
	e.sb.WriteString(sig.String())

	for _, m := range cd.Methods {
		e.emitMethod(cd, m)
	}
}

func (e *emitter) emitMethod(cd *astutil.ClassDef, fn *astutil.FuncDef) {
	receiver := "r"
	if len(fn.Params) > 0 {
		receiver = fn.Params[0].Name
	}
	var sig strings.Builder
	sig.WriteString("func (")
	sig.WriteString(receiver)
	sig.WriteString(" *")
	sig.WriteString(exportedName(cd.Name))
	sig.WriteString(") ")
	sig.WriteString(exportedName(fn.Name))
	sig.WriteString("(")
	for i, p := range fn.Params {
		if i == 0 {
			continue // receiver
		}
		if i > 1 {
			sig.WriteString(", ")
		}
		sig.WriteString(p.Name)
		sig.WriteString(" ")
		sig.WriteString(e.mapType(p.Annotation))
	}
	sig.WriteString(")")
	if fn.HasReturn && fn.ReturnType.Kind != types.KindNone {
		sig.WriteString(" ")
		sig.WriteString(e.mapType(fn.ReturnType))
	}
	sig.WriteString(" {\n")
	e.sb.WriteString(sig.String())

	e.declared = map[string]bool{receiver: true}
	for _, p := range fn.Params {
		e.declared[p.Name] = true
	}
	e.emitBlock(fn.Body, 1)
	e.sb.WriteString("}\n\n")
}

func (e *emitter) emitFunc(fn *astutil.FuncDef) {
	var sig strings.Builder
	sig.WriteString("func ")
	sig.WriteString(exportedName(fn.Name))
	sig.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			sig.WriteString(", ")
		}
		sig.WriteString(p.Name)
		sig.WriteString(" ")
		sig.WriteString(e.mapType(p.Annotation))
	}
	sig.WriteString(")")
	if fn.HasReturn && fn.ReturnType.Kind != types.KindNone {
		sig.WriteString(" ")
		sig.WriteString(e.mapType(fn.ReturnType))
	}
	sig.WriteString(" {\n")
	e.sb.WriteString(sig.String())

	e.declared = map[string]bool{}
	for _, p := range fn.Params {
		e.declared[p.Name] = true
	}
	e.emitBlock(fn.Body, 1)
	e.sb.WriteString("}\n\n")
}

func (e *emitter) indent(depth int) string { return strings.Repeat("\t", depth) }

func (e *emitter) emitBlock(body []astutil.Statement, depth int) {
	for _, s := range body {
		e.emitStatement(s, depth)
	}
}

func (e *emitter) emitStatement(s astutil.Statement, depth int) {
	ind := e.indent(depth)
	switch st := s.(type) {
	case *astutil.AnnAssign:
		if st.Value != nil {
			e.sb.WriteString(ind + e.declOrAssign(st.Target, e.expr(st.Value)) + "\n")
		} else {
			e.sb.WriteString(ind + "var " + st.Target + " " + e.mapType(st.Annotation) + "\n")
			e.declared[st.Target] = true
		}
	case *astutil.Assign:
		e.sb.WriteString(ind + e.assignStmt(st) + "\n")
	case *astutil.AugAssign:
		spec, ok := ops.Augmented(st.Op)
		if ok && spec.Category == ops.CategoryInfix {
			e.sb.WriteString(fmt.Sprintf("%s%s %s= %s\n", ind, e.expr(st.Target), spec.Infix, e.expr(st.Value)))
		} else {
			e.sb.WriteString(fmt.Sprintf("%s%s = %s\n", ind, e.expr(st.Target), e.binaryCallFallback(st.Op, st.Target, st.Value)))
		}
	case *astutil.ExprStmt:
		e.sb.WriteString(ind + e.expr(st.Expr) + "\n")
	case *astutil.Return:
		if st.Value != nil {
			e.sb.WriteString(ind + "return " + e.expr(st.Value) + "\n")
		} else {
			e.sb.WriteString(ind + "return\n")
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
		e.sb.WriteString(ind + "for " + e.expr(st.Cond) + " {\n")
		e.emitBlock(st.Body, depth+1)
		e.sb.WriteString(ind + "}\n")
	case *astutil.For:
		target := e.expr(st.Target)
		e.declared[target] = true
		e.sb.WriteString(ind + "for _, " + target + " := range " + e.expr(st.Iter) + " {\n")
		e.emitBlock(st.Body, depth+1)
		e.sb.WriteString(ind + "}\n")
	case *astutil.Break:
		e.sb.WriteString(ind + "break\n")
	case *astutil.Continue:
		e.sb.WriteString(ind + "continue\n")
	case *astutil.Assert:
		cond := e.expr(st.Cond)
		msg := `"assertion failed"`
		if st.Message != nil {
			msg = e.expr(st.Message)
		}
		e.sb.WriteString(fmt.Sprintf("%sif !(%s) { panic(%s) }\n", ind, cond, msg))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"go-like backend: unsupported statement", s.Loc()))
	}
}

// declOrAssign renders target's first binding with := and every
// subsequent binding with =, tracked per function scope.
func (e *emitter) declOrAssign(target, rhs string) string {
	if e.declared[target] {
		return target + " = " + rhs
	}
	e.declared[target] = true
	return target + " := " + rhs
}

func (e *emitter) assignStmt(st *astutil.Assign) string {
	rhs := e.expr(st.Value)
	if name, ok := st.Target.(*astutil.Name); ok {
		return e.declOrAssign(name.Ident, rhs)
	}
	return e.expr(st.Target) + " = " + rhs
}

func (e *emitter) binaryCallFallback(op string, target, value astutil.Expression) string {
	spec, ok := ops.Binary(op)
	if ok && spec.Category == ops.CategoryCall {
		return fmt.Sprintf("%s(%s, %s)", spec.Call, e.expr(target), e.expr(value))
	}
	return e.expr(value)
}

// mapType renders a SourceType as its Go spelling directly (no
// per-instantiation registry lookup: Go's builtin generic slice/map
// syntax needs no concrete-type descriptor).
func (e *emitter) mapType(t types.SourceType) string {
	switch t.Kind {
	case types.KindList:
		return "[]" + e.mapType(derefOr(t.Elem))
	case types.KindSet:
		return "map[" + e.mapType(derefOr(t.Elem)) + "]struct{}"
	case types.KindDict:
		return "map[" + e.mapType(derefOr(t.Key)) + "]" + e.mapType(derefOr(t.Value))
	case types.KindTuple:
		parts := make([]string, len(t.Elems))
		for i, el := range t.Elems {
			parts[i] = e.mapType(el)
		}
		return "struct{ " + strings.Join(parts, "; ") + " }"
	case types.KindRecord:
		return "*" + exportedName(t.RecordName)
	default:
		if d, ok := e.b.registry.Lookup(t); ok {
			return d.ConcreteName
		}
		return "any"
	}
}

func derefOr(t *types.SourceType) types.SourceType {
	if t == nil {
		return types.Unknown
	}
	return *t
}

// expr renders e as a Go expression, built bottom-up by concatenating
// and fmt.Sprintf-formatting the renderings of its operands.
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
		return e.binOp(n)
	case *astutil.UnaryOp:
		return e.unaryOp(n)
	case *astutil.CompareOp:
		return e.compareOp(n)
	case *astutil.BoolOp:
		return e.boolOp(n)
	case *astutil.Call:
		return e.call(n)
	case *astutil.MethodCall:
		return e.methodCall(n)
	case *astutil.Attribute:
		return e.expr(n.Value) + "." + exportedName(n.Attr)
	case *astutil.Subscript:
		return e.expr(n.Value) + "[" + e.expr(n.Index) + "]"
	case *astutil.Slice:
		return e.slice(n)
	case *astutil.ListLit:
		return e.listLit(n)
	case *astutil.SetLit:
		return e.setLit(n)
	case *astutil.TupleLit:
		return e.tupleLit(n)
	case *astutil.DictLit:
		return e.dictLit(n)
	case *astutil.FString:
		return e.fstring(n)
	case *astutil.Conditional:
		return fmt.Sprintf("func() %s { if %s { return %s }; return %s }()",
			e.mapType(n.Then.Type().Source), e.expr(n.Cond), e.expr(n.Then), e.expr(n.Else))
	case *astutil.ListComp, *astutil.SetComp, *astutil.DictComp:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"go-like backend: comprehensions lower to an explicit loop in a statement context, not inline", node.Loc()))
		return "/* unsupported comprehension */"
	case *astutil.Lambda:
		return fmt.Sprintf("func(%s any) any { return %s }", n.Param, e.expr(n.Body))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"go-like backend: unsupported expression", node.Loc()))
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
		return "nil"
	default:
		return ""
	}
}

func (e *emitter) binOp(n *astutil.BinOp) string {
	spec, ok := ops.Binary(n.Op)
	if !ok {
		return e.expr(n.Left)
	}
	if spec.Category == ops.CategoryCall {
		return fmt.Sprintf("%s(%s, %s)", spec.Call, e.expr(n.Left), e.expr(n.Right))
	}
	return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), spec.Infix, e.expr(n.Right))
}

func (e *emitter) unaryOp(n *astutil.UnaryOp) string {
	spec, ok := ops.Unary(n.Op)
	if !ok {
		return e.expr(n.Operand)
	}
	if spec.Category == ops.CategoryCall {
		return fmt.Sprintf("%s(%s)", spec.Call, e.expr(n.Operand))
	}
	return spec.Infix + e.expr(n.Operand)
}

func (e *emitter) compareOp(n *astutil.CompareOp) string {
	spec, ok := ops.Compare(n.Op)
	if !ok {
		return e.expr(n.Left)
	}
	if spec.Category == ops.CategoryCall {
		call := fmt.Sprintf("%s(%s, %s)", spec.Call, e.expr(n.Right), e.expr(n.Left))
		if spec.Call == "not_contains" {
			return "!" + fmt.Sprintf("contains(%s, %s)", e.expr(n.Right), e.expr(n.Left))
		}
		return call
	}
	return fmt.Sprintf("(%s %s %s)", e.expr(n.Left), spec.Infix, e.expr(n.Right))
}

func (e *emitter) boolOp(n *astutil.BoolOp) string {
	spec, _ := ops.Bool(n.Op)
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = e.expr(v)
	}
	return "(" + strings.Join(parts, " "+spec.Infix+" ") + ")"
}

func (e *emitter) call(n *astutil.Call) string {
	name, ok := n.Func.(*astutil.Name)
	if !ok {
		return e.expr(n.Func) + e.argList(n.Args)
	}
	switch name.Ident {
	case "len":
		return "len(" + e.expr(n.Args[0]) + ")"
	case "str":
		return "fmt.Sprintf(\"%v\", " + e.expr(n.Args[0]) + ")"
	case "int":
		return "int(" + e.expr(n.Args[0]) + ")"
	case "float":
		return "float64(" + e.expr(n.Args[0]) + ")"
	case "bool":
		return "bool(" + e.expr(n.Args[0]) + ")"
	default:
		return exportedName(name.Ident) + e.argList(n.Args)
	}
}

func (e *emitter) argList(args []astutil.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.expr(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e *emitter) methodCall(n *astutil.MethodCall) string {
	recv := e.expr(n.Receiver)
	switch n.Method {
	case "append", "push":
		return fmt.Sprintf("%s = append(%s, %s)", recv, recv, e.expr(n.Args[0]))
	case "upper":
		return fmt.Sprintf("strings.ToUpper(%s)", recv)
	case "lower":
		return fmt.Sprintf("strings.ToLower(%s)", recv)
	case "strip":
		return fmt.Sprintf("strings.TrimSpace(%s)", recv)
	case "split":
		return fmt.Sprintf("strings.Split(%s, %s)", recv, e.argsJoined(n.Args))
	case "join":
		return fmt.Sprintf("strings.Join(%s, %s)", e.argsJoined(n.Args), recv)
	case "replace":
		return fmt.Sprintf("strings.ReplaceAll(%s, %s)", recv, e.argsJoined(n.Args))
	case "startswith":
		return fmt.Sprintf("strings.HasPrefix(%s, %s)", recv, e.argsJoined(n.Args))
	case "endswith":
		return fmt.Sprintf("strings.HasSuffix(%s, %s)", recv, e.argsJoined(n.Args))
	case "find":
		return fmt.Sprintf("strings.Index(%s, %s)", recv, e.argsJoined(n.Args))
	case "get":
		return fmt.Sprintf("%s[%s]", recv, e.expr(n.Args[0]))
	case "keys":
		return fmt.Sprintf("mapKeys(%s)", recv)
	case "values":
		return fmt.Sprintf("mapValues(%s)", recv)
	case "contains":
		return fmt.Sprintf("contains(%s, %s)", recv, e.expr(n.Args[0]))
	default:
		return recv + "." + exportedName(n.Method) + e.argList(prependReceiver(recv, n.Args))
	}
}

// prependReceiver is a placeholder identity helper kept for methods that
// fall through to free-function dispatch; args are emitted verbatim, the
// receiver is handled by the caller's format string instead.
func prependReceiver(_ string, args []astutil.Expression) []astutil.Expression { return args }

func (e *emitter) argsJoined(args []astutil.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.expr(a)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) slice(n *astutil.Slice) string {
	lower, upper := "", ""
	if n.Lower != nil {
		lower = e.expr(n.Lower)
	}
	if n.Upper != nil {
		upper = e.expr(n.Upper)
	}
	return fmt.Sprintf("%s[%s:%s]", e.expr(n.Value), lower, upper)
}

func (e *emitter) listLit(n *astutil.ListLit) string {
	elemType := "any"
	if len(n.Elems) > 0 {
		elemType = e.mapType(n.Elems[0].Type().Source)
	}
	return "[]" + elemType + "{" + e.argsJoined(n.Elems) + "}"
}

func (e *emitter) setLit(n *astutil.SetLit) string {
	elemType := "any"
	if len(n.Elems) > 0 {
		elemType = e.mapType(n.Elems[0].Type().Source)
	}
	parts := make([]string, len(n.Elems))
	for i, el := range n.Elems {
		parts[i] = e.expr(el) + ": {}"
	}
	return "map[" + elemType + "]struct{}{" + strings.Join(parts, ", ") + "}"
}

func (e *emitter) tupleLit(n *astutil.TupleLit) string {
	return "tuple(" + e.argsJoined(n.Elems) + ")"
}

func (e *emitter) dictLit(n *astutil.DictLit) string {
	keyType, valType := "any", "any"
	if len(n.Entries) > 0 {
		keyType = e.mapType(n.Entries[0].Key.Type().Source)
		valType = e.mapType(n.Entries[0].Value.Type().Source)
	}
	parts := make([]string, len(n.Entries))
	for i, ent := range n.Entries {
		parts[i] = e.expr(ent.Key) + ": " + e.expr(ent.Value)
	}
	return "map[" + keyType + "]" + valType + "{" + strings.Join(parts, ", ") + "}"
}

func (e *emitter) fstring(n *astutil.FString) string {
	var format strings.Builder
	args := make([]string, 0, len(n.Exprs))
	for i, lit := range n.Literals {
		format.WriteString(lit)
		if i < len(n.Exprs) {
			format.WriteString("%v")
			args = append(args, e.expr(n.Exprs[i]))
		}
	}
	if len(args) == 0 {
		return fmt.Sprintf("%q", format.String())
	}
	return fmt.Sprintf("fmt.Sprintf(%q, %s)", format.String(), strings.Join(args, ", "))
}
