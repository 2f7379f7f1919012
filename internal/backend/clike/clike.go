// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package clike implements the C-like backend (spec §4.3, target
// "c-like"): the sole consumer of internal/container, since plain C has
// no generics and every list[T]/set[T]/dict[K,V] instantiation needs its
// own generated struct and function family.
package clike

import (
	"fmt"
	"strings"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/backend"
	"github.com/kraklabs/mgen/internal/container"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/ops"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/internal/types"
)

// Schema is the C-like backend's preference schema.
func Schema() prefs.Schema {
	return prefs.Schema{Fields: []prefs.FieldSchema{
		{Key: "header_guard_prefix", Kind: prefs.KindString, Default: "MGEN"},
		{Key: "emit_single_translation_unit", Kind: prefs.KindBool, Default: false},
	}}
}

type cBackend struct {
	registry *types.Registry
}

// New constructs a C-like Backend instance.
func New() backend.Backend {
	b := &cBackend{registry: types.NewRegistry()}
	b.registry.RegisterPrimitives(map[types.Kind]types.Descriptor{
		types.KindInt:   {ConcreteName: "long", Suffix: "int", ZeroValue: "0", Format: "%ld", EqualFn: "int_eq"},
		types.KindFloat: {ConcreteName: "double", Suffix: "float", ZeroValue: "0.0", Format: "%f", EqualFn: "float_eq"},
		types.KindBool:  {ConcreteName: "int", Suffix: "bool", ZeroValue: "0", Format: "%d", EqualFn: "bool_eq"},
		types.KindStr: {ConcreteName: "char*", Suffix: "str", HeapOwned: true, NeedsDestructor: true,
			NeedsCopy: true, ZeroValue: "NULL", Format: "%s", EqualFn: "str_eq"},
		types.KindChar: {ConcreteName: "char", Suffix: "char", ZeroValue: "0", Format: "%c", EqualFn: "char_eq"},
		types.KindNone: {ConcreteName: "void", Suffix: "void"},
	})
	return b
}

func (b *cBackend) Target() string            { return "c-like" }
func (b *cBackend) Registry() *types.Registry { return b.registry }

var cReserved = map[string]bool{
	"int": true, "char": true, "struct": true, "union": true, "static": true,
	"const": true, "void": true, "return": true, "switch": true, "register": true,
}

func (b *cBackend) Name(ident string) string {
	if cReserved[ident] {
		return ident + "_"
	}
	return ident
}

type emitter struct {
	b         *cBackend
	engine    *container.Engine
	header    strings.Builder
	source    strings.Builder
	diags     []diag.Diagnostic
	guardName string
}

// Emit converts module into header + source text plus one header/source
// pair per container instantiation the module exercises (spec §4.4).
func (b *cBackend) Emit(module *astutil.SourceModule, p *prefs.Bag) (backend.Output, []diag.Diagnostic) {
	e := &emitter{b: b, engine: container.New()}
	guardPrefix := "MGEN"
	if p != nil && p.String("header_guard_prefix") != "" {
		guardPrefix = p.String("header_guard_prefix")
	}
	e.guardName = guardPrefix + "_GENERATED_H"

	e.header.WriteString("#ifndef " + e.guardName + "\n#define " + e.guardName + "\n\n")
	e.header.WriteString("#include <stdbool.h>\n\n")
	e.source.WriteString("#include \"generated.h\"\n#include <stdlib.h>\n#include <string.h>\n\n")

	for _, cd := range module.Classes {
		e.emitRecord(cd)
	}
	for _, fn := range module.Functions {
		e.emitFunc(fn)
	}
	e.header.WriteString("\n#endif\n")

	out := backend.Output{Files: map[string]string{
		"generated.h": e.header.String(),
		"generated.c": e.source.String(),
	}}

	for _, id := range e.engine.Emitted() {
		art, diags := e.engine.Generate(id)
		if len(diags) > 0 {
			e.diags = append(e.diags, diags...)
			continue
		}
		out.Files[string(id)+".h"] = art.HeaderText
		out.Files[string(id)+".c"] = art.SourceText
	}
	return out, e.diags
}

// descriptorFor resolves t to its concrete Descriptor, registering any
// list/set/dict instantiation with the container engine on first use
// (spec §4.4 "request is idempotent").
func (e *emitter) descriptorFor(t types.SourceType) types.Descriptor {
	switch t.Kind {
	case types.KindList, types.KindSet:
		elemDesc := e.descriptorFor(derefOr(t.Elem))
		family := container.FamilyVec
		if t.Kind == types.KindSet {
			family = container.FamilySet
		}
		id := e.engine.Request(family, elemDesc)
		return types.Descriptor{
			ConcreteName:    string(id) + "*",
			Suffix:          string(id),
			HeapOwned:       true,
			NeedsDestructor: true,
			NeedsCopy:       true,
			EqualFn:         string(id) + "_contains",
		}
	case types.KindDict:
		keyDesc := e.descriptorFor(derefOr(t.Key))
		valDesc := e.descriptorFor(derefOr(t.Value))
		id := e.engine.Request(container.FamilyMap, keyDesc, valDesc)
		return types.Descriptor{
			ConcreteName:    string(id) + "*",
			Suffix:          string(id),
			HeapOwned:       true,
			NeedsDestructor: true,
		}
	case types.KindRecord:
		return types.Descriptor{ConcreteName: "struct " + t.RecordName + "*", Suffix: t.RecordName, HeapOwned: true, NeedsDestructor: true}
	default:
		if d, ok := e.b.registry.Lookup(t); ok {
			return d
		}
		return types.Descriptor{ConcreteName: "void*", Suffix: "unknown"}
	}
}

func (e *emitter) mapType(t types.SourceType) string {
	return e.descriptorFor(t).ConcreteName
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
	e.header.WriteString("};\n\n")
	e.header.WriteString("struct " + cd.Name + "* " + cd.Name + "_new(void);\n")

	var ctor strings.Builder
	ctor.WriteString("struct " + cd.Name + "* " + cd.Name + "_new(void) {\n")
	ctor.WriteString("    struct " + cd.Name + "* self = malloc(sizeof(struct " + cd.Name + "));\n")
	for _, f := range cd.Fields {
		ctor.WriteString("    self->" + f.Name + " = " + e.descriptorFor(f.Annotation).ZeroValue + ";\n")
	}
	ctor.WriteString("    return self;\n}\n\n")
	e.source.WriteString(ctor.String())

	for _, m := range cd.Methods {
		e.emitMethod(cd, m)
	}
}

func (e *emitter) emitMethod(cd *astutil.ClassDef, fn *astutil.FuncDef) {
	receiver := "self"
	if len(fn.Params) > 0 {
		receiver = fn.Params[0].Name
	}
	retType := "void"
	if fn.HasReturn && fn.ReturnType.Kind != types.KindNone {
		retType = e.mapType(fn.ReturnType)
	}
	var sig strings.Builder
	sig.WriteString(retType + " " + cd.Name + "_" + fn.Name + "(struct " + cd.Name + "* " + receiver)
	for i, p := range fn.Params {
		if i == 0 {
			continue
		}
		sig.WriteString(", " + e.mapType(p.Annotation) + " " + p.Name)
	}
	sig.WriteString(")")
	e.header.WriteString(sig.String() + ";\n")
	e.source.WriteString(sig.String() + " {\n")
	e.emitBlock(fn.Body, 1)
	e.source.WriteString("}\n\n")
}

func (e *emitter) emitFunc(fn *astutil.FuncDef) {
	retType := "void"
	if fn.HasReturn && fn.ReturnType.Kind != types.KindNone {
		retType = e.mapType(fn.ReturnType)
	}
	var sig strings.Builder
	sig.WriteString(retType + " " + fn.Name + "(")
	for i, p := range fn.Params {
		if i > 0 {
			sig.WriteString(", ")
		}
		sig.WriteString(e.mapType(p.Annotation) + " " + p.Name)
	}
	sig.WriteString(")")
	e.header.WriteString(sig.String() + ";\n")
	e.source.WriteString(sig.String() + " {\n")
	e.emitBlock(fn.Body, 1)
	e.source.WriteString("}\n\n")
}

func (e *emitter) indent(depth int) string { return strings.Repeat("    ", depth) }

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
			e.source.WriteString(ind + e.mapType(st.Annotation) + " " + st.Target + " = " + e.expr(st.Value) + ";\n")
		} else {
			e.source.WriteString(ind + e.mapType(st.Annotation) + " " + st.Target + " = " + e.descriptorFor(st.Annotation).ZeroValue + ";\n")
		}
	case *astutil.Assign:
		e.source.WriteString(ind + e.expr(st.Target) + " = " + e.expr(st.Value) + ";\n")
	case *astutil.AugAssign:
		spec, ok := ops.Augmented(st.Op)
		if ok && spec.Category == ops.CategoryInfix {
			e.source.WriteString(fmt.Sprintf("%s%s %s= %s;\n", ind, e.expr(st.Target), spec.Infix, e.expr(st.Value)))
		} else {
			e.source.WriteString(fmt.Sprintf("%s%s = %s;\n", ind, e.expr(st.Target), e.expr(st.Value)))
		}
	case *astutil.ExprStmt:
		e.source.WriteString(ind + e.expr(st.Expr) + ";\n")
	case *astutil.Return:
		if st.Value != nil {
			e.source.WriteString(ind + "return " + e.expr(st.Value) + ";\n")
		} else {
			e.source.WriteString(ind + "return;\n")
		}
	case *astutil.If:
		e.source.WriteString(ind + "if (" + e.expr(st.Cond) + ") {\n")
		e.emitBlock(st.Body, depth+1)
		for _, el := range st.Elifs {
			e.source.WriteString(ind + "} else if (" + e.expr(el.Cond) + ") {\n")
			e.emitBlock(el.Body, depth+1)
		}
		if st.Else != nil {
			e.source.WriteString(ind + "} else {\n")
			e.emitBlock(st.Else, depth+1)
		}
		e.source.WriteString(ind + "}\n")
	case *astutil.While:
		e.source.WriteString(ind + "while (" + e.expr(st.Cond) + ") {\n")
		e.emitBlock(st.Body, depth+1)
		e.source.WriteString(ind + "}\n")
	case *astutil.For:
		e.emitFor(st, depth)
	case *astutil.Break:
		e.source.WriteString(ind + "break;\n")
	case *astutil.Continue:
		e.source.WriteString(ind + "continue;\n")
	case *astutil.Assert:
		msg := `"assertion failed"`
		if st.Message != nil {
			msg = e.expr(st.Message)
		}
		e.source.WriteString(fmt.Sprintf("%sif (!(%s)) { fprintf(stderr, \"%%s\\n\", %s); abort(); }\n", ind, e.expr(st.Cond), msg))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"c-like backend: unsupported statement", s.Loc()))
	}
}

// emitFor lowers `for target in iter:` onto the container family's index-
// based iteration (spec §4.4's "iterate" operation): a plain counted loop
// over vec_*_at, or a bucket walk over map_*/set_* (left as a documented
// simplification when iter's element descriptor cannot be resolved).
func (e *emitter) emitFor(st *astutil.For, depth int) {
	ind := e.indent(depth)
	target, _ := st.Target.(*astutil.Name)
	name := "it"
	if target != nil {
		name = target.Ident
	}
	iterType := st.Iter.Type().Source
	desc := e.descriptorFor(derefOr(iterTypeElem(iterType)))
	suffix := e.descriptorFor(iterType).Suffix
	idx := name + "_i"
	e.source.WriteString(fmt.Sprintf("%sfor (long %s = 0; %s < %s_size(%s); %s++) {\n",
		ind, idx, idx, suffix, e.expr(st.Iter), idx))
	e.source.WriteString(fmt.Sprintf("%s    %s %s = *%s_at(%s, %s);\n",
		ind, desc.ConcreteName, name, suffix, e.expr(st.Iter), idx))
	e.emitBlock(st.Body, depth+1)
	e.source.WriteString(ind + "}\n")
}

func iterTypeElem(t types.SourceType) *types.SourceType {
	switch t.Kind {
	case types.KindList, types.KindSet:
		return t.Elem
	case types.KindDict:
		return t.Key
	default:
		return nil
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
		return e.expr(n.Value) + "->" + n.Attr
	case *astutil.Subscript:
		recvType := n.Value.Type().Source
		suffix := e.descriptorFor(recvType).Suffix
		switch recvType.Kind {
		case types.KindDict:
			return fmt.Sprintf("(*%s_get(%s, %s))", suffix, e.expr(n.Value), e.expr(n.Index))
		case types.KindList:
			return fmt.Sprintf("(*%s_at(%s, %s))", suffix, e.expr(n.Value), e.expr(n.Index))
		default:
			return fmt.Sprintf("%s[%s]", e.expr(n.Value), e.expr(n.Index))
		}
	case *astutil.ListLit:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"c-like backend: list literal must be lowered to explicit push statements", node.Loc()))
		return "/* list literal */"
	case *astutil.DictLit, *astutil.SetLit:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"c-like backend: container literal must be lowered to explicit insert statements", node.Loc()))
		return "/* container literal */"
	case *astutil.FString:
		return e.fstring(n)
	case *astutil.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", e.expr(n.Cond), e.expr(n.Then), e.expr(n.Else))
	default:
		e.diags = append(e.diags, diag.NewErrorWithDefault(diag.ECodeCodegenUnsupported,
			"c-like backend: unsupported expression", node.Loc()))
		return ""
	}
}

func (e *emitter) literal(n *astutil.Literal) string {
	switch n.Kind {
	case astutil.LitInt, astutil.LitFloat:
		return n.Raw
	case astutil.LitBool:
		if n.Raw == "True" {
			return "1"
		}
		return "0"
	case astutil.LitStr:
		return fmt.Sprintf("%q", n.Raw)
	case astutil.LitNone:
		return "NULL"
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
		desc := e.descriptorFor(n.Right.Type().Source)
		call := fmt.Sprintf("%s_contains(%s, %s)", desc.Suffix, e.expr(n.Right), e.expr(n.Left))
		if spec.Call == "not_contains" {
			return "!" + call
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
		recvType := n.Args[0].Type().Source
		suffix := e.descriptorFor(recvType).Suffix
		return fmt.Sprintf("%s_size(%s)", suffix, e.expr(n.Args[0]))
	default:
		return name.Ident + e.argList(n.Args)
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
	recvType := n.Receiver.Type().Source
	suffix := e.descriptorFor(recvType).Suffix
	switch n.Method {
	case "append", "push", "add", "insert":
		if recvType.Kind == types.KindDict {
			return fmt.Sprintf("%s_insert(%s, %s, %s)", suffix, recv, e.expr(n.Args[0]), e.expr(n.Args[1]))
		}
		return fmt.Sprintf("%s_push(%s, %s)", suffix, recv, e.expr(n.Args[0]))
	case "remove":
		return fmt.Sprintf("%s_remove(%s, %s)", suffix, recv, e.expr(n.Args[0]))
	case "contains":
		return fmt.Sprintf("%s_contains(%s, %s)", suffix, recv, e.expr(n.Args[0]))
	case "get":
		return fmt.Sprintf("(*%s_get(%s, %s))", suffix, recv, e.expr(n.Args[0]))
	case "upper":
		return fmt.Sprintf("str_upper(%s)", recv)
	case "lower":
		return fmt.Sprintf("str_lower(%s)", recv)
	default:
		return fmt.Sprintf("%s_%s(%s%s)", suffix, n.Method, recv, e.argPrefix(n.Args))
	}
}

func (e *emitter) argPrefix(args []astutil.Expression) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + e.argsJoined(args)
}

func (e *emitter) argsJoined(args []astutil.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.expr(a)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) fstring(n *astutil.FString) string {
	var format strings.Builder
	args := make([]string, 0, len(n.Exprs))
	for i, lit := range n.Literals {
		format.WriteString(lit)
		if i < len(n.Exprs) {
			format.WriteString(e.descriptorFor(n.Exprs[i].Type().Source).Format)
			args = append(args, e.expr(n.Exprs[i]))
		}
	}
	body := fmt.Sprintf("%q", format.String())
	if len(args) == 0 {
		return body
	}
	return fmt.Sprintf("str_format(%s, %s)", body, strings.Join(args, ", "))
}
