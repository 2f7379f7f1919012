// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package optimize

import (
	"fmt"

	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/types"
)

// LowerComprehensions runs the target-optimization phase (spec §4.5 step
// 5): every backend accepts the comprehension node only inside an
// expression context a single native call can cover (spec §6.2), so
// ahead of Generation this pass desugars a comprehension used as a
// statement-level initializer into the explicit accumulate-in-a-loop
// form every backend's statement emitter already knows. This keeps each
// <lang>like package's expr() free of comprehension-lowering logic,
// trading one shared rewrite for six duplicated ones.
func LowerComprehensions(module *astutil.SourceModule) {
	for _, fn := range module.AllFunctions() {
		l := &lowerer{}
		fn.Body = l.lowerBody(fn.Body)
	}
}

// lowerer carries the fresh-name counter for one function's rewrite so
// generated accumulator names are stable across repeated compiles of the
// same module (spec §3.7 determinism) rather than depending on a
// process-wide counter's prior call history.
type lowerer struct{ counter int }

func (l *lowerer) freshName(hint string) string {
	l.counter++
	return fmt.Sprintf("__mgen_%s_%d", hint, l.counter)
}

func (l *lowerer) lowerBody(body []astutil.Statement) []astutil.Statement {
	out := make([]astutil.Statement, 0, len(body))
	for _, s := range body {
		out = append(out, l.lowerStatement(s)...)
	}
	return out
}

func (l *lowerer) lowerStatement(s astutil.Statement) []astutil.Statement {
	switch st := s.(type) {
	case *astutil.AnnAssign:
		if st.Value == nil {
			return []astutil.Statement{st}
		}
		pre, rewritten := l.lowerComprehensionExpr(st.Value, st.Target)
		st.Value = rewritten
		return append(pre, st)
	case *astutil.Assign:
		target, ok := st.Target.(*astutil.Name)
		if !ok {
			return []astutil.Statement{st}
		}
		pre, rewritten := l.lowerComprehensionExpr(st.Value, target.Ident)
		st.Value = rewritten
		return append(pre, st)
	case *astutil.If:
		st.Body = l.lowerBody(st.Body)
		for i := range st.Elifs {
			st.Elifs[i].Body = l.lowerBody(st.Elifs[i].Body)
		}
		st.Else = l.lowerBody(st.Else)
		return []astutil.Statement{st}
	case *astutil.While:
		st.Body = l.lowerBody(st.Body)
		return []astutil.Statement{st}
	case *astutil.For:
		st.Body = l.lowerBody(st.Body)
		return []astutil.Statement{st}
	default:
		return []astutil.Statement{s}
	}
}

// lowerComprehensionExpr rewrites e in place if it is a List/Set/DictComp,
// returning the loop statements that must precede the assignment using
// hint as the accumulator's base name, and the replacement expression
// (a bare Name referring to the accumulator) to store in the assignment.
// Anything else is returned unchanged with no preceding statements.
func (l *lowerer) lowerComprehensionExpr(e astutil.Expression, hint string) ([]astutil.Statement, astutil.Expression) {
	switch n := e.(type) {
	case *astutil.ListComp:
		acc := l.freshName(hint)
		decl := &astutil.AnnAssign{Target: acc, Annotation: types.ListOf(elemTypeOf(n.Elem)), Value: &astutil.ListLit{}}
		body := []astutil.Statement{appendCall(acc, "append", n.Elem)}
		loop := comprehensionLoop(n.Clause, body)
		return []astutil.Statement{decl, loop}, &astutil.Name{Ident: acc}
	case *astutil.SetComp:
		acc := l.freshName(hint)
		decl := &astutil.AnnAssign{Target: acc, Annotation: types.SetOf(elemTypeOf(n.Elem)), Value: &astutil.SetLit{}}
		body := []astutil.Statement{appendCall(acc, "add", n.Elem)}
		loop := comprehensionLoop(n.Clause, body)
		return []astutil.Statement{decl, loop}, &astutil.Name{Ident: acc}
	case *astutil.DictComp:
		acc := l.freshName(hint)
		decl := &astutil.AnnAssign{Target: acc, Annotation: types.DictOf(elemTypeOf(n.Key), elemTypeOf(n.Value)), Value: &astutil.DictLit{}}
		body := []astutil.Statement{&astutil.Assign{
			Target: &astutil.Subscript{Value: &astutil.Name{Ident: acc}, Index: n.Key},
			Value:  n.Value,
		}}
		loop := comprehensionLoop(n.Clause, body)
		return []astutil.Statement{decl, loop}, &astutil.Name{Ident: acc}
	default:
		return nil, e
	}
}

func appendCall(acc, method string, arg astutil.Expression) astutil.Statement {
	return &astutil.ExprStmt{Expr: &astutil.MethodCall{Receiver: &astutil.Name{Ident: acc}, Method: method, Args: []astutil.Expression{arg}}}
}

func comprehensionLoop(c astutil.Comprehension, body []astutil.Statement) astutil.Statement {
	if c.Filter != nil {
		body = []astutil.Statement{&astutil.If{Cond: c.Filter, Body: body}}
	}
	return &astutil.For{Target: c.Target, Iter: c.Iter, Body: body}
}

func elemTypeOf(e astutil.Expression) types.SourceType {
	if e == nil {
		return types.Unknown
	}
	return e.Type().Source
}
