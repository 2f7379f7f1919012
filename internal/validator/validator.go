// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package validator decides whether a parsed SourceModule lies within the
// accepted static subset, rejecting dynamic constructs with located,
// suggestion-carrying diagnostics (spec §4.1).
package validator

import (
	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// reflectionBuiltins is the set of dynamic-reflection calls the subset
// rejects outright (spec §4.1 "dynamic reflection primitives").
var reflectionBuiltins = map[string]bool{
	"eval": true, "exec": true, "isinstance": true, "getattr": true,
}

// Validate walks module once, collecting every violation of the accepted
// static subset before returning. A non-empty diagnostic slice means the
// module is rejected; per spec §4.1 this is fatal and no later phase
// runs.
func Validate(module *astutil.SourceModule) (ok bool, diags []diag.Diagnostic) {
	v := &checker{}
	for _, fn := range module.Functions {
		v.checkFuncDef(fn, nil)
	}
	for _, cd := range module.Classes {
		v.checkClass(cd)
	}
	return len(v.diags) == 0, v.diags
}

type checker struct {
	diags []diag.Diagnostic
}

func (v *checker) reject(code diag.Code, loc diag.Location) {
	v.diags = append(v.diags, diag.NewErrorWithDefault(code, defaultMessage(code), loc))
}

func defaultMessage(code diag.Code) string {
	switch code {
	case diag.ECodeUnsupportedYield:
		return "generators are not supported"
	case diag.ECodeUnsupportedAsync:
		return "async/await is not supported"
	case diag.ECodeUnsupportedException:
		return "exception handling is not supported"
	case diag.ECodeUnsupportedWith:
		return "with-statements are not supported"
	case diag.ECodeUnsupportedDel:
		return "del is not supported"
	case diag.ECodeUnsupportedGlobal:
		return "global is not supported"
	case diag.ECodeUnsupportedNonlocal:
		return "nonlocal is not supported"
	case diag.ECodeUnsupportedLambda:
		return "lambda closes over a mutable local"
	case diag.ECodeUnsupportedInherit:
		return "multiple inheritance is not supported"
	case diag.ECodeUnsupportedMetaclass:
		return "metaclasses are not supported"
	case diag.ECodeUnsupportedDecorator:
		return "decorator is not in the accepted set"
	case diag.ECodeUnsupportedReflection:
		return "dynamic reflection is not supported"
	case diag.ECodeUnsupportedVarargs:
		return "*args/**kwargs are not supported"
	case diag.ECodeUnsupportedDefaultMut:
		return "default-argument mutation is not supported"
	case diag.ECodeMissingParamAnnot:
		return "parameter is missing a type annotation"
	case diag.ECodeMissingReturnAnnot:
		return "function is missing a return type annotation"
	default:
		return "construct is not in the accepted static subset"
	}
}

// checkFuncDef validates a function's signature and walks its body.
// locals carries the set of names bound in enclosing scope, used to
// decide whether a lambda captures (nil for a top-level function, whose
// only visible names are its own parameters).
func (v *checker) checkFuncDef(fn *astutil.FuncDef, outer map[string]bool) {
	for i, p := range fn.Params {
		if i == 0 && fn.IsMethod {
			continue // receiver (self/cls) is exempt from annotation
		}
		if p.Annotation.Kind == types.KindUnknown {
			v.reject(diag.ECodeMissingParamAnnot, p.Loc)
		}
	}
	if !fn.HasReturn && !fn.IsMethod {
		v.reject(diag.ECodeMissingReturnAnnot, fn.Loc())
	}

	locals := map[string]bool{}
	for name := range outer {
		locals[name] = true
	}
	for _, p := range fn.Params {
		locals[p.Name] = true
	}
	v.checkBody(fn.Body, locals)
}

func (v *checker) checkClass(cd *astutil.ClassDef) {
	for _, m := range cd.Methods {
		v.checkFuncDef(m, nil)
	}
}

// checkBody walks a statement list, rejecting forbidden statement forms
// and recursing into nested blocks and expressions. locals accumulates
// bindings seen so far in this scope so checkExpr can decide whether a
// lambda captures mutable state.
func (v *checker) checkBody(body []astutil.Statement, locals map[string]bool) {
	for _, s := range body {
		switch st := s.(type) {
		case *astutil.AnnAssign:
			locals[st.Target] = true
			if st.Value != nil {
				v.checkExpr(st.Value, locals)
			}
		case *astutil.Assign:
			v.checkExpr(st.Target, locals)
			v.checkExpr(st.Value, locals)
		case *astutil.AugAssign:
			v.checkExpr(st.Target, locals)
			v.checkExpr(st.Value, locals)
		case *astutil.ExprStmt:
			v.checkExpr(st.Expr, locals)
		case *astutil.Return:
			if st.Value != nil {
				v.checkExpr(st.Value, locals)
			}
		case *astutil.If:
			v.checkExpr(st.Cond, locals)
			v.checkBody(st.Body, locals)
			for _, el := range st.Elifs {
				v.checkExpr(el.Cond, locals)
				v.checkBody(el.Body, locals)
			}
			v.checkBody(st.Else, locals)
		case *astutil.While:
			v.checkExpr(st.Cond, locals)
			v.checkBody(st.Body, locals)
		case *astutil.For:
			v.checkExpr(st.Iter, locals)
			bindForTarget(st.Target, locals)
			v.checkBody(st.Body, locals)
		case *astutil.Assert:
			v.checkExpr(st.Cond, locals)
			if st.Message != nil {
				v.checkExpr(st.Message, locals)
			}
		case *astutil.FuncDef:
			v.checkFuncDef(st, locals)
		}
	}
}

func bindForTarget(e astutil.Expression, locals map[string]bool) {
	if n, ok := e.(*astutil.Name); ok {
		locals[n.Ident] = true
	}
}

// checkExpr walks an expression tree, rejecting forbidden calls
// (reflection builtins) and capturing lambdas.
func (v *checker) checkExpr(e astutil.Expression, locals map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *astutil.Call:
		if name, ok := n.Func.(*astutil.Name); ok && reflectionBuiltins[name.Ident] {
			v.reject(diag.ECodeUnsupportedReflection, n.Loc())
		}
		for _, a := range n.Args {
			v.checkExpr(a, locals)
		}
	case *astutil.Lambda:
		if astutil.HasCapturingLambda(n, locals) {
			v.reject(diag.ECodeUnsupportedLambda, n.Loc())
		}
	default:
		astutil.Walk(e, func(inner astutil.Expression) bool {
			if call, ok := inner.(*astutil.Call); ok {
				if name, ok := call.Func.(*astutil.Name); ok && reflectionBuiltins[name.Ident] {
					v.reject(diag.ECodeUnsupportedReflection, call.Loc())
				}
			}
			if lam, ok := inner.(*astutil.Lambda); ok {
				if astutil.HasCapturingLambda(lam, locals) {
					v.reject(diag.ECodeUnsupportedLambda, lam.Loc())
				}
			}
			return true
		})
	}
}
