// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package infer

import (
	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// engine carries the cross-function context the strategy registry needs:
// declared function return types (for calls to user functions) and
// record field tables (for attribute access), built once up front in the
// teacher's build-maps-once-then-lookup style (pkg/ingestion/resolver.go
// CallResolver.BuildIndex).
type engine struct {
	funcReturns  map[string]types.SourceType
	recordFields map[string]map[string]types.SourceType
	recordNames  []string
	registry     *types.Registry
	diags        []diag.Diagnostic
}

// Infer runs the four-pass fixpoint over every function and method in
// module, attaching an Inferred type to each expression node and
// returning diagnostics for anything left unresolved (spec §4.2).
func Infer(module *astutil.SourceModule, registry *types.Registry) (*astutil.SourceModule, []diag.Diagnostic) {
	eng := &engine{
		funcReturns:  make(map[string]types.SourceType),
		recordFields: make(map[string]map[string]types.SourceType),
		registry:     registry,
	}
	for _, fn := range module.AllFunctions() {
		if fn.HasReturn {
			eng.funcReturns[fn.Name] = fn.ReturnType
		} else {
			eng.funcReturns[fn.Name] = types.Primitive(types.KindNone)
		}
	}
	for _, cd := range module.Classes {
		eng.recordNames = append(eng.recordNames, cd.Name)
		fields := make(map[string]types.SourceType, len(cd.Fields))
		for _, f := range cd.Fields {
			fields[f.Name] = f.Annotation
		}
		eng.recordFields[cd.Name] = fields
	}

	for _, fn := range module.AllFunctions() {
		eng.runFunction(fn)
	}

	return module, eng.diags
}

// infer dispatches to the strategy registered for e's kind, attaches the
// result to the node, and returns it.
func (eng *engine) infer(e astutil.Expression, env *Env) types.SourceType {
	if e == nil {
		return types.Unknown
	}
	strat, ok := strategies[exprKind(e)]
	t := types.Unknown
	if ok {
		t = strat(e, env, eng)
	}
	inferred := types.NewInferred(t)
	if eng.registry != nil {
		if resolved, ok := inferred.ResolveAgainst(eng.registry); ok {
			inferred = resolved
		}
	}
	e.SetType(inferred)
	return t
}

func (eng *engine) runFunction(fn *astutil.FuncDef) {
	env := NewEnv(eng.recordNames)
	for i, p := range fn.Params {
		if i == 0 && fn.IsMethod {
			continue // receiver; left unbound, so it is neither inferred nor reported as unresolved
		}
		env.Bind(p.Name, p.Annotation)
	}

	eng.passLiteralAndAnnotation(fn.Body, env)
	eng.passContainerRefinement(fn.Body, env)
	eng.passNestedStructure(fn.Body, env)
	eng.passKeyValue(fn.Body, env)
	eng.checkUnresolved(fn.Body, env, fn.Name)
	eng.checkContainerDepth(fn.Body, env)
}

// passLiteralAndAnnotation is pass 1 (spec §4.2.1): binds every
// AnnAssign/For target and infers every expression bottom-up.
func (eng *engine) passLiteralAndAnnotation(body []astutil.Statement, env *Env) {
	for _, s := range body {
		switch st := s.(type) {
		case *astutil.AnnAssign:
			env.Bind(st.Target, st.Annotation)
			if st.Value != nil {
				valType := eng.infer(st.Value, env)
				eng.refineFromLiteral(env, st.Target, valType)
			}
		case *astutil.Assign:
			eng.infer(st.Value, env)
			if name, ok := st.Target.(*astutil.Name); ok {
				if _, bound := env.Lookup(name.Ident); !bound {
					env.Bind(name.Ident, eng.infer(st.Value, env))
				}
			}
			eng.infer(st.Target, env)
		case *astutil.AugAssign:
			eng.infer(st.Target, env)
			eng.infer(st.Value, env)
		case *astutil.ExprStmt:
			eng.infer(st.Expr, env)
		case *astutil.Return:
			if st.Value != nil {
				eng.infer(st.Value, env)
			}
		case *astutil.If:
			eng.infer(st.Cond, env)
			eng.passLiteralAndAnnotation(st.Body, env)
			for _, el := range st.Elifs {
				eng.infer(el.Cond, env)
				eng.passLiteralAndAnnotation(el.Body, env)
			}
			eng.passLiteralAndAnnotation(st.Else, env)
		case *astutil.While:
			eng.infer(st.Cond, env)
			eng.passLiteralAndAnnotation(st.Body, env)
		case *astutil.For:
			iterType := eng.infer(st.Iter, env)
			if name, ok := st.Target.(*astutil.Name); ok {
				env.Bind(name.Ident, elemOfIterable(iterType))
			}
			eng.passLiteralAndAnnotation(st.Body, env)
		case *astutil.Assert:
			eng.infer(st.Cond, env)
			if st.Message != nil {
				eng.infer(st.Message, env)
			}
		}
	}
}

func elemOfIterable(t types.SourceType) types.SourceType {
	switch t.Kind {
	case types.KindList, types.KindSet:
		if t.Elem != nil {
			return *t.Elem
		}
	case types.KindDict:
		if t.Key != nil {
			return *t.Key
		}
	}
	return types.Unknown
}

// refineFromLiteral immediately refines a bare container annotation
// (list/set/dict with no declared element, key, or value type) from a
// non-empty literal assigned on the same line — the element types of a
// list/set/dict literal are already fully known at the point of
// assignment, so this doesn't need to wait for the append-site scan
// passContainerRefinement runs for re-assigned or mutated bindings.
func (eng *engine) refineFromLiteral(env *Env, target string, valType types.SourceType) {
	cur, bound := env.Lookup(target)
	if !bound || !cur.IsUnknown() {
		return
	}
	switch cur.Kind {
	case types.KindList, types.KindSet:
		if (valType.Kind == types.KindList || valType.Kind == types.KindSet) && valType.Elem != nil && !valType.Elem.IsUnknown() {
			env.RefineElem(target, *valType.Elem)
		}
	case types.KindDict:
		if valType.Kind == types.KindDict {
			var keyPtr, valPtr *types.SourceType
			if valType.Key != nil && !valType.Key.IsUnknown() {
				keyPtr = valType.Key
			}
			if valType.Value != nil && !valType.Value.IsUnknown() {
				valPtr = valType.Value
			}
			if keyPtr != nil || valPtr != nil {
				env.RefineKeyValue(target, keyPtr, valPtr)
			}
		}
	}
}

// passContainerRefinement is pass 2 (spec §4.2.2): for every list- or
// set-valued binding whose element type is still unknown, scans
// append/push/insert calls and subscript stores, refining the binding if
// every site agrees. Return statements are not scanned.
func (eng *engine) passContainerRefinement(body []astutil.Statement, env *Env) {
	sites := map[string][]types.SourceType{}
	astutil.WalkStatements(body, func(s astutil.Statement) bool {
		switch st := s.(type) {
		case *astutil.ExprStmt:
			if mc, ok := st.Expr.(*astutil.MethodCall); ok {
				if isContainerAppend(mc.Method) && len(mc.Args) == 1 {
					if name, ok := mc.Receiver.(*astutil.Name); ok {
						sites[name.Ident] = append(sites[name.Ident], eng.infer(mc.Args[0], env))
					}
				}
			}
		case *astutil.Assign:
			if sub, ok := st.Target.(*astutil.Subscript); ok {
				if name, ok := sub.Value.(*astutil.Name); ok {
					sites[name.Ident] = append(sites[name.Ident], eng.infer(st.Value, env))
				}
			}
		}
		return true
	})
	for name, observed := range sites {
		t, bound := env.Lookup(name)
		if !bound || (t.Kind != types.KindList && t.Kind != types.KindSet) || !t.IsUnknown() {
			continue
		}
		first := observed[0]
		agree := true
		for _, o := range observed[1:] {
			if !types.Equal(first, o) {
				agree = false
				break
			}
		}
		if agree && !first.IsUnknown() {
			env.RefineElem(name, first)
		} else if !agree {
			eng.diags = append(eng.diags, diag.NewErrorWithDefault(
				diag.ECodeIncompatibleTypes, "container elements disagree on type", diag.Location{}))
		}
	}
}

func isContainerAppend(method string) bool {
	switch method {
	case "append", "push", "insert", "add":
		return true
	default:
		return false
	}
}

// passNestedStructure is pass 3 (spec §4.2.3): detects container-of-
// container patterns from an append of a container-valued expression or
// a subscript-of-subscript read, and rewrites the outer binding's
// element type to the nested container type.
func (eng *engine) passNestedStructure(body []astutil.Statement, env *Env) {
	astutil.WalkStatements(body, func(s astutil.Statement) bool {
		switch st := s.(type) {
		case *astutil.ExprStmt:
			mc, ok := st.Expr.(*astutil.MethodCall)
			if !ok || !isContainerAppend(mc.Method) || len(mc.Args) != 1 {
				return true
			}
			name, ok := mc.Receiver.(*astutil.Name)
			if !ok {
				return true
			}
			argType := eng.infer(mc.Args[0], env)
			if argType.Kind == types.KindList || argType.Kind == types.KindSet || argType.Kind == types.KindDict {
				if outer, bound := env.Lookup(name.Ident); bound && outer.IsUnknown() {
					env.RefineElem(name.Ident, argType)
				}
			}
		}
		return true
	})
	// a[i][j] read pattern: a double subscript implies a's elem is itself
	// a container; subscriptStrategy resolves this directly from the
	// (already refined) binding the next time an expression referencing
	// it is inferred, so no separate rewrite pass is needed here.
}

// passKeyValue is pass 4 (spec §4.2.4): refines a dict binding's
// still-unknown key/value types from subscript reads/writes and
// contains() calls; string keys promote to str, integer keys promote to
// int.
func (eng *engine) passKeyValue(body []astutil.Statement, env *Env) {
	astutil.WalkStatements(body, func(s astutil.Statement) bool {
		switch st := s.(type) {
		case *astutil.Assign:
			if sub, ok := st.Target.(*astutil.Subscript); ok {
				if name, ok := sub.Value.(*astutil.Name); ok {
					eng.refineDictFromAccess(env, name.Ident, sub.Index, st.Value)
				}
			}
		case *astutil.ExprStmt:
			if sub, ok := st.Expr.(*astutil.Subscript); ok {
				if name, ok := sub.Value.(*astutil.Name); ok {
					eng.refineDictFromAccess(env, name.Ident, sub.Index, nil)
				}
			}
			if mc, ok := st.Expr.(*astutil.MethodCall); ok && mc.Method == "contains" && len(mc.Args) == 1 {
				if name, ok := mc.Receiver.(*astutil.Name); ok {
					eng.refineDictFromAccess(env, name.Ident, mc.Args[0], nil)
				}
			}
		}
		return true
	})
}

func (eng *engine) refineDictFromAccess(env *Env, name string, keyExpr astutil.Expression, valExpr astutil.Expression) {
	t, bound := env.Lookup(name)
	if !bound || t.Kind != types.KindDict {
		return
	}
	keyType := eng.infer(keyExpr, env)
	var keyPtr, valPtr *types.SourceType
	if t.Key == nil || t.Key.IsUnknown() {
		if !keyType.IsUnknown() {
			keyPtr = &keyType
		}
	}
	if valExpr != nil && (t.Value == nil || t.Value.IsUnknown()) {
		valType := eng.infer(valExpr, env)
		if !valType.IsUnknown() {
			valPtr = &valType
		}
	}
	if keyPtr != nil || valPtr != nil {
		env.RefineKeyValue(name, keyPtr, valPtr)
	}
}

// checkUnresolved emits E2002 for every binding still carrying the
// unknown marker after all four passes.
func (eng *engine) checkUnresolved(body []astutil.Statement, env *Env, fnName string) {
	for _, name := range env.Names() {
		t, _ := env.Lookup(name)
		if t.IsUnknown() {
			eng.diags = append(eng.diags, diagForUnresolved(name, locationOfFirstUse(body, name)))
		}
	}
}

// checkContainerDepth rejects a binding whose container nesting goes
// three levels deep (spec §9 Open Questions: "Nested container
// generation is documented only for two levels (vec<vec<T>>) ... Default
// to rejecting three-level nesting with an E2003 until a use case
// arrives"). Two levels (list[list[T]]) is the documented, supported
// case; a third level is rejected rather than silently accepted.
func (eng *engine) checkContainerDepth(body []astutil.Statement, env *Env) {
	for _, name := range env.Names() {
		t, _ := env.Lookup(name)
		if containerDepth(t) > 2 {
			eng.diags = append(eng.diags, diag.NewErrorWithDefault(diag.ECodeIncompatibleTypes,
				"container nesting deeper than two levels is not supported: "+name,
				locationOfFirstUse(body, name)))
		}
	}
}

// containerDepth counts how many list/set/dict layers t is nested
// through; a non-container leaf type has depth 0.
func containerDepth(t types.SourceType) int {
	switch t.Kind {
	case types.KindList, types.KindSet:
		if t.Elem == nil {
			return 1
		}
		return 1 + containerDepth(*t.Elem)
	case types.KindDict:
		depth := 0
		if t.Key != nil {
			depth = containerDepth(*t.Key)
		}
		if t.Value != nil {
			if d := containerDepth(*t.Value); d > depth {
				depth = d
			}
		}
		return 1 + depth
	default:
		return 0
	}
}

// locationOfFirstUse finds the first statement location referencing
// name, for diagnostic placement; falls back to the zero location.
func locationOfFirstUse(body []astutil.Statement, name string) diag.Location {
	var found diag.Location
	astutil.WalkStatements(body, func(s astutil.Statement) bool {
		if !found.IsZero() {
			return false
		}
		for _, e := range astutil.ExpressionsIn(s) {
			hit := false
			astutil.Walk(e, func(n astutil.Expression) bool {
				if nm, ok := n.(*astutil.Name); ok && nm.Ident == name {
					hit = true
					return false
				}
				return true
			})
			if hit {
				found = s.Loc()
				return false
			}
		}
		return true
	})
	return found
}
