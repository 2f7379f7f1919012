// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package infer

import (
	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// Strategy computes a SourceType for one expression-kind given the
// current environment. Registered once per kind in strategies below
// (spec §4.2 "dispatch ... organized as a strategy registry").
type Strategy func(e astutil.Expression, env *Env, eng *engine) types.SourceType

// exprKind names the dispatch key for an expression node. Using a string
// key (rather than reflect.TypeOf) keeps the registry a plain map
// literal, matching the teacher's factory-by-string-key idiom
// (pkg/llm.NewProvider).
func exprKind(e astutil.Expression) string {
	switch e.(type) {
	case *astutil.Literal:
		return "literal"
	case *astutil.Name:
		return "name"
	case *astutil.BinOp:
		return "binop"
	case *astutil.UnaryOp:
		return "unaryop"
	case *astutil.CompareOp:
		return "compareop"
	case *astutil.BoolOp:
		return "boolop"
	case *astutil.Call:
		return "call"
	case *astutil.MethodCall:
		return "methodcall"
	case *astutil.Attribute:
		return "attribute"
	case *astutil.Subscript:
		return "subscript"
	case *astutil.Slice:
		return "slice"
	case *astutil.ListLit:
		return "listlit"
	case *astutil.SetLit:
		return "setlit"
	case *astutil.TupleLit:
		return "tuplelit"
	case *astutil.DictLit:
		return "dictlit"
	case *astutil.ListComp:
		return "listcomp"
	case *astutil.SetComp:
		return "setcomp"
	case *astutil.DictComp:
		return "dictcomp"
	case *astutil.FString:
		return "fstring"
	case *astutil.Conditional:
		return "conditional"
	case *astutil.Lambda:
		return "lambda"
	default:
		return "unknown"
	}
}

var strategies = map[string]Strategy{
	"literal":     literalStrategy,
	"name":        nameStrategy,
	"binop":       binOpStrategy,
	"unaryop":     unaryOpStrategy,
	"compareop":   compareOpStrategy,
	"boolop":      boolOpStrategy,
	"call":        callStrategy,
	"methodcall":  methodCallStrategy,
	"attribute":   attributeStrategy,
	"subscript":   subscriptStrategy,
	"slice":       sliceStrategy,
	"listlit":     listLitStrategy,
	"setlit":      setLitStrategy,
	"tuplelit":    tupleLitStrategy,
	"dictlit":     dictLitStrategy,
	"listcomp":    listCompStrategy,
	"setcomp":     setCompStrategy,
	"dictcomp":    dictCompStrategy,
	"fstring":     fstringStrategy,
	"conditional": conditionalStrategy,
	"lambda":      lambdaStrategy,
}

func literalStrategy(e astutil.Expression, _ *Env, _ *engine) types.SourceType {
	lit := e.(*astutil.Literal)
	switch lit.Kind {
	case astutil.LitInt:
		return types.Primitive(types.KindInt)
	case astutil.LitFloat:
		return types.Primitive(types.KindFloat)
	case astutil.LitBool:
		return types.Primitive(types.KindBool)
	case astutil.LitStr:
		return types.Primitive(types.KindStr)
	default:
		return types.Primitive(types.KindNone)
	}
}

func nameStrategy(e astutil.Expression, env *Env, _ *engine) types.SourceType {
	n := e.(*astutil.Name)
	if t, ok := env.Lookup(n.Ident); ok {
		return t
	}
	return types.Unknown
}

func binOpStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.BinOp)
	left := eng.infer(n.Left, env)
	right := eng.infer(n.Right, env)
	// a float contaminates an int in every arithmetic mix; otherwise the
	// operator's result type follows whichever operand is concrete.
	if left.Kind == types.KindFloat || right.Kind == types.KindFloat {
		return types.Primitive(types.KindFloat)
	}
	if left.Kind != types.KindUnknown {
		return left
	}
	return right
}

func unaryOpStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.UnaryOp)
	if n.Op == "not" {
		return types.Primitive(types.KindBool)
	}
	return eng.infer(n.Operand, env)
}

func compareOpStrategy(astutil.Expression, *Env, *engine) types.SourceType {
	return types.Primitive(types.KindBool)
}

func boolOpStrategy(astutil.Expression, *Env, *engine) types.SourceType {
	return types.Primitive(types.KindBool)
}

// callStrategy handles bare calls: a builtin like len()/str()/int(), a
// record constructor, or a call to a user function, typed by that
// function's declared return type (None when it has none). Anything else
// falls back to Unknown.
func callStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.Call)
	name, ok := n.Func.(*astutil.Name)
	if !ok {
		return types.Unknown
	}
	switch name.Ident {
	case "len":
		return types.Primitive(types.KindInt)
	case "str":
		return types.Primitive(types.KindStr)
	case "int":
		return types.Primitive(types.KindInt)
	case "float":
		return types.Primitive(types.KindFloat)
	case "bool":
		return types.Primitive(types.KindBool)
	}
	if env.HasRecord(name.Ident) {
		return types.Record(name.Ident)
	}
	if ret, ok := eng.funcReturns[name.Ident]; ok {
		return ret
	}
	return types.Unknown
}

// methodCallStrategy covers the str-method surface (spec §4.3
// map-builtin) and the container mutation methods the refinement passes
// also scan for (append/push/insert don't themselves produce a value
// worth typing beyond None, but contains/get do).
func methodCallStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.MethodCall)
	switch n.Method {
	case "split":
		return types.ListOf(types.Primitive(types.KindStr))
	case "join", "strip", "lstrip", "rstrip", "upper", "lower", "replace", "format":
		return types.Primitive(types.KindStr)
	case "find":
		return types.Primitive(types.KindInt)
	case "startswith", "endswith", "contains":
		return types.Primitive(types.KindBool)
	case "append", "push", "insert", "add", "remove", "clear":
		return types.Primitive(types.KindNone)
	case "get":
		recv := eng.infer(n.Receiver, env)
		if recv.Kind == types.KindDict && recv.Value != nil {
			return *recv.Value
		}
		return types.Unknown
	case "keys":
		recv := eng.infer(n.Receiver, env)
		if recv.Kind == types.KindDict && recv.Key != nil {
			return types.ListOf(*recv.Key)
		}
		return types.Unknown
	case "values":
		recv := eng.infer(n.Receiver, env)
		if recv.Kind == types.KindDict && recv.Value != nil {
			return types.ListOf(*recv.Value)
		}
		return types.Unknown
	}
	return types.Unknown
}

func attributeStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.Attribute)
	recv := eng.infer(n.Value, env)
	if recv.Kind != types.KindRecord {
		return types.Unknown
	}
	if fields, ok := eng.recordFields[recv.RecordName]; ok {
		if t, ok := fields[n.Attr]; ok {
			return t
		}
	}
	return types.Unknown
}

func subscriptStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.Subscript)
	recv := eng.infer(n.Value, env)
	switch recv.Kind {
	case types.KindList, types.KindSet:
		if recv.Elem != nil {
			return *recv.Elem
		}
	case types.KindDict:
		if recv.Value != nil {
			return *recv.Value
		}
	case types.KindTuple:
		if lit, ok := n.Index.(*astutil.Literal); ok && lit.Kind == astutil.LitInt {
			if idx := intLiteralValue(lit); idx >= 0 && idx < len(recv.Elems) {
				return recv.Elems[idx]
			}
		}
	case types.KindStr:
		return types.Primitive(types.KindStr)
	}
	return types.Unknown
}

func intLiteralValue(lit *astutil.Literal) int {
	n := 0
	neg := false
	for i, r := range lit.Raw {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n
}

func sliceStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.Slice)
	return eng.infer(n.Value, env)
}

func listLitStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.ListLit)
	return types.ListOf(elemTypeOf(n.Elems, env, eng))
}

func setLitStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.SetLit)
	return types.SetOf(elemTypeOf(n.Elems, env, eng))
}

func elemTypeOf(elems []astutil.Expression, env *Env, eng *engine) types.SourceType {
	if len(elems) == 0 {
		return types.Unknown
	}
	return eng.infer(elems[0], env)
}

func tupleLitStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.TupleLit)
	elems := make([]types.SourceType, len(n.Elems))
	for i, el := range n.Elems {
		elems[i] = eng.infer(el, env)
	}
	return types.TupleOf(elems...)
}

func dictLitStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.DictLit)
	if len(n.Entries) == 0 {
		return types.DictOf(types.Unknown, types.Unknown)
	}
	return types.DictOf(eng.infer(n.Entries[0].Key, env), eng.infer(n.Entries[0].Value, env))
}

func listCompStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.ListComp)
	inner := bindComprehensionTarget(n.Clause, env, eng)
	return types.ListOf(eng.infer(n.Elem, inner))
}

func setCompStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.SetComp)
	inner := bindComprehensionTarget(n.Clause, env, eng)
	return types.SetOf(eng.infer(n.Elem, inner))
}

func dictCompStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.DictComp)
	inner := bindComprehensionTarget(n.Clause, env, eng)
	return types.DictOf(eng.infer(n.Key, inner), eng.infer(n.Value, inner))
}

// bindComprehensionTarget derives the loop variable's type from the
// iterable and returns a child environment with it bound, leaving the
// parent environment untouched (spec §4.2 pass 1 literal handling
// extends naturally to comprehension clauses).
func bindComprehensionTarget(c astutil.Comprehension, env *Env, eng *engine) *Env {
	child := &Env{bindings: make(map[string]*types.SourceType), records: env.records}
	for k, v := range env.bindings {
		cp := *v
		child.bindings[k] = &cp
	}
	iterType := eng.infer(c.Iter, env)
	elemType := types.Unknown
	switch iterType.Kind {
	case types.KindList, types.KindSet:
		if iterType.Elem != nil {
			elemType = *iterType.Elem
		}
	case types.KindDict:
		if iterType.Key != nil {
			elemType = *iterType.Key
		}
	}
	if name, ok := c.Target.(*astutil.Name); ok {
		child.Bind(name.Ident, elemType)
	}
	return child
}

func fstringStrategy(astutil.Expression, *Env, *engine) types.SourceType {
	return types.Primitive(types.KindStr)
}

func conditionalStrategy(e astutil.Expression, env *Env, eng *engine) types.SourceType {
	n := e.(*astutil.Conditional)
	t := eng.infer(n.Then, env)
	if !t.IsUnknown() {
		return t
	}
	return eng.infer(n.Else, env)
}

func lambdaStrategy(astutil.Expression, *Env, *engine) types.SourceType {
	return types.Unknown
}

// diagForUnresolved builds the E2002 diagnostic for a binding that is
// still unknown after all four passes.
func diagForUnresolved(name string, loc diag.Location) diag.Diagnostic {
	return diag.NewErrorWithDefault(diag.ECodeMissingAnnotation,
		"could not infer a type for \""+name+"\"", loc)
}
