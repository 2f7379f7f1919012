// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package optimize implements the source- and target-optimization phases
// of the compile pipeline (spec §4.5 steps 3 and 5): small, safe AST
// rewrites that run before and after name mapping. Grounded on the
// teacher's dedup-by-key idiom in resolver.go (ResolveCalls builds a
// cleaned-up result from an input slice without mutating it in place).
package optimize

import (
	"strconv"

	"github.com/kraklabs/mgen/internal/astutil"
)

// FoldSource runs constant folding, dead-branch elimination, and
// docstring stripping over every function and method body in module,
// replacing each Body slice in place. It never rejects a program: every
// rewrite here is semantics-preserving by construction, so this phase
// never produces diagnostics.
func FoldSource(module *astutil.SourceModule) {
	for _, fn := range module.AllFunctions() {
		fn.Body = rewriteBody(fn.Body)
	}
}

func rewriteBody(body []astutil.Statement) []astutil.Statement {
	body = stripLeadingDocstring(body)
	out := make([]astutil.Statement, 0, len(body))
	for _, s := range body {
		out = append(out, rewriteStatement(s)...)
	}
	return out
}

// stripLeadingDocstring drops a bare string-literal expression statement
// at the head of a block; SourceLang allows one as a docstring but it has
// no run-time effect in any target.
func stripLeadingDocstring(body []astutil.Statement) []astutil.Statement {
	if len(body) == 0 {
		return body
	}
	if es, ok := body[0].(*astutil.ExprStmt); ok {
		if lit, ok := es.Expr.(*astutil.Literal); ok && lit.Kind == astutil.LitStr {
			return body[1:]
		}
	}
	return body
}

// rewriteStatement folds constant subexpressions of s and, for an If
// whose condition folds to a literal bool, replaces s with its taken
// branch (dropping the branch never reachable). It returns a slice
// because dead-branch elimination can replace one statement with the
// zero-or-more statements of the surviving branch.
func rewriteStatement(s astutil.Statement) []astutil.Statement {
	switch st := s.(type) {
	case *astutil.AnnAssign:
		if st.Value != nil {
			st.Value = foldExpr(st.Value)
		}
		return []astutil.Statement{st}
	case *astutil.Assign:
		st.Value = foldExpr(st.Value)
		return []astutil.Statement{st}
	case *astutil.AugAssign:
		st.Value = foldExpr(st.Value)
		return []astutil.Statement{st}
	case *astutil.ExprStmt:
		st.Expr = foldExpr(st.Expr)
		return []astutil.Statement{st}
	case *astutil.Return:
		if st.Value != nil {
			st.Value = foldExpr(st.Value)
		}
		return []astutil.Statement{st}
	case *astutil.Assert:
		st.Cond = foldExpr(st.Cond)
		if st.Message != nil {
			st.Message = foldExpr(st.Message)
		}
		return []astutil.Statement{st}
	case *astutil.While:
		st.Cond = foldExpr(st.Cond)
		st.Body = rewriteBody(st.Body)
		return []astutil.Statement{st}
	case *astutil.For:
		st.Iter = foldExpr(st.Iter)
		st.Body = rewriteBody(st.Body)
		return []astutil.Statement{st}
	case *astutil.If:
		return rewriteIf(st)
	default:
		return []astutil.Statement{s}
	}
}

func rewriteIf(st *astutil.If) []astutil.Statement {
	st.Cond = foldExpr(st.Cond)
	if lit, ok := st.Cond.(*astutil.Literal); ok && lit.Kind == astutil.LitBool {
		if lit.Raw == "True" {
			return rewriteBody(st.Body)
		}
		if len(st.Elifs) > 0 {
			next := &astutil.If{Cond: st.Elifs[0].Cond, Body: st.Elifs[0].Body, Elifs: st.Elifs[1:], Else: st.Else}
			return rewriteIf(next)
		}
		return rewriteBody(st.Else)
	}
	st.Body = rewriteBody(st.Body)
	for i := range st.Elifs {
		st.Elifs[i].Cond = foldExpr(st.Elifs[i].Cond)
		st.Elifs[i].Body = rewriteBody(st.Elifs[i].Body)
	}
	if st.Else != nil {
		st.Else = rewriteBody(st.Else)
	}
	return []astutil.Statement{st}
}

// foldExpr recursively folds an expression tree, collapsing a BinOp of
// two literal int/float operands into a single Literal, and a UnaryOp of
// a literal operand into its literal result. Anything it can't fold it
// returns with its children still folded.
func foldExpr(e astutil.Expression) astutil.Expression {
	switch n := e.(type) {
	case *astutil.BinOp:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
		if lit, ok := foldBinOp(n); ok {
			return lit
		}
		return n
	case *astutil.UnaryOp:
		n.Operand = foldExpr(n.Operand)
		if lit, ok := foldUnaryOp(n); ok {
			return lit
		}
		return n
	case *astutil.BoolOp:
		for i := range n.Values {
			n.Values[i] = foldExpr(n.Values[i])
		}
		return n
	case *astutil.CompareOp:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
		return n
	case *astutil.Conditional:
		n.Cond = foldExpr(n.Cond)
		n.Then = foldExpr(n.Then)
		n.Else = foldExpr(n.Else)
		if lit, ok := n.Cond.(*astutil.Literal); ok && lit.Kind == astutil.LitBool {
			if lit.Raw == "True" {
				return n.Then
			}
			return n.Else
		}
		return n
	case *astutil.Call:
		for i := range n.Args {
			n.Args[i] = foldExpr(n.Args[i])
		}
		return n
	case *astutil.MethodCall:
		n.Receiver = foldExpr(n.Receiver)
		for i := range n.Args {
			n.Args[i] = foldExpr(n.Args[i])
		}
		return n
	case *astutil.Subscript:
		n.Value = foldExpr(n.Value)
		n.Index = foldExpr(n.Index)
		return n
	case *astutil.Attribute:
		n.Value = foldExpr(n.Value)
		return n
	case *astutil.ListLit:
		for i := range n.Elems {
			n.Elems[i] = foldExpr(n.Elems[i])
		}
		return n
	case *astutil.SetLit:
		for i := range n.Elems {
			n.Elems[i] = foldExpr(n.Elems[i])
		}
		return n
	case *astutil.TupleLit:
		for i := range n.Elems {
			n.Elems[i] = foldExpr(n.Elems[i])
		}
		return n
	case *astutil.DictLit:
		for i := range n.Entries {
			n.Entries[i].Key = foldExpr(n.Entries[i].Key)
			n.Entries[i].Value = foldExpr(n.Entries[i].Value)
		}
		return n
	default:
		return e
	}
}

func foldUnaryOp(n *astutil.UnaryOp) (*astutil.Literal, bool) {
	lit, ok := n.Operand.(*astutil.Literal)
	if !ok {
		return nil, false
	}
	switch n.Op {
	case "-":
		switch lit.Kind {
		case astutil.LitInt:
			v, err := strconv.ParseInt(lit.Raw, 10, 64)
			if err != nil {
				return nil, false
			}
			return intLit(-v, lit), true
		case astutil.LitFloat:
			v, err := strconv.ParseFloat(lit.Raw, 64)
			if err != nil {
				return nil, false
			}
			return floatLit(-v, lit), true
		}
	case "not":
		if lit.Kind == astutil.LitBool {
			return boolLit(lit.Raw != "True", lit), true
		}
	}
	return nil, false
}

// foldBinOp folds a binary operation over two literal operands of
// matching numeric kind. Mixed int/float and anything involving a
// non-literal operand is left unfolded for the backend to emit normally.
func foldBinOp(n *astutil.BinOp) (*astutil.Literal, bool) {
	left, ok := n.Left.(*astutil.Literal)
	if !ok {
		return nil, false
	}
	right, ok := n.Right.(*astutil.Literal)
	if !ok {
		return nil, false
	}
	if left.Kind == astutil.LitInt && right.Kind == astutil.LitInt {
		a, err1 := strconv.ParseInt(left.Raw, 10, 64)
		b, err2 := strconv.ParseInt(right.Raw, 10, 64)
		if err1 != nil || err2 != nil {
			return nil, false
		}
		switch n.Op {
		case "+":
			return intLit(a+b, left), true
		case "-":
			return intLit(a-b, left), true
		case "*":
			return intLit(a*b, left), true
		case "//":
			if b == 0 {
				return nil, false
			}
			q := a / b
			if a%b != 0 && (a < 0) != (b < 0) {
				q--
			}
			return intLit(q, left), true
		case "%":
			if b == 0 {
				return nil, false
			}
			r := a % b
			if r != 0 && (r < 0) != (b < 0) {
				r += b
			}
			return intLit(r, left), true
		}
		return nil, false
	}
	if left.Kind == astutil.LitFloat && right.Kind == astutil.LitFloat {
		a, err1 := strconv.ParseFloat(left.Raw, 64)
		b, err2 := strconv.ParseFloat(right.Raw, 64)
		if err1 != nil || err2 != nil {
			return nil, false
		}
		switch n.Op {
		case "+":
			return floatLit(a+b, left), true
		case "-":
			return floatLit(a-b, left), true
		case "*":
			return floatLit(a*b, left), true
		case "/":
			if b == 0 {
				return nil, false
			}
			return floatLit(a/b, left), true
		}
	}
	return nil, false
}

func intLit(v int64, like *astutil.Literal) *astutil.Literal {
	lit := &astutil.Literal{Kind: astutil.LitInt, Raw: strconv.FormatInt(v, 10)}
	lit.SetType(like.Type())
	return lit
}

func floatLit(v float64, like *astutil.Literal) *astutil.Literal {
	lit := &astutil.Literal{Kind: astutil.LitFloat, Raw: strconv.FormatFloat(v, 'g', -1, 64)}
	lit.SetType(like.Type())
	return lit
}

func boolLit(v bool, like *astutil.Literal) *astutil.Literal {
	raw := "False"
	if v {
		raw = "True"
	}
	lit := &astutil.Literal{Kind: astutil.LitBool, Raw: raw}
	lit.SetType(like.Type())
	return lit
}
