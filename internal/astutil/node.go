// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package astutil

import (
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// Expression is the polymorphic variant covering every expression shape in
// the accepted subset (spec §3.1).
type Expression interface {
	Loc() diag.Location
	// Type returns the InferredType attached during the inference phase.
	// Before inference runs this is the zero value.
	Type() types.Inferred
	SetType(types.Inferred)
	exprNode()
}

// base carries the fields shared by every node: its location and its
// (eventually) inferred type.
type base struct {
	Location diag.Location
	inferred types.Inferred
}

func (b base) Loc() diag.Location        { return b.Location }
func (b base) Type() types.Inferred      { return b.inferred }
func (b *base) SetType(t types.Inferred) { b.inferred = t }

// --- literals ---

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitStr
	LitNone
)

type Literal struct {
	base
	Kind LiteralKind
	// Raw holds the literal's textual value for every kind; for strings it
	// is the unescaped content, for bools "True"/"False".
	Raw string
}

func (*Literal) exprNode() {}

// --- names ---

type Name struct {
	base
	Ident string
}

func (*Name) exprNode() {}

// --- operators ---

type BinOp struct {
	base
	Op          string // "+","-","*","/","//","%","**","&","|","^","<<",">>"
	Left, Right Expression
}

func (*BinOp) exprNode() {}

type UnaryOp struct {
	base
	Op      string // "-","not","~"
	Operand Expression
}

func (*UnaryOp) exprNode() {}

type CompareOp struct {
	base
	Op          string // "==","!=","<","<=",">",">=","in","not in","is","is not"
	Left, Right Expression
}

func (*CompareOp) exprNode() {}

type BoolOp struct {
	base
	Op     string // "and","or"
	Values []Expression
}

func (*BoolOp) exprNode() {}

// --- calls ---

type Call struct {
	base
	Func Expression
	Args []Expression
}

func (*Call) exprNode() {}

type MethodCall struct {
	base
	Receiver Expression
	Method   string
	Args     []Expression
}

func (*MethodCall) exprNode() {}

// --- attribute / subscript / slice ---

type Attribute struct {
	base
	Value Expression
	Attr  string
}

func (*Attribute) exprNode() {}

type Subscript struct {
	base
	Value Expression
	Index Expression
}

func (*Subscript) exprNode() {}

type Slice struct {
	base
	Value            Expression
	Lower, Upper, Step Expression // any may be nil
}

func (*Slice) exprNode() {}

// --- container literals ---

type ListLit struct {
	base
	Elems []Expression
}

func (*ListLit) exprNode() {}

type SetLit struct {
	base
	Elems []Expression
}

func (*SetLit) exprNode() {}

type TupleLit struct {
	base
	Elems []Expression
}

func (*TupleLit) exprNode() {}

type DictEntry struct {
	Key, Value Expression
}

type DictLit struct {
	base
	Entries []DictEntry
}

func (*DictLit) exprNode() {}

// --- comprehensions ---

// Comprehension describes the shared "for TARGET in ITER [if COND]" clause.
// Only a single optional filter is accepted (spec §6.2).
type Comprehension struct {
	Target Expression
	Iter   Expression
	Filter Expression // nil if absent
}

type ListComp struct {
	base
	Elem   Expression
	Clause Comprehension
}

func (*ListComp) exprNode() {}

type SetComp struct {
	base
	Elem   Expression
	Clause Comprehension
}

func (*SetComp) exprNode() {}

type DictComp struct {
	base
	Key, Value Expression
	Clause     Comprehension
}

func (*DictComp) exprNode() {}

// --- formatted strings ---

// FString is an expression-only formatted string: "...{expr}..." with no
// format specifiers in v1 (spec §6.2).
type FString struct {
	base
	// Literals and Exprs alternate in source order; Literals[i] precedes Exprs[i] which precedes Literals[i+1].
	Literals []string
	Exprs    []Expression
}

func (*FString) exprNode() {}

// --- conditional expression ---

type Conditional struct {
	base
	Cond, Then, Else Expression
}

func (*Conditional) exprNode() {}

// --- non-capturing unary lambda (accepted only inside a comprehension) ---

type Lambda struct {
	base
	Param string
	Body  Expression
}

func (*Lambda) exprNode() {}
