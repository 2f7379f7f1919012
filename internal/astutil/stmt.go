// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package astutil

import (
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// Statement is the polymorphic variant covering every statement shape in
// the accepted subset (spec §3.1).
type Statement interface {
	Loc() diag.Location
	stmtNode()
}

type stmtBase struct {
	Location diag.Location
}

func (b stmtBase) Loc() diag.Location { return b.Location }

// AnnAssign is `name: Type = value` (or `name: Type` with no initializer).
type AnnAssign struct {
	stmtBase
	Target     string
	Annotation types.SourceType
	Value      Expression // nil if no initializer
}

func (*AnnAssign) stmtNode() {}

// Assign is a plain `target = value` with no annotation (target must
// already be bound; annotation inference propagates from the binding's
// prior AnnAssign).
type Assign struct {
	stmtBase
	Target Expression // Name, Attribute, or Subscript
	Value  Expression
}

func (*Assign) stmtNode() {}

// AugAssign is `target OP= value` (spec S4/Testable Property 13).
type AugAssign struct {
	stmtBase
	Target Expression
	Op     string // "+","-","*","/", etc. (without the trailing '=')
	Value  Expression
}

func (*AugAssign) stmtNode() {}

type ExprStmt struct {
	stmtBase
	Expr Expression
}

func (*ExprStmt) stmtNode() {}

type Return struct {
	stmtBase
	Value Expression // nil for bare `return`
}

func (*Return) stmtNode() {}

// ElifBranch pairs a condition with its body for the if/elif chain.
type ElifBranch struct {
	Cond Expression
	Body []Statement
}

type If struct {
	stmtBase
	Cond  Expression
	Body  []Statement
	Elifs []ElifBranch
	Else  []Statement // nil if absent
}

func (*If) stmtNode() {}

type While struct {
	stmtBase
	Cond Expression
	Body []Statement
}

func (*While) stmtNode() {}

// For covers both for-over-range and for-over-container (spec §6.2); Iter
// is the range(...)/container expression and Target the loop variable(s).
type For struct {
	stmtBase
	Target Expression
	Iter   Expression
	Body   []Statement
}

func (*For) stmtNode() {}

type Break struct{ stmtBase }

func (*Break) stmtNode() {}

type Continue struct{ stmtBase }

func (*Continue) stmtNode() {}

// Param is a function/method parameter; Annotation is required at top
// level by the validator (spec §4.1 "unannotated parameters ... rejected").
type Param struct {
	Name       string
	Annotation types.SourceType
	Loc        diag.Location
}

// FuncDef is a top-level function or an instance method (methods carry a
// receiver as Params[0] by source convention; IsMethod distinguishes).
type FuncDef struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType types.SourceType
	HasReturn  bool // false for a bare `def f(...):` with no `-> T` (validator rejects unless IsMethod+None-returning)
	Body       []Statement
	IsMethod   bool
	IsStatic   bool
	IsClassM   bool
}

func (*FuncDef) stmtNode() {}

// Field is a named, typed record field (spec §3.3).
type Field struct {
	Name       string
	Annotation types.SourceType
}

// ClassDef is a record definition: named fields, a conventional
// constructor, and instance methods; no inheritance, no virtual dispatch
// (spec §3.3).
type ClassDef struct {
	stmtBase
	Name         string
	Fields       []Field
	Methods      []*FuncDef
	IsDataclass  bool
	IsNamedTuple bool
}

func (*ClassDef) stmtNode() {}

// Import is `from module import name[, name...]` (spec §6.2 "imports of
// named members from a small set of recognized modules").
type Import struct {
	stmtBase
	Module string
	Names  []string
}

func (*Import) stmtNode() {}

type Assert struct {
	stmtBase
	Cond    Expression
	Message Expression // nil if absent
}

func (*Assert) stmtNode() {}
