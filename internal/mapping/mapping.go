// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package mapping implements the pipeline's Mapping phase (spec §4.5 step
// 4): resolving every source name to a backend-concrete name ahead of
// Target optimization and Generation. Container and record shapes are
// mapped structurally by each backend's own type-spelling function
// (mapType/descriptorFor); this phase covers the two things that are
// genuinely name resolution rather than structural translation —
// primitive-kind expressions against the chosen backend's Registry, and
// every record type an expression carries against the module's declared
// classes — grounded on the teacher's CallResolver.BuildIndex-then-resolve
// shape (build a name index once, then look up).
package mapping

import (
	"github.com/kraklabs/mgen/internal/astutil"
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// Resolve walks every expression in module and, for expressions whose
// inferred type is a registered primitive, attaches the backend's
// concrete Descriptor; for expressions whose inferred type is a record,
// verifies a class of that name is declared in module. Anything left
// unresolved becomes an E2004 diagnostic.
func Resolve(module *astutil.SourceModule, registry *types.Registry) []diag.Diagnostic {
	m := &mapper{registry: registry, records: recordSet(module)}
	for _, fn := range module.AllFunctions() {
		m.walkBody(fn.Body)
	}
	return m.diags
}

func recordSet(module *astutil.SourceModule) map[string]bool {
	out := make(map[string]bool, len(module.Classes))
	for _, c := range module.Classes {
		out[c.Name] = true
	}
	return out
}

type mapper struct {
	registry *types.Registry
	records  map[string]bool
	diags    []diag.Diagnostic
}

func (m *mapper) walkBody(body []astutil.Statement) {
	for _, s := range body {
		m.walkStatement(s)
	}
}

func (m *mapper) walkStatement(s astutil.Statement) {
	switch st := s.(type) {
	case *astutil.AnnAssign:
		if st.Value != nil {
			m.walkExpr(st.Value)
		}
	case *astutil.Assign:
		m.walkExpr(st.Target)
		m.walkExpr(st.Value)
	case *astutil.AugAssign:
		m.walkExpr(st.Target)
		m.walkExpr(st.Value)
	case *astutil.ExprStmt:
		m.walkExpr(st.Expr)
	case *astutil.Return:
		if st.Value != nil {
			m.walkExpr(st.Value)
		}
	case *astutil.If:
		m.walkExpr(st.Cond)
		m.walkBody(st.Body)
		for _, el := range st.Elifs {
			m.walkExpr(el.Cond)
			m.walkBody(el.Body)
		}
		m.walkBody(st.Else)
	case *astutil.While:
		m.walkExpr(st.Cond)
		m.walkBody(st.Body)
	case *astutil.For:
		m.walkExpr(st.Iter)
		m.walkBody(st.Body)
	case *astutil.Assert:
		m.walkExpr(st.Cond)
	}
}

func (m *mapper) walkExpr(e astutil.Expression) {
	if e == nil {
		return
	}
	astutil.Walk(e, func(n astutil.Expression) bool {
		m.resolveOne(n)
		return true
	})
}

func (m *mapper) resolveOne(e astutil.Expression) {
	inferred := e.Type()
	switch inferred.Source.Kind {
	case types.KindInt, types.KindFloat, types.KindBool, types.KindStr, types.KindChar, types.KindNone:
		resolved, ok := inferred.ResolveAgainst(m.registry)
		if !ok {
			m.diags = append(m.diags, diag.NewErrorWithDefault(diag.ECodeUnregisteredRecord,
				"no backend descriptor registered for type "+inferred.Source.String(), e.Loc()))
			return
		}
		e.SetType(resolved)
	case types.KindRecord:
		if !m.records[inferred.Source.RecordName] {
			m.diags = append(m.diags, diag.NewErrorWithDefault(diag.ECodeUnregisteredRecord,
				"no record named "+inferred.Source.RecordName+" is declared in this module", e.Loc()))
		}
	}
}
