// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// render fills in a family template with req's type arguments and
// discovers any nested-container dependencies. It is a method on *Engine
// (rather than a free function) so it can recognize when an argument's
// Suffix matches an already-registered request's ID, letting
// vec<vec<int>> declare a dependency on vec<int>.
func (e *Engine) render(id ID, req Request) (Artifact, []diag.Diagnostic) {
	switch req.Family {
	case FamilyVec, FamilySet:
		if len(req.Args) != 1 {
			return Artifact{}, []diag.Diagnostic{
				diag.NewErrorWithDefault(diag.ECodeContainerUnknownType,
					string(req.Family)+" requires exactly one type argument", diag.Location{}),
			}
		}
		elem := req.Args[0]
		vars := map[string]string{
			"SUFFIX":    elem.Suffix,
			"T":         elem.ConcreteName,
			"T_EQ":      elem.EqualFn,
			"T_HASH":    elem.Suffix + "_hash",
			"T_DESTROY": elem.Suffix + "_destroy",
			"T_COPY":    elem.Suffix + "_copy",
		}
		conds := map[string]bool{
			"T_NEEDS_DROP":   elem.NeedsDestructor,
			"T_NEEDS_COPY":   elem.NeedsCopy,
			"T_PLAIN_ASSIGN": !elem.NeedsCopy,
		}
		headerTmpl, sourceTmpl := vecSourceTemplates(req.Family)
		art := Artifact{
			ID:         id,
			HeaderText: substitute(headerTmpl, vars, conds),
			SourceText: substitute(sourceTmpl, vars, conds),
			DependsOn:  e.nestedDependencies(elem),
		}
		return art, nil

	case FamilyMap:
		if len(req.Args) != 2 {
			return Artifact{}, []diag.Diagnostic{
				diag.NewErrorWithDefault(diag.ECodeContainerUnknownType,
					"map requires exactly two type arguments", diag.Location{}),
			}
		}
		key, val := req.Args[0], req.Args[1]
		vars := map[string]string{
			"SUFFIX":    key.Suffix + "_" + val.Suffix,
			"K":         key.ConcreteName,
			"V":         val.ConcreteName,
			"K_EQ":      key.EqualFn,
			"K_HASH":    key.Suffix + "_hash",
			"K_DESTROY": key.Suffix + "_destroy",
			"V_DESTROY": val.Suffix + "_destroy",
		}
		conds := map[string]bool{
			"K_NEEDS_DROP": key.NeedsDestructor,
			"V_NEEDS_DROP": val.NeedsDestructor,
		}
		art := Artifact{
			ID:         id,
			HeaderText: substitute(mapHeaderTmpl, vars, conds),
			SourceText: substitute(mapSourceTmpl, vars, conds),
			DependsOn:  append(e.nestedDependencies(key), e.nestedDependencies(val)...),
		}
		return art, nil

	default:
		return Artifact{}, []diag.Diagnostic{
			diag.NewErrorWithDefault(diag.ECodeContainerUnknownType,
				"unknown container family: "+string(req.Family), diag.Location{}),
		}
	}
}

func vecSourceTemplates(f Family) (header, source string) {
	if f == FamilySet {
		return setHeaderTmpl, setSourceTmpl
	}
	return vecHeaderTmpl, vecSourceTmpl
}

// nestedDependencies reports whether arg's suffix corresponds to another
// already-registered container request (e.g. the "vec_int" suffix of a
// vec<vec<int>>'s element), in which case that container must be emitted
// first.
func (e *Engine) nestedDependencies(arg types.Descriptor) []ID {
	candidate := ID(arg.Suffix)
	if _, ok := e.requests[candidate]; ok {
		return []ID{candidate}
	}
	return nil
}
