// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package astutil

import "strings"

// knownStringMethods is the set of str methods the subset recognizes for
// builtin-mapping purposes (spec §4.3 map-builtin).
var knownStringMethods = map[string]bool{
	"split": true, "join": true, "strip": true, "lstrip": true, "rstrip": true,
	"upper": true, "lower": true, "replace": true, "startswith": true,
	"endswith": true, "find": true, "format": true,
}

// IsStringMethod reports whether name is one of the recognized str
// methods.
func IsStringMethod(name string) bool {
	return knownStringMethods[name]
}

// UsesComprehension reports whether the expression tree rooted at e
// contains any comprehension node.
func UsesComprehension(e Expression) bool {
	found := false
	Walk(e, func(n Expression) bool {
		switch n.(type) {
		case *ListComp, *SetComp, *DictComp:
			found = true
			return false
		}
		return true
	})
	return found
}

// ExtractFieldsOfRecord returns the field names a ClassDef declares, in
// declaration order (spec §4.3 C-like "struct plus make_Record").
func ExtractFieldsOfRecord(c *ClassDef) []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}

// MutatesReceiver reports whether a method assigns to any `self.<field>`
// attribute anywhere in its body, directly or via augmented assignment.
// The Rust-like backend does not call it: its own methodMutatesReceiver
// makes the &mut self vs &self choice and also counts mutating method
// calls on receiver fields.
func MutatesReceiver(fn *FuncDef) bool {
	if !fn.IsMethod || len(fn.Params) == 0 {
		return false
	}
	receiver := fn.Params[0].Name
	mutates := false
	WalkStatements(fn.Body, func(s Statement) bool {
		switch st := s.(type) {
		case *Assign:
			if isSelfAttr(st.Target, receiver) {
				mutates = true
			}
		case *AugAssign:
			if isSelfAttr(st.Target, receiver) {
				mutates = true
			}
		}
		return !mutates
	})
	return mutates
}

func isSelfAttr(e Expression, receiver string) bool {
	attr, ok := e.(*Attribute)
	if !ok {
		return false
	}
	name, ok := attr.Value.(*Name)
	return ok && name.Ident == receiver
}

// HasCapturingLambda reports whether e contains a lambda whose body
// references a name in localsInScope other than its own parameter. Only
// capture is checked: where the lambda appears (inside a comprehension or
// not) is not.
func HasCapturingLambda(e Expression, localsInScope map[string]bool) bool {
	found := false
	Walk(e, func(n Expression) bool {
		lam, ok := n.(*Lambda)
		if !ok {
			return true
		}
		// A lambda is accepted only when its body references nothing but
		// its own parameter and globals/builtins; referencing any other
		// local name counts as capturing mutable state.
		Walk(lam.Body, func(inner Expression) bool {
			if name, ok := inner.(*Name); ok {
				if name.Ident != lam.Param && localsInScope[name.Ident] {
					found = true
				}
			}
			return true
		})
		return true
	})
	return found
}

// FormattedStringLiteralParts joins an FString's literal segments, useful
// for diagnostics that want to describe the format string's shape without
// walking its embedded expressions.
func FormattedStringLiteralParts(f *FString) string {
	return strings.Join(f.Literals, "{}")
}
