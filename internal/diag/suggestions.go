// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package diag

// suggestionEntry pairs a code with its fixed default suggestion text
// (spec §7 "Suggestion database").
type suggestionEntry struct {
	code       Code
	suggestion string
}

// defaultSuggestions is the fixed mapping from error code to a short
// suggestion, consulted by validator and inference diagnostics when they
// don't supply a more specific one of their own.
var defaultSuggestions = []suggestionEntry{
	{ECodeUnsupportedGenerator, "return a list; generators are not supported"},
	{ECodeUnsupportedYield, "return a list; generators are not supported"},
	{ECodeUnsupportedAsync, "use a synchronous function"},
	{ECodeUnsupportedException, "refactor to explicit early returns or a Result-shaped return value"},
	{ECodeUnsupportedWith, "use explicit open/close with a try-finally once finally lands"},
	{ECodeUnsupportedDel, "reassign the binding or let it go out of scope"},
	{ECodeUnsupportedGlobal, "pass the value as a parameter instead"},
	{ECodeUnsupportedNonlocal, "pass the value as a parameter instead"},
	{ECodeUnsupportedLambda, "define a named function"},
	{ECodeUnsupportedInherit, "flatten into one record; compose via explicit dispatch functions"},
	{ECodeUnsupportedMetaclass, "remove the metaclass; use a plain record"},
	{ECodeUnsupportedDecorator, "remove the decorator or use @dataclass/@staticmethod/@classmethod"},
	{ECodeUnsupportedReflection, "use a compile-time alternative"},
	{ECodeUnsupportedVarargs, "use an explicit list parameter"},
	{ECodeUnsupportedDefaultMut, "use None as the default and assign the mutable value in the body"},
	{ECodeMissingParamAnnot, "add a type annotation: `x: int`"},
	{ECodeMissingReturnAnnot, "add a return annotation: `-> int`"},
	{ECodeMissingAnnotation, "add an explicit type annotation: `x: int = ...`"},
}

// DefaultSuggestion returns the fixed suggestion for a code, or "" if none
// is registered.
func DefaultSuggestion(code Code) string {
	for _, e := range defaultSuggestions {
		if e.code == code {
			return e.suggestion
		}
	}
	return ""
}

// NewErrorWithDefault constructs an error diagnostic and attaches its
// default suggestion, if one is registered for the code.
func NewErrorWithDefault(code Code, message string, loc Location) Diagnostic {
	d := NewError(code, message, loc)
	if s := DefaultSuggestion(code); s != "" {
		d.Suggestion = s
	}
	return d
}
