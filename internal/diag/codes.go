// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package diag

// Code is a structured error code in one of five bands (spec §3.4, §6.4).
type Code string

// Error code bands. Each band is a fixed, human-readable template with an
// optional default suggestion, looked up via DefaultSuggestion.
const (
	// E1xxx — unsupported feature / statement / expression / operator / constant.
	ECodeUnsupportedYield      Code = "E1001"
	ECodeUnsupportedAsync      Code = "E1002"
	ECodeUnsupportedException  Code = "E1003"
	ECodeUnsupportedWith       Code = "E1004"
	ECodeUnsupportedDel        Code = "E1005"
	ECodeUnsupportedGlobal     Code = "E1006"
	ECodeUnsupportedNonlocal   Code = "E1007"
	ECodeUnsupportedLambda     Code = "E1008"
	ECodeUnsupportedInherit    Code = "E1009"
	ECodeUnsupportedMetaclass  Code = "E1010"
	ECodeUnsupportedDecorator  Code = "E1011"
	ECodeUnsupportedReflection Code = "E1012"
	ECodeUnsupportedVarargs    Code = "E1013"
	ECodeUnsupportedDefaultMut Code = "E1014"
	ECodeMissingParamAnnot     Code = "E1015"
	ECodeMissingReturnAnnot    Code = "E1016"
	ECodeUnsupportedGenerator  Code = "E1017"

	// E2xxx — type mapping / inference / incompatibility / missing annotation.
	ECodeMissingAnnotation  Code = "E2002"
	ECodeIncompatibleTypes  Code = "E2003"
	ECodeUnregisteredRecord Code = "E2004"
	ECodeUnresolvedKeyValue Code = "E2005"

	// E3xxx — parse / syntax.
	ECodeSyntax Code = "E3001"

	// E4xxx — import resolution.
	ECodeUnknownImport Code = "E4001"

	// E5xxx — codegen / build failure.
	ECodeCodegenUnsupported Code = "E5001"
	ECodeBuildTimeout       Code = "E5002"
	ECodeContainerUnknownType Code = "E5003"
)

// Band returns the diagnostic band ("feature-support", "type-system", ...)
// for a code, derived from its leading digit.
func (c Code) Band() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "feature-support"
	case '2':
		return "type-system"
	case '3':
		return "syntax"
	case '4':
		return "imports"
	case '5':
		return "codegen"
	default:
		return "unknown"
	}
}
