// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package diag

// Kind classifies the severity of a diagnostic.
type Kind int

const (
	// Error diagnostics are fatal: they prevent subsequent pipeline phases
	// from running (spec §3.6, §7).
	Error Kind = iota
	// Warning diagnostics do not stop the pipeline.
	Warning
	// Note diagnostics add supplementary context to a prior diagnostic.
	Note
)

// String renders the Kind the way it appears in a rendered banner line.
func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is a structured compiler message: a code, a message, a
// location, and optionally a fix suggestion and a documentation pointer
// (spec §3.4).
type Diagnostic struct {
	Kind       Kind
	Code       Code
	Message    string
	Location   Location
	Suggestion string
	DocPointer string
}

// NewError constructs an error-kind diagnostic.
func NewError(code Code, message string, loc Location) Diagnostic {
	return Diagnostic{Kind: Error, Code: code, Message: message, Location: loc}
}

// NewWarning constructs a warning-kind diagnostic.
func NewWarning(code Code, message string, loc Location) Diagnostic {
	return Diagnostic{Kind: Warning, Code: code, Message: message, Location: loc}
}

// WithSuggestion attaches a help: suggestion and returns the diagnostic for
// chaining.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

// WithDocPointer attaches a note: documentation pointer and returns the
// diagnostic for chaining.
func (d Diagnostic) WithDocPointer(p string) Diagnostic {
	d.DocPointer = p
	return d
}

// IsFatal reports whether this diagnostic should halt the pipeline.
func (d Diagnostic) IsFatal() bool {
	return d.Kind == Error
}

// HasErrors reports whether any diagnostic in the slice is Error-kind.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Kind == Error {
			return true
		}
	}
	return false
}

// Sorted returns diagnostics ordered by file, then by start-location
// (spec §4.7 "Diagnostics are ordered by file, then by start-location").
func Sorted(diags []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	copy(out, diags)
	// Simple insertion sort: diagnostic lists are small per compile and this
	// keeps the ordering stable without pulling in sort.Slice's reflection.
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j].Location.Less(out[j-1].Location) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}
