// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON is the machine-readable form of a Diagnostic, suitable for
// CIE-style `--json` CLI output.
type JSON struct {
	Kind       string `json:"kind"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	File       string `json:"file,omitempty"`
	StartLine  int    `json:"start_line,omitempty"`
	StartCol   int    `json:"start_col,omitempty"`
	EndLine    int    `json:"end_line,omitempty"`
	EndCol     int    `json:"end_col,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	DocPointer string `json:"doc_pointer,omitempty"`
}

// ToJSON converts a Diagnostic to its JSON-serializable form.
func (d Diagnostic) ToJSON() JSON {
	return JSON{
		Kind:       d.Kind.String(),
		Code:       string(d.Code),
		Message:    d.Message,
		File:       d.Location.File,
		StartLine:  d.Location.StartLine,
		StartCol:   d.Location.StartCol,
		EndLine:    d.Location.EndLine,
		EndCol:     d.Location.EndCol,
		Suggestion: d.Suggestion,
		DocPointer: d.DocPointer,
	}
}

// EncodeJSON writes a pretty-printed JSON array of diagnostics to w.
func EncodeJSON(w io.Writer, diags []Diagnostic) error {
	out := make([]JSON, len(diags))
	for i, d := range diags {
		out[i] = d.ToJSON()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("diag: JSON encoding failed: %w", err)
	}
	return nil
}
