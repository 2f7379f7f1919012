// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"os"
	"strings"

	"github.com/fatih/color"
)

// Color definitions for diagnostic rendering, mirroring the CIE CLI's
// Error/Cause/Fix palette (red=error, yellow=cause/warning, green=fix).
var (
	colorBanner  = color.New(color.FgRed, color.Bold)
	colorWarn    = color.New(color.FgYellow, color.Bold)
	colorNoteK   = color.New(color.FgCyan, color.Bold)
	colorLoc     = color.New(color.FgCyan)
	colorCaret   = color.New(color.FgRed, color.Bold)
	colorHelp    = color.New(color.FgGreen)
	colorNoteTxt = color.New(color.Faint)
)

// Render produces a multi-line, optionally colored rendering of a single
// diagnostic: a banner line, a location line, a source excerpt with a
// caret-underline of the offending span, a help: line (if a suggestion is
// present) and a note: line (if a doc pointer is present). `source` is the
// full text of the file named in d.Location; pass "" if unavailable.
//
// Color is applied only when the caller has determined the output is a
// terminal and NO_COLOR is unset; callers typically gate this with
// --no-color before calling Render.
func Render(d Diagnostic, source string, noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder

	banner := colorBanner
	if d.Kind == Warning {
		banner = colorWarn
	}
	out.WriteString(banner.Sprintf("%s[%s]: ", d.Kind.String(), string(d.Code)))
	out.WriteString(d.Message)
	out.WriteString("\n")

	if !d.Location.IsZero() {
		out.WriteString(colorLoc.Sprintf("  --> %s\n", d.Location.String()))

		if line := sourceLine(source, d.Location.StartLine); line != "" {
			out.WriteString("   |\n")
			out.WriteString(colorLoc.Sprintf("%3d", d.Location.StartLine))
			out.WriteString(" | ")
			out.WriteString(line)
			out.WriteString("\n")
			out.WriteString("   | ")
			out.WriteString(caretUnderline(d.Location))
			out.WriteString("\n")
		}
	}

	if d.Suggestion != "" {
		out.WriteString(colorHelp.Sprint("help: "))
		out.WriteString(d.Suggestion)
		out.WriteString("\n")
	}

	if d.DocPointer != "" {
		out.WriteString(colorNoteTxt.Sprint("note: "))
		out.WriteString(d.DocPointer)
		out.WriteString("\n")
	}

	return out.String()
}

// RenderAll renders each diagnostic in the (already sorted) slice and joins
// them with a blank line, matching the multi-diagnostic output of a single
// pipeline run.
func RenderAll(diags []Diagnostic, sources map[string]string, noColor bool) string {
	var parts []string
	for _, d := range diags {
		parts = append(parts, Render(d, sources[d.Location.File], noColor))
	}
	return strings.Join(parts, "\n")
}

// sourceLine returns the 1-indexed line from source, or "" if out of range.
func sourceLine(source string, line int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// caretUnderline builds a caret-underline string for a single-line span.
// Multi-line spans underline from StartCol to the end of the start line.
func caretUnderline(loc Location) string {
	if loc.StartCol <= 0 {
		return colorCaret.Sprint("^")
	}
	width := loc.EndCol - loc.StartCol
	if loc.EndLine != loc.StartLine || width <= 0 {
		width = 1
	}
	return strings.Repeat(" ", loc.StartCol-1) + colorCaret.Sprint(strings.Repeat("^", width))
}
