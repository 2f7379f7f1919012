// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for the mgen CLI.
//
// It defines UserError, a type that carries what went wrong, why it
// happened, and how to fix it, plus a small set of exit codes so every
// CLI subcommand exits consistently whether invoked from a terminal or
// a script that checks $?.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for the mgen CLI. ExitCompile is distinct from the rest:
// it means the compiler ran to completion and reported diagnostics,
// not that the CLI itself malfunctioned.
const (
	// ExitSuccess indicates the requested compile (or other command) succeeded.
	ExitSuccess = 0

	// ExitUsage indicates bad command-line usage (missing/invalid flags).
	ExitUsage = 1

	// ExitInput indicates an invalid --target, --prefs value, or other
	// user-supplied option that failed validation before compilation started.
	ExitInput = 2

	// ExitIO indicates a filesystem error: source file not found, output
	// directory not writable, and so on.
	ExitIO = 3

	// ExitCompile indicates the pipeline ran and produced diagnostics that
	// failed the compile (a syntax, validation, or codegen error, not a bug).
	ExitCompile = 4

	// ExitInternal indicates an unexpected error: a bug in mgen itself.
	ExitInternal = 10
)

// UserError carries structured context for a CLI-facing error.
type UserError struct {
	// Message describes what went wrong in user-friendly language.
	Message string

	// Cause explains why the error occurred.
	Cause string

	// Fix suggests how to resolve the error.
	Fix string

	// ExitCode is the process exit code this error should produce.
	ExitCode int

	// Err is the underlying error, if any (supports errors.Is/As).
	Err error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a usage error with exit code ExitUsage.
func NewUsageError(msg, fix string) *UserError {
	return &UserError{Message: msg, Fix: fix, ExitCode: ExitUsage}
}

// NewInputError creates an input validation error with exit code ExitInput.
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput}
}

// NewIOError creates a filesystem error with exit code ExitIO.
func NewIOError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitIO, Err: err}
}

// NewCompileError creates a compile-failure error with exit code ExitCompile.
// Cause is typically a diagnostic summary ("3 errors, 1 warning").
func NewCompileError(msg, cause string) *UserError {
	return &UserError{Message: msg, Cause: cause, ExitCode: ExitCompile}
}

// NewInternalError creates an internal error with exit code ExitInternal.
func NewInternalError(msg, fix string, err error) *UserError {
	return &UserError{Message: msg, Fix: fix, ExitCode: ExitInternal, Err: err}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
// Empty Cause or Fix fields are omitted.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the machine-readable form of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to its JSON-serializable form.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints err and exits with its exit code. Non-UserError
// values print a bare message and exit with ExitInternal. Never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
