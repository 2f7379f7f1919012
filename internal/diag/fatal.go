// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"fmt"
	"os"
)

// Exit codes for the mgen CLI driver, mirroring the CIE CLI's semantic
// exit-code convention (internal/errors.ExitConfig..ExitInternal) but
// keyed to pipeline concerns instead of CozoDB/CLI concerns.
const (
	ExitSuccess      = 0
	ExitInvalidInput = 1 // bad flags, unknown target, malformed preferences
	ExitCompileError = 2 // the pipeline itself ran and produced error diagnostics
	ExitInternal     = 10
)

// CLIError represents a failure the CLI driver can hit before the pipeline
// even starts: an unknown target, a malformed preferences value, a
// missing source file. It is deliberately distinct from Diagnostic, which
// is produced *by* a pipeline phase and always carries a source Location;
// a CLIError has no location because it isn't about a position in the
// user's source file.
type CLIError struct {
	Message  string
	Fix      string
	ExitCode int
	Err      error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error { return e.Err }

// NewCLIError builds an invalid-input CLIError.
func NewCLIError(message, fix string, err error) *CLIError {
	return &CLIError{Message: message, Fix: fix, ExitCode: ExitInvalidInput, Err: err}
}

// Format renders a CLIError the way internal/errors.UserError.Format does:
// a red "Error:" line and, if present, a green "Fix:" line.
func (e *CLIError) Format(noColor bool) string {
	if noColor || os.Getenv("NO_COLOR") != "" {
		colorBanner.DisableColor()
		colorHelp.DisableColor()
	} else {
		colorBanner.EnableColor()
		colorHelp.EnableColor()
	}
	out := colorBanner.Sprint("Error: ") + e.Message + "\n"
	if e.Fix != "" {
		out += colorHelp.Sprint("Fix:   ") + e.Fix + "\n"
	}
	return out
}

// FatalCLIError prints a CLIError and exits the process with its code.
// Mirrors internal/errors.FatalError's never-returns contract.
func FatalCLIError(err error, jsonOutput bool) {
	if err == nil {
		return
	}
	if ce, ok := err.(*CLIError); ok {
		if jsonOutput {
			_ = EncodeJSON(os.Stderr, []Diagnostic{{Kind: Error, Message: ce.Message, Suggestion: ce.Fix}})
		} else {
			fmt.Fprint(os.Stderr, ce.Format(false))
		}
		os.Exit(ce.ExitCode)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
