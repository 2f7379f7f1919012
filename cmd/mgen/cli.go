// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Color instances for the CLI's status lines, following the teacher's
// fatih/color usage (internal/errors.Format uses the same library for
// diagnostic rendering). initColors wires --no-color/NO_COLOR through to
// color.NoColor; warnf/successf are the two status kinds compile needs.
var (
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
)

func initColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

func warnf(msg string) {
	_, _ = yellow.Println("⚠ " + msg)
}

func successf(msg string) {
	_, _ = green.Println("✓ " + msg)
}

// writeJSON pretty-prints data as indented JSON, mirroring the one
// encoding used across compile/explain/targets' --json mode.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

func writeJSONStdout(data any) error {
	return writeJSON(os.Stdout, data)
}
