// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/mgen/internal/diag"
	errs "github.com/kraklabs/mgen/internal/errors"
	"github.com/kraklabs/mgen/internal/prefs"
	"github.com/kraklabs/mgen/pkg/mgen"
)

// compileResultJSON is the --json shape for a successful compile.
type compileResultJSON struct {
	OK           bool     `json:"ok"`
	Target       string   `json:"target"`
	FilesWritten []string `json:"files_written"`
	Diagnostics  int      `json:"diagnostics"`
}

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	target := fs.String("target", "", "Target backend (see `mgen targets`)")
	outDir := fs.String("out", ".", "Directory to write generated files into")
	prefsFile := fs.String("prefs", "", "Path to a YAML preferences file")
	noColor := fs.Bool("no-color", false, "Disable colored diagnostic output")
	runBuild := fs.Bool("build", false, "Hand generated output to the build collaborator")
	jsonOut := fs.Bool("json", false, "Emit machine-readable JSON instead of human-readable output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: mgen compile <file> --target <name> [options]

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(errs.ExitUsage)
	}
	initColors(*noColor)

	positional := fs.Args()
	if len(positional) != 1 {
		fs.Usage()
		os.Exit(errs.ExitUsage)
	}
	sourcePath := positional[0]

	if *target == "" {
		errs.FatalError(errs.NewUsageError("--target is required", "see `mgen targets` for valid values"), *jsonOut)
	}
	schema, ok := mgen.SchemaFor(*target)
	if !ok {
		errs.FatalError(errs.NewInputError(
			fmt.Sprintf("unknown target %q", *target),
			"no backend is registered under that name",
			"run `mgen targets` to list valid targets",
		), *jsonOut)
	}

	bag := prefs.NewBag(schema)
	if *prefsFile != "" {
		if err := prefs.LoadYAML(*prefsFile, bag); err != nil {
			errs.FatalError(errs.NewIOError("cannot load preferences file", err.Error(), "check the --prefs path and YAML syntax", err), *jsonOut)
		}
	}
	if warnings, validationErrs := prefs.Validate(bag, schema); len(validationErrs) > 0 {
		if !*jsonOut {
			for _, w := range warnings {
				warnf(w)
			}
		}
		errs.FatalError(errs.NewInputError("invalid preferences", validationErrs[0].Error(), "check --prefs against the target's schema"), *jsonOut)
	} else if !*jsonOut {
		for _, w := range warnings {
			warnf(w)
		}
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		errs.FatalError(errs.NewIOError("cannot read source file", err.Error(), "check the file path", err), *jsonOut)
	}

	result, err := mgen.Compile(string(source), sourcePath, mgen.Options{
		Target:      *target,
		Preferences: bag,
		RunBuild:    *runBuild,
	})
	if err != nil {
		errs.FatalError(errs.NewInternalError("compile failed unexpectedly", "please report this", err), *jsonOut)
	}

	if !*jsonOut {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, diag.Render(d, string(source), *noColor))
		}
	}

	if !result.OK {
		if *jsonOut {
			_ = writeJSON(os.Stderr, errs.NewCompileError("compile failed", fmt.Sprintf("%d diagnostics", len(result.Diagnostics))).ToJSON())
		}
		os.Exit(errs.ExitCompile)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		errs.FatalError(errs.NewIOError("cannot create output directory", err.Error(), "check --out and directory permissions", err), *jsonOut)
	}

	written := make([]string, 0, len(result.Output.Files))
	for name, content := range result.Output.Files {
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			errs.FatalError(errs.NewIOError("cannot write generated file", err.Error(), "check --out and directory permissions", err), *jsonOut)
		}
		written = append(written, path)
		if !*jsonOut {
			successf("wrote " + path)
		}
	}

	if *jsonOut {
		_ = writeJSONStdout(compileResultJSON{
			OK:           true,
			Target:       *target,
			FilesWritten: written,
			Diagnostics:  len(result.Diagnostics),
		})
	}
}
