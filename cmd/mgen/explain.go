// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	errs "github.com/kraklabs/mgen/internal/errors"
	"github.com/kraklabs/mgen/pkg/mgen"
)

type explainJSON struct {
	Code       string `json:"code"`
	Suggestion string `json:"suggestion"`
}

func runExplain(args []string) {
	fs := flag.NewFlagSet("explain", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Emit JSON instead of plain text")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mgen explain <code> [--json]")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(errs.ExitUsage)
	}
	positional := fs.Args()
	if len(positional) != 1 {
		fs.Usage()
		os.Exit(errs.ExitUsage)
	}
	code := positional[0]

	suggestion, ok := mgen.Explain(code)
	if !ok {
		errs.FatalError(errs.NewInputError(
			fmt.Sprintf("no suggestion registered for %s", code),
			"",
			"check the code against the diagnostics listed in the mgen documentation",
		), *jsonOut)
	}

	if *jsonOut {
		_ = writeJSONStdout(explainJSON{Code: code, Suggestion: suggestion})
		return
	}
	fmt.Println(suggestion)
}
