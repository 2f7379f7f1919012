// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Command mgen is the CLI driver for the MGen source-to-source compiler
// (out of CORE scope per spec §1 "command-line driver"; grounded on the
// teacher's cmd/cie dispatch-by-first-argument shape).
//
// Usage:
//
//	mgen compile <file> --target <name>   Compile a source file to a target language
//	mgen targets                          List registered target names
//	mgen explain <code>                   Print the suggestion for a diagnostic code
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var showVersion bool
	flag.CommandLine.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `mgen - MGen source-to-source compiler CLI

Usage:
  mgen <command> [options]

Commands:
  compile <file>   Compile a SourceLang file to a target language
  targets          List registered target names
  explain <code>   Print the fixed suggestion for a diagnostic code

Global Options:
  --version        Show version and exit

Examples:
  mgen compile add.src --target go-like
  mgen compile add.src --target c-like --out ./build
  mgen targets
  mgen explain E5001
`)
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("mgen version %s (commit %s)\n", version, commit)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]
	switch command {
	case "compile":
		runCompile(cmdArgs)
	case "targets":
		runTargets(cmdArgs)
	case "explain":
		runExplain(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
