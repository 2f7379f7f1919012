// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"sort"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/mgen/pkg/mgen"
)

func runTargets(args []string) {
	fs := flag.NewFlagSet("targets", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Emit a JSON array instead of one name per line")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mgen targets [--json]")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	names := mgen.Targets()
	sort.Strings(names)

	if *jsonOut {
		_ = writeJSONStdout(names)
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
}
