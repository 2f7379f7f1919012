// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute_PlainPlaceholders(t *testing.T) {
	out := substitute("vec_{{SUFFIX}} of {{T}}", map[string]string{"SUFFIX": "int", "T": "int"}, nil)
	assert.Equal(t, "vec_int of int", out)
}

func TestSubstitute_ConditionalKept(t *testing.T) {
	tmpl := "a{{#T_NEEDS_DROP}}b{{/T_NEEDS_DROP}}c"
	out := substitute(tmpl, nil, map[string]bool{"T_NEEDS_DROP": true})
	assert.Equal(t, "abc", out)
}

func TestSubstitute_ConditionalStripped(t *testing.T) {
	tmpl := "a{{#T_NEEDS_DROP}}b{{/T_NEEDS_DROP}}c"
	out := substitute(tmpl, nil, map[string]bool{"T_NEEDS_DROP": false})
	assert.Equal(t, "ac", out)
}

func TestSubstitute_MultipleConditionalsSinglePass(t *testing.T) {
	tmpl := "{{#A}}x{{/A}}{{#B}}y{{/B}}"
	out := substitute(tmpl, nil, map[string]bool{"A": true, "B": false})
	assert.Equal(t, "x", out)
}
