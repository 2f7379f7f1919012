// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinary_KnownOperators(t *testing.T) {
	s, ok := Binary("+")
	require.True(t, ok)
	assert.Equal(t, CategoryInfix, s.Category)
	assert.Equal(t, "+", s.Infix)

	s, ok = Binary("//")
	require.True(t, ok)
	assert.Equal(t, CategoryCall, s.Category)
	assert.Equal(t, "floordiv", s.Call)

	s, ok = Binary("**")
	require.True(t, ok)
	assert.Equal(t, "pow", s.Call)
}

func TestBinary_Unknown(t *testing.T) {
	_, ok := Binary("@")
	assert.False(t, ok)
}

func TestCompare_MembershipOperators(t *testing.T) {
	s, ok := Compare("in")
	require.True(t, ok)
	assert.Equal(t, CategoryCall, s.Category)
	assert.Equal(t, "contains", s.Call)

	s, ok = Compare("not in")
	require.True(t, ok)
	assert.Equal(t, "not_contains", s.Call)
}

func TestUnary_Not(t *testing.T) {
	s, ok := Unary("not")
	require.True(t, ok)
	assert.Equal(t, CategoryCall, s.Category)
}

func TestBool_ShortCircuit(t *testing.T) {
	s, ok := Bool("and")
	require.True(t, ok)
	assert.Equal(t, "&&", s.Infix)

	s, ok = Bool("or")
	require.True(t, ok)
	assert.Equal(t, "||", s.Infix)
}

func TestAugmented_MatchesBinary(t *testing.T) {
	aug, ok := Augmented("+")
	require.True(t, ok)
	bin, ok := Binary("+")
	require.True(t, ok)
	assert.Equal(t, bin, aug)
}
