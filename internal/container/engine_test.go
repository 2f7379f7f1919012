// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/types"
)

func intDescriptor() types.Descriptor {
	return types.Descriptor{
		ConcreteName: "int",
		Suffix:       "int",
		Format:       "%d",
		ZeroValue:    "0",
		EqualFn:      "int_eq",
	}
}

func strDescriptor() types.Descriptor {
	return types.Descriptor{
		ConcreteName:    "char*",
		Suffix:          "str",
		HeapOwned:       true,
		NeedsDestructor: true,
		NeedsCopy:       true,
		Format:          "%s",
		ZeroValue:       `""`,
		EqualFn:         "str_eq",
	}
}

func TestEngine_RequestIsIdempotent(t *testing.T) {
	e := New()
	id1 := e.Request(FamilyVec, intDescriptor())
	id2 := e.Request(FamilyVec, intDescriptor())
	assert.Equal(t, id1, id2)
	assert.Equal(t, ID("vec_int"), id1)
	assert.Len(t, e.Emitted(), 1)
}

func TestEngine_GenerateVec(t *testing.T) {
	e := New()
	id := e.Request(FamilyVec, intDescriptor())
	art, diags := e.Generate(id)
	require.Empty(t, diags)
	assert.Contains(t, art.HeaderText, "vec_int")
	assert.Contains(t, art.SourceText, "vec_int_push")
	assert.NotContains(t, art.SourceText, "T_NEEDS_DROP")
}

func TestEngine_GenerateVecOfOwnedStringsNeedsDrop(t *testing.T) {
	e := New()
	id := e.Request(FamilyVec, strDescriptor())
	art, diags := e.Generate(id)
	require.Empty(t, diags)
	assert.Contains(t, art.SourceText, "str_destroy(&v->data[i])")
}

// TestEngine_PushBranchesAreMutuallyExclusive guards against the
// template emitting both the copy-and-increment line and the plain
// assign-and-increment line for the same descriptor: that would
// double-increment size and write the uncopied value into the next
// slot on every push of a NeedsCopy element (e.g. list[str]).
func TestEngine_PushBranchesAreMutuallyExclusive(t *testing.T) {
	e := New()
	id := e.Request(FamilyVec, strDescriptor())
	art, diags := e.Generate(id)
	require.Empty(t, diags)
	assert.Contains(t, art.SourceText, "v->data[v->size++] = str_copy(value);")
	assert.NotContains(t, art.SourceText, "v->data[v->size] = value;")

	e2 := New()
	id2 := e2.Request(FamilyVec, intDescriptor())
	art2, diags2 := e2.Generate(id2)
	require.Empty(t, diags2)
	assert.Contains(t, art2.SourceText, "v->data[v->size] = value;")
	assert.NotContains(t, art2.SourceText, "int_copy(value)")
}

func TestEngine_GenerateMap(t *testing.T) {
	e := New()
	id := e.Request(FamilyMap, strDescriptor(), intDescriptor())
	art, diags := e.Generate(id)
	require.Empty(t, diags)
	assert.Equal(t, ID("map_str_int"), id)
	assert.Contains(t, art.HeaderText, "map_str_int")
}

func TestEngine_UnknownRequestErrors(t *testing.T) {
	e := New()
	_, diags := e.Generate(ID("nope"))
	require.Len(t, diags, 1)
	assert.Equal(t, "E5003", string(diags[0].Code))
}

func TestEngine_NestedContainerDependency(t *testing.T) {
	e := New()
	innerID := e.Request(FamilyVec, intDescriptor())
	outerDesc := types.Descriptor{
		ConcreteName:    "vec_int",
		Suffix:          "vec_int",
		HeapOwned:       true,
		NeedsDestructor: true,
	}
	outerID := e.Request(FamilyVec, outerDesc)

	deps, diags := e.NeededDependencies(outerID)
	require.Empty(t, diags)
	require.Len(t, deps, 1)
	assert.Equal(t, innerID, deps[0])
}

func TestEngine_GenerateIsMemoized(t *testing.T) {
	e := New()
	id := e.Request(FamilySet, intDescriptor())
	art1, _ := e.Generate(id)
	art2, _ := e.Generate(id)
	assert.Equal(t, art1, art2)
}
