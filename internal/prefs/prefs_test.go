// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() Schema {
	return Schema{Fields: []FieldSchema{
		{Key: "use_tabs", Kind: KindBool, Default: false},
		{Key: "indent_width", Kind: KindInt, Default: 4},
		{Key: "int_width", Kind: KindEnum, Default: "32", EnumValues: []string{"32", "64"}},
	}}
}

func TestNewBag_SeedsDefaults(t *testing.T) {
	b := NewBag(sampleSchema())
	assert.False(t, b.Bool("use_tabs"))
	assert.Equal(t, 4, b.Int("indent_width"))
}

func TestValidate_UnknownKeyWarns(t *testing.T) {
	b := NewBag(sampleSchema())
	b.Set("bogus", "x")
	warnings, errs := Validate(b, sampleSchema())
	assert.Len(t, warnings, 1)
	assert.Empty(t, errs)
}

func TestValidate_WrongKindErrors(t *testing.T) {
	b := NewBag(sampleSchema())
	b.Set("indent_width", "not-an-int")
	_, errs := Validate(b, sampleSchema())
	require.Len(t, errs, 1)
}

func TestValidate_EnumOutOfRangeErrors(t *testing.T) {
	b := NewBag(sampleSchema())
	b.Set("int_width", "128")
	_, errs := Validate(b, sampleSchema())
	require.Len(t, errs, 1)
}

func TestLoadYAML_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preferences:\n  use_tabs: true\n  indent_width: 2\n"), 0o644))

	b := NewBag(sampleSchema())
	require.NoError(t, LoadYAML(path, b))
	assert.True(t, b.Bool("use_tabs"))
	assert.Equal(t, 2, b.Int("indent_width"))
	assert.Equal(t, "32", b.String("int_width"))
}
