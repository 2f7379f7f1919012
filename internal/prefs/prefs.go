// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package prefs implements the typed per-backend preferences bag (spec
// §4.6): a small schema of bool/string/int/enum keys, loadable from a
// YAML preferences file or a set of CLI flags, validated against each
// backend's declared schema before a compile runs.
package prefs

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ValueKind enumerates the accepted preference value shapes.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindString
	KindInt
	KindEnum
)

// FieldSchema describes one preference key a backend accepts.
type FieldSchema struct {
	Key      string
	Kind     ValueKind
	Default  any
	// EnumValues lists the accepted values when Kind == KindEnum.
	EnumValues []string
}

// Schema is the ordered set of preference keys one backend accepts.
type Schema struct {
	Fields []FieldSchema
}

// Lookup returns the FieldSchema for key, if declared.
func (s Schema) Lookup(key string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// Bag holds preference values for one compile, keyed by name.
type Bag struct {
	values map[string]any
}

// NewBag constructs a Bag seeded with schema's defaults.
func NewBag(schema Schema) *Bag {
	b := &Bag{values: make(map[string]any, len(schema.Fields))}
	for _, f := range schema.Fields {
		b.values[f.Key] = f.Default
	}
	return b
}

// Bool returns the bag's value for key as a bool, or false if unset/wrong kind.
func (b *Bag) Bool(key string) bool {
	v, _ := b.values[key].(bool)
	return v
}

// String returns the bag's value for key as a string, or "" if unset/wrong kind.
func (b *Bag) String(key string) string {
	v, _ := b.values[key].(string)
	return v
}

// Int returns the bag's value for key as an int, or 0 if unset/wrong kind.
func (b *Bag) Int(key string) int {
	v, _ := b.values[key].(int)
	return v
}

// Set assigns a raw value, used by loaders after validating against a schema.
func (b *Bag) Set(key string, value any) {
	b.values[key] = value
}

// Validate checks every value already in the bag against schema: an
// unknown key (not declared in schema) produces a warning-equivalent
// message, a value of the wrong kind or an out-of-range enum produces an
// error (spec §4.6 "unknown key -> warning, wrong type -> error").
func Validate(b *Bag, schema Schema) (warnings []string, errs []error) {
	for key, val := range b.values {
		field, ok := schema.Lookup(key)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown preference %q ignored", key))
			continue
		}
		if err := checkKind(field, val); err != nil {
			errs = append(errs, err)
		}
	}
	return warnings, errs
}

func checkKind(field FieldSchema, val any) error {
	switch field.Kind {
	case KindBool:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("preference %q must be a bool", field.Key)
		}
	case KindString:
		if _, ok := val.(string); !ok {
			return fmt.Errorf("preference %q must be a string", field.Key)
		}
	case KindInt:
		if _, ok := val.(int); !ok {
			return fmt.Errorf("preference %q must be an int", field.Key)
		}
	case KindEnum:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("preference %q must be a string enum value", field.Key)
		}
		for _, allowed := range field.EnumValues {
			if allowed == s {
				return nil
			}
		}
		return fmt.Errorf("preference %q: %q is not one of %v", field.Key, s, field.EnumValues)
	}
	return nil
}

// yamlDoc is the on-disk shape of a preferences file: a flat map under a
// top-level "preferences" key, matching the teacher's config-file
// conventions.
type yamlDoc struct {
	Preferences map[string]any `yaml:"preferences"`
}

// LoadYAML reads a preferences file and overlays its values onto an
// existing Bag (built from a backend's Schema via NewBag), leaving
// fields absent from the file at their schema default.
func LoadYAML(path string, b *Bag) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading preferences file: %w", err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing preferences file %s: %w", path, err)
	}
	for k, v := range doc.Preferences {
		b.Set(k, normalizeYAMLValue(v))
	}
	return nil
}

// normalizeYAMLValue collapses yaml.v3's int decoding (which may produce
// int, int64, or uint64 depending on platform/value) down to a plain int
// so Bag.Int and Validate's KindInt check behave consistently.
func normalizeYAMLValue(v any) any {
	switch n := v.(type) {
	case int64:
		return int(n)
	case uint64:
		return int(n)
	default:
		return v
	}
}

// BindFlags registers one pflag flag per schema field onto fs, so CLI
// flags can override preferences-file values; call ApplyFlags after
// fs.Parse to copy the parsed values into b.
func BindFlags(fs *flag.FlagSet, schema Schema, b *Bag) {
	for _, f := range schema.Fields {
		switch f.Kind {
		case KindBool:
			fs.Bool(f.Key, b.Bool(f.Key), "backend preference")
		case KindInt:
			fs.Int(f.Key, b.Int(f.Key), "backend preference")
		case KindString, KindEnum:
			fs.String(f.Key, b.String(f.Key), "backend preference")
		}
	}
}

// ApplyFlags copies every flag in fs that the user actually set into b.
func ApplyFlags(fs *flag.FlagSet, schema Schema, b *Bag) {
	for _, f := range schema.Fields {
		flg := fs.Lookup(f.Key)
		if flg == nil || !flg.Changed {
			continue
		}
		switch f.Kind {
		case KindBool:
			v, _ := fs.GetBool(f.Key)
			b.Set(f.Key, v)
		case KindInt:
			v, _ := fs.GetInt(f.Key)
			b.Set(f.Key, v)
		case KindString, KindEnum:
			v, _ := fs.GetString(f.Key)
			b.Set(f.Key, v)
		}
	}
}
