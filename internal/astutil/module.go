// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package astutil

// SourceModule is the parsed tree of one input file: an ordered sequence
// of top-level declarations, plus the raw source text and file path
// needed for diagnostic rendering (spec §3.1).
type SourceModule struct {
	FilePath string
	Source   string

	Imports   []*Import
	Functions []*FuncDef
	Classes   []*ClassDef
	// TypeAliases maps an alias name to the SourceType it stands for.
	TypeAliases map[string]string
}

// NewSourceModule constructs an empty module for the given file.
func NewSourceModule(filePath, source string) *SourceModule {
	return &SourceModule{
		FilePath:    filePath,
		Source:      source,
		TypeAliases: make(map[string]string),
	}
}

// AllFunctions returns every function declared at top level plus every
// method declared on every class, in declaration order. Useful for phases
// that don't care about the record/method distinction (e.g. a pass that
// walks every function body).
func (m *SourceModule) AllFunctions() []*FuncDef {
	out := make([]*FuncDef, 0, len(m.Functions))
	out = append(out, m.Functions...)
	for _, c := range m.Classes {
		out = append(out, c.Methods...)
	}
	return out
}

// FindClass returns the ClassDef with the given name, if declared in this
// module.
func (m *SourceModule) FindClass(name string) (*ClassDef, bool) {
	for _, c := range m.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
