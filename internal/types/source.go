// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package types holds the type model shared by every pipeline phase:
// SourceType (the annotation as written), Inferred (SourceType plus the
// concrete backend type chosen during inference), and Descriptor (the
// per-backend registry record describing a concrete type's traits).
package types

import "fmt"

// Kind enumerates the structural shape of a SourceType (spec §3.2).
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStr
	KindChar
	KindNone
	KindList
	KindDict
	KindSet
	KindTuple
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindChar:
		return "char"
	case KindNone:
		return "none"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindSet:
		return "set"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// SourceType is the annotation as written in source: a structural
// description with variants for primitives, parameterized containers,
// user records, and the special "unknown" marker (spec §3.2).
type SourceType struct {
	Kind Kind

	// RecordName is set when Kind == KindRecord.
	RecordName string

	// Elem is the element type for KindList/KindSet.
	Elem *SourceType

	// Key/Value are set for KindDict.
	Key   *SourceType
	Value *SourceType

	// Elems holds the component types for KindTuple.
	Elems []SourceType
}

// Unknown is the sentinel "unknown" SourceType (empty container literal,
// unannotated binding before inference runs).
var Unknown = SourceType{Kind: KindUnknown}

// Primitive constructs a SourceType for one of the primitive kinds.
func Primitive(k Kind) SourceType { return SourceType{Kind: k} }

// ListOf constructs list[T].
func ListOf(elem SourceType) SourceType { return SourceType{Kind: KindList, Elem: &elem} }

// SetOf constructs set[T].
func SetOf(elem SourceType) SourceType { return SourceType{Kind: KindSet, Elem: &elem} }

// DictOf constructs dict[K,V].
func DictOf(key, value SourceType) SourceType {
	return SourceType{Kind: KindDict, Key: &key, Value: &value}
}

// TupleOf constructs tuple[T...].
func TupleOf(elems ...SourceType) SourceType { return SourceType{Kind: KindTuple, Elems: elems} }

// Record constructs a reference to a user record type by name.
func Record(name string) SourceType { return SourceType{Kind: KindRecord, RecordName: name} }

// IsUnknown reports whether this type (or, for containers, its element
// type) still carries the unknown marker.
func (t SourceType) IsUnknown() bool {
	switch t.Kind {
	case KindUnknown:
		return true
	case KindList, KindSet:
		return t.Elem == nil || t.Elem.IsUnknown()
	case KindDict:
		return t.Key == nil || t.Value == nil || t.Key.IsUnknown() || t.Value.IsUnknown()
	default:
		return false
	}
}

// String renders the SourceType the way it would appear in an annotation.
func (t SourceType) String() string {
	switch t.Kind {
	case KindList:
		return fmt.Sprintf("list[%s]", elemStr(t.Elem))
	case KindSet:
		return fmt.Sprintf("set[%s]", elemStr(t.Elem))
	case KindDict:
		return fmt.Sprintf("dict[%s,%s]", elemStr(t.Key), elemStr(t.Value))
	case KindTuple:
		s := "tuple["
		for i, e := range t.Elems {
			if i > 0 {
				s += ","
			}
			s += e.String()
		}
		return s + "]"
	case KindRecord:
		return t.RecordName
	default:
		return t.Kind.String()
	}
}

func elemStr(t *SourceType) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}

// Equal reports structural equality between two SourceTypes.
func Equal(a, b SourceType) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindRecord:
		return a.RecordName == b.RecordName
	case KindList, KindSet:
		return equalPtr(a.Elem, b.Elem)
	case KindDict:
		return equalPtr(a.Key, b.Key) && equalPtr(a.Value, b.Value)
	case KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func equalPtr(a, b *SourceType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Equal(*a, *b)
}
