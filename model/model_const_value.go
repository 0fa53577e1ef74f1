// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package model

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type ConstKind uint8

const (
	ConstInteger ConstKind = iota
	ConstDouble
	ConstString
	ConstUUID
	ConstIdentifier
	ConstList
	ConstMap
)

func (k ConstKind) String() string {
	switch k {
	case ConstInteger:
		return "integer"
	case ConstDouble:
		return "double"
	case ConstString:
		return "string"
	case ConstUUID:
		return "uuid"
	case ConstIdentifier:
		return "identifier"
	case ConstList:
		return "list"
	case ConstMap:
		return "map"
	default:
		return fmt.Sprintf("ConstKind(%d)", uint8(k))
	}
}

// ConstValue is a constant literal. Values are mutated in place by
// resolution: identifiers are replaced by the value they name.
type ConstValue struct {
	kind      ConstKind
	intVal    int64
	doubleVal float64
	strVal    string
	list      []*ConstValue
	entries   []MapEntry
	enum      *Enum
}

type MapEntry struct {
	Key   *ConstValue
	Value *ConstValue
}

func NewInteger(v int64) *ConstValue {
	return &ConstValue{kind: ConstInteger, intVal: v}
}

func NewDouble(v float64) *ConstValue {
	return &ConstValue{kind: ConstDouble, doubleVal: v}
}

func NewString(v string) *ConstValue {
	return &ConstValue{kind: ConstString, strVal: v}
}

func NewUUID(v string) *ConstValue {
	return &ConstValue{kind: ConstUUID, strVal: v}
}

func NewIdentifier(name string) *ConstValue {
	return &ConstValue{kind: ConstIdentifier, strVal: name}
}

func NewList(elems ...*ConstValue) *ConstValue {
	return &ConstValue{kind: ConstList, list: elems}
}

func NewMap() *ConstValue {
	return &ConstValue{kind: ConstMap}
}

func (v *ConstValue) Kind() ConstKind {
	return v.kind
}

// Int returns the integer payload. Doubles are truncated.
func (v *ConstValue) Int() int64 {
	if v.kind == ConstDouble {
		return int64(v.doubleVal)
	}
	return v.intVal
}

// Float returns the double payload, widening integers.
func (v *ConstValue) Float() float64 {
	if v.kind == ConstInteger {
		return float64(v.intVal)
	}
	return v.doubleVal
}

func (v *ConstValue) Str() string {
	return v.strVal
}

func (v *ConstValue) UUID() string {
	return v.strVal
}

func (v *ConstValue) Identifier() string {
	return v.strVal
}

func (v *ConstValue) List() []*ConstValue {
	return v.list
}

// Map returns the entries ordered by key.
func (v *ConstValue) Map() []MapEntry {
	return v.entries
}

// Enum returns the enum an identifier was resolved against, if any.
func (v *ConstValue) Enum() *Enum {
	return v.enum
}

func (v *ConstValue) SetInteger(i int64) {
	*v = ConstValue{kind: ConstInteger, intVal: i}
}

func (v *ConstValue) SetDouble(d float64) {
	*v = ConstValue{kind: ConstDouble, doubleVal: d}
}

func (v *ConstValue) SetString(s string) {
	*v = ConstValue{kind: ConstString, strVal: s}
}

func (v *ConstValue) SetUUID(s string) {
	*v = ConstValue{kind: ConstUUID, strVal: s}
}

func (v *ConstValue) SetIdentifier(name string) {
	*v = ConstValue{kind: ConstIdentifier, strVal: name, enum: v.enum}
}

func (v *ConstValue) SetEnum(e *Enum) {
	v.enum = e
}

func (v *ConstValue) SetList(elems []*ConstValue) {
	*v = ConstValue{kind: ConstList, list: elems}
}

func (v *ConstValue) SetMap(entries []MapEntry) {
	*v = ConstValue{kind: ConstMap}
	for _, e := range entries {
		v.AddMap(e.Key, e.Value)
	}
}

func (v *ConstValue) AddList(elem *ConstValue) {
	v.list = append(v.list, elem)
}

// AddMap inserts key in comparator order. An equal key has its value
// replaced.
func (v *ConstValue) AddMap(key, value *ConstValue) {
	idx, found := slices.BinarySearchFunc(v.entries, key, func(e MapEntry, k *ConstValue) int {
		return Compare(e.Key, k)
	})
	if found {
		v.entries[idx].Value = value
		return
	}
	v.entries = slices.Insert(v.entries, idx, MapEntry{Key: key, Value: value})
}

// MapValue looks up key in a map literal.
func (v *ConstValue) MapValue(key *ConstValue) (*ConstValue, bool) {
	idx, found := slices.BinarySearchFunc(v.entries, key, func(e MapEntry, k *ConstValue) int {
		return Compare(e.Key, k)
	})
	if !found {
		return nil, false
	}
	return v.entries[idx].Value, true
}

// Resort restores key order after keys were rewritten in place. When two
// keys become equal the later entry wins.
func (v *ConstValue) Resort() {
	slices.SortStableFunc(v.entries, func(a, b MapEntry) int {
		return Compare(a.Key, b.Key)
	})
	out := v.entries[:0]
	for _, e := range v.entries {
		if n := len(out); n > 0 && Compare(out[n-1].Key, e.Key) == 0 {
			out[n-1] = e
			continue
		}
		out = append(out, e)
	}
	clear(v.entries[len(out):])
	v.entries = out
}

// Clone returns a deep copy. The enum back-reference is shared.
func (v *ConstValue) Clone() *ConstValue {
	if v == nil {
		return nil
	}
	out := &ConstValue{
		kind:      v.kind,
		intVal:    v.intVal,
		doubleVal: v.doubleVal,
		strVal:    v.strVal,
		enum:      v.enum,
	}
	if v.list != nil {
		out.list = make([]*ConstValue, len(v.list))
		for ii, elem := range v.list {
			out.list[ii] = elem.Clone()
		}
	}
	if v.entries != nil {
		out.entries = make([]MapEntry, len(v.entries))
		for ii, e := range v.entries {
			out.entries[ii] = MapEntry{Key: e.Key.Clone(), Value: e.Value.Clone()}
		}
	}
	return out
}

// HasUnresolved reports whether v contains an identifier that was not
// resolved to an enum member.
func (v *ConstValue) HasUnresolved() bool {
	switch v.kind {
	case ConstIdentifier:
		return v.enum == nil
	case ConstList:
		for _, elem := range v.list {
			if elem.HasUnresolved() {
				return true
			}
		}
	case ConstMap:
		for _, e := range v.entries {
			if e.Key.HasUnresolved() || e.Value.HasUnresolved() {
				return true
			}
		}
	}
	return false
}

// Compare orders values by kind, then by payload.
func Compare(a, b *ConstValue) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	switch a.kind {
	case ConstInteger:
		return cmp.Compare(a.intVal, b.intVal)
	case ConstDouble:
		return cmp.Compare(a.doubleVal, b.doubleVal)
	case ConstString, ConstUUID, ConstIdentifier:
		return strings.Compare(a.strVal, b.strVal)
	case ConstList:
		return slices.CompareFunc(a.list, b.list, Compare)
	case ConstMap:
		return slices.CompareFunc(a.entries, b.entries, func(x, y MapEntry) int {
			if c := Compare(x.Key, y.Key); c != 0 {
				return c
			}
			return Compare(x.Value, y.Value)
		})
	}
	return 0
}

func (v *ConstValue) String() string {
	var buf strings.Builder
	v.format(&buf)
	return buf.String()
}

func (v *ConstValue) format(buf *strings.Builder) {
	switch v.kind {
	case ConstInteger:
		buf.WriteString(strconv.FormatInt(v.intVal, 10))
	case ConstDouble:
		buf.WriteString(strconv.FormatFloat(v.doubleVal, 'g', -1, 64))
	case ConstString, ConstUUID:
		buf.WriteString(strconv.Quote(v.strVal))
	case ConstIdentifier:
		buf.WriteString(v.strVal)
	case ConstList:
		buf.WriteByte('[')
		for ii, elem := range v.list {
			if ii > 0 {
				buf.WriteString(", ")
			}
			elem.format(buf)
		}
		buf.WriteByte(']')
	case ConstMap:
		buf.WriteByte('{')
		for ii, e := range v.entries {
			if ii > 0 {
				buf.WriteString(", ")
			}
			e.Key.format(buf)
			buf.WriteString(": ")
			e.Value.format(buf)
		}
		buf.WriteByte('}')
	}
}
