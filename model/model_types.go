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
	"fmt"
	"maps"
	"slices"
)

// Type is implemented by every node of the type model.
type Type interface {
	Name() string

	// Program is the program that declared the type, or nil for base types
	// and anonymous containers.
	Program() *Program

	isType()
}

// releaser is implemented by entities a Scope can own. Release drops the
// entity's references so that use after Scope.Clear is detectable.
type releaser interface {
	release()
}

type BaseKind uint8

const (
	BaseVoid BaseKind = iota
	BaseString
	BaseBinary
	BaseUUID
	BaseBool
	BaseI8
	BaseI16
	BaseI32
	BaseI64
	BaseDouble
)

func (k BaseKind) String() string {
	switch k {
	case BaseVoid:
		return "void"
	case BaseString:
		return "string"
	case BaseBinary:
		return "binary"
	case BaseUUID:
		return "uuid"
	case BaseBool:
		return "bool"
	case BaseI8:
		return "i8"
	case BaseI16:
		return "i16"
	case BaseI32:
		return "i32"
	case BaseI64:
		return "i64"
	case BaseDouble:
		return "double"
	default:
		return fmt.Sprintf("BaseKind(%d)", uint8(k))
	}
}

type BaseType struct {
	kind BaseKind
}

var (
	TypeVoid   = &BaseType{kind: BaseVoid}
	TypeString = &BaseType{kind: BaseString}
	TypeBinary = &BaseType{kind: BaseBinary}
	TypeUUID   = &BaseType{kind: BaseUUID}
	TypeBool   = &BaseType{kind: BaseBool}
	TypeI8     = &BaseType{kind: BaseI8}
	TypeI16    = &BaseType{kind: BaseI16}
	TypeI32    = &BaseType{kind: BaseI32}
	TypeI64    = &BaseType{kind: BaseI64}
	TypeDouble = &BaseType{kind: BaseDouble}
)

var baseTypesByName = map[string]*BaseType{
	"void":   TypeVoid,
	"string": TypeString,
	"binary": TypeBinary,
	"uuid":   TypeUUID,
	"bool":   TypeBool,
	"byte":   TypeI8,
	"i8":     TypeI8,
	"i16":    TypeI16,
	"i32":    TypeI32,
	"i64":    TypeI64,
	"double": TypeDouble,
}

// LookupBaseType returns the base type spelled name, accepting "byte" as an
// alias of i8.
func LookupBaseType(name string) (*BaseType, bool) {
	t, ok := baseTypesByName[name]
	return t, ok
}

func (t *BaseType) Name() string      { return t.kind.String() }
func (t *BaseType) Program() *Program { return nil }
func (*BaseType) isType()             {}

func (t *BaseType) Kind() BaseKind {
	return t.kind
}

// IsIntegral reports whether constants of this type are stored as integers.
func (t *BaseType) IsIntegral() bool {
	switch t.kind {
	case BaseBool, BaseI8, BaseI16, BaseI32, BaseI64:
		return true
	}
	return false
}

type named struct {
	name        string
	program     *Program
	annotations map[string]string
}

func (n *named) Name() string      { return n.name }
func (n *named) Program() *Program { return n.program }

func (n *named) Annotations() map[string]string {
	return n.annotations
}

func (n *named) SetAnnotation(key, value string) {
	if n.annotations == nil {
		n.annotations = make(map[string]string)
	}
	n.annotations[key] = value
}

func (n *named) releaseNamed() {
	n.program = nil
	n.annotations = nil
}

type EnumValue struct {
	Name        string
	Value       int64
	Annotations map[string]string
}

type Enum struct {
	named
	values []*EnumValue
}

func NewEnum(program *Program, name string) *Enum {
	return &Enum{named: named{name: name, program: program}}
}

func (*Enum) isType() {}

func (e *Enum) AddValue(name string, value int64) *EnumValue {
	v := &EnumValue{Name: name, Value: value}
	e.values = append(e.values, v)
	return v
}

func (e *Enum) Values() []*EnumValue {
	return e.values
}

func (e *Enum) ValueByName(name string) (*EnumValue, bool) {
	for _, v := range e.values {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// ValueByInt returns the first member declared with the given value.
func (e *Enum) ValueByInt(value int64) (*EnumValue, bool) {
	for _, v := range e.values {
		if v.Value == value {
			return v, true
		}
	}
	return nil, false
}

func (e *Enum) release() {
	e.releaseNamed()
	e.values = nil
}

type Requiredness uint8

const (
	ReqDefault Requiredness = iota
	ReqRequired
	ReqOptional
)

func (r Requiredness) String() string {
	switch r {
	case ReqRequired:
		return "required"
	case ReqOptional:
		return "optional"
	default:
		return "default"
	}
}

type Field struct {
	Key         int64
	Name        string
	Type        Type
	Req         Requiredness
	Default     *ConstValue
	Annotations map[string]string
}

type structKind uint8

const (
	structKindStruct structKind = iota
	structKindUnion
	structKindXception
)

// Struct models structs, unions and exceptions.
type Struct struct {
	named
	kind   structKind
	fields []*Field
}

func NewStruct(program *Program, name string) *Struct {
	return &Struct{named: named{name: name, program: program}}
}

func NewUnion(program *Program, name string) *Struct {
	return &Struct{
		named: named{name: name, program: program},
		kind:  structKindUnion,
	}
}

func NewXception(program *Program, name string) *Struct {
	return &Struct{
		named: named{name: name, program: program},
		kind:  structKindXception,
	}
}

func (*Struct) isType() {}

func (s *Struct) IsUnion() bool    { return s.kind == structKindUnion }
func (s *Struct) IsXception() bool { return s.kind == structKindXception }

func (s *Struct) AddField(f *Field) {
	s.fields = append(s.fields, f)
}

func (s *Struct) Fields() []*Field {
	return s.fields
}

func (s *Struct) FieldByName(name string) (*Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (s *Struct) release() {
	s.releaseNamed()
	s.fields = nil
}

type List struct {
	elem Type
}

func NewListType(elem Type) *List { return &List{elem: elem} }

func (t *List) Name() string      { return "list<" + t.elem.Name() + ">" }
func (t *List) Program() *Program { return nil }
func (*List) isType()             {}
func (t *List) Elem() Type        { return t.elem }

type Set struct {
	elem Type
}

func NewSetType(elem Type) *Set { return &Set{elem: elem} }

func (t *Set) Name() string      { return "set<" + t.elem.Name() + ">" }
func (t *Set) Program() *Program { return nil }
func (*Set) isType()             {}
func (t *Set) Elem() Type        { return t.elem }

type Map struct {
	key, val Type
}

func NewMapType(key, val Type) *Map { return &Map{key: key, val: val} }

func (t *Map) Name() string {
	return "map<" + t.key.Name() + "," + t.val.Name() + ">"
}
func (t *Map) Program() *Program { return nil }
func (*Map) isType()             {}
func (t *Map) Key() Type         { return t.key }
func (t *Map) Val() Type         { return t.val }

type Function struct {
	Name        string
	Returns     Type
	Args        *Struct
	Throws      *Struct
	Oneway      bool
	Annotations map[string]string
}

type Service struct {
	named
	extends   *Service
	functions []*Function
}

func NewService(program *Program, name string, extends *Service) *Service {
	return &Service{
		named:   named{name: name, program: program},
		extends: extends,
	}
}

func (*Service) isType() {}

func (s *Service) Extends() *Service {
	return s.extends
}

func (s *Service) AddFunction(f *Function) {
	s.functions = append(s.functions, f)
}

func (s *Service) Functions() []*Function {
	return s.functions
}

// ValidateUniqueMembers rejects services that declare a function name twice,
// or functions that declare an argument name twice.
func (s *Service) ValidateUniqueMembers() error {
	seen := make(map[string]struct{}, len(s.functions))
	for _, f := range s.functions {
		if _, dupe := seen[f.Name]; dupe {
			return errDuplicateFunction(s.name, f.Name, s.program)
		}
		seen[f.Name] = struct{}{}
		if f.Args == nil {
			continue
		}
		args := make(map[string]struct{}, len(f.Args.fields))
		for _, arg := range f.Args.fields {
			if _, dupe := args[arg.Name]; dupe {
				return errDuplicateArgument(f.Name, arg.Name, s.program)
			}
			args[arg.Name] = struct{}{}
		}
	}
	return nil
}

func (s *Service) release() {
	s.releaseNamed()
	s.extends = nil
	s.functions = nil
}

// Const is a named constant declaration.
type Const struct {
	name     string
	typ      Type
	value    *ConstValue
	program  *Program
	resolved bool
}

func NewConst(program *Program, name string, t Type, value *ConstValue) *Const {
	return &Const{
		name:    name,
		typ:     t,
		value:   value,
		program: program,
	}
}

func (c *Const) Name() string       { return c.name }
func (c *Const) Type() Type         { return c.typ }
func (c *Const) Value() *ConstValue { return c.value }
func (c *Const) Program() *Program  { return c.program }

// Resolved reports whether the constant's value has been fully resolved.
func (c *Const) Resolved() bool {
	return c.resolved
}

func (c *Const) release() {
	c.typ = nil
	c.value = nil
	c.program = nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
