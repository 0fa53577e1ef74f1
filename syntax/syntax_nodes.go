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

package syntax

import (
	"fmt"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

func (s Span) String() string {
	return fmt.Sprintf("%d+%d", s.start, s.len)
}

type Node interface {
	Span() Span
}

// Header is an include, cpp_include, or namespace declaration.
type Header interface {
	Node
	isHeader()
}

// Definition is a top-level named declaration.
type Definition interface {
	Node
	Name() *Ident
	Doc() string
	Annotations() []*Annotation
	isDefinition()
}

type Document struct {
	span        Span
	headers     []Header
	definitions []Definition
}

func (n *Document) Span() Span                { return n.span }
func (n *Document) Headers() []Header         { return n.headers }
func (n *Document) Definitions() []Definition { return n.definitions }

type Ident struct {
	raw   string
	start uint32
}

func (n *Ident) Span() Span {
	return Span{n.start, uint32(len(n.raw))}
}

func (n *Ident) Get() string {
	return n.raw
}

type TextLit struct {
	raw   string
	value string
	start uint32
}

func (n *TextLit) Span() Span {
	return Span{n.start, uint32(len(n.raw))}
}

// Get returns the literal's value with quotes removed and escapes decoded.
func (n *TextLit) Get() string {
	return n.value
}

type IntLit struct {
	raw   string
	value int64
	start uint32
}

func (n *IntLit) Span() Span {
	return Span{n.start, uint32(len(n.raw))}
}

func (n *IntLit) Get() int64 {
	return n.value
}

type Annotation struct {
	span  Span
	key   *Ident
	value *TextLit
}

func (n *Annotation) Span() Span { return n.span }
func (n *Annotation) Key() *Ident {
	return n.key
}

// Value is the annotation's text, or "1" for a bare key.
func (n *Annotation) Value() string {
	if n.value == nil {
		return "1"
	}
	return n.value.Get()
}

type Include struct {
	span Span
	path *TextLit
}

func (*Include) isHeader()        {}
func (n *Include) Span() Span     { return n.span }
func (n *Include) Path() *TextLit { return n.path }

type CppInclude struct {
	span Span
	path *TextLit
}

func (*CppInclude) isHeader()        {}
func (n *CppInclude) Span() Span     { return n.span }
func (n *CppInclude) Path() *TextLit { return n.path }

type Namespace struct {
	span  Span
	scope string
	name  string
}

func (*Namespace) isHeader()    {}
func (n *Namespace) Span() Span { return n.span }

// Scope is the target language, or "*" for every language.
func (n *Namespace) Scope() string {
	return n.scope
}

func (n *Namespace) Name() string {
	return n.name
}

// TypeRef names a type. Container types carry their element types as
// parameters.
type TypeRef struct {
	span        Span
	name        *Ident
	params      []*TypeRef
	annotations []*Annotation
}

func (n *TypeRef) Span() Span                 { return n.span }
func (n *TypeRef) Name() *Ident               { return n.name }
func (n *TypeRef) Params() []*TypeRef         { return n.params }
func (n *TypeRef) Annotations() []*Annotation { return n.annotations }

func (n *TypeRef) IsContainer() bool {
	switch n.name.Get() {
	case "list", "set", "map":
		return true
	}
	return false
}

type ConstValueKind uint8

const (
	ConstInt ConstValueKind = iota
	ConstDouble
	ConstText
	ConstIdent
	ConstList
	ConstMap
)

type ConstValue struct {
	span      Span
	kind      ConstValueKind
	raw       string
	intVal    int64
	doubleVal float64
	list      []*ConstValue
	entries   []*ConstEntry
}

type ConstEntry struct {
	Key   *ConstValue
	Value *ConstValue
}

func (n *ConstValue) Span() Span           { return n.span }
func (n *ConstValue) Kind() ConstValueKind { return n.kind }
func (n *ConstValue) Int() int64           { return n.intVal }
func (n *ConstValue) Double() float64      { return n.doubleVal }
func (n *ConstValue) List() []*ConstValue  { return n.list }
func (n *ConstValue) Map() []*ConstEntry   { return n.entries }

// Text returns the decoded value of a text literal, or the name of an
// identifier.
func (n *ConstValue) Text() string {
	return n.raw
}

type decl struct {
	span        Span
	doc         string
	name        *Ident
	annotations []*Annotation
}

func (*decl) isDefinition() {}

func (n *decl) Span() Span                 { return n.span }
func (n *decl) Doc() string                { return n.doc }
func (n *decl) Name() *Ident               { return n.name }
func (n *decl) Annotations() []*Annotation { return n.annotations }

type Const struct {
	decl
	typ   *TypeRef
	value *ConstValue
}

func (n *Const) Type() *TypeRef     { return n.typ }
func (n *Const) Value() *ConstValue { return n.value }

type Typedef struct {
	decl
	typ *TypeRef
}

func (n *Typedef) Type() *TypeRef { return n.typ }

type Enum struct {
	decl
	values []*EnumValue
}

func (n *Enum) Values() []*EnumValue { return n.values }

type EnumValue struct {
	decl
	value *IntLit
}

// Value is the explicit value, or nil when the value is implied by
// position.
func (n *EnumValue) Value() *IntLit { return n.value }

type StructKind uint8

const (
	KindStruct StructKind = iota
	KindUnion
	KindException
)

func (k StructKind) String() string {
	switch k {
	case KindUnion:
		return "union"
	case KindException:
		return "exception"
	default:
		return "struct"
	}
}

type Struct struct {
	decl
	kind   StructKind
	fields []*Field
}

func (n *Struct) Kind() StructKind { return n.kind }
func (n *Struct) Fields() []*Field { return n.fields }

type Requiredness uint8

const (
	ReqDefault Requiredness = iota
	ReqRequired
	ReqOptional
)

type Field struct {
	decl
	id  *IntLit
	req Requiredness
	typ *TypeRef
	def *ConstValue
}

// ID is the explicit field id, or nil when none was given.
func (n *Field) ID() *IntLit                { return n.id }
func (n *Field) Requiredness() Requiredness { return n.req }
func (n *Field) Type() *TypeRef             { return n.typ }
func (n *Field) Default() *ConstValue       { return n.def }

type Service struct {
	decl
	extends   *Ident
	functions []*Function
}

func (n *Service) Extends() *Ident        { return n.extends }
func (n *Service) Functions() []*Function { return n.functions }

type Function struct {
	decl
	oneway  bool
	returns *TypeRef
	args    []*Field
	throws  []*Field
}

func (n *Function) Oneway() bool      { return n.oneway }
func (n *Function) Returns() *TypeRef { return n.returns }
func (n *Function) Args() []*Field    { return n.args }
func (n *Function) Throws() []*Field  { return n.throws }
