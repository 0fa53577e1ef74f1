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

// Package wire defines the messages exchanged between thriftc and codegen
// plugins.
//
// Each message is msgpack, preceded by its length as a little-endian
// uint32. Plugins depend only on this package, so they stay small enough
// to build for wasip1.
package wire

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

type Request struct {
	Generator string            `msgpack:"generator"`
	Params    map[string]string `msgpack:"params,omitempty"`
	Program   *Program          `msgpack:"program"`

	// Every program transitively included by Program, dependencies first.
	Includes []*Program `msgpack:"includes,omitempty"`
}

type Response struct {
	Files []OutputFile `msgpack:"files,omitempty"`
	Error string       `msgpack:"error,omitempty"`
}

// OutputFile is one generated file. Path holds the components of a path
// relative to the output directory.
type OutputFile struct {
	Path    []string `msgpack:"path"`
	Content []byte   `msgpack:"content"`
}

type Program struct {
	Name        string            `msgpack:"name"`
	Path        string            `msgpack:"path"`
	Namespaces  map[string]string `msgpack:"namespaces,omitempty"`
	Includes    []string          `msgpack:"includes,omitempty"`
	CppIncludes []string          `msgpack:"cpp_includes,omitempty"`
	Typedefs    []*Typedef        `msgpack:"typedefs,omitempty"`
	Enums       []*Enum           `msgpack:"enums,omitempty"`
	Consts      []*Const          `msgpack:"consts,omitempty"`
	Structs     []*Struct         `msgpack:"structs,omitempty"`
	Services    []*Service        `msgpack:"services,omitempty"`
}

type TypeKind string

const (
	KindBase    TypeKind = "base"
	KindTypedef TypeKind = "typedef"
	KindEnum    TypeKind = "enum"
	KindStruct  TypeKind = "struct"
	KindList    TypeKind = "list"
	KindSet     TypeKind = "set"
	KindMap     TypeKind = "map"
	KindService TypeKind = "service"
)

// TypeRef names a type. Program is empty for base types and containers.
type TypeRef struct {
	Kind    TypeKind `msgpack:"kind"`
	Name    string   `msgpack:"name"`
	Program string   `msgpack:"program,omitempty"`
	Elem    *TypeRef `msgpack:"elem,omitempty"`
	Key     *TypeRef `msgpack:"key,omitempty"`
	Val     *TypeRef `msgpack:"val,omitempty"`
}

type Typedef struct {
	Name        string            `msgpack:"name"`
	Type        *TypeRef          `msgpack:"type"`
	Annotations map[string]string `msgpack:"annotations,omitempty"`
}

type Enum struct {
	Name        string            `msgpack:"name"`
	Values      []EnumValue       `msgpack:"values"`
	Annotations map[string]string `msgpack:"annotations,omitempty"`
}

type EnumValue struct {
	Name  string `msgpack:"name"`
	Value int64  `msgpack:"value"`
}

type ValueKind string

const (
	ValueInt    ValueKind = "int"
	ValueDouble ValueKind = "double"
	ValueString ValueKind = "string"
	ValueUUID   ValueKind = "uuid"
	ValueEnum   ValueKind = "enum"
	ValueList   ValueKind = "list"
	ValueMap    ValueKind = "map"
)

// Value is a resolved constant. Enum values carry both the "Enum.MEMBER"
// name and the member's integer value.
type Value struct {
	Kind   ValueKind    `msgpack:"kind"`
	Int    int64        `msgpack:"int,omitempty"`
	Double float64      `msgpack:"double,omitempty"`
	Str    string       `msgpack:"str,omitempty"`
	List   []*Value     `msgpack:"list,omitempty"`
	Map    []ValueEntry `msgpack:"map,omitempty"`
}

type ValueEntry struct {
	Key   *Value `msgpack:"key"`
	Value *Value `msgpack:"value"`
}

type Const struct {
	Name  string   `msgpack:"name"`
	Type  *TypeRef `msgpack:"type"`
	Value *Value   `msgpack:"value"`
}

type Struct struct {
	Name        string            `msgpack:"name"`
	Kind        string            `msgpack:"kind"`
	Fields      []*Field          `msgpack:"fields,omitempty"`
	Annotations map[string]string `msgpack:"annotations,omitempty"`
}

type Field struct {
	ID          int64             `msgpack:"id"`
	Name        string            `msgpack:"name"`
	Type        *TypeRef          `msgpack:"type"`
	Req         string            `msgpack:"req"`
	Default     *Value            `msgpack:"default,omitempty"`
	Annotations map[string]string `msgpack:"annotations,omitempty"`
}

type Service struct {
	Name        string            `msgpack:"name"`
	Extends     *TypeRef          `msgpack:"extends,omitempty"`
	Functions   []*Function       `msgpack:"functions,omitempty"`
	Annotations map[string]string `msgpack:"annotations,omitempty"`
}

type Function struct {
	Name    string   `msgpack:"name"`
	Returns *TypeRef `msgpack:"returns"`
	Args    []*Field `msgpack:"args,omitempty"`
	Throws  []*Field `msgpack:"throws,omitempty"`
	Oneway  bool     `msgpack:"oneway,omitempty"`
}

// Marshal encodes a message with its length prefix.
func Marshal(msg any) ([]byte, error) {
	body, err := msgpack.Marshal(msg)
	if err != nil {
		return nil, err
	}
	n, err := safecast.Conv[uint32](len(body))
	if err != nil {
		return nil, fmt.Errorf("wire: message too large (%d bytes)", len(body))
	}
	buf := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(buf, n)
	return append(buf, body...), nil
}

// Unmarshal decodes a length-prefixed message. Bytes after the message are
// ignored.
func Unmarshal(buf []byte, msg any) error {
	body, err := Frame(buf)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(body, msg)
}

// Frame returns the message body of a length-prefixed buffer.
func Frame(buf []byte) ([]byte, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("wire: truncated length prefix")
	}
	n := binary.LittleEndian.Uint32(buf)
	if uint64(n) > uint64(len(buf)-4) {
		return nil, fmt.Errorf("wire: message length %d exceeds buffer (%d bytes)", n, len(buf)-4)
	}
	return buf[4 : 4+n], nil
}
