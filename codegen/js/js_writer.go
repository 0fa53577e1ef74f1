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

package js

import (
	"fmt"
	"strconv"
	"strings"

	"go.thriftc.dev/thriftc/model"
)

const autogenComment = `//
// Autogenerated by thriftc
//
// DO NOT EDIT UNLESS YOU ARE SURE THAT YOU KNOW WHAT YOU ARE DOING
//
`

type writer struct {
	buf    strings.Builder
	indent int
}

func (w *writer) line(s string) {
	if s != "" {
		w.buf.WriteString(strings.Repeat("  ", w.indent))
		w.buf.WriteString(s)
	}
	w.buf.WriteByte('\n')
}

func (w *writer) linef(format string, a ...any) {
	w.line(fmt.Sprintf(format, a...))
}

func (w *writer) String() string {
	return w.buf.String()
}

// identifier makes a name usable as a JavaScript identifier.
func identifier(name string) string {
	var buf strings.Builder
	for ii, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if ii == 0 {
				buf.WriteByte('_')
			}
		default:
			r = '_'
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// quote renders a single-quoted JavaScript string literal.
func quote(s string) string {
	var buf strings.Builder
	buf.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '\'':
			buf.WriteString(`\'`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x2028 || r == 0x2029 {
				fmt.Fprintf(&buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('\'')
	return buf.String()
}

// Integers outside this range lose precision as JavaScript numbers.
const (
	maxSafeInteger = 1<<53 - 1
	minSafeInteger = -maxSafeInteger
)

// typeName refers to a named type from the module being written. Types of
// the program itself are prefixed with local.
func (g *generator) typeName(t model.Type, local string) string {
	p := t.Program()
	if p == nil || p == g.program {
		return local + t.Name()
	}
	return importName(p) + "." + t.Name()
}

// value renders a resolved constant. Nested lines are indented one level
// past indent.
func (g *generator) value(t model.Type, v *model.ConstValue, indent int, local string) string {
	t, err := model.TrueType(t)
	if err != nil || v == nil {
		return "null"
	}
	inner := strings.Repeat("  ", indent+1)
	outer := strings.Repeat("  ", indent)

	switch t := t.(type) {
	case *model.BaseType:
		return baseValue(t, v)
	case *model.Enum:
		return strconv.FormatInt(enumValue(t, v), 10)
	case *model.Struct:
		var buf strings.Builder
		buf.WriteString("new " + g.typeName(t, local) + "({")
		for ii, entry := range v.Map() {
			f, ok := t.FieldByName(entry.Key.Str())
			if !ok {
				continue
			}
			if ii > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString("\n" + inner + quote(entry.Key.Str()) + " : ")
			buf.WriteString(g.value(f.Type, entry.Value, indent+1, local))
		}
		buf.WriteString("\n" + outer + "})")
		return buf.String()
	case *model.Map:
		keyType, _ := model.TrueType(t.Key())
		var buf strings.Builder
		buf.WriteString("{\n")
		for ii, entry := range v.Map() {
			if ii > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			if base, ok := keyType.(*model.BaseType); ok && base.Kind() == model.BaseI64 {
				buf.WriteString(`"` + strconv.FormatInt(entry.Key.Int(), 10) + `"`)
			} else {
				buf.WriteString(g.value(t.Key(), entry.Key, indent+1, local))
			}
			buf.WriteString(" : ")
			buf.WriteString(g.value(t.Val(), entry.Value, indent+1, local))
		}
		buf.WriteString("\n" + outer + "}")
		return buf.String()
	case *model.List:
		return g.listValue(t.Elem(), v, indent, local)
	case *model.Set:
		return g.listValue(t.Elem(), v, indent, local)
	}
	return "null"
}

func (g *generator) listValue(elem model.Type, v *model.ConstValue, indent int, local string) string {
	parts := make([]string, 0, len(v.List()))
	for _, item := range v.List() {
		parts = append(parts, g.value(elem, item, indent, local))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func baseValue(t *model.BaseType, v *model.ConstValue) string {
	switch t.Kind() {
	case model.BaseString, model.BaseBinary:
		return quote(v.Str())
	case model.BaseUUID:
		return quote(v.UUID())
	case model.BaseBool:
		if v.Int() > 0 {
			return "true"
		}
		return "false"
	case model.BaseI8, model.BaseI16, model.BaseI32:
		return strconv.FormatInt(v.Int(), 10)
	case model.BaseI64:
		n := v.Int()
		if n >= minSafeInteger && n <= maxSafeInteger {
			return fmt.Sprintf("new Int64(%d)", n)
		}
		return fmt.Sprintf("new Int64('%x')", uint64(n))
	case model.BaseDouble:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	}
	return "null"
}

// enumValue returns the integer value of an "Enum.MEMBER" constant.
func enumValue(e *model.Enum, v *model.ConstValue) int64 {
	if v.Kind() == model.ConstInteger {
		return v.Int()
	}
	ident := v.Identifier()
	member := ident[strings.LastIndexByte(ident, '.')+1:]
	if ev, ok := e.ValueByName(member); ok {
		return ev.Value
	}
	return 0
}
