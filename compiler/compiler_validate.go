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

package compiler

import (
	"strings"

	"fortio.org/safecast"

	"go.thriftc.dev/thriftc/model"
	"go.thriftc.dev/thriftc/syntax"
)

// validate checks resolved constants and field defaults against the width
// and shape of their declared types.
func (c *compiler) validate() {
	for _, info := range c.order {
		for _, k := range info.consts {
			c.validateValue(info, k.c.Value(), k.c.Type(), k.span)
		}
		for _, d := range info.defaults {
			c.validateValue(info, d.field.Default, d.field.Type, d.span)
		}
	}
}

func (c *compiler) validateValue(info *programInfo, v *model.ConstValue, t model.Type, span syntax.Span) {
	t, err := model.TrueType(t)
	if err != nil || v == nil {
		return
	}
	switch tt := t.(type) {
	case *model.BaseType:
		c.validateBase(info, v, tt, span)
	case *model.Enum:
		c.validateEnumValue(info, v, tt, span)
	case *model.List:
		for _, elem := range v.List() {
			c.validateValue(info, elem, tt.Elem(), span)
		}
	case *model.Set:
		for _, elem := range v.List() {
			c.validateValue(info, elem, tt.Elem(), span)
		}
	case *model.Map:
		for _, entry := range v.Map() {
			c.validateValue(info, entry.Key, tt.Key(), span)
			c.validateValue(info, entry.Value, tt.Val(), span)
		}
		// Keys may have been normalised above.
		v.Resort()
	case *model.Struct:
		for _, entry := range v.Map() {
			if f, ok := tt.FieldByName(entry.Key.Str()); ok {
				c.validateValue(info, entry.Value, f.Type, span)
			}
		}
	}
}

func (c *compiler) validateBase(info *programInfo, v *model.ConstValue, t *model.BaseType, span syntax.Span) {
	switch {
	case t.IsIntegral():
		if v.Kind() != model.ConstInteger {
			c.err(info, errConstTypeMismatch(t, v, span))
			return
		}
		if !fitsBaseType(v.Int(), t.Kind()) {
			c.err(info, errIntOutOfRange(v.Int(), t, span))
		}
	case t.Kind() == model.BaseString || t.Kind() == model.BaseBinary:
		if v.Kind() != model.ConstString {
			c.err(info, errConstTypeMismatch(t, v, span))
		}
	case t.Kind() == model.BaseDouble:
		switch v.Kind() {
		case model.ConstDouble:
		case model.ConstInteger:
			v.SetDouble(v.Float())
		default:
			c.err(info, errConstTypeMismatch(t, v, span))
		}
	case t.Kind() == model.BaseUUID:
		switch v.Kind() {
		case model.ConstUUID:
		case model.ConstString:
			if !isUUID(v.Str()) {
				c.err(info, errInvalidUUID(v.Str(), span))
				return
			}
			v.SetUUID(strings.ToLower(v.Str()))
		default:
			c.err(info, errConstTypeMismatch(t, v, span))
		}
	}
}

func fitsBaseType(value int64, kind model.BaseKind) bool {
	var err error
	switch kind {
	case model.BaseBool:
		return value == 0 || value == 1
	case model.BaseI8:
		_, err = safecast.Conv[int8](value)
	case model.BaseI16:
		_, err = safecast.Conv[int16](value)
	case model.BaseI32:
		_, err = safecast.Conv[int32](value)
	}
	return err == nil
}

// validateEnumValue accepts "Enum.MEMBER" (optionally qualified by an
// include name) or the name of a constant of the same enum type, and
// rewrites the value to the "Enum.MEMBER" form.
func (c *compiler) validateEnumValue(info *programInfo, v *model.ConstValue, e *model.Enum, span syntax.Span) {
	if v.Kind() != model.ConstIdentifier {
		c.err(info, errConstTypeMismatch(e, v, span))
		return
	}
	ident := v.Identifier()
	member, ok := enumMemberName(ident, e)
	if !ok {
		ref, found := info.program.Scope().LookupConstant(ident)
		if found && ref.Value() != nil && ref.Value().Kind() == model.ConstIdentifier {
			if refType, err := model.TrueType(ref.Type()); err == nil && refType == e {
				member, ok = enumMemberName(ref.Value().Identifier(), e)
			}
		}
	}
	if !ok {
		c.err(info, errNotEnumMember(e.Name(), ident, span))
		return
	}
	v.SetIdentifier(member)
	v.SetEnum(e)
}

func enumMemberName(ident string, e *model.Enum) (string, bool) {
	dot := strings.LastIndexByte(ident, '.')
	if dot <= 0 {
		return "", false
	}
	prefix, member := ident[:dot], ident[dot+1:]
	if prefix != e.Name() && !strings.HasSuffix(prefix, "."+e.Name()) {
		return "", false
	}
	if _, ok := e.ValueByName(member); !ok {
		return "", false
	}
	return e.Name() + "." + member, true
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for ii := 0; ii < len(s); ii++ {
		switch ii {
		case 8, 13, 18, 23:
			if s[ii] != '-' {
				return false
			}
			continue
		}
		if !isHex(s[ii]) {
			return false
		}
	}
	return true
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
