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
	"strings"
)

// ResolveMode selects how the resolver treats references it cannot satisfy
// yet.
type ResolveMode struct {
	// Strict turns every unresolvable reference into an error. Without it,
	// resolution reports false and the caller retries later.
	Strict bool

	// LocalOnly stops resolution at types owned by another program's scope.
	// Used for the tentative pass made while a file is still being parsed.
	LocalOnly bool
}

type resolver struct {
	mode   ResolveMode
	active map[*Const]struct{}
}

func newResolver(mode ResolveMode) *resolver {
	return &resolver{
		mode:   mode,
		active: make(map[*Const]struct{}),
	}
}

func (r *resolver) resolveConst(s *Scope, c *Const) (bool, error) {
	if c.resolved {
		return true, nil
	}
	if c.value == nil || c.typ == nil {
		return false, nil
	}
	if _, loop := r.active[c]; loop {
		return false, errCircularConst(c)
	}
	r.active[c] = struct{}{}
	defer delete(r.active, c)

	ok, err := r.resolveValue(s, c.value, c.typ)
	if err != nil || !ok {
		return false, err
	}
	c.resolved = true
	return true, nil
}

// fail reports err in Strict mode and defers otherwise.
func (r *resolver) fail(err error) (bool, error) {
	if r.mode.Strict {
		return false, err
	}
	return false, nil
}

// crossesUnit reports whether t belongs to a scope other than s and the
// resolver must not look into it.
func (r *resolver) crossesUnit(s *Scope, t Type) bool {
	if !r.mode.LocalOnly {
		return false
	}
	p := t.Program()
	return p != nil && p.scope != s
}

func (r *resolver) unwrapTypedefs(t Type) (Type, bool, error) {
	var seen map[*Typedef]struct{}
	for {
		td, isTypedef := t.(*Typedef)
		if !isTypedef {
			return t, true, nil
		}
		if seen == nil {
			seen = make(map[*Typedef]struct{})
		}
		if _, loop := seen[td]; loop {
			return nil, false, errCircularTypedef(td.name, td.program)
		}
		seen[td] = struct{}{}
		if r.mode.LocalOnly && td.forward && strings.Contains(td.name, ".") {
			return nil, false, nil
		}
		next, err := td.Type()
		if err != nil {
			ok, err := r.fail(err)
			return nil, ok, err
		}
		t = next
	}
}

func (r *resolver) resolveValue(s *Scope, v *ConstValue, t Type) (bool, error) {
	t, ok, err := r.unwrapTypedefs(t)
	if err != nil || !ok {
		return false, err
	}

	if v.kind == ConstIdentifier {
		return r.resolveIdentifier(s, v, t)
	}

	switch tt := t.(type) {
	case *Map:
		if v.kind != ConstMap {
			return false, errTypeMismatch(t, v, s.program)
		}
		for _, e := range v.entries {
			if r.crossesUnit(s, tt.key) || r.crossesUnit(s, tt.val) {
				return false, nil
			}
			if ok, err := r.resolveValue(s, e.Key, tt.key); err != nil || !ok {
				return false, err
			}
			if ok, err := r.resolveValue(s, e.Value, tt.val); err != nil || !ok {
				return false, err
			}
		}
		v.Resort()
		return true, nil
	case *List:
		return r.resolveElems(s, v, t, tt.elem)
	case *Set:
		return r.resolveElems(s, v, t, tt.elem)
	case *Struct:
		return r.resolveStruct(s, v, tt)
	case *Enum:
		if v.kind != ConstInteger {
			return false, errTypeMismatch(t, v, s.program)
		}
		member, found := tt.ValueByInt(v.intVal)
		if !found {
			return false, errNoEnumValue(tt, v.intVal)
		}
		v.SetIdentifier(tt.name + "." + member.Name)
		v.SetEnum(tt)
		return true, nil
	case *BaseType:
		if v.kind == ConstList || v.kind == ConstMap {
			return false, errTypeMismatch(t, v, s.program)
		}
	}
	return true, nil
}

func (r *resolver) resolveElems(s *Scope, v *ConstValue, t, elem Type) (bool, error) {
	if v.kind != ConstList {
		return false, errTypeMismatch(t, v, s.program)
	}
	for _, item := range v.list {
		if r.crossesUnit(s, elem) {
			return false, nil
		}
		if ok, err := r.resolveValue(s, item, elem); err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (r *resolver) resolveStruct(s *Scope, v *ConstValue, st *Struct) (bool, error) {
	if v.kind != ConstMap {
		return false, errTypeMismatch(st, v, s.program)
	}
	for _, e := range v.entries {
		if e.Key.kind != ConstString && e.Key.kind != ConstIdentifier {
			return false, errTypeMismatch(st, e.Key, s.program)
		}
		f, found := st.FieldByName(e.Key.strVal)
		if !found {
			return r.fail(errNoSuchField(e.Key.strVal, st))
		}
		if r.crossesUnit(s, f.Type) {
			return false, nil
		}
		if ok, err := r.resolveValue(s, e.Value, f.Type); err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (r *resolver) resolveIdentifier(s *Scope, v *ConstValue, t Type) (bool, error) {
	if e, isEnum := t.(*Enum); isEnum {
		v.SetEnum(e)
		return true, nil
	}

	name := v.strVal
	ref, found := s.LookupConstant(name)
	if !found || ref == nil || ref.value == nil {
		return r.fail(errConstNotFound(name, s.program))
	}
	if !ref.resolved {
		owner := ref.scope()
		if owner == nil {
			owner = s
		}
		if owner.cleared || (r.mode.LocalOnly && owner != s) {
			return false, nil
		}
		if ok, err := r.resolveConst(owner, ref); err != nil || !ok {
			return false, err
		}
	}

	refType, err := TrueType(ref.typ)
	if err != nil {
		return r.fail(err)
	}
	switch rt := refType.(type) {
	case *BaseType:
		target, isBase := t.(*BaseType)
		if !isBase {
			return false, errTypeMismatch(t, ref.value, s.program)
		}
		switch {
		case rt.kind == BaseVoid || target.kind == BaseVoid:
			return r.fail(errVoidConst(name, s.program))
		case rt.IsIntegral():
			v.SetInteger(ref.value.Int())
		case rt.kind == BaseString || rt.kind == BaseBinary:
			v.SetString(ref.value.Str())
		case rt.kind == BaseUUID:
			v.SetUUID(ref.value.UUID())
		case rt.kind == BaseDouble:
			v.SetDouble(ref.value.Float())
		}
	case *List, *Set:
		switch t.(type) {
		case *List, *Set:
		default:
			return false, errTypeMismatch(t, ref.value, s.program)
		}
		v.SetList(ref.value.Clone().list)
	case *Map:
		if _, isMap := t.(*Map); !isMap {
			return false, errTypeMismatch(t, ref.value, s.program)
		}
		v.SetMap(ref.value.Clone().entries)
	default:
		return false, errUnsupportedConstRef(name, refType, s.program)
	}
	return true, nil
}
