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

// Typedef is a named alias. A typedef either wraps a known target type, or
// is a forward reference whose target is looked up by symbolic name in the
// owning program's scope on first use.
type Typedef struct {
	named
	target  Type
	forward bool
}

// NewTypedef declares name as an alias of target.
func NewTypedef(program *Program, name string, target Type) *Typedef {
	return &Typedef{
		named:  named{name: name, program: program},
		target: target,
	}
}

// NewForwardTypedef refers to a type by a name that may not have been
// declared yet. The symbolic name may be qualified by an include name.
func NewForwardTypedef(program *Program, symbolic string) *Typedef {
	return &Typedef{
		named:   named{name: symbolic, program: program},
		forward: true,
	}
}

func (*Typedef) isType() {}

// Symbolic is the name the typedef resolves through.
func (t *Typedef) Symbolic() string {
	return t.name
}

func (t *Typedef) IsForward() bool {
	return t.forward
}

// Type returns the aliased type. A forward typedef whose symbolic name does
// not resolve in its program's scope reports ErrTypeNotFound.
func (t *Typedef) Type() (Type, error) {
	if t.target != nil {
		return t.target, nil
	}
	if t.program == nil {
		return nil, errTypeNotFound(t.name, nil)
	}
	target, ok := t.program.scope.LookupType(t.name)
	if !ok || target == nil {
		return nil, errTypeNotFound(t.name, t.program)
	}
	return target, nil
}

// TypeExists reports whether Type would succeed.
func (t *Typedef) TypeExists() bool {
	if t.target != nil {
		return true
	}
	if t.program == nil {
		return false
	}
	target, ok := t.program.scope.LookupType(t.name)
	return ok && target != nil
}

func (t *Typedef) release() {
	t.releaseNamed()
	t.target = nil
}

// TrueType follows typedef chains to the first type that is not a typedef.
func TrueType(t Type) (Type, error) {
	var seen map[*Typedef]struct{}
	for {
		td, ok := t.(*Typedef)
		if !ok {
			return t, nil
		}
		if seen == nil {
			seen = make(map[*Typedef]struct{})
		}
		if _, loop := seen[td]; loop {
			return nil, errCircularTypedef(td.name, td.program)
		}
		seen[td] = struct{}{}
		next, err := td.Type()
		if err != nil {
			return nil, err
		}
		t = next
	}
}
