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
	"slices"
	"strings"
)

// AddFlags control how an entity is registered in a Scope.
type AddFlags uint8

const (
	// Root marks the scope as the owner of the entity. Owned entities are
	// released by Clear.
	Root AddFlags = 1 << iota

	// Overwrite replaces an existing registration instead of failing.
	Overwrite
)

type scopeEntry[T any] struct {
	value T
	root  bool
}

// Scope is the symbol table of one Program. Names are registered as they
// are parsed; entities re-exported from an included program are registered
// under a qualified name without the Root flag.
type Scope struct {
	types    map[string]scopeEntry[Type]
	consts   map[string]scopeEntry[*Const]
	services map[string]scopeEntry[*Service]

	// Scope owning each constant's declared type.
	constTypeScopes map[string]*Scope

	// Constants whose resolution was deferred, by declaring program.
	lazy map[string]*Program

	program *Program
	cleared bool
}

// Program returns the program the scope belongs to, or nil for a detached
// scope.
func (s *Scope) Program() *Program {
	return s.program
}

func NewScope() *Scope {
	return &Scope{
		types:           make(map[string]scopeEntry[Type]),
		consts:          make(map[string]scopeEntry[*Const]),
		services:        make(map[string]scopeEntry[*Service]),
		constTypeScopes: make(map[string]*Scope),
		lazy:            make(map[string]*Program),
	}
}

func (s *Scope) AddType(name string, t Type, flags AddFlags) error {
	if _, dupe := s.types[name]; dupe && flags&Overwrite == 0 {
		return errDuplicateType(name)
	}
	s.types[name] = scopeEntry[Type]{value: t, root: flags&Root != 0}
	return nil
}

func (s *Scope) AddService(name string, svc *Service, flags AddFlags) error {
	if _, dupe := s.services[name]; dupe && flags&Overwrite == 0 {
		return errDuplicateService(name)
	}
	s.services[name] = scopeEntry[*Service]{value: svc, root: flags&Root != 0}
	return nil
}

func (s *Scope) AddConstant(name string, c *Const, flags AddFlags) error {
	if _, dupe := s.consts[name]; dupe && flags&Overwrite == 0 {
		return errDuplicateConst(name)
	}
	s.consts[name] = scopeEntry[*Const]{value: c, root: flags&Root != 0}
	delete(s.constTypeScopes, name)
	if c != nil && c.typ != nil {
		if p := c.typ.Program(); p != nil {
			s.constTypeScopes[name] = p.scope
		}
	}
	return nil
}

func (s *Scope) LookupType(name string) (Type, bool) {
	entry, ok := s.types[name]
	return entry.value, ok
}

func (s *Scope) LookupConstant(name string) (*Const, bool) {
	entry, ok := s.consts[name]
	return entry.value, ok
}

func (s *Scope) LookupService(name string) (*Service, bool) {
	entry, ok := s.services[name]
	return entry.value, ok
}

// IsRoot reports whether the scope owns the type, constant, or service
// registered under name.
func (s *Scope) IsRoot(name string) bool {
	if e, ok := s.types[name]; ok && e.root {
		return true
	}
	if e, ok := s.consts[name]; ok && e.root {
		return true
	}
	if e, ok := s.services[name]; ok && e.root {
		return true
	}
	return false
}

func (s *Scope) TypeNames() []string     { return sortedKeys(s.types) }
func (s *Scope) ConstantNames() []string { return sortedKeys(s.consts) }
func (s *Scope) ServiceNames() []string  { return sortedKeys(s.services) }

func (s *Scope) AddLazyConstant(name string, program *Program) {
	s.lazy[name] = program
}

// LazyConstantNames lists the deferred constants in name order.
func (s *Scope) LazyConstantNames() []string {
	return sortedKeys(s.lazy)
}

// ResolveLazyConsts drains the lazy backlog and returns each program that
// had deferred constants, once, ordered by path.
func (s *Scope) ResolveLazyConsts() []*Program {
	seen := make(map[*Program]struct{}, len(s.lazy))
	var programs []*Program
	for _, name := range sortedKeys(s.lazy) {
		p := s.lazy[name]
		if _, dupe := seen[p]; dupe || p == nil {
			continue
		}
		seen[p] = struct{}{}
		programs = append(programs, p)
	}
	clear(s.lazy)
	slices.SortStableFunc(programs, func(a, b *Program) int {
		return strings.Compare(a.path, b.path)
	})
	return programs
}

// ResolveAllConsts resolves every constant this scope owns. Constants whose
// type belongs to a cleared scope are skipped, as are re-exports, which are
// resolved by the scope of the program that declared them. The result
// reports whether every visited constant is now resolved.
func (s *Scope) ResolveAllConsts(mode ResolveMode) (bool, error) {
	if s.cleared {
		return true, nil
	}
	r := newResolver(mode)
	allOk := true
	for _, name := range sortedKeys(s.consts) {
		c := s.consts[name].value
		if c == nil || c.resolved {
			continue
		}
		if ts, ok := s.constTypeScopes[name]; ok && ts.cleared {
			continue
		}
		owner := c.scope()
		if owner == nil {
			owner = s
		}
		if owner != s {
			continue
		}
		ok, err := r.resolveConst(s, c)
		if err != nil {
			return false, err
		}
		if !ok {
			allOk = false
		}
	}
	return allOk, nil
}

// ResolveConst resolves a single constant's value against its declared type
// and records the outcome on the constant.
func (s *Scope) ResolveConst(c *Const, mode ResolveMode) (bool, error) {
	if s.cleared || c.resolved {
		return true, nil
	}
	return newResolver(mode).resolveConst(s, c)
}

// ResolveConstValue rewrites value in place to its resolved form for type
// t. A false result without error means resolution must be retried once
// more programs are loaded.
func (s *Scope) ResolveConstValue(value *ConstValue, t Type, mode ResolveMode) (bool, error) {
	if s.cleared {
		return true, nil
	}
	return newResolver(mode).resolveValue(s, value, t)
}

func (s *Scope) IsCleared() bool {
	return s.cleared
}

// Clear releases every entity the scope owns and forgets all names. A
// cleared scope resolves nothing.
func (s *Scope) Clear() {
	for _, e := range s.types {
		if e.root {
			releaseEntity(e.value)
		}
	}
	for _, e := range s.consts {
		if e.root && e.value != nil {
			e.value.release()
		}
	}
	for _, e := range s.services {
		if e.root && e.value != nil {
			e.value.release()
		}
	}
	clear(s.types)
	clear(s.consts)
	clear(s.services)
	clear(s.constTypeScopes)
	clear(s.lazy)
	s.cleared = true
}

func releaseEntity(v any) {
	if r, ok := v.(releaser); ok {
		r.release()
	}
}

func (c *Const) scope() *Scope {
	if c.program == nil {
		return nil
	}
	return c.program.scope
}

// Len returns the number of registered types, constants, and services.
func (s *Scope) Len() (types, consts, services int) {
	return len(s.types), len(s.consts), len(s.services)
}
