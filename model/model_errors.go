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
)

// ErrorKind classifies a resolution failure. Kinds are usable as targets for
// [errors.Is].
type ErrorKind uint8

const (
	ErrTypeNotFound ErrorKind = iota + 1
	ErrCircularTypedef
	ErrDuplicateName
	ErrDuplicateMember
	ErrNoSuchField
	ErrNoEnumValue
	ErrConstNotFound
	ErrVoidConst
	ErrCircularConst
	ErrUnsupportedConstRef
	ErrTypeMismatch
)

func (k ErrorKind) Error() string {
	switch k {
	case ErrTypeNotFound:
		return "type not found"
	case ErrCircularTypedef:
		return "circular typedef"
	case ErrDuplicateName:
		return "duplicate name"
	case ErrDuplicateMember:
		return "duplicate member"
	case ErrNoSuchField:
		return "no such field"
	case ErrNoEnumValue:
		return "no enum value"
	case ErrConstNotFound:
		return "constant not found"
	case ErrVoidConst:
		return "void constant"
	case ErrCircularConst:
		return "circular constant reference"
	case ErrUnsupportedConstRef:
		return "unsupported constant reference"
	case ErrTypeMismatch:
		return "type mismatch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

type Error struct {
	code    uint32
	kind    ErrorKind
	message string
	name    string
	program *Program
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Kind() ErrorKind {
	return err.kind
}

func (err *Error) Message() string {
	return err.message
}

// Name is the symbol the error is about: a type, constant, field, or member
// name depending on the kind.
func (err *Error) Name() string {
	return err.name
}

// Program is the program that requested the failed lookup, if known.
func (err *Error) Program() *Program {
	return err.program
}

func (err *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == err.kind
}

func errTypeNotFound(symbolic string, program *Program) error {
	return &Error{
		code:    2000,
		kind:    ErrTypeNotFound,
		message: fmt.Sprintf("Type \"%s\" not defined", symbolic),
		name:    symbolic,
		program: program,
	}
}

func errCircularTypedef(symbolic string, program *Program) error {
	return &Error{
		code:    2001,
		kind:    ErrCircularTypedef,
		message: fmt.Sprintf("Typedef \"%s\" refers to itself", symbolic),
		name:    symbolic,
		program: program,
	}
}

func errDuplicateConst(name string) error {
	return &Error{
		code:    2002,
		kind:    ErrDuplicateName,
		message: fmt.Sprintf("Enum %s is already defined!", name),
		name:    name,
	}
}

func errDuplicateType(name string) error {
	return &Error{
		code:    2003,
		kind:    ErrDuplicateName,
		message: fmt.Sprintf("Type %s is already defined!", name),
		name:    name,
	}
}

func errDuplicateService(name string) error {
	return &Error{
		code:    2004,
		kind:    ErrDuplicateName,
		message: fmt.Sprintf("Service %s is already defined!", name),
		name:    name,
	}
}

func errDuplicateFunction(service, function string, program *Program) error {
	return &Error{
		code: 2005,
		kind: ErrDuplicateMember,
		message: fmt.Sprintf(
			"Function %s is defined more than once in service %s",
			function, service,
		),
		name:    function,
		program: program,
	}
}

func errDuplicateArgument(function, arg string, program *Program) error {
	return &Error{
		code: 2006,
		kind: ErrDuplicateMember,
		message: fmt.Sprintf(
			"Argument %s is defined more than once in function %s",
			arg, function,
		),
		name:    arg,
		program: program,
	}
}

func errNoSuchField(field string, s *Struct) error {
	return &Error{
		code: 2007,
		kind: ErrNoSuchField,
		message: fmt.Sprintf(
			"No field named \"%s\" was found in struct of type \"%s\"",
			field, s.Name(),
		),
		name:    field,
		program: s.Program(),
	}
}

func errNoEnumValue(e *Enum, value int64) error {
	return &Error{
		code: 2008,
		kind: ErrNoEnumValue,
		message: fmt.Sprintf(
			"Couldn't find a named value in enum %s for value %d",
			e.Name(), value,
		),
		name:    e.Name(),
		program: e.Program(),
	}
}

func errConstNotFound(name string, program *Program) error {
	return &Error{
		code: 2009,
		kind: ErrConstNotFound,
		message: fmt.Sprintf(
			"No enum value or constant found named \"%s\"!",
			name,
		),
		name:    name,
		program: program,
	}
}

func errVoidConst(name string, program *Program) error {
	return &Error{
		code:    2010,
		kind:    ErrVoidConst,
		message: "Constants cannot be of type VOID",
		name:    name,
		program: program,
	}
}

func errCircularConst(c *Const) error {
	return &Error{
		code:    2011,
		kind:    ErrCircularConst,
		message: fmt.Sprintf("Constant \"%s\" refers to itself", c.Name()),
		name:    c.Name(),
		program: c.Program(),
	}
}

func errUnsupportedConstRef(name string, t Type, program *Program) error {
	return &Error{
		code: 2012,
		kind: ErrUnsupportedConstRef,
		message: fmt.Sprintf(
			"Constant \"%s\" of type %s cannot be referenced by value",
			name, t.Name(),
		),
		name:    name,
		program: program,
	}
}

func errTypeMismatch(t Type, v *ConstValue, program *Program) error {
	return &Error{
		code: 2013,
		kind: ErrTypeMismatch,
		message: fmt.Sprintf(
			"Value %s is not valid for type %s",
			v, t.Name(),
		),
		name:    t.Name(),
		program: program,
	}
}

// ErrTypeMismatchf builds a type mismatch error for validation performed
// outside the resolver.
func ErrTypeMismatchf(program *Program, name string, format string, args ...any) error {
	return &Error{
		code:    2013,
		kind:    ErrTypeMismatch,
		message: fmt.Sprintf(format, args...),
		name:    name,
		program: program,
	}
}
