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
	"errors"
	"fmt"
	"strings"

	"go.thriftc.dev/thriftc/model"
	"go.thriftc.dev/thriftc/syntax"
)

type Error struct {
	code    uint32
	message string
	file    string
	span    syntax.Span
	cause   error
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// File is the path of the source file the error was found in.
func (err *Error) File() string {
	return err.file
}

func (err *Error) Span() syntax.Span {
	return err.span
}

// Unwrap returns the underlying syntax or model error, if any.
func (err *Error) Unwrap() error {
	return err.cause
}

// errWrap adopts the code and message of a syntax or model error.
func errWrap(err error, span syntax.Span) *Error {
	var syntaxErr *syntax.Error
	if errors.As(err, &syntaxErr) {
		return &Error{
			code:    syntaxErr.Code(),
			message: syntaxErr.Message(),
			span:    syntaxErr.Span(),
			cause:   err,
		}
	}
	var modelErr *model.Error
	if errors.As(err, &modelErr) {
		return &Error{
			code:    modelErr.Code(),
			message: modelErr.Message(),
			span:    span,
			cause:   err,
		}
	}
	return &Error{
		code:    3099,
		message: err.Error(),
		span:    span,
		cause:   err,
	}
}

func errReadFile(path string, err error, span syntax.Span) *Error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Failed to read %q: %v", path, err),
		span:    span,
		cause:   err,
	}
}

func errIncludeNotFound(path string, span syntax.Span) *Error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Could not find include file %q", path),
		span:    span,
	}
}

func errIncludeCycle(chain []string, span syntax.Span) *Error {
	return &Error{
		code:    3002,
		message: fmt.Sprintf("Include cycle: %s", strings.Join(chain, " -> ")),
		span:    span,
	}
}

func errIncludeNameConflict(name, prevPath, path string, span syntax.Span) *Error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Include of %q as '%s' conflicts with earlier include of %q",
			path, name, prevPath,
		),
		span: span,
	}
}

func errDuplicateTypename(name string, notes []model.Note, span syntax.Span) *Error {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Type \"%s\" is already defined.", name)
	for _, note := range notes {
		buf.WriteString("\n  ")
		buf.WriteString(note.Message)
	}
	return &Error{
		code:    3004,
		message: buf.String(),
		span:    span,
	}
}

func errIntOutOfRange(value int64, t model.Type, span syntax.Span) *Error {
	return &Error{
		code:    3005,
		message: fmt.Sprintf("Integer %d is out of range for type %s", value, t.Name()),
		span:    span,
	}
}

func errEnumValueOutOfRange(enum, name string, value int64, span syntax.Span) *Error {
	return &Error{
		code: 3006,
		message: fmt.Sprintf(
			"Value %d of enum member %s.%s does not fit in i32",
			value, enum, name,
		),
		span: span,
	}
}

func errFieldIDOutOfRange(name string, id int64, span syntax.Span) *Error {
	return &Error{
		code:    3007,
		message: fmt.Sprintf("Field id %d of '%s' does not fit in i16", id, name),
		span:    span,
	}
}

func errDuplicateFieldID(owner string, id int64, span syntax.Span) *Error {
	return &Error{
		code:    3008,
		message: fmt.Sprintf("Field id %d is used more than once in %s", id, owner),
		span:    span,
	}
}

func errDuplicateFieldName(owner, name string, span syntax.Span) *Error {
	return &Error{
		code:    3009,
		message: fmt.Sprintf("Field name '%s' is used more than once in %s", name, owner),
		span:    span,
	}
}

func errNotEnumMember(enum, ident string, span syntax.Span) *Error {
	return &Error{
		code:    3010,
		message: fmt.Sprintf("'%s' is not a member of enum %s", ident, enum),
		span:    span,
	}
}

func errServiceNotFound(name string, span syntax.Span) *Error {
	return &Error{
		code:    3011,
		message: fmt.Sprintf("Service \"%s\" has not been defined.", name),
		span:    span,
	}
}

func errInvalidUUID(value string, span syntax.Span) *Error {
	return &Error{
		code:    3012,
		message: fmt.Sprintf("Invalid UUID %q", value),
		span:    span,
	}
}

func errThrowsNotException(function, field string, t model.Type, span syntax.Span) *Error {
	return &Error{
		code: 3013,
		message: fmt.Sprintf(
			"Function %s throws '%s' of type %s, which is not an exception",
			function, field, t.Name(),
		),
		span: span,
	}
}

func errOnewayNotVoid(function string, span syntax.Span) *Error {
	return &Error{
		code:    3014,
		message: fmt.Sprintf("Oneway function %s must return void and throw nothing", function),
		span:    span,
	}
}

func errConstTypeMismatch(t model.Type, value *model.ConstValue, span syntax.Span) *Error {
	return &Error{
		code:    3015,
		message: fmt.Sprintf("Value %s is not valid for type %s", value, t.Name()),
		span:    span,
	}
}
