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
	"fmt"

	"go.thriftc.dev/thriftc/syntax"
)

type Warning struct {
	code    uint32
	message string
	file    string
	span    syntax.Span
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) File() string {
	return w.file
}

func (w *Warning) Span() syntax.Span {
	return w.span
}

func warnTypenameCollision(message string, span syntax.Span) *Warning {
	return &Warning{
		code:    4000,
		message: message,
		span:    span,
	}
}

func warnNamespace(message string, span syntax.Span) *Warning {
	return &Warning{
		code:    4001,
		message: message,
		span:    span,
	}
}

func warnUnknownNamespaceLanguage(lang string, span syntax.Span) *Warning {
	return &Warning{
		code:    4002,
		message: fmt.Sprintf("No generator named '%s' is known", lang),
		span:    span,
	}
}

func warnDuplicateInclude(path string, span syntax.Span) *Warning {
	return &Warning{
		code:    4003,
		message: fmt.Sprintf("Duplicate include of %q", path),
		span:    span,
	}
}

func warnImplicitFieldID(name string, id int64, span syntax.Span) *Warning {
	return &Warning{
		code: 4004,
		message: fmt.Sprintf(
			"No field id specified for '%s', using auto-generated id %d",
			name, id,
		),
		span: span,
	}
}

func warnUnionRequiredField(union, name string, span syntax.Span) *Warning {
	return &Warning{
		code: 4005,
		message: fmt.Sprintf(
			"Union field %s.%s cannot be required, treating as optional",
			union, name,
		),
		span: span,
	}
}

func warnNonPositiveFieldID(name string, id int64, span syntax.Span) *Warning {
	return &Warning{
		code:    4006,
		message: fmt.Sprintf("Field '%s' has non-positive id %d", name, id),
		span:    span,
	}
}
