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
	"math"
	"unicode/utf8"
)

type Error struct {
	code    uint32
	message string
	span    Span
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

func (err *Error) Span() Span {
	return err.span
}

func clampLen(n int) uint32 {
	if uint64(n) < math.MaxUint32 {
		return uint32(n)
	}
	return math.MaxUint32
}

func errSourceTooLong(srcLen int) error {
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, clampLen(srcLen)},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, clampLen(tokenLen)},
	}
}

func errIntLitInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid integer literal %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errTextLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1006,
		message: "Unterminated text literal",
		span:    Span{start, tokenLen},
	}
}

func errTextLitContainsNewline(start, newlineLen uint32) error {
	return &Error{
		code:    1007,
		message: "Text literal contains unescaped newline",
		span:    Span{start, newlineLen},
	}
}

func errIdentInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1008,
		message: fmt.Sprintf("Invalid identifier %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errCommentUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1009,
		message: "Unterminated block comment",
		span:    Span{start, tokenLen},
	}
}

func errDoubleLitInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1010,
		message: fmt.Sprintf("Invalid double literal %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errExpectedSigil(
	wantKind TokenKind,
	gotKind TokenKind,
	gotToken string,
	span Span,
) error {
	var code uint32
	var want string
	switch wantKind {
	case T_COLON:
		code, want = 1100, ":"
	case T_EQ:
		code, want = 1101, "="
	case T_LT:
		code, want = 1102, "<"
	case T_GT:
		code, want = 1103, ">"
	case T_COMMA:
		code, want = 1104, ","
	case T_OPEN_CURL:
		code, want = 1105, "{"
	case T_CLOSE_CURL:
		code, want = 1106, "}"
	case T_OPEN_PAREN:
		code, want = 1107, "("
	case T_CLOSE_PAREN:
		code, want = 1108, ")"
	case T_OPEN_SQUARE:
		code, want = 1109, "["
	case T_CLOSE_SQUARE:
		code, want = 1110, "]"
	default:
		panic("unreachable")
	}
	return &Error{
		code:    code,
		message: fmt.Sprintf("Expected sigil '%s', got (%s %q)", want, gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIntLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    1111,
		message: fmt.Sprintf("Expected integer literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedTextLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    1112,
		message: fmt.Sprintf("Expected text literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIdent(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    1113,
		message: fmt.Sprintf("Expected identifier, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedDefinition(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    1114,
		message: fmt.Sprintf("Expected definition keyword, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errUnknownDefinition(token string, span Span) error {
	return &Error{
		code:    1115,
		message: fmt.Sprintf("Unknown definition keyword %q", token),
		span:    span,
	}
}

func errExpectedType(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    1116,
		message: fmt.Sprintf("Expected type, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedConstValue(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    1117,
		message: fmt.Sprintf("Expected const value, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errIntLitOutOfRange(token string, span Span) error {
	return &Error{
		code: 1118,
		message: fmt.Sprintf(
			"Integer literal %s out of range (must be within [%d, %d])",
			token, int64(math.MinInt64), int64(math.MaxInt64),
		),
		span: span,
	}
}

func errTextLitInvalid(token string, span Span) error {
	return &Error{
		code:    1119,
		message: fmt.Sprintf("Invalid text literal %s", token),
		span:    span,
	}
}

func errHeaderAfterDefinition(keyword string, span Span) error {
	return &Error{
		code:    1120,
		message: fmt.Sprintf("Header %q must appear before all definitions", keyword),
		span:    span,
	}
}

func errReservedKeyword(name string, span Span) error {
	return &Error{
		code:    1121,
		message: fmt.Sprintf("Cannot use reserved keyword %q as an identifier", name),
		span:    span,
	}
}

func errWrongTypeParams(container string, want, got int, span Span) error {
	return &Error{
		code: 1122,
		message: fmt.Sprintf(
			"Container type %s takes %d type parameter(s), got %d",
			container, want, got,
		),
		span: span,
	}
}
