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

const (
	maxSrcLen   = 0x7FFFFFFF // (2**31)-1
	maxTokenLen = int(math.MaxUint16)

	tokenFlagTextHasEscapes uint8 = 0x01
	tokenFlagDocComment     uint8 = 0x02
	tokenFlagSingleQuoted   uint8 = 0x04
)

type Token struct {
	Len   uint16
	Kind  TokenKind
	flags uint8
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE
	T_NEWLINE
	T_COMMENT

	T_COLON
	T_SEMICOLON
	T_COMMA
	T_EQ
	T_STAR
	T_LT
	T_GT

	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_OPEN_SQUARE
	T_CLOSE_SQUARE

	T_INT_LIT
	T_HEX_INT_LIT
	T_DOUBLE_LIT

	T_TEXT_LIT

	T_IDENT
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_NEWLINE:
		return "NEWLINE"
	case T_COMMENT:
		return "COMMENT"
	case T_COLON:
		return "COLON"
	case T_SEMICOLON:
		return "SEMICOLON"
	case T_COMMA:
		return "COMMA"
	case T_EQ:
		return "EQ"
	case T_STAR:
		return "STAR"
	case T_LT:
		return "LT"
	case T_GT:
		return "GT"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_PAREN:
		return "OPEN_PAREN"
	case T_CLOSE_PAREN:
		return "CLOSE_PAREN"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_INT_LIT:
		return "INT_LIT"
	case T_HEX_INT_LIT:
		return "HEX_INT_LIT"
	case T_DOUBLE_LIT:
		return "DOUBLE_LIT"
	case T_TEXT_LIT:
		return "TEXT_LIT"
	case T_IDENT:
		return "IDENT"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// IsDocComment reports whether a comment token is a "/**" doc comment.
func (t Token) IsDocComment() bool {
	return t.flags&tokenFlagDocComment != 0
}

type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{
		src: src,
	}, nil
}

// Offset is the byte offset of the next token.
func (t *Tokens) Offset() uint32 {
	return t.offset
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
		}
		return nil
	}

	c := t.src[0]
	var kind TokenKind
	switch c {
	case '\t', ' ':
		return t.nextSpace(token)
	case '\n':
		kind = T_NEWLINE
	case ':':
		kind = T_COLON
	case ';':
		kind = T_SEMICOLON
	case ',':
		kind = T_COMMA
	case '=':
		kind = T_EQ
	case '*':
		kind = T_STAR
	case '<':
		kind = T_LT
	case '>':
		kind = T_GT
	case '{':
		kind = T_OPEN_CURL
	case '}':
		kind = T_CLOSE_CURL
	case '(':
		kind = T_OPEN_PAREN
	case ')':
		kind = T_CLOSE_PAREN
	case '[':
		kind = T_OPEN_SQUARE
	case ']':
		kind = T_CLOSE_SQUARE
	case '#':
		return t.nextLineComment(token)
	case '/':
		if len(t.src) > 1 && t.src[1] == '/' {
			return t.nextLineComment(token)
		}
		if len(t.src) > 1 && t.src[1] == '*' {
			return t.nextBlockComment(token)
		}
		return errUnexpectedCharacter(t.offset, '/')
	case '"', '\'':
		return t.nextTextLit(token)
	case '\r':
		if len(t.src) < 2 || t.src[1] != '\n' {
			return errForbiddenControlCharacter(t.offset, c)
		}
		return t.emit(token, Token{Kind: T_NEWLINE}, 2)
	default:
		return t.nextBig(token, c)
	}
	return t.emit(token, Token{Kind: kind}, 1)
}

func (t *Tokens) nextBig(token *Token, c byte) error {
	if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' {
		return t.nextNumLit(token)
	}
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_' {
		return t.nextIdent(token)
	}

	r, _ := utf8.DecodeRune(t.src)
	if r == '\u00A0' || r == '\uFEFF' {
		return t.nextSpace(token)
	}
	if r < 0x20 || r == 0x7F {
		return errForbiddenControlCharacter(t.offset, c)
	}
	return errUnexpectedCharacter(t.offset, r)
}

func (t *Tokens) emit(token *Token, tok Token, tokenLen int) error {
	n, err := t.checkTokenLen(tokenLen)
	if err != nil {
		return err
	}
	tok.Len = n
	*token = tok
	t.offset += uint32(n)
	t.src = t.src[n:]
	return nil
}

func (t *Tokens) nextSpace(token *Token) error {
	src := t.src
	for len(src) > 0 {
		if src[0] == ' ' || src[0] == '\t' {
			src = src[1:]
			continue
		}
		r, runeLen := utf8.DecodeRune(src)
		if r != '\u00A0' && r != '\uFEFF' {
			break
		}
		src = src[runeLen:]
	}
	return t.emit(token, Token{Kind: T_SPACE}, len(t.src)-len(src))
}

func (t *Tokens) nextLineComment(token *Token) error {
	tokenLen := len(t.src)
	for ii, c := range t.src {
		if c == '\n' || c == '\r' {
			tokenLen = ii
			break
		}
	}
	return t.emit(token, Token{Kind: T_COMMENT}, tokenLen)
}

func (t *Tokens) nextBlockComment(token *Token) error {
	for ii := 2; ii+1 < len(t.src); ii++ {
		if t.src[ii] == '*' && t.src[ii+1] == '/' {
			var flags uint8
			// "/**/" is an empty comment, not a doc comment.
			if ii > 2 && t.src[2] == '*' {
				flags = tokenFlagDocComment
			}
			return t.emit(token, Token{Kind: T_COMMENT, flags: flags}, ii+2)
		}
	}
	return errCommentUnterminated(t.offset, uint32(len(t.src)))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || isDigit(c) || c == '_' || c == '.'
}

func (t *Tokens) nextNumLit(token *Token) error {
	src := t.src
	ii := 0
	if src[0] == '-' || src[0] == '+' {
		ii++
	}

	if ii+1 < len(src) && src[ii] == '0' && (src[ii+1] == 'x' || src[ii+1] == 'X') {
		start := ii + 2
		end := start
		for end < len(src) && isHexDigit(src[end]) {
			end++
		}
		if end == start || (end < len(src) && isIdentByte(src[end])) {
			return errIntLitInvalid(t.offset, src[:t.scanWord(end)])
		}
		return t.emit(token, Token{Kind: T_HEX_INT_LIT}, end)
	}

	kind := T_INT_LIT
	digits := 0
	for ii < len(src) && isDigit(src[ii]) {
		ii++
		digits++
	}
	if ii < len(src) && src[ii] == '.' && ii+1 < len(src) && isDigit(src[ii+1]) {
		kind = T_DOUBLE_LIT
		ii++
		for ii < len(src) && isDigit(src[ii]) {
			ii++
			digits++
		}
	}
	if digits == 0 {
		return errIntLitInvalid(t.offset, src[:t.scanWord(ii+1)])
	}
	if ii < len(src) && (src[ii] == 'e' || src[ii] == 'E') {
		exp := ii + 1
		if exp < len(src) && (src[exp] == '-' || src[exp] == '+') {
			exp++
		}
		expDigits := exp
		for expDigits < len(src) && isDigit(src[expDigits]) {
			expDigits++
		}
		if expDigits == exp {
			return errDoubleLitInvalid(t.offset, src[:t.scanWord(exp)])
		}
		kind = T_DOUBLE_LIT
		ii = expDigits
	}
	if ii < len(src) && isIdentByte(src[ii]) && src[ii] != '.' {
		return errIntLitInvalid(t.offset, src[:t.scanWord(ii)])
	}
	return t.emit(token, Token{Kind: kind}, ii)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanWord extends an invalid literal to the end of the word it starts, so
// errors cover the whole bad token.
func (t *Tokens) scanWord(from int) int {
	end := min(from, len(t.src))
	for end < len(t.src) && isIdentByte(t.src[end]) {
		end++
	}
	return end
}

func (t *Tokens) nextTextLit(token *Token) error {
	quote := t.src[0]
	escaped := false
	var flags uint8
	if quote == '\'' {
		flags |= tokenFlagSingleQuoted
	}
	for ii := 1; ii < len(t.src); ii++ {
		c := t.src[ii]
		if escaped {
			escaped = false
			continue
		}
		if c == quote {
			return t.emit(token, Token{Kind: T_TEXT_LIT, flags: flags}, ii+1)
		}
		if (c <= 0x1F || c == 0x7F) && c != 0x09 {
			off := t.offset + uint32(ii)
			if c == 0x0A {
				return errTextLitContainsNewline(off, 1)
			}
			if c == 0x0D && ii+1 < len(t.src) && t.src[ii+1] == 0x0A {
				return errTextLitContainsNewline(off, 2)
			}
			return errForbiddenControlCharacter(off, c)
		}
		if c == '\\' {
			escaped = true
			flags |= tokenFlagTextHasEscapes
		}
	}
	return errTextLitUnterminated(t.offset, uint32(len(t.src)))
}

func (t *Tokens) nextIdent(token *Token) error {
	end := 1
	for end < len(t.src) && isIdentByte(t.src[end]) {
		end++
	}
	word := t.src[:end]
	if word[end-1] == '.' {
		return errIdentInvalid(t.offset, word)
	}
	for ii := 1; ii < end; ii++ {
		if word[ii] == '.' && word[ii-1] == '.' {
			return errIdentInvalid(t.offset, word)
		}
	}
	return t.emit(token, Token{Kind: T_IDENT}, end)
}

func (t *Tokens) checkTokenLen(len int) (uint16, error) {
	if len > maxTokenLen {
		return 0, errTokenTooLong(t.offset, len)
	}
	return uint16(len), nil
}
