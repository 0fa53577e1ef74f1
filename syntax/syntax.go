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
	"strconv"
	"strings"
)

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOptionFunc func(*ParseOptions)

func (fn parseOptionFunc) apply(opts *ParseOptions) { fn(opts) }

// KeepDocComments controls whether "/**" comments are attached to the
// definitions that follow them. Enabled by default.
func KeepDocComments(keep bool) ParseOption {
	return parseOptionFunc(func(opts *ParseOptions) {
		opts.keepDocs = keep
	})
}

func Parse(src []byte, opts ...ParseOption) (*Document, error) {
	return NewParseOptions(opts...).ParseDocument(src)
}

type ParseOptions struct {
	keepDocs bool
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{
		keepDocs: true,
	}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

func (opts *ParseOptions) ParseDocument(src []byte) (*Document, error) {
	ctx, err := newParseCtx(opts, src)
	if err != nil {
		return nil, err
	}
	return parseDocument(ctx)
}

// ParseConstValue parses a standalone constant literal, as accepted after
// "=" in a const definition.
func (opts *ParseOptions) ParseConstValue(src []byte) (*ConstValue, error) {
	ctx, err := newParseCtx(opts, src)
	if err != nil {
		return nil, err
	}
	value := ctx.constValue()
	ctx.expectEOF()
	if ctx.err != nil {
		return nil, ctx.err
	}
	return value, nil
}

var reservedWords = map[string]struct{}{
	"include":     {},
	"cpp_include": {},
	"namespace":   {},
	"const":       {},
	"typedef":     {},
	"enum":        {},
	"struct":      {},
	"union":       {},
	"exception":   {},
	"service":     {},
	"extends":     {},
	"throws":      {},
	"oneway":      {},
	"required":    {},
	"optional":    {},
	"void":        {},
	"list":        {},
	"set":         {},
	"map":         {},
}

type parseCtx struct {
	src       []byte
	opts      *ParseOptions
	tokens    *Tokens
	haveToken bool
	token     Token
	err       error
	consumed  uint32
	offset    uint32
	lastEnd   uint32
	doc       string
}

func newParseCtx(opts *ParseOptions, src []byte) (*parseCtx, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	return &parseCtx{
		src:    src,
		opts:   opts,
		tokens: tokens,
	}, nil
}

// ensureToken loads the next significant token, skipping whitespace and
// comments. A doc comment is remembered until the next token is consumed.
func (ctx *parseCtx) ensureToken() error {
	if ctx.err != nil {
		return ctx.err
	}
	for !ctx.haveToken {
		start := ctx.tokens.Offset()
		if err := ctx.tokens.Next(&ctx.token); err != nil {
			ctx.err = err
			return ctx.err
		}
		ctx.offset = start
		switch ctx.token.Kind {
		case T_SPACE, T_NEWLINE:
		case T_COMMENT:
			if ctx.opts.keepDocs && ctx.token.IsDocComment() {
				ctx.doc = docText(string(ctx.readToken()))
			}
		default:
			ctx.haveToken = true
		}
	}
	return nil
}

func (ctx *parseCtx) readToken() []byte {
	return ctx.src[ctx.offset : ctx.offset+uint32(ctx.token.Len)]
}

func (ctx *parseCtx) consumeToken() {
	ctx.consumed += 1
	ctx.lastEnd = ctx.offset + uint32(ctx.token.Len)
	ctx.haveToken = false
	ctx.doc = ""
}

func (ctx *parseCtx) tokenSpan() Span {
	return Span{
		start: ctx.offset,
		len:   uint32(ctx.token.Len),
	}
}

func (ctx *parseCtx) spanFrom(start uint32) Span {
	return Span{start: start, len: ctx.lastEnd - start}
}

// takeDoc returns the doc comment preceding the current token.
func (ctx *parseCtx) takeDoc() string {
	if err := ctx.ensureToken(); err != nil {
		return ""
	}
	doc := ctx.doc
	ctx.doc = ""
	return doc
}

func (ctx *parseCtx) loop(yield func(struct{}) bool) {
	if ctx.err != nil {
		return
	}
	for {
		consumed := ctx.consumed
		if !yield(struct{}{}) {
			return
		}
		if ctx.err != nil {
			return
		}
		if consumed == ctx.consumed {
			return
		}
	}
}

func (ctx *parseCtx) sigil(kind TokenKind) {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != kind {
		ctx.err = errExpectedSigil(
			kind,
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
		return
	}
	ctx.consumeToken()
}

func (ctx *parseCtx) trySigil(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != kind {
		return false
	}
	ctx.consumeToken()
	return true
}

func (ctx *parseCtx) listSeparator() {
	if !ctx.trySigil(T_COMMA) {
		ctx.trySigil(T_SEMICOLON)
	}
}

func (ctx *parseCtx) peekKeyword(keyword string) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	return ctx.token.Kind == T_IDENT && string(ctx.readToken()) == keyword
}

func (ctx *parseCtx) tryKeyword(keyword string) bool {
	if !ctx.peekKeyword(keyword) {
		return false
	}
	ctx.consumeToken()
	return true
}

func (ctx *parseCtx) ident() *Ident {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	if ctx.token.Kind != T_IDENT {
		ctx.err = errExpectedIdent(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}
	ident := &Ident{
		raw:   token,
		start: ctx.offset,
	}
	ctx.consumeToken()
	return ident
}

// name parses the identifier being declared, which may not be a reserved
// word.
func (ctx *parseCtx) name() *Ident {
	ident := ctx.ident()
	if ident == nil {
		return nil
	}
	if _, reserved := reservedWords[ident.raw]; reserved {
		ctx.err = errReservedKeyword(ident.raw, ident.Span())
		return nil
	}
	return ident
}

func (ctx *parseCtx) int() *IntLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	if ctx.token.Kind != T_INT_LIT && ctx.token.Kind != T_HEX_INT_LIT {
		ctx.err = errExpectedIntLit(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}
	value, err := parseIntToken(token, ctx.token.Kind)
	if err != nil {
		ctx.err = errIntLitOutOfRange(token, ctx.tokenSpan())
		return nil
	}
	lit := &IntLit{
		raw:   token,
		value: value,
		start: ctx.offset,
	}
	ctx.consumeToken()
	return lit
}

func (ctx *parseCtx) text() *TextLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	if ctx.token.Kind != T_TEXT_LIT {
		ctx.err = errExpectedTextLit(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}
	value, ok := unquoteText(token, ctx.token.flags)
	if !ok {
		ctx.err = errTextLitInvalid(token, ctx.tokenSpan())
		return nil
	}
	lit := &TextLit{
		raw:   token,
		value: value,
		start: ctx.offset,
	}
	ctx.consumeToken()
	return lit
}

func (ctx *parseCtx) expectEOF() {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != T_EOF {
		ctx.err = errExpectedDefinition(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}
}

func parseIntToken(token string, kind TokenKind) (int64, error) {
	if kind != T_HEX_INT_LIT {
		return strconv.ParseInt(token, 10, 64)
	}
	neg := false
	digits := token
	switch digits[0] {
	case '-':
		neg = true
		digits = digits[1:]
	case '+':
		digits = digits[1:]
	}
	value, err := strconv.ParseInt(digits[2:], 16, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		value = -value
	}
	return value, nil
}

func unquoteText(token string, flags uint8) (string, bool) {
	body := token[1 : len(token)-1]
	if flags&tokenFlagTextHasEscapes == 0 {
		return body, true
	}
	var buf strings.Builder
	for ii := 0; ii < len(body); ii++ {
		c := body[ii]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		ii++
		if ii == len(body) {
			return "", false
		}
		switch body[ii] {
		case '\\':
			buf.WriteByte('\\')
		case '"':
			buf.WriteByte('"')
		case '\'':
			buf.WriteByte('\'')
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		default:
			return "", false
		}
	}
	return buf.String(), true
}

func docText(comment string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")
	lines := strings.Split(body, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func parseDocument(ctx *parseCtx) (*Document, error) {
	doc := &Document{}
	seenDefinition := false
	for range ctx.loop {
		if err := ctx.ensureToken(); err != nil {
			break
		}
		if ctx.token.Kind == T_EOF {
			break
		}
		token := string(ctx.readToken())
		span := ctx.tokenSpan()
		if ctx.token.Kind != T_IDENT {
			ctx.err = errExpectedDefinition(ctx.token.Kind, token, span)
			break
		}

		switch token {
		case "include", "cpp_include", "namespace":
			if seenDefinition {
				ctx.err = errHeaderAfterDefinition(token, span)
				break
			}
			if header := parseHeader(ctx, token); ctx.err == nil {
				doc.headers = append(doc.headers, header)
			}
		case "const", "typedef", "enum", "struct", "union", "exception", "service":
			seenDefinition = true
			if def := parseDefinition(ctx, token); ctx.err == nil {
				doc.definitions = append(doc.definitions, def)
			}
		default:
			ctx.err = errUnknownDefinition(token, span)
		}
	}
	if ctx.err != nil {
		return nil, ctx.err
	}
	doc.span = Span{0, uint32(len(ctx.src))}
	return doc, nil
}

func parseHeader(ctx *parseCtx, keyword string) Header {
	start := ctx.offset
	ctx.consumeToken()
	switch keyword {
	case "include":
		path := ctx.text()
		return &Include{span: ctx.spanFrom(start), path: path}
	case "cpp_include":
		path := ctx.text()
		return &CppInclude{span: ctx.spanFrom(start), path: path}
	}

	ns := &Namespace{}
	if ctx.trySigil(T_STAR) {
		ns.scope = "*"
	} else if scope := ctx.ident(); scope != nil {
		ns.scope = scope.Get()
	}
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	if ctx.token.Kind == T_TEXT_LIT {
		if name := ctx.text(); name != nil {
			ns.name = name.Get()
		}
	} else if name := ctx.ident(); name != nil {
		ns.name = name.Get()
	}
	ctx.annotations()
	ns.span = ctx.spanFrom(start)
	return ns
}

func parseDefinition(ctx *parseCtx, keyword string) Definition {
	doc := ctx.takeDoc()
	start := ctx.offset
	ctx.consumeToken()

	var def Definition
	switch keyword {
	case "const":
		def = parseConst(ctx)
	case "typedef":
		def = parseTypedef(ctx)
	case "enum":
		def = parseEnum(ctx)
	case "struct":
		def = parseStruct(ctx, KindStruct)
	case "union":
		def = parseStruct(ctx, KindUnion)
	case "exception":
		def = parseStruct(ctx, KindException)
	case "service":
		def = parseService(ctx)
	}
	if ctx.err != nil {
		return nil
	}
	d := declOf(def)
	d.doc = doc
	d.span = ctx.spanFrom(start)
	return def
}

func declOf(def Definition) *decl {
	switch def := def.(type) {
	case *Const:
		return &def.decl
	case *Typedef:
		return &def.decl
	case *Enum:
		return &def.decl
	case *Struct:
		return &def.decl
	case *Service:
		return &def.decl
	}
	panic("unreachable")
}

func parseConst(ctx *parseCtx) *Const {
	c := &Const{}
	c.typ = ctx.typeRef()
	c.name = ctx.name()
	ctx.sigil(T_EQ)
	c.value = ctx.constValue()
	ctx.listSeparator()
	return c
}

func parseTypedef(ctx *parseCtx) *Typedef {
	td := &Typedef{}
	td.typ = ctx.typeRef()
	td.name = ctx.name()
	td.annotations = ctx.annotations()
	ctx.listSeparator()
	return td
}

func parseEnum(ctx *parseCtx) *Enum {
	e := &Enum{}
	e.name = ctx.name()
	ctx.sigil(T_OPEN_CURL)
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		v := &EnumValue{}
		v.doc = ctx.takeDoc()
		start := ctx.offset
		v.name = ctx.name()
		if ctx.trySigil(T_EQ) {
			v.value = ctx.int()
		}
		v.annotations = ctx.annotations()
		ctx.listSeparator()
		v.span = ctx.spanFrom(start)
		e.values = append(e.values, v)
	}
	e.annotations = ctx.annotations()
	return e
}

func parseStruct(ctx *parseCtx, kind StructKind) *Struct {
	s := &Struct{kind: kind}
	s.name = ctx.name()
	ctx.tryKeyword("xsd_all")
	ctx.sigil(T_OPEN_CURL)
	s.fields = ctx.fields(T_CLOSE_CURL)
	s.annotations = ctx.annotations()
	return s
}

func parseService(ctx *parseCtx) *Service {
	svc := &Service{}
	svc.name = ctx.name()
	if ctx.tryKeyword("extends") {
		svc.extends = ctx.ident()
	}
	ctx.sigil(T_OPEN_CURL)
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		svc.functions = append(svc.functions, ctx.function())
	}
	svc.annotations = ctx.annotations()
	return svc
}

func (ctx *parseCtx) function() *Function {
	fn := &Function{}
	fn.doc = ctx.takeDoc()
	start := ctx.offset
	fn.oneway = ctx.tryKeyword("oneway")
	if ctx.peekKeyword("void") {
		fn.returns = &TypeRef{span: ctx.tokenSpan(), name: ctx.ident()}
	} else {
		fn.returns = ctx.typeRef()
	}
	fn.name = ctx.name()
	ctx.sigil(T_OPEN_PAREN)
	fn.args = ctx.fields(T_CLOSE_PAREN)
	if ctx.tryKeyword("throws") {
		ctx.sigil(T_OPEN_PAREN)
		fn.throws = ctx.fields(T_CLOSE_PAREN)
	}
	fn.annotations = ctx.annotations()
	ctx.listSeparator()
	fn.span = ctx.spanFrom(start)
	return fn
}

// fields parses field definitions up to and including the closing sigil.
func (ctx *parseCtx) fields(closer TokenKind) []*Field {
	var fields []*Field
	for range ctx.loop {
		if ctx.trySigil(closer) {
			break
		}
		fields = append(fields, ctx.field())
	}
	if ctx.err != nil {
		return nil
	}
	return fields
}

func (ctx *parseCtx) field() *Field {
	f := &Field{}
	f.doc = ctx.takeDoc()
	start := ctx.offset
	if ctx.token.Kind == T_INT_LIT || ctx.token.Kind == T_HEX_INT_LIT {
		f.id = ctx.int()
		ctx.sigil(T_COLON)
	}
	if ctx.tryKeyword("required") {
		f.req = ReqRequired
	} else if ctx.tryKeyword("optional") {
		f.req = ReqOptional
	}
	f.typ = ctx.typeRef()
	f.name = ctx.name()
	if ctx.trySigil(T_EQ) {
		f.def = ctx.constValue()
	}
	f.annotations = ctx.annotations()
	ctx.listSeparator()
	f.span = ctx.spanFrom(start)
	return f
}

func (ctx *parseCtx) typeRef() *TypeRef {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	if ctx.token.Kind != T_IDENT {
		ctx.err = errExpectedType(ctx.token.Kind, string(ctx.readToken()), ctx.tokenSpan())
		return nil
	}
	start := ctx.offset
	name := ctx.ident()
	ref := &TypeRef{name: name}

	var arity int
	switch name.Get() {
	case "list", "set":
		arity = 1
	case "map":
		arity = 2
	case "void":
		ctx.err = errExpectedType(T_IDENT, name.Get(), name.Span())
		return nil
	}
	if arity > 0 {
		ctx.sigil(T_LT)
		for range ctx.loop {
			if ctx.trySigil(T_GT) {
				break
			}
			if len(ref.params) > 0 {
				ctx.sigil(T_COMMA)
			}
			ref.params = append(ref.params, ctx.typeRef())
		}
		if ctx.err == nil && len(ref.params) != arity {
			ctx.err = errWrongTypeParams(name.Get(), arity, len(ref.params), ctx.spanFrom(start))
			return nil
		}
	}
	ref.annotations = ctx.annotations()
	ref.span = ctx.spanFrom(start)
	return ref
}

func (ctx *parseCtx) annotations() []*Annotation {
	if !ctx.trySigil(T_OPEN_PAREN) {
		return nil
	}
	var out []*Annotation
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_PAREN) {
			break
		}
		start := ctx.offset
		a := &Annotation{key: ctx.ident()}
		if ctx.trySigil(T_EQ) {
			a.value = ctx.text()
		}
		ctx.listSeparator()
		a.span = ctx.spanFrom(start)
		out = append(out, a)
	}
	return out
}

func (ctx *parseCtx) constValue() *ConstValue {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	start := ctx.offset
	token := string(ctx.readToken())
	switch ctx.token.Kind {
	case T_INT_LIT, T_HEX_INT_LIT:
		lit := ctx.int()
		if lit == nil {
			return nil
		}
		return &ConstValue{span: lit.Span(), kind: ConstInt, raw: token, intVal: lit.Get()}
	case T_DOUBLE_LIT:
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			ctx.err = errDoubleLitInvalid(start, []byte(token))
			return nil
		}
		ctx.consumeToken()
		return &ConstValue{span: ctx.spanFrom(start), kind: ConstDouble, raw: token, doubleVal: value}
	case T_TEXT_LIT:
		lit := ctx.text()
		if lit == nil {
			return nil
		}
		return &ConstValue{span: lit.Span(), kind: ConstText, raw: lit.Get()}
	case T_IDENT:
		ctx.consumeToken()
		v := &ConstValue{span: ctx.spanFrom(start), kind: ConstIdent, raw: token}
		switch token {
		case "true":
			v.kind, v.intVal = ConstInt, 1
		case "false":
			v.kind, v.intVal = ConstInt, 0
		}
		return v
	case T_OPEN_SQUARE:
		ctx.consumeToken()
		v := &ConstValue{kind: ConstList}
		for range ctx.loop {
			if ctx.trySigil(T_CLOSE_SQUARE) {
				break
			}
			v.list = append(v.list, ctx.constValue())
			ctx.listSeparator()
		}
		v.span = ctx.spanFrom(start)
		return v
	case T_OPEN_CURL:
		ctx.consumeToken()
		v := &ConstValue{kind: ConstMap}
		for range ctx.loop {
			if ctx.trySigil(T_CLOSE_CURL) {
				break
			}
			entry := &ConstEntry{Key: ctx.constValue()}
			ctx.sigil(T_COLON)
			entry.Value = ctx.constValue()
			ctx.listSeparator()
			v.entries = append(v.entries, entry)
		}
		v.span = ctx.spanFrom(start)
		return v
	}
	ctx.err = errExpectedConstValue(ctx.token.Kind, token, ctx.tokenSpan())
	return nil
}
