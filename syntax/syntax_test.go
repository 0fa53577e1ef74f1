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

package syntax_test

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"testing"

	"go.thriftc.dev/thriftc/internal/testutil"
	"go.thriftc.dev/thriftc/syntax"
)

func syntaxSpecTest(t *testing.T, testName string) {
	t.Parallel()

	srcPath := fmt.Sprintf("syntax/%s/%s.thrift", testName, testName)
	src, err := fs.ReadFile(testdata, srcPath)
	testutil.AssertNoError(t, err)

	expectErr := fmt.Sprintf("syntax/%s/expect_err.json", testName)
	if _, err := fs.Stat(testdata, expectErr); err != nil {
		_, err := syntax.Parse(src)
		testutil.ExpectNoError(t, err)
		return
	}

	expectJSON, err := fs.ReadFile(testdata, expectErr)
	testutil.AssertNoError(t, err)

	var test struct {
		Error     string    `json:"error"`
		ErrorSpan [2]uint32 `json:"error_span"`
	}
	testutil.AssertNoError(t, json.Unmarshal(expectJSON, &test))

	diag, ok := syntaxDiags[test.Error]
	if !ok {
		t.Fatalf("unknown parse error name %q", test.Error)
	}

	_, err = syntax.Parse(src)
	testutil.AssertError(t, err)

	parseErr := err.(*syntax.Error)
	testutil.ExpectEq(t, diag.Code, parseErr.Code())
	diag.CheckMessage(t, parseErr.Message())

	expectSpan := syntax.NewSpan(test.ErrorSpan[0], test.ErrorSpan[1])
	testutil.ExpectEq(t, expectSpan, parseErr.Span())
}

func TestSyntax(t *testing.T) {
	t.Parallel()

	testDirs, err := fs.ReadDir(testdata, "syntax")
	testutil.AssertNoError(t, err)

	for _, testDir := range testDirs {
		if testDir.IsDir() {
			testName := testDir.Name()
			t.Run(testName, func(t *testing.T) {
				syntaxSpecTest(t, testName)
			})
		}
	}
}

func parseFull(t *testing.T) *syntax.Document {
	t.Helper()
	src, err := fs.ReadFile(testdata, "syntax/full/full.thrift")
	testutil.AssertNoError(t, err)
	doc, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)
	return doc
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()
	doc := parseFull(t)

	headers := doc.Headers()
	if len(headers) != 4 {
		t.Fatalf("expected 4 headers, got %d", len(headers))
	}

	testutil.ExpectEq(t, "shared.thrift", headers[0].(*syntax.Include).Path().Get())
	testutil.ExpectEq(t, "<vector>", headers[1].(*syntax.CppInclude).Path().Get())

	ns := headers[2].(*syntax.Namespace)
	testutil.ExpectEq(t, "go", ns.Scope())
	testutil.ExpectEq(t, "example.full", ns.Name())

	ns = headers[3].(*syntax.Namespace)
	testutil.ExpectEq(t, "*", ns.Scope())
	testutil.ExpectEq(t, "full", ns.Name())
}

func TestParseConsts(t *testing.T) {
	t.Parallel()
	doc := parseFull(t)

	consts := make(map[string]*syntax.Const)
	for _, def := range doc.Definitions() {
		if c, ok := def.(*syntax.Const); ok {
			consts[c.Name().Get()] = c
		}
	}

	answer := consts["ANSWER"]
	testutil.ExpectEq(t, "Answer to everything.", answer.Doc())
	testutil.ExpectEq(t, "i32", answer.Type().Name().Get())
	testutil.ExpectEq(t, syntax.ConstInt, answer.Value().Kind())
	testutil.ExpectEq(t, int64(42), answer.Value().Int())

	testutil.ExpectEq(t, syntax.ConstDouble, consts["PI"].Value().Kind())
	testutil.ExpectEq(t, 3.14, consts["PI"].Value().Double())
	testutil.ExpectEq(t, "", consts["PI"].Doc())

	testutil.ExpectEq(t, "hi\n", consts["GREETING"].Value().Text())

	names := consts["NAMES"].Value()
	testutil.ExpectEq(t, syntax.ConstList, names.Kind())
	testutil.ExpectEq(t, 2, len(names.List()))
	testutil.ExpectEq(t, "b", names.List()[1].Text())

	ages := consts["AGES"]
	testutil.ExpectTrue(t, ages.Type().IsContainer())
	testutil.ExpectEq(t, 2, len(ages.Type().Params()))
	entries := ages.Value().Map()
	testutil.ExpectEq(t, 2, len(entries))
	testutil.ExpectEq(t, "b", entries[1].Key.Text())
	testutil.ExpectEq(t, int64(16), entries[1].Value.Int())

	enabled := consts["ENABLED"].Value()
	testutil.ExpectEq(t, syntax.ConstInt, enabled.Kind())
	testutil.ExpectEq(t, int64(1), enabled.Int())
}

func TestParseTypedefAndEnum(t *testing.T) {
	t.Parallel()
	doc := parseFull(t)

	var td *syntax.Typedef
	var enum *syntax.Enum
	for _, def := range doc.Definitions() {
		switch def := def.(type) {
		case *syntax.Typedef:
			td = def
		case *syntax.Enum:
			enum = def
		}
	}

	testutil.ExpectEq(t, "ThingIndex", td.Name().Get())
	testutil.ExpectEq(t, "map", td.Type().Name().Get())
	inner := td.Type().Params()[1]
	testutil.ExpectEq(t, "list", inner.Name().Get())
	testutil.ExpectEq(t, "shared.Thing", inner.Params()[0].Name().Get())
	testutil.ExpectEq(t, 1, len(td.Annotations()))
	testutil.ExpectEq(t, "cpp.template", td.Annotations()[0].Key().Get())
	testutil.ExpectEq(t, "std::map", td.Annotations()[0].Value())

	values := enum.Values()
	testutil.ExpectEq(t, 3, len(values))
	testutil.ExpectTrue(t, values[0].Value() == nil)
	testutil.ExpectEq(t, int64(5), values[1].Value().Get())
	testutil.ExpectEq(t, "1", values[1].Annotations()[0].Value())
	testutil.ExpectEq(t, "Blue.", values[2].Doc())
}

func TestParseStructs(t *testing.T) {
	t.Parallel()
	doc := parseFull(t)

	var structs []*syntax.Struct
	for _, def := range doc.Definitions() {
		if s, ok := def.(*syntax.Struct); ok {
			structs = append(structs, s)
		}
	}
	testutil.ExpectEq(t, 3, len(structs))

	point := structs[0]
	testutil.ExpectEq(t, syntax.KindStruct, point.Kind())
	testutil.ExpectEq(t, "final", point.Annotations()[0].Key().Get())

	fields := point.Fields()
	testutil.ExpectEq(t, 3, len(fields))
	testutil.ExpectEq(t, syntax.ReqRequired, fields[0].Requiredness())
	testutil.ExpectEq(t, syntax.ConstDouble, fields[0].Default().Kind())
	testutil.ExpectEq(t, syntax.ReqOptional, fields[1].Requiredness())
	testutil.ExpectEq(t, int64(2), fields[1].ID().Get())
	testutil.ExpectTrue(t, fields[2].ID() == nil)
	testutil.ExpectEq(t, syntax.ReqDefault, fields[2].Requiredness())

	testutil.ExpectEq(t, syntax.KindUnion, structs[1].Kind())
	testutil.ExpectEq(t, "union", structs[1].Kind().String())
	testutil.ExpectEq(t, syntax.KindException, structs[2].Kind())
}

func TestParseService(t *testing.T) {
	t.Parallel()
	doc := parseFull(t)

	defs := doc.Definitions()
	svc := defs[len(defs)-1].(*syntax.Service)
	testutil.ExpectEq(t, "Geometry", svc.Name().Get())
	testutil.ExpectEq(t, "shared.Base", svc.Extends().Get())

	fns := svc.Functions()
	testutil.ExpectEq(t, 3, len(fns))
	testutil.ExpectEq(t, "origin", fns[0].Name().Get())
	testutil.ExpectEq(t, 0, len(fns[0].Args()))

	testutil.ExpectTrue(t, fns[1].Oneway())
	testutil.ExpectEq(t, "void", fns[1].Returns().Name().Get())

	testutil.ExpectEq(t, 2, len(fns[2].Args()))
	testutil.ExpectEq(t, "err", fns[2].Throws()[0].Name().Get())
	testutil.ExpectEq(t, "NotFound", fns[2].Throws()[0].Type().Name().Get())
}

func TestParseSpans(t *testing.T) {
	t.Parallel()

	src := []byte("const i32 X = 1\ntypedef i64 Id\n")
	doc, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)

	defs := doc.Definitions()
	testutil.ExpectEq(t, syntax.NewSpan(0, 15), defs[0].Span())
	testutil.ExpectEq(t, syntax.NewSpan(16, 14), defs[1].Span())
	testutil.ExpectEq(t, syntax.NewSpan(10, 1), defs[0].Name().Span())
}

func TestParseWithoutDocComments(t *testing.T) {
	t.Parallel()

	src := []byte("/** doc */\nconst i32 X = 1\n")
	doc, err := syntax.Parse(src, syntax.KeepDocComments(false))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "", doc.Definitions()[0].Doc())

	doc, err = syntax.Parse(src)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "doc", doc.Definitions()[0].Doc())
}

func TestParseConstValue(t *testing.T) {
	t.Parallel()

	opts := syntax.NewParseOptions()
	tests := []struct {
		src  string
		kind syntax.ConstValueKind
	}{
		{"-0x10", syntax.ConstInt},
		{"1e3", syntax.ConstDouble},
		{"Color.RED", syntax.ConstIdent},
		{"[1, [2], {}]", syntax.ConstList},
		{"{1: 'a'; 2: 'b'}", syntax.ConstMap},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			value, err := opts.ParseConstValue([]byte(test.src))
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, test.kind, value.Kind())
		})
	}

	value, err := opts.ParseConstValue([]byte("-0x10"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int64(-16), value.Int())

	_, err = opts.ParseConstValue([]byte("1 2"))
	testutil.ExpectErrorCode(t, syntaxDiags["EXPECTED_DEFINITION"].Code, err)
}
