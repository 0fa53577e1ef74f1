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

package main

import (
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/codegen/wire"
	"go.thriftc.dev/thriftc/compiler"
	"go.thriftc.dev/thriftc/internal/testutil"
)

func compileRequest(t *testing.T, params map[string]string) *wire.Request {
	t.Helper()
	fsys := fstest.MapFS{
		"main.thrift": {Data: []byte(`namespace js example
enum Level { LOW = 1 HIGH = 2 }
const Level DEFAULT = Level.HIGH
struct Task { 1: required string name }
`)},
	}
	result := compiler.Compile("main.thrift", compiler.WithFS(fsys))
	if result.Program() == nil {
		t.Fatalf("compile errors: %v", result.Errors)
	}
	t.Cleanup(result.Close)
	return codegen.BuildRequest("json", result.Program(), &codegen.Options{Params: params})
}

func TestGenerate(t *testing.T) {
	response, err := generate(compileRequest(t, nil))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "", response.Error)
	if len(response.Files) != 1 {
		t.Fatalf("expected one file, got %d", len(response.Files))
	}
	file := response.Files[0]
	testutil.ExpectSliceEq(t, []string{"main.json"}, file.Path)

	var doc struct {
		Name       string            `json:"name"`
		Namespaces map[string]string `json:"namespaces"`
		Enums      []struct {
			Name string `json:"name"`
		} `json:"enums"`
		Structs []struct {
			Name string `json:"name"`
		} `json:"structs"`
	}
	testutil.AssertNoError(t, json.Unmarshal(file.Content, &doc))
	testutil.ExpectEq(t, "main", doc.Name)
	testutil.ExpectEq(t, "example", doc.Namespaces["js"])
	if len(doc.Enums) != 1 || doc.Enums[0].Name != "Level" {
		t.Errorf("unexpected enums: %+v", doc.Enums)
	}
	if len(doc.Structs) != 1 || doc.Structs[0].Name != "Task" {
		t.Errorf("unexpected structs: %+v", doc.Structs)
	}
	testutil.ExpectTrue(t, strings.HasPrefix(string(file.Content), "{\n  \""))
}

func TestGenerateCompact(t *testing.T) {
	response, err := generate(compileRequest(t, map[string]string{"compact": ""}))
	testutil.AssertNoError(t, err)
	content := string(response.Files[0].Content)
	testutil.ExpectEq(t, 1, strings.Count(content, "\n"))
}

func TestGenerateErrors(t *testing.T) {
	for _, params := range []map[string]string{
		{"indent": "tabs"},
		{"indent": "9"},
		{"pretty": ""},
	} {
		response, err := generate(compileRequest(t, params))
		testutil.AssertError(t, err)
		testutil.ExpectEq(t, err.Error(), response.Error)
		testutil.ExpectEq(t, 0, len(response.Files))
	}

	_, err := generate(&wire.Request{})
	testutil.AssertError(t, err)
}
