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

package js_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/codegen/js"
	"go.thriftc.dev/thriftc/compiler"
	"go.thriftc.dev/thriftc/internal/testutil"
	"go.thriftc.dev/thriftc/model"
)

var testdata fs.FS

func init() {
	var err error
	testdata, err = testutil.TestdataFS()
	if err != nil {
		panic(err)
	}
}

func compileCase(t *testing.T, testName string) *model.Program {
	t.Helper()
	fsys, err := fs.Sub(testdata, "codegen/js/"+testName)
	testutil.AssertNoError(t, err)
	result := compiler.Compile("main.thrift", compiler.WithFS(fsys))
	if result.Program() == nil {
		t.Fatalf("compile errors: %v", result.Errors)
	}
	t.Cleanup(result.Close)
	return result.Program()
}

func outputsByName(files []codegen.OutputFile) map[string]string {
	out := make(map[string]string, len(files))
	for _, file := range files {
		out[strings.Join(file.Path, "/")] = string(file.Content)
	}
	return out
}

func TestGolden(t *testing.T) {
	t.Parallel()
	program := compileCase(t, "basic")

	opts := &codegen.Options{Params: map[string]string{
		"ts":                              "",
		"thrift_package_output_directory": "gen/",
	}}
	files, err := js.Generator{}.Generate(context.Background(), program, opts)
	testutil.AssertNoError(t, err)

	var names []string
	for _, file := range files {
		names = append(names, strings.Join(file.Path, "/"))
	}
	testutil.ExpectSliceEq(t, []string{
		"main_types.js",
		"main_types.d.ts",
		"Items.js",
		"thrift.js.episode",
	}, names)

	got := outputsByName(files)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			want, err := fs.ReadFile(testdata, "codegen/js/basic/"+name+".golden")
			testutil.AssertNoError(t, err)
			testutil.ExpectNoDiff(t, string(want), got[name])
		})
	}
}

func TestEpisodeImports(t *testing.T) {
	t.Parallel()
	program := compileCase(t, "basic")

	fsys := fstest.MapFS{
		"node_modules/shared/thrift.js.episode": {
			Data: []byte("shared_types:lib/shared_types\n"),
		},
	}
	opts := &codegen.Options{
		Params: map[string]string{"imports": "node_modules/shared"},
		FS:     fsys,
	}
	files, err := js.Generator{}.Generate(context.Background(), program, opts)
	testutil.AssertNoError(t, err)

	got := outputsByName(files)
	types := got["main_types.js"]
	testutil.ExpectTrue(t, strings.Contains(
		types,
		"const shared_ttypes = require('shared/lib/shared_types');\n",
	))
	_, hasEpisode := got["thrift.js.episode"]
	testutil.ExpectFalse(t, hasEpisode)
	_, hasTS := got["main_types.d.ts"]
	testutil.ExpectFalse(t, hasTS)
}

func TestParamErrors(t *testing.T) {
	t.Parallel()
	program := compileCase(t, "basic")
	ctx := context.Background()

	tests := []struct {
		name string
		opts *codegen.Options
		code uint32
	}{
		{
			name: "unknown parameter",
			opts: &codegen.Options{Params: map[string]string{"es6": ""}},
			code: 6007,
		},
		{
			name: "bad ts value",
			opts: &codegen.Options{Params: map[string]string{"ts": "maybe"}},
			code: 6007,
		},
		{
			name: "empty package output directory",
			opts: &codegen.Options{Params: map[string]string{"thrift_package_output_directory": "/"}},
			code: 5004,
		},
		{
			name: "empty import path",
			opts: &codegen.Options{
				Params: map[string]string{"imports": "a::b"},
				FS:     fstest.MapFS{},
			},
			code: 5004,
		},
		{
			name: "missing episode file",
			opts: &codegen.Options{
				Params: map[string]string{"imports": "node_modules/absent"},
				FS:     fstest.MapFS{},
			},
			code: 5005,
		},
		{
			name: "imports when recursive",
			opts: &codegen.Options{
				Params:    map[string]string{"imports": "a"},
				Recursive: true,
			},
			code: 6007,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := js.Generator{}.Generate(ctx, program, test.opts)
			testutil.ExpectErrorCode(t, test.code, err)
		})
	}
}

func TestRegistered(t *testing.T) {
	t.Parallel()
	gen, err := codegen.Lookup(js.Name)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, js.Name, gen.Name())
}

func TestConstValues(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"main.thrift": {Data: []byte(`struct Point {
  1: i32 x
  2: i32 y
}

const Point ORIGIN = {"x": 0, "y": 1}
const i64 HUGE = 9007199254740993
const i64 NEGATIVE = -9007199254740993
const bool YES = true
const double HALF = 0.5
const set<string> TAGS = ["a\nb"]
const map<i64, string> BY_ID = {1: "one"}
`)},
	}
	result := compiler.Compile("main.thrift", compiler.WithFS(fsys))
	if result.Program() == nil {
		t.Fatalf("compile errors: %v", result.Errors)
	}
	defer result.Close()

	files, err := js.Generator{}.Generate(context.Background(), result.Program(), nil)
	testutil.AssertNoError(t, err)
	types := outputsByName(files)["main_types.js"]

	for _, want := range []string{
		"ttypes.ORIGIN = new Point({\n  'x' : 0,\n  'y' : 1\n});\n",
		"ttypes.HUGE = new Int64('20000000000001');\n",
		"ttypes.NEGATIVE = new Int64('ffdfffffffffffff');\n",
		"ttypes.YES = true;\n",
		"ttypes.HALF = 0.5;\n",
		"ttypes.TAGS = ['a\\nb'];\n",
		"ttypes.BY_ID = {\n  \"1\" : 'one'\n};\n",
	} {
		if !strings.Contains(types, want) {
			t.Errorf("output does not contain %q:\n%s", want, types)
		}
	}
}
