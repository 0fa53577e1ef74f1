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

package codegen_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/internal/testutil"
)

// buildJSONPlugin compiles bin/thriftc-codegen-json to a wasip1 reactor
// with the module's build helper.
func buildJSONPlugin(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds a WebAssembly plugin")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not found in $PATH")
	}
	moduleRoot, err := filepath.Abs("..")
	testutil.AssertNoError(t, err)

	pluginPath := filepath.Join(t.TempDir(), "thriftc-codegen-json.wasm")
	cmd := exec.CommandContext(
		t.Context(), goBin, "run", "./internal/build",
		"-o", pluginPath,
		"./bin/thriftc-codegen-json",
	)
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building plugin: %v\n%s", err, out)
	}
	return pluginPath
}

func TestPluginRoundTrip(t *testing.T) {
	pluginPath := buildJSONPlugin(t)
	ctx := t.Context()
	result := compileSources(t, testSources)

	located, err := codegen.LocatePlugin("json", filepath.Dir(pluginPath))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, pluginPath, located)

	plugin, err := codegen.LoadPlugin("json", located)
	testutil.AssertNoError(t, err)
	defer plugin.Close(ctx)

	files, err := plugin.Generate(ctx, result.Program(), nil)
	testutil.AssertNoError(t, err)
	if len(files) != 1 {
		t.Fatalf("expected one output file, got %d", len(files))
	}
	testutil.ExpectSliceEq(t, []string{"main.json"}, files[0].Path)

	var doc struct {
		Name       string            `json:"name"`
		Includes   []string          `json:"includes"`
		Namespaces map[string]string `json:"namespaces"`
		Services   []struct {
			Name string `json:"name"`
		} `json:"services"`
	}
	testutil.AssertNoError(t, json.Unmarshal(files[0].Content, &doc))
	testutil.ExpectEq(t, "main", doc.Name)
	testutil.ExpectEq(t, "example", doc.Namespaces["js"])
	testutil.ExpectSliceEq(t, []string{"shared"}, doc.Includes)
	if len(doc.Services) != 1 || doc.Services[0].Name != "Tasks" {
		t.Errorf("unexpected services: %+v", doc.Services)
	}

	// The compilation cache is reused, and a plugin-side failure comes back
	// as the response error.
	opts := &codegen.Options{Params: map[string]string{"pretty": ""}}
	_, err = plugin.Generate(ctx, result.Program(), opts)
	testutil.ExpectErrorCode(t, 6004, err)

	// Output through GenerateAll is written like any built-in generator's.
	results, err := codegen.GenerateAll(ctx, result.Programs(), plugin, nil, 0)
	testutil.AssertNoError(t, err)
	outDir := t.TempDir()
	for _, r := range results {
		testutil.AssertNoError(t, codegen.WriteFiles(outDir, r.Files))
	}
	for _, name := range []string{"main.json", "shared.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
}
