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

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.thriftc.dev/thriftc/internal/config"
	"go.thriftc.dev/thriftc/internal/testutil"
)

const fullConfig = `
include_dirs = ["idl", "/opt/thrift"]
max_resolve_passes = 4
min_version = "0.2"
output_dir = "gen"

[gen.js]
ts = true
package_output_dir = "pkg/"
imports = ["node_modules/shared"]
`

func TestDecode(t *testing.T) {
	t.Parallel()
	cfg, err := config.Decode([]byte(fullConfig), "thriftc.toml", "0.3.0")
	testutil.AssertNoError(t, err)

	testutil.ExpectSliceEq(t, []string{"idl", "/opt/thrift"}, cfg.IncludeDirs)
	testutil.ExpectEq(t, 4, cfg.MaxResolvePasses)
	testutil.ExpectEq(t, "0.2", cfg.MinVersion)
	testutil.ExpectTrue(t, cfg.Gen.JS.TS)
	testutil.ExpectEq(t, "pkg/", cfg.Gen.JS.PackageOutputDir)
	testutil.ExpectSliceEq(t, []string{"node_modules/shared"}, cfg.Gen.JS.Imports)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `include_dirs = [`, "failed to parse TOML"},
		{"unknown key", "include_dir = []\n[gen.js]\nes6 = true\n", "unknown keys: gen.js.es6, include_dir"},
		{"negative passes", `max_resolve_passes = -1`, "max_resolve_passes must not be negative"},
		{"version too old", `min_version = "1.0"`, "does not satisfy min_version"},
		{"bad constraint", `min_version = "soon"`, "invalid min_version"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := config.Decode([]byte(test.src), "thriftc.toml", "0.3.0")
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not contain %q", err, test.want)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		minVersion string
		version    string
		ok         bool
	}{
		{"", "0.1.0", true},
		{"0.3", "0.3.0", true},
		{"0.3.1", "0.3.0", false},
		{">= 0.2, < 0.4", "0.3.0", true},
		{">= 0.2, < 0.3", "0.3.0", false},
		{"~0.3", "0.3.7", true},
		{"^1", "0.3.0", false},
	}
	for _, test := range tests {
		err := config.CheckVersion(test.minVersion, test.version)
		if test.ok && err != nil {
			t.Errorf("CheckVersion(%q, %q): unexpected error: %v", test.minVersion, test.version, err)
		}
		if !test.ok && err == nil {
			t.Errorf("CheckVersion(%q, %q): expected error", test.minVersion, test.version)
		}
	}
}

func TestParams(t *testing.T) {
	t.Parallel()
	cfg, err := config.Decode([]byte(fullConfig), "thriftc.toml", "0.3.0")
	testutil.AssertNoError(t, err)
	cfg.Path = filepath.Join("project", config.FileName)

	params := cfg.Params("js")
	testutil.ExpectEq(t, 3, len(params))
	testutil.ExpectEq(t, "true", params["ts"])
	testutil.ExpectEq(t, "pkg/", params["thrift_package_output_directory"])
	testutil.ExpectEq(t, "project/node_modules/shared", params["imports"])

	testutil.ExpectEq(t, 0, len(cfg.Params("py")))

	testutil.ExpectSliceEq(t, []string{
		filepath.Join("project", "idl"),
		filepath.FromSlash("/opt/thrift"),
	}, cfg.IncludePaths())
	testutil.ExpectEq(t, filepath.Join("project", "gen"), cfg.Output())
}

func TestFindAndLoad(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	nested := filepath.Join(root, "idl", "v1")
	testutil.AssertNoError(t, os.MkdirAll(nested, 0o777))

	_, found, err := config.Find(nested)
	testutil.AssertNoError(t, err)
	if found {
		t.Skip("a thriftc.toml exists above the temporary directory")
	}

	path := filepath.Join(root, config.FileName)
	testutil.AssertNoError(t, os.WriteFile(path, []byte(fullConfig), 0o666))

	got, found, err := config.Find(nested)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, found)
	testutil.ExpectEq(t, path, got)

	cfg, err := config.Load(got, "0.3.0")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, path, cfg.Path)
	testutil.ExpectEq(t, root, cfg.Root())
}
