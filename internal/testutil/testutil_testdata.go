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

package testutil

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"testing"
)

// TestdataFS returns the repository's top-level testdata directory.
func TestdataFS() (fs.FS, error) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("testutil: can't locate source directory")
	}
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	return os.DirFS(root), nil
}

// Diagnostic is a named error or warning code listed in
// testdata/diagnostics.
type Diagnostic struct {
	Key     string
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

// LoadDiagnostics reads a name -> {code, message, message_pattern} table.
// Keys starting with "_" reserve a code without naming a diagnostic.
func LoadDiagnostics(testdata fs.FS, jsonPath string) (map[string]*Diagnostic, error) {
	type raw struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		return nil, err
	}

	var rawDiags map[string]raw
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawDiags); err != nil {
		return nil, fmt.Errorf("%s: %w", jsonPath, err)
	}

	out := make(map[string]*Diagnostic, len(rawDiags))
	codes := make(map[uint32]string, len(rawDiags))
	for _, key := range slices.Sorted(maps.Keys(rawDiags)) {
		raw := rawDiags[key]
		if raw.Code == 0 {
			if key[0] == '_' {
				continue
			}
			return nil, fmt.Errorf("%s: %q has no code", jsonPath, key)
		}
		if other, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("%s: %q and %q share code %d", jsonPath, other, key, raw.Code)
		}
		codes[raw.Code] = key
		if key[0] == '_' {
			continue
		}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile("(?i)" + raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			Key:     key,
			Code:    raw.Code,
			Message: raw.Message,
			Pattern: pattern,
		}
	}
	return out, nil
}

// ExpectedDiagnostic is one entry of an expect_err.json or expect_warn.json
// file.
type ExpectedDiagnostic struct {
	Diagnostic
	File string
}

// LoadExpected reads the entries listed under field ("errors" or
// "warnings"), ordered by file and code.
func LoadExpected(
	t *testing.T,
	diags map[string]*Diagnostic,
	testdata fs.FS,
	jsonPath string,
	field string,
) []*ExpectedDiagnostic {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	type entry struct {
		Error   string `json:"error"`
		Warning string `json:"warning"`
		File    string `json:"file"`
	}
	var raw map[string][]entry
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		t.Fatalf("%s: %v", jsonPath, err)
	}

	var out []*ExpectedDiagnostic
	for _, e := range raw[field] {
		name := cmp.Or(e.Error, e.Warning)
		diag, ok := diags[name]
		if !ok {
			t.Fatalf("%s: unknown diagnostic name %q", jsonPath, name)
		}
		out = append(out, &ExpectedDiagnostic{Diagnostic: *diag, File: e.File})
	}
	slices.SortStableFunc(out, func(a, b *ExpectedDiagnostic) int {
		if c := cmp.Compare(a.File, b.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return out
}

// CheckMessage compares a diagnostic message against the expected literal
// message or pattern, whichever is set.
func (d *Diagnostic) CheckMessage(t *testing.T, got string) {
	t.Helper()
	if d.Pattern != nil {
		ExpectMatch(t, d.Pattern, got)
	} else if d.Message != "" {
		ExpectEq(t, d.Message, got)
	}
}
