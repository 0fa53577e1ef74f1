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
	"path/filepath"
	"testing"

	"go.thriftc.dev/thriftc/internal/testutil"
)

func TestRelativeTo(t *testing.T) {
	dir := filepath.FromSlash("/work/module")
	testutil.ExpectEq(t, filepath.Join(dir, "out", "p.wasm"), relativeTo(dir, filepath.FromSlash("out/p.wasm")))
	testutil.ExpectEq(t, dir, relativeTo(dir, ""))

	abs := filepath.Join(t.TempDir(), "p.wasm")
	testutil.ExpectEq(t, abs, relativeTo(dir, abs))
}
