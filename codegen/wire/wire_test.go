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

package wire_test

import (
	"testing"

	"go.thriftc.dev/thriftc/codegen/wire"
	"go.thriftc.dev/thriftc/internal/testutil"
)

func TestFrame(t *testing.T) {
	t.Parallel()
	buf, err := wire.Marshal(&wire.Response{Error: "boom"})
	testutil.AssertNoError(t, err)

	// Trailing bytes past the frame are ignored.
	buf = append(buf, 0xFF, 0xFF)
	var resp wire.Response
	testutil.AssertNoError(t, wire.Unmarshal(buf, &resp))
	testutil.ExpectEq(t, "boom", resp.Error)

	_, err = wire.Frame([]byte{1, 0})
	testutil.AssertError(t, err)
	_, err = wire.Frame([]byte{8, 0, 0, 0, 1})
	testutil.AssertError(t, err)
}
