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

package model_test

import (
	"fmt"
	"testing"

	"go.thriftc.dev/thriftc/internal/testutil"
	"go.thriftc.dev/thriftc/model"
)

func TestTypedefChain(t *testing.T) {
	for _, depth := range []int{1, 2, 5, 64} {
		t.Run(fmt.Sprintf("depth=%d", depth), func(t *testing.T) {
			p := model.NewProgram("chain.thrift")
			var cur model.Type = model.TypeI64
			for ii := range depth {
				cur = model.NewTypedef(p, fmt.Sprintf("T%d", ii), cur)
			}
			got, err := model.TrueType(cur)
			testutil.AssertNoError(t, err)
			testutil.ExpectEq[model.Type](t, model.TypeI64, got)
		})
	}
}

func TestForwardTypedef(t *testing.T) {
	p := model.NewProgram("fwd.thrift")
	fwd := model.NewForwardTypedef(p, "Later")
	testutil.ExpectTrue(t, fwd.IsForward())
	testutil.ExpectEq(t, "Later", fwd.Symbolic())
	testutil.ExpectFalse(t, fwd.TypeExists())

	_, err := fwd.Type()
	testutil.ExpectErrorIs(t, err, model.ErrTypeNotFound)
	modelErr := err.(*model.Error)
	testutil.ExpectEq(t, "Later", modelErr.Name())
	testutil.ExpectEq(t, p, modelErr.Program())

	later := declareStruct(t, p, "Later")
	testutil.ExpectTrue(t, fwd.TypeExists())
	got, err := fwd.Type()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq[model.Type](t, later, got)
}

func TestForwardTypedefThroughScope(t *testing.T) {
	p := model.NewProgram("fwd.thrift")
	alias := model.NewTypedef(p, "Id", model.NewForwardTypedef(p, "RawId"))
	raw := model.NewTypedef(p, "RawId", model.TypeString)
	testutil.AssertNoError(t, p.Scope().AddType("RawId", raw, model.Root))

	got, err := model.TrueType(alias)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq[model.Type](t, model.TypeString, got)
}

func TestCircularTypedef(t *testing.T) {
	p := model.NewProgram("loop.thrift")
	a := model.NewForwardTypedef(p, "A")
	testutil.AssertNoError(t, p.Scope().AddType("A", a, model.Root))

	_, err := model.TrueType(a)
	testutil.ExpectErrorIs(t, err, model.ErrCircularTypedef)

	_, err = p.Scope().ResolveConstValue(model.NewInteger(1), a, model.ResolveMode{})
	testutil.ExpectErrorIs(t, err, model.ErrCircularTypedef)
}

func TestLookupBaseType(t *testing.T) {
	byteType, ok := model.LookupBaseType("byte")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, model.TypeI8, byteType)
	testutil.ExpectTrue(t, byteType.IsIntegral())

	str, _ := model.LookupBaseType("string")
	testutil.ExpectFalse(t, str.IsIntegral())

	_, ok = model.LookupBaseType("i128")
	testutil.ExpectFalse(t, ok)
}
