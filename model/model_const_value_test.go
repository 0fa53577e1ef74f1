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
	"testing"

	"go.thriftc.dev/thriftc/internal/testutil"
	"go.thriftc.dev/thriftc/model"
)

func TestConstMapOrdering(t *testing.T) {
	m := model.NewMap()
	m.AddMap(model.NewString("b"), model.NewInteger(2))
	m.AddMap(model.NewInteger(10), model.NewInteger(3))
	m.AddMap(model.NewString("a"), model.NewInteger(1))
	m.AddMap(model.NewInteger(-1), model.NewInteger(4))
	m.AddMap(model.NewString("b"), model.NewInteger(5))

	testutil.ExpectEq(t, `{-1: 4, 10: 3, "a": 1, "b": 5}`, m.String())
	testutil.ExpectEq(t, 4, len(m.Map()))

	_, found := m.MapValue(model.NewString("c"))
	testutil.ExpectFalse(t, found)
}

func TestConstMapResort(t *testing.T) {
	m := model.NewMap()
	m.AddMap(model.NewInteger(1), model.NewString("a"))
	m.AddMap(model.NewDouble(0.5), model.NewString("c"))
	m.AddMap(model.NewDouble(1), model.NewString("b"))
	testutil.ExpectEq(t, `{1: "a", 0.5: "c", 1: "b"}`, m.String())

	m.Map()[0].Key.SetDouble(1)
	m.Resort()
	testutil.ExpectEq(t, `{0.5: "c", 1: "b"}`, m.String())

	v, found := m.MapValue(model.NewDouble(1))
	testutil.ExpectTrue(t, found)
	testutil.ExpectEq(t, "b", v.Str())
}

func TestConstCompare(t *testing.T) {
	testutil.ExpectEq(t, -1, model.Compare(model.NewInteger(1), model.NewDouble(0)))
	testutil.ExpectEq(t, 0, model.Compare(model.NewString("x"), model.NewString("x")))
	testutil.ExpectEq(t, 1, model.Compare(
		model.NewList(model.NewInteger(1), model.NewInteger(3)),
		model.NewList(model.NewInteger(1), model.NewInteger(2)),
	))
	testutil.ExpectEq(t, -1, model.Compare(
		model.NewList(model.NewInteger(1)),
		model.NewList(model.NewInteger(1), model.NewInteger(0)),
	))
}

func TestConstClone(t *testing.T) {
	inner := model.NewMap()
	inner.AddMap(model.NewString("k"), model.NewList(model.NewInteger(1)))
	orig := model.NewList(inner, model.NewDouble(1.5))

	clone := orig.Clone()
	testutil.ExpectEq(t, orig.String(), clone.String())

	clone.List()[0].Map()[0].Value.AddList(model.NewInteger(2))
	clone.List()[1].SetString("changed")
	testutil.ExpectEq(t, `[{"k": [1]}, 1.5]`, orig.String())
	testutil.ExpectEq(t, `[{"k": [1, 2]}, "changed"]`, clone.String())
}

func TestConstHasUnresolved(t *testing.T) {
	p := model.NewProgram("unresolved.thrift")
	color := declareColor(t, p)

	v := model.NewList(model.NewInteger(1), model.NewIdentifier("X"))
	testutil.ExpectTrue(t, v.HasUnresolved())

	v.List()[1].SetEnum(color)
	testutil.ExpectFalse(t, v.HasUnresolved())
}

func TestConstNumericAccessors(t *testing.T) {
	d := model.NewDouble(2.75)
	testutil.ExpectEq(t, int64(2), d.Int())
	testutil.ExpectEq(t, 2.75, d.Float())

	i := model.NewInteger(3)
	testutil.ExpectEq(t, 3.0, i.Float())
}
