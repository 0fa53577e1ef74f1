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

func declareConst(t *testing.T, p *model.Program, name string, typ model.Type, v *model.ConstValue) *model.Const {
	t.Helper()
	c := model.NewConst(p, name, typ, v)
	p.AddConst(c)
	testutil.AssertNoError(t, p.Scope().AddConstant(name, c, model.Root))
	return c
}

func declareStruct(t *testing.T, p *model.Program, name string, fields ...*model.Field) *model.Struct {
	t.Helper()
	s := model.NewStruct(p, name)
	for _, f := range fields {
		s.AddField(f)
	}
	p.AddStruct(s)
	testutil.AssertNoError(t, p.Scope().AddType(name, s, model.Root))
	return s
}

func declareColor(t *testing.T, p *model.Program) *model.Enum {
	t.Helper()
	e := model.NewEnum(p, "Color")
	e.AddValue("RED", 0)
	e.AddValue("GREEN", 1)
	p.AddEnum(e)
	testutil.AssertNoError(t, p.Scope().AddType("Color", e, model.Root))
	return e
}

var strict = model.ResolveMode{Strict: true}

func TestScopeLookupIsSideEffectFree(t *testing.T) {
	s := model.NewScope()

	_, ok := s.LookupType("Missing")
	testutil.ExpectFalse(t, ok)
	_, ok = s.LookupConstant("Missing")
	testutil.ExpectFalse(t, ok)
	_, ok = s.LookupService("Missing")
	testutil.ExpectFalse(t, ok)

	types, consts, services := s.Len()
	testutil.ExpectEq(t, 0, types)
	testutil.ExpectEq(t, 0, consts)
	testutil.ExpectEq(t, 0, services)
}

func TestScopeDuplicateConstant(t *testing.T) {
	p := model.NewProgram("dupe.thrift")
	first := model.NewConst(p, "X", model.TypeI32, model.NewInteger(1))
	second := model.NewConst(p, "X", model.TypeI32, model.NewInteger(2))

	testutil.AssertNoError(t, p.Scope().AddConstant("X", first, model.Root))
	err := p.Scope().AddConstant("X", second, model.Root)
	testutil.AssertError(t, err)
	testutil.ExpectErrorIs(t, err, model.ErrDuplicateName)
	testutil.ExpectEq(t, "Enum X is already defined!", err.(*model.Error).Message())

	got, _ := p.Scope().LookupConstant("X")
	testutil.ExpectEq(t, first, got)

	err = p.Scope().AddConstant("X", second, model.Root|model.Overwrite)
	testutil.AssertNoError(t, err)
	got, _ = p.Scope().LookupConstant("X")
	testutil.ExpectEq(t, second, got)
}

func TestScopeDuplicateTypeAndService(t *testing.T) {
	p := model.NewProgram("dupe.thrift")
	s := p.Scope()

	testutil.AssertNoError(t, s.AddType("T", model.NewStruct(p, "T"), model.Root))
	testutil.ExpectErrorIs(t, s.AddType("T", model.NewEnum(p, "T"), model.Root), model.ErrDuplicateName)

	svc := model.NewService(p, "Svc", nil)
	testutil.AssertNoError(t, s.AddService("Svc", svc, model.Root))
	testutil.ExpectErrorIs(t, s.AddService("Svc", svc, 0), model.ErrDuplicateName)
	testutil.ExpectNoError(t, s.AddService("Svc", svc, model.Overwrite))
}

func TestScopeIsRoot(t *testing.T) {
	inc := model.NewProgram("inc.thrift")
	st := declareStruct(t, inc, "Thing")

	p := model.NewProgram("main.thrift")
	testutil.AssertNoError(t, p.Scope().AddType("inc.Thing", st, 0))

	testutil.ExpectTrue(t, inc.Scope().IsRoot("Thing"))
	testutil.ExpectFalse(t, p.Scope().IsRoot("inc.Thing"))
	testutil.ExpectSliceEq(t, []string{"inc.Thing"}, p.Scope().TypeNames())
}

func TestResolveAllConstsIdempotent(t *testing.T) {
	p := model.NewProgram("idem.thrift")
	color := declareColor(t, p)
	declareConst(t, p, "A", model.TypeI32, model.NewInteger(7))
	declareConst(t, p, "B", model.TypeI32, model.NewIdentifier("A"))
	declareConst(t, p, "C", color, model.NewInteger(1))
	declareConst(t, p, "D", model.NewListType(model.TypeI32), model.NewList(
		model.NewIdentifier("A"),
		model.NewInteger(3),
	))

	ok, err := p.Scope().ResolveAllConsts(strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)

	snapshot := func() []string {
		var out []string
		for _, c := range p.Consts() {
			out = append(out, c.Name()+"="+c.Value().String())
		}
		return out
	}
	before := snapshot()
	testutil.ExpectSliceEq(t, []string{"A=7", "B=7", "C=Color.GREEN", "D=[7, 3]"}, before)

	ok, err = p.Scope().ResolveAllConsts(strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectSliceEq(t, before, snapshot())
}

func TestLazyRetryConvergence(t *testing.T) {
	p := model.NewProgram("lazy.thrift")
	a := declareConst(t, p, "A", model.TypeI32, model.NewIdentifier("B"))

	ok, err := p.Scope().ResolveAllConsts(model.ResolveMode{})
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, ok)
	testutil.ExpectFalse(t, a.Resolved())
	testutil.ExpectEq(t, model.ConstIdentifier, a.Value().Kind())

	p.Scope().AddLazyConstant("A", p)
	declareConst(t, p, "B", model.TypeI32, model.NewInteger(42))

	programs := p.Scope().ResolveLazyConsts()
	testutil.ExpectEq(t, 1, len(programs))
	testutil.ExpectEq(t, p, programs[0])
	testutil.ExpectEq(t, 0, len(p.Scope().ResolveLazyConsts()))

	ok, err = programs[0].Scope().ResolveAllConsts(model.ResolveMode{})
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectTrue(t, a.Resolved())
	testutil.ExpectEq(t, model.ConstInteger, a.Value().Kind())
	testutil.ExpectEq(t, int64(42), a.Value().Int())
}

func TestLazyAcrossPrograms(t *testing.T) {
	other := model.NewProgram("other.thrift")
	b := declareConst(t, other, "B", model.TypeString, model.NewString("hello"))

	p := model.NewProgram("main.thrift")
	testutil.AssertNoError(t, p.Scope().AddConstant("other.B", b, 0))
	a := declareConst(t, p, "A", model.TypeString, model.NewIdentifier("other.B"))

	ok, err := p.Scope().ResolveConst(a, model.ResolveMode{LocalOnly: true})
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, ok)

	ok, err = p.Scope().ResolveAllConsts(model.ResolveMode{})
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "hello", a.Value().Str())
	testutil.ExpectTrue(t, b.Resolved())
}

func TestLocalOnlyStopsAtQualifiedTypedef(t *testing.T) {
	p := model.NewProgram("main.thrift")
	fwd := model.NewForwardTypedef(p, "other.Thing")
	v := model.NewMap()

	ok, err := p.Scope().ResolveConstValue(v, fwd, model.ResolveMode{LocalOnly: true, Strict: true})
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, ok)

	_, err = p.Scope().ResolveConstValue(v, fwd, strict)
	testutil.ExpectErrorIs(t, err, model.ErrTypeNotFound)
}

func TestStructLiteralFields(t *testing.T) {
	p := model.NewProgram("point.thrift")
	point := declareStruct(t, p, "Point",
		&model.Field{Key: 1, Name: "x", Type: model.TypeI32},
		&model.Field{Key: 2, Name: "y", Type: model.TypeI32},
	)
	declareConst(t, p, "ORIGIN_Y", model.TypeI32, model.NewInteger(-3))

	bad := model.NewMap()
	bad.AddMap(model.NewString("fieldX"), model.NewInteger(5))

	ok, err := p.Scope().ResolveConstValue(bad, point, strict)
	testutil.ExpectFalse(t, ok)
	testutil.ExpectErrorIs(t, err, model.ErrNoSuchField)
	testutil.ExpectEq(t, `No field named "fieldX" was found in struct of type "Point"`, err.(*model.Error).Message())

	ok, err = p.Scope().ResolveConstValue(bad, point, model.ResolveMode{})
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, ok)

	good := model.NewMap()
	good.AddMap(model.NewString("x"), model.NewInteger(5))
	good.AddMap(model.NewString("y"), model.NewIdentifier("ORIGIN_Y"))
	ok, err = p.Scope().ResolveConstValue(good, point, strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, `{"x": 5, "y": -3}`, good.String())
}

func TestEnumRawValue(t *testing.T) {
	p := model.NewProgram("color.thrift")
	color := declareColor(t, p)

	v := model.NewInteger(1)
	ok, err := p.Scope().ResolveConstValue(v, color, model.ResolveMode{})
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, model.ConstIdentifier, v.Kind())
	testutil.ExpectEq(t, "Color.GREEN", v.Identifier())
	testutil.ExpectEq(t, color, v.Enum())

	missing := model.NewInteger(5)
	_, err = p.Scope().ResolveConstValue(missing, color, model.ResolveMode{})
	testutil.ExpectErrorIs(t, err, model.ErrNoEnumValue)

	text := model.NewString("GREEN")
	_, err = p.Scope().ResolveConstValue(text, color, model.ResolveMode{})
	testutil.ExpectErrorIs(t, err, model.ErrTypeMismatch)

	ident := model.NewIdentifier("Color.RED")
	ok, err = p.Scope().ResolveConstValue(ident, color, strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, color, ident.Enum())
}

func TestMapKeysResortedAfterResolution(t *testing.T) {
	p := model.NewProgram("color.thrift")
	color := declareColor(t, p)

	v := model.NewMap()
	v.AddMap(model.NewInteger(0), model.NewString("r"))
	v.AddMap(model.NewInteger(1), model.NewString("g"))

	ok, err := p.Scope().ResolveConstValue(v, model.NewMapType(color, model.TypeString), strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, `{Color.GREEN: "g", Color.RED: "r"}`, v.String())

	got, found := v.MapValue(model.NewIdentifier("Color.RED"))
	testutil.ExpectTrue(t, found)
	testutil.ExpectEq(t, "r", got.Str())
}

func TestConstRefDeepCopy(t *testing.T) {
	p := model.NewProgram("copy.thrift")
	listType := model.NewListType(model.TypeI32)
	l := declareConst(t, p, "L", listType, model.NewList(model.NewInteger(1), model.NewInteger(2)))
	m := declareConst(t, p, "M", listType, model.NewIdentifier("L"))

	ok, err := p.Scope().ResolveAllConsts(strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)

	m.Value().List()[0].SetInteger(9)
	testutil.ExpectEq(t, "[1, 2]", l.Value().String())
	testutil.ExpectEq(t, "[9, 2]", m.Value().String())
}

func TestConstRefByBaseType(t *testing.T) {
	p := model.NewProgram("base.thrift")
	declareConst(t, p, "FLAG", model.TypeBool, model.NewInteger(1))
	declareConst(t, p, "RATIO", model.TypeDouble, model.NewInteger(2))
	declareConst(t, p, "BLOB", model.TypeBinary, model.NewString("raw"))
	declareConst(t, p, "ID", model.TypeUUID, model.NewUUID("00000000-0000-0000-0000-000000000001"))

	flag := declareConst(t, p, "F2", model.TypeBool, model.NewIdentifier("FLAG"))
	ratio := declareConst(t, p, "R2", model.TypeDouble, model.NewIdentifier("RATIO"))
	blob := declareConst(t, p, "B2", model.TypeBinary, model.NewIdentifier("BLOB"))
	id := declareConst(t, p, "I2", model.TypeUUID, model.NewIdentifier("ID"))

	ok, err := p.Scope().ResolveAllConsts(strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)

	testutil.ExpectEq(t, model.ConstInteger, flag.Value().Kind())
	testutil.ExpectEq(t, int64(1), flag.Value().Int())
	testutil.ExpectEq(t, model.ConstDouble, ratio.Value().Kind())
	testutil.ExpectEq(t, 2.0, ratio.Value().Float())
	testutil.ExpectEq(t, model.ConstString, blob.Value().Kind())
	testutil.ExpectEq(t, "raw", blob.Value().Str())
	testutil.ExpectEq(t, model.ConstUUID, id.Value().Kind())
}

func TestConstRefErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		p := model.NewProgram("err.thrift")
		declareConst(t, p, "A", model.TypeI32, model.NewIdentifier("NOPE"))

		_, err := p.Scope().ResolveAllConsts(strict)
		testutil.ExpectErrorIs(t, err, model.ErrConstNotFound)
		testutil.ExpectEq(t, `No enum value or constant found named "NOPE"!`, err.(*model.Error).Message())
	})
	t.Run("circular", func(t *testing.T) {
		p := model.NewProgram("err.thrift")
		declareConst(t, p, "A", model.TypeI32, model.NewIdentifier("B"))
		declareConst(t, p, "B", model.TypeI32, model.NewIdentifier("A"))

		_, err := p.Scope().ResolveAllConsts(model.ResolveMode{})
		testutil.ExpectErrorIs(t, err, model.ErrCircularConst)
	})
	t.Run("void", func(t *testing.T) {
		p := model.NewProgram("err.thrift")
		declareConst(t, p, "V", model.TypeVoid, model.NewInteger(1))
		declareConst(t, p, "W", model.TypeI32, model.NewIdentifier("V"))

		_, err := p.Scope().ResolveAllConsts(strict)
		testutil.ExpectErrorIs(t, err, model.ErrVoidConst)
		testutil.ExpectEq(t, "Constants cannot be of type VOID", err.(*model.Error).Message())
	})
	t.Run("struct source", func(t *testing.T) {
		p := model.NewProgram("err.thrift")
		point := declareStruct(t, p, "Point", &model.Field{Key: 1, Name: "x", Type: model.TypeI32})
		lit := model.NewMap()
		lit.AddMap(model.NewString("x"), model.NewInteger(1))
		declareConst(t, p, "P", point, lit)
		declareConst(t, p, "Q", point, model.NewIdentifier("P"))

		_, err := p.Scope().ResolveAllConsts(strict)
		testutil.ExpectErrorIs(t, err, model.ErrUnsupportedConstRef)
	})
	t.Run("container mismatch", func(t *testing.T) {
		p := model.NewProgram("err.thrift")
		declareConst(t, p, "L", model.NewListType(model.TypeI32), model.NewList(model.NewInteger(1)))
		declareConst(t, p, "N", model.TypeI32, model.NewIdentifier("L"))

		_, err := p.Scope().ResolveAllConsts(strict)
		testutil.ExpectErrorIs(t, err, model.ErrTypeMismatch)
	})
}

func TestScopeClear(t *testing.T) {
	inc := model.NewProgram("inc.thrift")
	point := declareStruct(t, inc, "Point", &model.Field{Key: 1, Name: "x", Type: model.TypeI32})

	p := model.NewProgram("main.thrift")
	testutil.AssertNoError(t, p.Scope().AddType("inc.Point", point, 0))
	lit := model.NewMap()
	lit.AddMap(model.NewString("x"), model.NewIdentifier("MISSING"))
	c := declareConst(t, p, "ORIGIN", point, lit)

	inc.Scope().Clear()
	inc.Scope().Clear()
	testutil.ExpectTrue(t, inc.Scope().IsCleared())
	testutil.ExpectEq(t, 0, len(point.Fields()))
	testutil.ExpectTrue(t, point.Program() == nil)

	_, found := inc.Scope().LookupType("Point")
	testutil.ExpectFalse(t, found)

	ok, err := inc.Scope().ResolveAllConsts(strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)

	ok, err = p.Scope().ResolveAllConsts(strict)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectFalse(t, c.Resolved())
	testutil.ExpectEq(t, `{"x": MISSING}`, c.Value().String())
}
