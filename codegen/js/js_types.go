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

package js

import (
	"go.thriftc.dev/thriftc/model"
)

func (g *generator) header(w *writer) {
	w.buf.WriteString(autogenComment)
	w.line(`"use strict";`)
	w.line("")
	w.line("const thrift = require('thrift');")
	w.line("const Thrift = thrift.Thrift;")
	w.line("const Int64 = require('node-int64');")
	w.line("")
}

func (g *generator) requireIncludes(w *writer) {
	includes := g.program.Includes()
	for _, inc := range includes {
		w.linef("const %s = require('%s');", importName(inc), g.importPath(inc))
	}
	if len(includes) > 0 {
		w.line("")
	}
}

func (g *generator) typesJS() string {
	w := &writer{}
	g.header(w)
	g.requireIncludes(w)
	w.line("const ttypes = module.exports = {};")

	for _, e := range g.program.Enums() {
		w.linef("ttypes.%s = Object.freeze({", identifier(e.Name()))
		w.indent++
		values := e.Values()
		for ii, v := range values {
			sep := ","
			if ii == len(values)-1 {
				sep = ""
			}
			w.linef("'%s' : %d%s", v.Name, v.Value, sep)
		}
		w.indent--
		w.line("});")
	}

	for _, k := range g.program.Consts() {
		w.linef("ttypes.%s = %s;", identifier(k.Name()), g.value(k.Type(), k.Value(), 0, ""))
	}

	for _, s := range g.program.Objects() {
		g.structClass(w, s, "")
	}
	return w.String()
}

// structClass writes a class for a struct, union or exception. Defaults of
// non-struct fields are rendered; every other field starts as null.
func (g *generator) structClass(w *writer, s *model.Struct, local string) {
	name := identifier(s.Name())
	if s.IsXception() {
		w.linef("const %s = module.exports.%s = class extends Thrift.TException {", name, name)
	} else {
		w.linef("const %s = module.exports.%s = class {", name, name)
	}
	w.indent++
	w.line("constructor(args) {")
	w.indent++
	if s.IsXception() {
		w.line("super(args);")
		w.linef("this.name = %q;", s.Name())
	}
	for _, f := range s.Fields() {
		w.linef("this.%s = %s;", identifier(f.Name), g.fieldDefault(f, w.indent, local))
	}
	if fields := s.Fields(); len(fields) > 0 {
		w.line("if (args) {")
		w.indent++
		for _, f := range fields {
			fieldName := identifier(f.Name)
			w.linef("if (args.%s !== undefined && args.%s !== null) {", fieldName, fieldName)
			w.indent++
			w.linef("this.%s = args.%s;", fieldName, fieldName)
			w.indent--
			if f.Req == model.ReqRequired {
				w.line("} else {")
				w.indent++
				w.linef(
					"throw new Thrift.TProtocolException(Thrift.TProtocolExceptionType.UNKNOWN, 'Required field %s is unset!');",
					f.Name,
				)
				w.indent--
			}
			w.line("}")
		}
		w.indent--
		w.line("}")
	}
	w.indent--
	w.line("}")
	w.indent--
	w.line("};")
}

func (g *generator) fieldDefault(f *model.Field, indent int, local string) string {
	if f.Default == nil {
		return "null"
	}
	if t, err := model.TrueType(f.Type); err == nil {
		if _, isStruct := t.(*model.Struct); isStruct {
			return "null"
		}
	}
	return g.value(f.Type, f.Default, indent, local)
}
