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
	"strings"

	"go.thriftc.dev/thriftc/model"
)

func (g *generator) typesTS() string {
	w := &writer{}
	w.buf.WriteString(autogenComment)
	w.line("import thrift = require('thrift');")
	w.line("import Thrift = thrift.Thrift;")
	w.line("import Int64 = require('node-int64');")
	for _, inc := range g.program.Includes() {
		w.linef("import %s = require('%s');", importName(inc), g.importPath(inc))
	}
	w.line("")

	for _, e := range g.program.Enums() {
		w.linef("export declare enum %s {", identifier(e.Name()))
		w.indent++
		for _, v := range e.Values() {
			w.linef("%s = %d,", v.Name, v.Value)
		}
		w.indent--
		w.line("}")
		w.line("")
	}

	for _, k := range g.program.Consts() {
		w.linef("export declare const %s: %s;", identifier(k.Name()), g.tsType(k.Type()))
	}
	if len(g.program.Consts()) > 0 {
		w.line("")
	}

	for _, s := range g.program.Objects() {
		extends := ""
		if s.IsXception() {
			extends = " extends Thrift.TException"
		}
		w.linef("export declare class %s%s {", identifier(s.Name()), extends)
		w.indent++
		args := make([]string, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			opt := tsOptional(f)
			// Exceptions inherit a non-optional message from Error.
			if s.IsXception() && f.Name == "message" {
				opt = ""
			}
			decl := identifier(f.Name) + opt + ": " + g.tsType(f.Type)
			w.linef("public %s;", decl)
			args = append(args, identifier(f.Name)+tsOptional(f)+": "+g.tsType(f.Type))
		}
		if len(args) > 0 {
			w.line("")
			w.linef("constructor(args?: { %s; });", strings.Join(args, "; "))
		} else {
			w.line("constructor(args?: {});")
		}
		w.indent--
		w.line("}")
		w.line("")
	}
	return w.String()
}

func tsOptional(f *model.Field) string {
	if f.Req == model.ReqOptional || f.Default != nil {
		return "?"
	}
	return ""
}

func (g *generator) tsType(t model.Type) string {
	t, err := model.TrueType(t)
	if err != nil {
		return "any"
	}
	switch t := t.(type) {
	case *model.BaseType:
		switch t.Kind() {
		case model.BaseString, model.BaseUUID:
			return "string"
		case model.BaseBinary:
			return "Buffer"
		case model.BaseBool:
			return "boolean"
		case model.BaseI8, model.BaseI16, model.BaseI32, model.BaseDouble:
			return "number"
		case model.BaseI64:
			return "Int64"
		case model.BaseVoid:
			return "void"
		}
	case *model.Enum, *model.Struct:
		return g.typeName(t, "")
	case *model.List:
		return g.tsType(t.Elem()) + "[]"
	case *model.Set:
		return g.tsType(t.Elem()) + "[]"
	case *model.Map:
		return "{ [k: " + g.tsType(t.Key()) + "]: " + g.tsType(t.Val()) + " }"
	}
	return "any"
}
