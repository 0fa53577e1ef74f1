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

// serviceJS writes the argument and result classes of each function of a
// service.
func (g *generator) serviceJS(svc *model.Service) string {
	w := &writer{}
	g.header(w)
	g.requireIncludes(w)
	w.linef("const ttypes = require('./%s_types');", g.program.Name())
	w.line("")

	for _, fn := range svc.Functions() {
		g.structClass(w, fn.Args, "ttypes.")
		g.structClass(w, resultStruct(g.program, svc, fn), "ttypes.")
	}
	w.line("module.exports.methods = [")
	w.indent++
	for _, fn := range svc.Functions() {
		w.linef("'%s',", fn.Name)
	}
	w.indent--
	w.line("];")
	return w.String()
}

// resultStruct holds a function's return value as field 0, followed by the
// exceptions it throws.
func resultStruct(p *model.Program, svc *model.Service, fn *model.Function) *model.Struct {
	result := model.NewStruct(p, svc.Name()+"_"+fn.Name+"_result")
	if fn.Returns != nil && fn.Returns != model.TypeVoid {
		result.AddField(&model.Field{Key: 0, Name: "success", Type: fn.Returns})
	}
	for _, f := range fn.Throws.Fields() {
		result.AddField(f)
	}
	return result
}
