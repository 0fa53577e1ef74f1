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

package codegen

import (
	"strings"

	"go.thriftc.dev/thriftc/codegen/wire"
	"go.thriftc.dev/thriftc/model"
)

// BuildRequest snapshots a resolved program and everything it includes.
func BuildRequest(generator string, program *model.Program, opts *Options) *wire.Request {
	req := &wire.Request{
		Generator: generator,
		Program:   snapshotProgram(program),
	}
	if opts != nil {
		req.Params = opts.Params
	}
	for _, inc := range transitiveIncludes(program) {
		req.Includes = append(req.Includes, snapshotProgram(inc))
	}
	return req
}

// transitiveIncludes lists the programs p depends on, each after its own
// dependencies.
func transitiveIncludes(p *model.Program) []*model.Program {
	var out []*model.Program
	seen := map[*model.Program]bool{p: true}
	var visit func(*model.Program)
	visit = func(p *model.Program) {
		for _, inc := range p.Includes() {
			if seen[inc] {
				continue
			}
			seen[inc] = true
			visit(inc)
			out = append(out, inc)
		}
	}
	visit(p)
	return out
}

func snapshotProgram(p *model.Program) *wire.Program {
	out := &wire.Program{
		Name:        p.Name(),
		Path:        p.Path(),
		Namespaces:  p.Namespaces(),
		CppIncludes: p.CppIncludes(),
	}
	for _, inc := range p.Includes() {
		out.Includes = append(out.Includes, inc.Name())
	}
	for _, td := range p.Typedefs() {
		target, _ := td.Type()
		out.Typedefs = append(out.Typedefs, &wire.Typedef{
			Name:        td.Name(),
			Type:        typeRef(target),
			Annotations: td.Annotations(),
		})
	}
	for _, e := range p.Enums() {
		enum := &wire.Enum{Name: e.Name(), Annotations: e.Annotations()}
		for _, v := range e.Values() {
			enum.Values = append(enum.Values, wire.EnumValue{Name: v.Name, Value: v.Value})
		}
		out.Enums = append(out.Enums, enum)
	}
	for _, k := range p.Consts() {
		out.Consts = append(out.Consts, &wire.Const{
			Name:  k.Name(),
			Type:  typeRef(k.Type()),
			Value: snapshotValue(k.Value()),
		})
	}
	for _, s := range p.Objects() {
		out.Structs = append(out.Structs, snapshotStruct(s))
	}
	for _, svc := range p.Services() {
		out.Services = append(out.Services, snapshotService(svc))
	}
	return out
}

func structKind(s *model.Struct) string {
	switch {
	case s.IsUnion():
		return "union"
	case s.IsXception():
		return "exception"
	default:
		return "struct"
	}
}

func snapshotStruct(s *model.Struct) *wire.Struct {
	return &wire.Struct{
		Name:        s.Name(),
		Kind:        structKind(s),
		Fields:      snapshotFields(s),
		Annotations: s.Annotations(),
	}
}

func snapshotFields(s *model.Struct) []*wire.Field {
	if s == nil {
		return nil
	}
	var fields []*wire.Field
	for _, f := range s.Fields() {
		fields = append(fields, &wire.Field{
			ID:          f.Key,
			Name:        f.Name,
			Type:        typeRef(f.Type),
			Req:         f.Req.String(),
			Default:     snapshotValue(f.Default),
			Annotations: f.Annotations,
		})
	}
	return fields
}

func snapshotService(svc *model.Service) *wire.Service {
	out := &wire.Service{
		Name:        svc.Name(),
		Annotations: svc.Annotations(),
	}
	if ext := svc.Extends(); ext != nil {
		out.Extends = typeRef(ext)
	}
	for _, fn := range svc.Functions() {
		out.Functions = append(out.Functions, &wire.Function{
			Name:    fn.Name,
			Returns: typeRef(fn.Returns),
			Args:    snapshotFields(fn.Args),
			Throws:  snapshotFields(fn.Throws),
			Oneway:  fn.Oneway,
		})
	}
	return out
}

func typeRef(t model.Type) *wire.TypeRef {
	if t == nil {
		return nil
	}
	ref := &wire.TypeRef{Name: t.Name()}
	if p := t.Program(); p != nil {
		ref.Program = p.Name()
	}
	switch t := t.(type) {
	case *model.BaseType:
		ref.Kind = wire.KindBase
	case *model.Typedef:
		ref.Kind = wire.KindTypedef
		if t.IsForward() {
			// Forward references name the typedef's target.
			if target, err := t.Type(); err == nil {
				return typeRef(target)
			}
		}
	case *model.Enum:
		ref.Kind = wire.KindEnum
	case *model.Struct:
		ref.Kind = wire.KindStruct
	case *model.Service:
		ref.Kind = wire.KindService
	case *model.List:
		ref.Kind = wire.KindList
		ref.Elem = typeRef(t.Elem())
	case *model.Set:
		ref.Kind = wire.KindSet
		ref.Elem = typeRef(t.Elem())
	case *model.Map:
		ref.Kind = wire.KindMap
		ref.Key = typeRef(t.Key())
		ref.Val = typeRef(t.Val())
	}
	return ref
}

func snapshotValue(v *model.ConstValue) *wire.Value {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case model.ConstInteger:
		return &wire.Value{Kind: wire.ValueInt, Int: v.Int()}
	case model.ConstDouble:
		return &wire.Value{Kind: wire.ValueDouble, Double: v.Float()}
	case model.ConstString:
		return &wire.Value{Kind: wire.ValueString, Str: v.Str()}
	case model.ConstUUID:
		return &wire.Value{Kind: wire.ValueUUID, Str: v.UUID()}
	case model.ConstIdentifier:
		out := &wire.Value{Kind: wire.ValueEnum, Str: v.Identifier()}
		if e := v.Enum(); e != nil {
			if member, ok := e.ValueByName(memberName(v.Identifier())); ok {
				out.Int = member.Value
			}
		}
		return out
	case model.ConstList:
		out := &wire.Value{Kind: wire.ValueList}
		for _, elem := range v.List() {
			out.List = append(out.List, snapshotValue(elem))
		}
		return out
	case model.ConstMap:
		out := &wire.Value{Kind: wire.ValueMap}
		for _, entry := range v.Map() {
			out.Map = append(out.Map, wire.ValueEntry{
				Key:   snapshotValue(entry.Key),
				Value: snapshotValue(entry.Value),
			})
		}
		return out
	}
	return nil
}

// memberName strips the enum name from an "Enum.MEMBER" identifier.
func memberName(ident string) string {
	return ident[strings.LastIndexByte(ident, '.')+1:]
}
