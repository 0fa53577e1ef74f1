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

package compiler

import (
	"fortio.org/safecast"

	"go.thriftc.dev/thriftc/model"
	"go.thriftc.dev/thriftc/syntax"
)

func (c *compiler) compileDefinition(info *programInfo, def syntax.Definition) {
	switch def := def.(type) {
	case *syntax.Const:
		c.compileConst(info, def)
	case *syntax.Typedef:
		c.compileTypedef(info, def)
	case *syntax.Enum:
		c.compileEnum(info, def)
	case *syntax.Struct:
		c.compileStruct(info, def)
	case *syntax.Service:
		c.compileService(info, def)
	}
}

// checkTypename rejects a named type that certainly collides with another
// visible type, and warns about possible collisions.
func (c *compiler) checkTypename(info *programInfo, t model.Type, span syntax.Span) bool {
	count, notes := info.program.TypenameCollisions(t)
	if count > 0 {
		c.err(info, errDuplicateTypename(t.Name(), notes, span))
		return false
	}
	for _, note := range notes {
		c.warn(info, warnTypenameCollision(note.Message, span))
	}
	return true
}

func (c *compiler) registerType(info *programInfo, t model.Type, span syntax.Span) bool {
	if !c.checkTypename(info, t, span) {
		return false
	}
	if err := info.program.Scope().AddType(t.Name(), t, model.Root); err != nil {
		c.err(info, errWrap(err, span))
		return false
	}
	return true
}

func (c *compiler) compileConst(info *programInfo, node *syntax.Const) {
	p := info.program
	name := node.Name().Get()
	t := c.resolveType(info, node.Type())
	k := model.NewConst(p, name, t, convertConstValue(node.Value()))
	if err := p.Scope().AddConstant(name, k, model.Root); err != nil {
		c.err(info, errWrap(err, node.Name().Span()))
		return
	}
	p.AddConst(k)
	info.consts = append(info.consts, constInfo{c: k, span: node.Span()})
}

func (c *compiler) compileTypedef(info *programInfo, node *syntax.Typedef) {
	p := info.program
	td := model.NewTypedef(p, node.Name().Get(), c.resolveType(info, node.Type()))
	setAnnotations(td.SetAnnotation, node.Annotations())
	if !c.registerType(info, td, node.Name().Span()) {
		return
	}
	p.AddTypedef(td)
	info.typedefs = append(info.typedefs, typedefInfo{typedef: td, span: node.Span()})
}

func (c *compiler) compileEnum(info *programInfo, node *syntax.Enum) {
	p := info.program
	name := node.Name().Get()
	e := model.NewEnum(p, name)
	setAnnotations(e.SetAnnotation, node.Annotations())
	if !c.registerType(info, e, node.Name().Span()) {
		return
	}

	var next int64
	for _, v := range node.Values() {
		valueName := v.Name().Get()
		value := next
		span := v.Name().Span()
		if lit := v.Value(); lit != nil {
			value = lit.Get()
			span = lit.Span()
		}
		if _, err := safecast.Conv[int32](value); err != nil {
			c.err(info, errEnumValueOutOfRange(name, valueName, value, span))
		}
		next = value + 1

		ev := e.AddValue(valueName, value)
		if annotations := v.Annotations(); len(annotations) > 0 {
			ev.Annotations = annotationMap(annotations)
		}

		// Members are also visible as i32 constants named "Enum.MEMBER".
		k := model.NewConst(p, valueName, model.TypeI32, model.NewInteger(value))
		if err := p.Scope().AddConstant(name+"."+valueName, k, model.Root); err != nil {
			c.err(info, errWrap(err, v.Name().Span()))
		}
	}
	p.AddEnum(e)
}

func (c *compiler) compileStruct(info *programInfo, node *syntax.Struct) {
	p := info.program
	name := node.Name().Get()
	var s *model.Struct
	switch node.Kind() {
	case syntax.KindUnion:
		s = model.NewUnion(p, name)
	case syntax.KindException:
		s = model.NewXception(p, name)
	default:
		s = model.NewStruct(p, name)
	}
	setAnnotations(s.SetAnnotation, node.Annotations())
	if !c.registerType(info, s, node.Name().Span()) {
		return
	}
	c.compileFields(info, s, node.Fields())
	if s.IsXception() {
		p.AddXception(s)
	} else {
		p.AddStruct(s)
	}
}

func (c *compiler) compileFields(info *programInfo, owner *model.Struct, fields []*syntax.Field) {
	ids := make(map[int64]struct{}, len(fields))
	names := make(map[string]struct{}, len(fields))
	autoID := int64(-1)
	for _, node := range fields {
		name := node.Name().Get()

		var id int64
		if lit := node.ID(); lit != nil {
			id = lit.Get()
			if _, err := safecast.Conv[int16](id); err != nil {
				c.err(info, errFieldIDOutOfRange(name, id, lit.Span()))
				continue
			}
			if id <= 0 {
				c.warn(info, warnNonPositiveFieldID(name, id, lit.Span()))
			}
		} else {
			id = autoID
			autoID--
			c.warn(info, warnImplicitFieldID(name, id, node.Name().Span()))
		}

		if _, dupe := ids[id]; dupe {
			c.err(info, errDuplicateFieldID(owner.Name(), id, node.Span()))
			continue
		}
		ids[id] = struct{}{}
		if _, dupe := names[name]; dupe {
			c.err(info, errDuplicateFieldName(owner.Name(), name, node.Name().Span()))
			continue
		}
		names[name] = struct{}{}

		req := model.ReqDefault
		switch node.Requiredness() {
		case syntax.ReqRequired:
			req = model.ReqRequired
		case syntax.ReqOptional:
			req = model.ReqOptional
		}
		if owner.IsUnion() && req == model.ReqRequired {
			c.warn(info, warnUnionRequiredField(owner.Name(), name, node.Span()))
			req = model.ReqOptional
		}

		field := &model.Field{
			Key:  id,
			Name: name,
			Type: c.resolveType(info, node.Type()),
			Req:  req,
		}
		if annotations := node.Annotations(); len(annotations) > 0 {
			field.Annotations = annotationMap(annotations)
		}
		if def := node.Default(); def != nil {
			field.Default = convertConstValue(def)
			info.defaults = append(info.defaults, defaultInfo{field: field, span: def.Span()})
		}
		owner.AddField(field)
	}
}

func (c *compiler) compileService(info *programInfo, node *syntax.Service) {
	p := info.program
	scope := p.Scope()
	name := node.Name().Get()

	var extends *model.Service
	if ext := node.Extends(); ext != nil {
		base, found := scope.LookupService(ext.Get())
		if !found {
			c.err(info, errServiceNotFound(ext.Get(), ext.Span()))
		}
		extends = base
	}

	svc := model.NewService(p, name, extends)
	setAnnotations(svc.SetAnnotation, node.Annotations())
	for _, fnNode := range node.Functions() {
		fnName := fnNode.Name().Get()
		fn := &model.Function{
			Name:   fnName,
			Oneway: fnNode.Oneway(),
			Args:   model.NewStruct(p, name+"_"+fnName+"_args"),
			Throws: model.NewXception(p, name+"_"+fnName+"_result"),
		}
		if fnNode.Returns().Name().Get() == "void" {
			fn.Returns = model.TypeVoid
		} else {
			fn.Returns = c.resolveType(info, fnNode.Returns())
		}
		if annotations := fnNode.Annotations(); len(annotations) > 0 {
			fn.Annotations = annotationMap(annotations)
		}
		c.compileFields(info, fn.Args, fnNode.Args())
		c.compileFields(info, fn.Throws, fnNode.Throws())
		svc.AddFunction(fn)
		info.functions = append(info.functions, functionInfo{fn: fn, node: fnNode})
	}

	if !c.checkTypename(info, svc, node.Name().Span()) {
		return
	}
	if err := scope.AddService(name, svc, model.Root); err != nil {
		c.err(info, errWrap(err, node.Name().Span()))
		return
	}
	if err := p.AddService(svc); err != nil {
		c.err(info, errWrap(err, node.Span()))
	}
}

// checkFunctions runs once every type of the file is known.
func (c *compiler) checkFunctions(info *programInfo) {
	for _, f := range info.functions {
		if f.fn.Oneway && (f.fn.Returns != model.TypeVoid || len(f.fn.Throws.Fields()) > 0) {
			c.err(info, errOnewayNotVoid(f.fn.Name, f.node.Span()))
		}
		for ii, field := range f.fn.Throws.Fields() {
			t, err := model.TrueType(field.Type)
			if err != nil {
				continue
			}
			if s, ok := t.(*model.Struct); ok && s.IsXception() {
				continue
			}
			span := f.node.Span()
			if ii < len(f.node.Throws()) {
				span = f.node.Throws()[ii].Span()
			}
			c.err(info, errThrowsNotException(f.fn.Name, field.Name, t, span))
		}
	}
}

// resolveType converts a type reference. Named types not yet declared
// become forward typedefs, checked once the file is done.
func (c *compiler) resolveType(info *programInfo, ref *syntax.TypeRef) model.Type {
	name := ref.Name().Get()
	params := ref.Params()
	switch name {
	case "list":
		return model.NewListType(c.resolveType(info, params[0]))
	case "set":
		return model.NewSetType(c.resolveType(info, params[0]))
	case "map":
		return model.NewMapType(
			c.resolveType(info, params[0]),
			c.resolveType(info, params[1]),
		)
	}
	if base, ok := model.LookupBaseType(name); ok {
		return base
	}
	if t, ok := info.program.Scope().LookupType(name); ok {
		return t
	}
	fwd := model.NewForwardTypedef(info.program, name)
	info.forwards = append(info.forwards, forwardRef{typedef: fwd, span: ref.Name().Span()})
	return fwd
}

func convertConstValue(node *syntax.ConstValue) *model.ConstValue {
	switch node.Kind() {
	case syntax.ConstInt:
		return model.NewInteger(node.Int())
	case syntax.ConstDouble:
		return model.NewDouble(node.Double())
	case syntax.ConstText:
		return model.NewString(node.Text())
	case syntax.ConstIdent:
		return model.NewIdentifier(node.Text())
	case syntax.ConstList:
		elems := make([]*model.ConstValue, 0, len(node.List()))
		for _, elem := range node.List() {
			elems = append(elems, convertConstValue(elem))
		}
		return model.NewList(elems...)
	case syntax.ConstMap:
		m := model.NewMap()
		for _, entry := range node.Map() {
			m.AddMap(convertConstValue(entry.Key), convertConstValue(entry.Value))
		}
		return m
	}
	panic("unreachable")
}

func annotationMap(annotations []*syntax.Annotation) map[string]string {
	m := make(map[string]string, len(annotations))
	for _, a := range annotations {
		m[a.Key().Get()] = a.Value()
	}
	return m
}

func setAnnotations(set func(key, value string), annotations []*syntax.Annotation) {
	for _, a := range annotations {
		set(a.Key().Get(), a.Value())
	}
}
