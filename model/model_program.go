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

package model

import (
	"fmt"
	"path"
	"strings"
)

// Note is a non-fatal observation made while building the model, such as a
// possible name collision. Callers decide whether to report it as a warning.
type Note struct {
	Name    string
	Message string
}

// Program is one parsed schema file.
type Program struct {
	path  string
	name  string
	scope *Scope

	typedefs  []*Typedef
	enums     []*Enum
	consts    []*Const
	structs   []*Struct
	xceptions []*Struct
	objects   []*Struct
	services  []*Service

	includes      []*Program
	namespaces    map[string]string
	includePrefix string
	cppIncludes   []string
	outPath       string
}

// NewProgram creates an empty program for the file at filePath. The program
// name is the file's base name without its extension.
func NewProgram(filePath string) *Program {
	p := &Program{
		path:       filePath,
		name:       ProgramName(filePath),
		scope:      NewScope(),
		namespaces: make(map[string]string),
	}
	p.scope.program = p
	return p
}

// ProgramName derives a program name from a file path.
func ProgramName(filePath string) string {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return base
}

func (p *Program) Path() string  { return p.path }
func (p *Program) Name() string  { return p.name }
func (p *Program) Scope() *Scope { return p.scope }

func (p *Program) OutPath() string { return p.outPath }

func (p *Program) SetOutPath(outPath string) {
	p.outPath = outPath
}

func (p *Program) IncludePrefix() string { return p.includePrefix }

// SetIncludePrefix records the directory prefix used to reach this program
// from its includer. A non-empty prefix always ends with "/".
func (p *Program) SetIncludePrefix(prefix string) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	p.includePrefix = prefix
}

func (p *Program) AddTypedef(t *Typedef) { p.typedefs = append(p.typedefs, t) }
func (p *Program) AddEnum(e *Enum)       { p.enums = append(p.enums, e) }
func (p *Program) AddConst(c *Const)     { p.consts = append(p.consts, c) }

func (p *Program) AddStruct(s *Struct) {
	p.structs = append(p.structs, s)
	p.objects = append(p.objects, s)
}

func (p *Program) AddXception(x *Struct) {
	p.xceptions = append(p.xceptions, x)
	p.objects = append(p.objects, x)
}

// AddService records svc after checking that its function and argument
// names are unique.
func (p *Program) AddService(svc *Service) error {
	if err := svc.ValidateUniqueMembers(); err != nil {
		return err
	}
	p.services = append(p.services, svc)
	return nil
}

func (p *Program) AddInclude(inc *Program) {
	p.includes = append(p.includes, inc)
}

func (p *Program) AddCppInclude(inc string) {
	p.cppIncludes = append(p.cppIncludes, inc)
}

func (p *Program) Typedefs() []*Typedef { return p.typedefs }
func (p *Program) Enums() []*Enum       { return p.enums }
func (p *Program) Consts() []*Const     { return p.consts }
func (p *Program) Structs() []*Struct   { return p.structs }
func (p *Program) Xceptions() []*Struct { return p.xceptions }
func (p *Program) Services() []*Service { return p.services }
func (p *Program) Includes() []*Program { return p.includes }
func (p *Program) CppIncludes() []string {
	return p.cppIncludes
}

// Objects lists structs and exceptions in declaration order.
func (p *Program) Objects() []*Struct { return p.objects }

// SetNamespace records the namespace for a target language. The deprecated
// language name "smalltalk" is stored as "st" and reported in the returned
// note.
func (p *Program) SetNamespace(lang, ns string) *Note {
	var note *Note
	if lang == "smalltalk" {
		note = &Note{
			Name:    lang,
			Message: "Namespace 'smalltalk' is deprecated. Use 'st' instead",
		}
		lang = "st"
	}
	p.namespaces[lang] = ns
	return note
}

// Namespace returns the namespace declared for lang, falling back to the
// namespace declared for "*".
func (p *Program) Namespace(lang string) string {
	if ns, ok := p.namespaces[lang]; ok {
		return ns
	}
	return p.namespaces["*"]
}

// Namespaces returns the declared namespaces by language.
func (p *Program) Namespaces() map[string]string {
	return p.namespaces
}

// IsUniqueTypename reports whether no other type named like t is visible in
// this program or its direct includes under a colliding namespace.
func (p *Program) IsUniqueTypename(t Type) bool {
	n, _ := p.TypenameCollisions(t)
	return n == 0
}

// TypenameCollisions counts the certain collisions for t across this program
// and its direct includes, and returns notes for every candidate found.
func (p *Program) TypenameCollisions(t Type) (int, []Note) {
	var notes []Note
	count := p.countTypename(p, t, &notes)
	for _, inc := range p.includes {
		count += p.countTypename(inc, t, &notes)
	}
	return count, notes
}

func (p *Program) countTypename(prog *Program, t Type, notes *[]Note) int {
	count := 0
	visit := func(other Type) {
		if other == t || other.Name() != t.Name() {
			return
		}
		common, found := p.IsCommonNamespace(prog, t)
		*notes = append(*notes, found...)
		if common {
			count++
		}
	}
	for _, td := range prog.typedefs {
		visit(td)
	}
	for _, e := range prog.enums {
		visit(e)
	}
	for _, obj := range prog.objects {
		visit(obj)
	}
	for _, svc := range prog.services {
		visit(svc)
	}
	return count
}

// IsCommonNamespace reports whether a type named like t declared in prog
// would collide with t. Types in the same program always collide. Across
// programs they collide when every namespace declared by either program
// equals the other's namespace for that language, an undeclared namespace
// reading as empty. Matching namespaces and namespace-less programs are
// returned as notes.
func (p *Program) IsCommonNamespace(prog *Program, t Type) (bool, []Note) {
	other := t.Program()
	if other == nil {
		return false, nil
	}
	name := t.Name()
	if prog == other {
		return true, []Note{{
			Name:    name,
			Message: fmt.Sprintf("Duplicate typename %s found in %s", name, other.name),
		}}
	}

	var notes []Note
	match := true
	compare := func(a, b *Program) {
		for _, lang := range sortedKeys(a.namespaces) {
			ns := a.namespaces[lang]
			if ns != b.namespaces[lang] {
				match = false
				continue
			}
			notes = append(notes, Note{
				Name: name,
				Message: fmt.Sprintf(
					"Duplicate typename %s found in %s,%s,%s and %s,%s,%s [file,scope,ns]",
					name, a.name, lang, ns, b.name, lang, ns,
				),
			})
		}
	}
	compare(prog, other)
	compare(other, prog)
	if len(prog.namespaces) == 0 && len(other.namespaces) == 0 {
		notes = append(notes, Note{
			Name:    name,
			Message: fmt.Sprintf("Duplicate typename %s found in %s and %s", name, prog.name, other.name),
		})
	}
	return match, notes
}

// Clear drops the program's declarations and includes, and clears its
// scope. The program must not be used for resolution afterwards.
func (p *Program) Clear() {
	p.scope.Clear()
	p.typedefs = nil
	p.enums = nil
	p.consts = nil
	p.structs = nil
	p.xceptions = nil
	p.objects = nil
	p.services = nil
	p.includes = nil
}
