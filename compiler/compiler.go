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
	"errors"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"slices"

	"go.thriftc.dev/thriftc/internal/hostfs"
	"go.thriftc.dev/thriftc/model"
	"go.thriftc.dev/thriftc/syntax"
)

const DefaultMaxResolvePasses = 16

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	fsys        fs.FS
	includeDirs []string
	maxPasses   int
	knownLangs  map[string]struct{}
}

// WithFS reads sources from fsys instead of the host filesystem.
func WithFS(fsys fs.FS) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.fsys = fsys
	})
}

// WithIncludeDirs sets the directories searched for included files that
// are not found next to the including file.
func WithIncludeDirs(dirs []string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.includeDirs = dirs
	})
}

func WithMaxResolvePasses(n int) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.maxPasses = n
	})
}

// WithKnownLanguages enables a warning for namespaces declared for any
// language not listed.
func WithKnownLanguages(langs ...string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.knownLangs = make(map[string]struct{}, len(langs))
		for _, lang := range langs {
			opts.knownLangs[lang] = struct{}{}
		}
	})
}

type CompileResult struct {
	root     *model.Program
	programs []*model.Program
	sources  map[string][]byte

	Errors   []*Error
	Warnings []*Warning
}

// Program returns the compiled root program, or nil if compilation failed.
func (r *CompileResult) Program() *model.Program {
	return r.root
}

// Programs returns every loaded program, included programs before their
// includers.
func (r *CompileResult) Programs() []*model.Program {
	return r.programs
}

// Source returns the text of a loaded file, for rendering diagnostics.
func (r *CompileResult) Source(file string) []byte {
	return r.sources[file]
}

// Files returns the path of every file that was read, sorted. It is
// available even when compilation failed.
func (r *CompileResult) Files() []string {
	return slices.Sorted(maps.Keys(r.sources))
}

// Close clears the scopes of all loaded programs. The programs must not be
// used afterwards.
func (r *CompileResult) Close() {
	for _, p := range r.programs {
		p.Clear()
	}
	r.root = nil
	r.programs = nil
}

func Compile(filePath string, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(filePath)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{
		maxPasses: DefaultMaxResolvePasses,
	}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	if compileOptions.fsys == nil {
		compileOptions.fsys = hostfs.FS{}
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(filePath string) CompileResult {
	c := &compiler{
		opts:    opts,
		arena:   make(map[string]*programInfo),
		sources: make(map[string][]byte),
	}
	root := c.load(path.Clean(filepath.ToSlash(filePath)), nil, syntax.Span{})
	if len(c.errors) == 0 {
		c.resolveConsts()
	}
	if len(c.errors) == 0 {
		c.validate()
	}

	programs := make([]*model.Program, 0, len(c.order))
	for _, info := range c.order {
		programs = append(programs, info.program)
	}
	result := CompileResult{
		programs: programs,
		sources:  c.sources,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
	if len(c.errors) > 0 || root == nil {
		result.Close()
		return result
	}
	result.root = root.program
	return result
}

type compiler struct {
	opts     *CompileOptions
	errors   []*Error
	warnings []*Warning

	arena   map[string]*programInfo
	order   []*programInfo
	sources map[string][]byte

	// Paths of the files currently being loaded, outermost first.
	stack []string
}

type programInfo struct {
	path    string
	program *model.Program
	doc     *syntax.Document

	// Set while declarations are converted.
	forwards  []forwardRef
	consts    []constInfo
	defaults  []defaultInfo
	typedefs  []typedefInfo
	functions []functionInfo
}

type forwardRef struct {
	typedef *model.Typedef
	span    syntax.Span
}

type constInfo struct {
	c    *model.Const
	span syntax.Span
}

type defaultInfo struct {
	field *model.Field
	span  syntax.Span
}

type typedefInfo struct {
	typedef *model.Typedef
	span    syntax.Span
}

type functionInfo struct {
	fn   *model.Function
	node *syntax.Function
}

func (c *compiler) err(info *programInfo, err *Error) {
	if info != nil {
		err.file = info.path
	}
	c.errors = append(c.errors, err)
}

func (c *compiler) warn(info *programInfo, warning *Warning) {
	if info != nil {
		warning.file = info.path
	}
	c.warnings = append(c.warnings, warning)
}

// load parses and declares a file and everything it includes. Each file is
// loaded once; later includes share the same program.
func (c *compiler) load(filePath string, includer *programInfo, span syntax.Span) *programInfo {
	if idx := slices.Index(c.stack, filePath); idx >= 0 {
		chain := append(slices.Clone(c.stack[idx:]), filePath)
		c.err(includer, errIncludeCycle(chain, span))
		return nil
	}
	if info, ok := c.arena[filePath]; ok {
		return info
	}

	src, err := fs.ReadFile(c.opts.fsys, filePath)
	if err != nil {
		c.err(includer, errReadFile(filePath, err, span))
		return nil
	}
	c.sources[filePath] = src

	info := &programInfo{
		path:    filePath,
		program: model.NewProgram(filePath),
	}
	doc, err := syntax.Parse(src)
	if err != nil {
		c.err(info, errWrap(err, syntax.Span{}))
		return nil
	}
	info.doc = doc
	c.arena[filePath] = info

	c.stack = append(c.stack, filePath)
	c.compileProgram(info)
	c.stack = c.stack[:len(c.stack)-1]

	c.order = append(c.order, info)
	return info
}

// findInclude resolves an include path relative to the including file, then
// against each include directory.
func (c *compiler) findInclude(includer *programInfo, incPath string) (string, bool) {
	candidates := []string{path.Join(path.Dir(includer.path), incPath)}
	if path.IsAbs(incPath) {
		candidates = []string{path.Clean(incPath)}
	}
	for _, dir := range c.opts.includeDirs {
		candidates = append(candidates, path.Join(filepath.ToSlash(dir), incPath))
	}
	for _, candidate := range candidates {
		if _, ok := c.arena[candidate]; ok {
			return candidate, true
		}
		if _, err := fs.Stat(c.opts.fsys, candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func (c *compiler) compileProgram(info *programInfo) {
	c.compileHeaders(info)
	for _, def := range info.doc.Definitions() {
		c.compileDefinition(info, def)
	}
	c.checkForwards(info)
	c.checkFunctions(info)
	c.resolveTentative(info)
}

func (c *compiler) compileHeaders(info *programInfo) {
	p := info.program
	includedAs := make(map[string]string)
	for _, header := range info.doc.Headers() {
		switch header := header.(type) {
		case *syntax.Include:
			incPath := header.Path().Get()
			resolved, found := c.findInclude(info, incPath)
			if !found {
				c.err(info, errIncludeNotFound(incPath, header.Span()))
				continue
			}
			inc := c.load(resolved, info, header.Span())
			if inc == nil {
				continue
			}
			if slices.Contains(p.Includes(), inc.program) {
				c.warn(info, warnDuplicateInclude(incPath, header.Span()))
				continue
			}
			name := inc.program.Name()
			if prev, conflict := includedAs[name]; conflict {
				c.err(info, errIncludeNameConflict(name, prev, resolved, header.Span()))
				continue
			}
			includedAs[name] = resolved
			p.AddInclude(inc.program)
			c.reexport(info, inc.program, header.Span())
		case *syntax.CppInclude:
			p.AddCppInclude(header.Path().Get())
		case *syntax.Namespace:
			lang := header.Scope()
			if note := p.SetNamespace(lang, header.Name()); note != nil {
				c.warn(info, warnNamespace(note.Message, header.Span()))
				lang = "st"
			}
			if c.opts.knownLangs != nil && lang != "*" {
				if _, known := c.opts.knownLangs[lang]; !known {
					c.warn(info, warnUnknownNamespaceLanguage(lang, header.Span()))
				}
			}
		}
	}
}

// reexport registers everything an included program declares in the
// includer's scope, qualified by the included program's name.
func (c *compiler) reexport(info *programInfo, inc *model.Program, span syntax.Span) {
	scope := info.program.Scope()
	incScope := inc.Scope()
	prefix := inc.Name() + "."
	for _, name := range incScope.TypeNames() {
		if !incScope.IsRoot(name) {
			continue
		}
		t, _ := incScope.LookupType(name)
		if err := scope.AddType(prefix+name, t, 0); err != nil {
			c.err(info, errWrap(err, span))
		}
	}
	for _, name := range incScope.ConstantNames() {
		if !incScope.IsRoot(name) {
			continue
		}
		k, _ := incScope.LookupConstant(name)
		if err := scope.AddConstant(prefix+name, k, 0); err != nil {
			c.err(info, errWrap(err, span))
		}
	}
	for _, name := range incScope.ServiceNames() {
		if !incScope.IsRoot(name) {
			continue
		}
		svc, _ := incScope.LookupService(name)
		if err := scope.AddService(prefix+name, svc, 0); err != nil {
			c.err(info, errWrap(err, span))
		}
	}
}

// checkForwards reports named types that never became declared, and
// typedef chains that loop.
func (c *compiler) checkForwards(info *programInfo) {
	for _, fwd := range info.forwards {
		if fwd.typedef.TypeExists() {
			continue
		}
		if _, err := fwd.typedef.Type(); err != nil {
			c.err(info, errWrap(err, fwd.span))
		}
	}
	for _, td := range info.typedefs {
		if _, err := model.TrueType(td.typedef); errors.Is(err, model.ErrCircularTypedef) {
			c.err(info, errWrap(err, td.span))
		}
	}
}

// resolveTentative makes a first attempt at each constant of a file that
// has just been declared. Constants that depend on other files go on the
// scope's lazy backlog.
func (c *compiler) resolveTentative(info *programInfo) {
	scope := info.program.Scope()
	mode := model.ResolveMode{LocalOnly: true}
	for _, k := range info.consts {
		if ok, err := scope.ResolveConst(k.c, mode); err != nil || !ok {
			scope.AddLazyConstant(k.c.Name(), info.program)
		}
	}
}

// resolveConsts drains the lazy backlogs until no pass makes progress or
// the pass limit is reached, then reports what remains with a strict pass.
func (c *compiler) resolveConsts() {
	for pass := 0; pass < c.opts.maxPasses; pass++ {
		var pending []*model.Program
		for _, info := range c.order {
			for _, p := range info.program.Scope().ResolveLazyConsts() {
				if !slices.Contains(pending, p) {
					pending = append(pending, p)
				}
			}
		}
		if len(pending) == 0 {
			break
		}

		progress := false
		for _, p := range pending {
			before := countUnresolved(p)
			// Errors are reported by the strict pass below, with spans.
			allOk, _ := p.Scope().ResolveAllConsts(model.ResolveMode{})
			if countUnresolved(p) < before {
				progress = true
			}
			if !allOk {
				for _, k := range p.Consts() {
					if !k.Resolved() {
						p.Scope().AddLazyConstant(k.Name(), p)
					}
				}
			}
		}
		if !progress {
			break
		}
	}

	strict := model.ResolveMode{Strict: true}
	for _, info := range c.order {
		scope := info.program.Scope()
		for _, k := range info.consts {
			if _, err := scope.ResolveConst(k.c, strict); err != nil {
				c.err(info, errWrap(err, k.span))
			}
		}
		for _, d := range info.defaults {
			if _, err := scope.ResolveConstValue(d.field.Default, d.field.Type, strict); err != nil {
				c.err(info, errWrap(err, d.span))
			}
		}
	}
}

func countUnresolved(p *model.Program) int {
	n := 0
	for _, k := range p.Consts() {
		if !k.Resolved() {
			n++
		}
	}
	return n
}
