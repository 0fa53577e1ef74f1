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

// Package js implements the built-in "js" generator, which writes Node.js
// modules for the types, constants and service arguments of a program.
//
// Parameters:
//
//	ts                               also write TypeScript declarations
//	imports=<dir>[:<dir>...]         resolve includes through the episode
//	                                 files of other packages
//	thrift_package_output_directory=<path>
//	                                 write thrift.js.episode with <path> as
//	                                 the import prefix
package js

import (
	"context"
	"maps"
	"slices"
	"strings"

	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/episode"
	"go.thriftc.dev/thriftc/internal/hostfs"
	"go.thriftc.dev/thriftc/model"
)

const Name = "js"

func init() {
	codegen.Register(Generator{})
}

type Generator struct{}

func (Generator) Name() string {
	return Name
}

func (Generator) Generate(
	ctx context.Context,
	program *model.Program,
	opts *codegen.Options,
) ([]codegen.OutputFile, error) {
	params, err := parseParams(opts)
	if err != nil {
		return nil, err
	}
	g := &generator{
		program: program,
		params:  params,
	}
	return g.generate(ctx)
}

type params struct {
	ts        bool
	recursive bool
	imports   *episode.Imports
	episode   *episode.Writer
}

func parseParams(opts *codegen.Options) (*params, error) {
	p := &params{}
	if opts == nil {
		return p, nil
	}
	p.recursive = opts.Recursive
	for _, key := range slices.Sorted(maps.Keys(opts.Params)) {
		value := opts.Params[key]
		switch key {
		case "ts":
			switch value {
			case "", "true":
				p.ts = true
			case "false":
			default:
				return nil, codegen.ErrInvalidParam(Name, key, "expected true or false")
			}
		case "imports":
			if opts.Recursive {
				return nil, codegen.ErrInvalidParam(Name, key, "not usable when generating recursively")
			}
			fsys := opts.FS
			if fsys == nil {
				fsys = hostfs.FS{}
			}
			imports, err := episode.LoadImports(fsys, strings.Split(value, ":"))
			if err != nil {
				return nil, err
			}
			p.imports = imports
		case "thrift_package_output_directory":
			if opts.Recursive {
				return nil, codegen.ErrInvalidParam(Name, key, "not usable when generating recursively")
			}
			w, err := episode.NewWriter(value)
			if err != nil {
				return nil, err
			}
			p.episode = w
		default:
			return nil, codegen.ErrInvalidParam(Name, key, "unknown parameter")
		}
	}
	return p, nil
}

type generator struct {
	program *model.Program
	params  *params
	files   []codegen.OutputFile
}

func (g *generator) generate(ctx context.Context) ([]codegen.OutputFile, error) {
	typesModule := g.program.Name() + "_types"
	g.emit(typesModule+".js", g.typesJS())
	if g.params.episode != nil {
		g.params.episode.Add(typesModule)
	}
	if g.params.ts {
		g.emit(typesModule+".d.ts", g.typesTS())
	}

	for _, svc := range g.program.Services() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.emit(svc.Name()+".js", g.serviceJS(svc))
		if g.params.episode != nil {
			g.params.episode.Add(svc.Name())
		}
	}

	if g.params.episode != nil {
		g.files = append(g.files, codegen.OutputFile{
			Path:    []string{episode.FileName},
			Content: g.params.episode.Bytes(),
		})
	}
	return g.files, nil
}

func (g *generator) emit(name string, content string) {
	g.files = append(g.files, codegen.OutputFile{
		Path:    []string{name},
		Content: []byte(content),
	})
}

// importPath is the module path used to require an included program's
// types.
func (g *generator) importPath(inc *model.Program) string {
	module := inc.Name() + "_types"
	if !g.params.recursive {
		if importPath, ok := g.params.imports.Lookup(module); ok {
			return importPath
		}
	}
	return "./" + module
}

// importName is the local name bound to an included program's types.
func importName(inc *model.Program) string {
	return identifier(inc.Name()) + "_ttypes"
}
