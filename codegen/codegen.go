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

// Package codegen runs code generators over resolved programs.
//
// Generators are either built in, registered with [Register], or loaded
// from WebAssembly plugins with [LoadPlugin]. Both kinds see the program
// as read-only.
package codegen

import (
	"context"
	"io/fs"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.thriftc.dev/thriftc/codegen/wire"
	"go.thriftc.dev/thriftc/model"
)

type OutputFile = wire.OutputFile

type Options struct {
	// Generator parameters, as given by "--gen js:ts,imports=a:b" or a
	// [gen.<name>] table of thriftc.toml. Flags have the value "".
	Params map[string]string

	// Filesystem used by generators that read auxiliary inputs, such as
	// episode files.
	FS fs.FS

	// Recursive is set when every included program is generated in the
	// same run.
	Recursive bool
}

// Param returns a generator parameter and whether it was set.
func (opts *Options) Param(key string) (string, bool) {
	if opts == nil {
		return "", false
	}
	value, ok := opts.Params[key]
	return value, ok
}

type Generator interface {
	Name() string
	Generate(ctx context.Context, program *model.Program, opts *Options) ([]OutputFile, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Generator)
)

// Register makes a built-in generator available by name. It panics if the
// name is already taken.
func Register(gen Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := gen.Name()
	if _, dupe := registry[name]; dupe {
		panic("codegen: Register called twice for generator " + name)
	}
	registry[name] = gen
}

func Lookup(name string) (Generator, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	gen, ok := registry[name]
	if !ok {
		return nil, errUnknownGenerator(name)
	}
	return gen, nil
}

// Names returns the names of all registered generators, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type Result struct {
	Program *model.Program
	Files   []OutputFile
}

// GenerateAll runs gen over each program, at most jobs at a time. A jobs
// value of zero or less means GOMAXPROCS. Results are in program order.
// Output paths are validated before they are returned.
func GenerateAll(
	ctx context.Context,
	programs []*model.Program,
	gen Generator,
	opts *Options,
	jobs int,
) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(programs))
	if len(programs) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(programs)))
	for ii, program := range programs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, err := gen.Generate(gctx, program, opts)
			if err != nil {
				return errGenerate(gen.Name(), program.Name(), err)
			}
			for _, file := range files {
				if err := ValidateOutputPath(file.Path); err != nil {
					return err
				}
			}
			results[ii] = Result{Program: program, Files: files}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
