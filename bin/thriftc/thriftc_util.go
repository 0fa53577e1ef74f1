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

package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/pflag"

	"go.thriftc.dev/thriftc"
	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/compiler"
	"go.thriftc.dev/thriftc/internal/config"
)

// Namespace languages accepted without a warning, in addition to the
// registered generators.
var commonLanguages = []string{
	"c_glib", "cl", "cpp", "csharp", "d", "dart", "delphi", "erl", "go",
	"haxe", "java", "json", "lua", "netstd", "ocaml", "perl", "php", "py",
	"rb", "rs", "st", "swift", "xml", "xsd",
}

// compileFlags are shared by every command that compiles a file.
type compileFlags struct {
	includeDirs []string
	maxPasses   int
	configPath  string
	noConfig    bool
}

func (f *compileFlags) register(flags *pflag.FlagSet) {
	flags.StringArrayVarP(&f.includeDirs, "include", "I", nil, "Add a directory to the include search path")
	flags.IntVar(&f.maxPasses, "max-resolve-passes", -1, "Maximum constant resolution passes")
	flags.StringVar(&f.configPath, "config", "", "Path to "+config.FileName+" (default: search from the source file)")
	flags.BoolVar(&f.noConfig, "no-config", false, "Ignore any "+config.FileName)
}

// loadConfig finds the project configuration for a source file. The zero
// configuration is returned if there is none.
func (f *compileFlags) loadConfig(srcPath string) (*config.Config, error) {
	if f.noConfig {
		return &config.Config{}, nil
	}
	path := f.configPath
	if path == "" {
		found, ok, err := config.Find(filepath.Dir(srcPath))
		if err != nil {
			return nil, err
		}
		if !ok {
			return &config.Config{}, nil
		}
		path = found
	}
	cfg, err := config.Load(path, thriftc.Version)
	if err != nil {
		return nil, err
	}
	logf("Using configuration %s", path)
	return cfg, nil
}

// compileOptions merges flags over the configuration. Flag include dirs
// are searched before configured ones.
func (f *compileFlags) compileOptions(cfg *config.Config) *compiler.CompileOptions {
	includeDirs := slices.Concat(f.includeDirs, cfg.IncludePaths())
	for ii, dir := range includeDirs {
		includeDirs[ii] = filepath.ToSlash(dir)
	}
	opts := []compiler.CompileOption{
		compiler.WithIncludeDirs(includeDirs),
		compiler.WithKnownLanguages(slices.Concat(codegen.Names(), commonLanguages)...),
	}
	switch {
	case f.maxPasses >= 0:
		opts = append(opts, compiler.WithMaxResolvePasses(f.maxPasses))
	case cfg.MaxResolvePasses > 0:
		opts = append(opts, compiler.WithMaxResolvePasses(cfg.MaxResolvePasses))
	}
	return compiler.NewCompileOptions(opts...)
}

// compile runs the compiler and prints its diagnostics. A non-zero code is
// returned if there were errors; the result then has no program but still
// lists the files that were read.
func (f *compileFlags) compile(srcPath string) (*compiler.CompileResult, *config.Config, int) {
	cfg, err := f.loadConfig(srcPath)
	if err != nil {
		printError(err)
		return nil, nil, 1
	}
	logf("Compiling %s", srcPath)
	result := f.compileOptions(cfg).Compile(srcPath)
	printDiagnostics(&result)
	if result.Program() == nil {
		return &result, cfg, 1
	}
	logf("Compiled %d programs", len(result.Programs()))
	return &result, cfg, 0
}

func usageError(format string, args ...any) int {
	printError(fmt.Errorf(format, args...))
	return 2
}
