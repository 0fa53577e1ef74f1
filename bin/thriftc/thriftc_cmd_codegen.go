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
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/compiler"
	"go.thriftc.dev/thriftc/internal/config"
	"go.thriftc.dev/thriftc/model"
)

type cmdCodegen struct {
	compileFlags
	gens       []string
	outDir     string
	pluginPath string
	recursive  bool
	jobs       int
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen --gen=NAME[:PARAMS] -o DIR THRIFT_FILE",
		summary: "Generate code from a Thrift file",
		args:    cobra.ExactArgs(1),
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	cmd.compileFlags.register(flags)
	flags.StringArrayVarP(&cmd.gens, "gen", "g", nil, "Generator to run, as NAME or NAME:KEY=VALUE,KEY2")
	flags.StringVarP(&cmd.outDir, "output", "o", "", "Output directory")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "Directories to search for codegen plugins (default: $"+codegen.PluginPathEnv+")")
	flags.BoolVarP(&cmd.recursive, "recursive", "r", false, "Also generate code for included files")
	flags.IntVarP(&cmd.jobs, "jobs", "j", 0, "Programs to generate concurrently (default: GOMAXPROCS)")
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	if len(cmd.gens) == 0 {
		return usageError("No generator specified (set --gen=)")
	}
	result, cfg, rc := cmd.compile(argv[0])
	if rc != 0 {
		return rc
	}
	defer result.Close()

	outDir := cmd.outDir
	if outDir == "" {
		outDir = cfg.Output()
	}
	if outDir == "" {
		return usageError("No output directory specified (set --output=)")
	}
	if err := cmd.generate(ctx, result, cfg, outDir); err != nil {
		printError(err)
		return 1
	}
	return 0
}

// generate runs every generator before writing anything, so that a failing
// generator leaves the output directory untouched.
func (cmd *cmdCodegen) generate(
	ctx context.Context,
	result *compiler.CompileResult,
	cfg *config.Config,
	outDir string,
) error {
	programs := []*model.Program{result.Program()}
	if cmd.recursive {
		programs = result.Programs()
	}

	var files []codegen.OutputFile
	for _, spec := range cmd.gens {
		name, params, err := parseGenSpec(spec)
		if err != nil {
			return err
		}
		gen, closeGen, err := cmd.lookupGenerator(ctx, name)
		if err != nil {
			return err
		}
		defer closeGen()

		merged := cfg.Params(name)
		maps.Copy(merged, params)
		opts := &codegen.Options{
			Params:    merged,
			Recursive: cmd.recursive,
		}
		logf("Running generator %s over %d programs", name, len(programs))
		results, err := codegen.GenerateAll(ctx, programs, gen, opts, cmd.jobs)
		if err != nil {
			return err
		}
		for _, r := range results {
			files = append(files, r.Files...)
		}
	}

	logf("Writing %d files to %s", len(files), outDir)
	return codegen.WriteFiles(outDir, files)
}

// lookupGenerator prefers a built-in generator, then searches the plugin
// path for a WebAssembly plugin of the same name.
func (cmd *cmdCodegen) lookupGenerator(ctx context.Context, name string) (codegen.Generator, func(), error) {
	gen, err := codegen.Lookup(name)
	if err == nil {
		return gen, func() {}, nil
	}
	pluginPath, locateErr := codegen.LocatePlugin(name, cmd.pluginPath)
	if locateErr != nil {
		return nil, nil, errors.Join(err, locateErr)
	}
	logf("Loading plugin %s", pluginPath)
	plugin, err := codegen.LoadPlugin(name, pluginPath)
	if err != nil {
		return nil, nil, err
	}
	return plugin, func() { plugin.Close(ctx) }, nil
}

// parseGenSpec splits "name:key=value,flag" into a generator name and its
// parameters. A key without a value maps to the empty string.
func parseGenSpec(spec string) (string, map[string]string, error) {
	name, rest, _ := strings.Cut(spec, ":")
	if name == "" {
		return "", nil, fmt.Errorf("Invalid generator %q: missing name", spec)
	}
	params := make(map[string]string)
	if rest == "" {
		return name, params, nil
	}
	for _, param := range strings.Split(rest, ",") {
		key, value, _ := strings.Cut(param, "=")
		if key == "" {
			return "", nil, fmt.Errorf("Invalid generator %q: empty parameter name", spec)
		}
		params[key] = value
	}
	return name, params, nil
}
