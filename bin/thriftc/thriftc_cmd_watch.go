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
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.thriftc.dev/thriftc/internal/config"
)

// Editors often save a file as several events in quick succession.
const watchDebounce = 100 * time.Millisecond

type cmdWatch struct {
	cmdCodegen
}

func (*cmdWatch) help() *commandHelp {
	return &commandHelp{
		usage:   "watch [--gen=NAME[:PARAMS] -o DIR] THRIFT_FILE",
		summary: "Recompile whenever a file of the program changes",
		args:    cobra.ExactArgs(1),
	}
}

func (cmd *cmdWatch) flags(flags *pflag.FlagSet) {
	cmd.cmdCodegen.flags(flags)
}

func (cmd *cmdWatch) run(ctx context.Context, argv []string) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		printError(err)
		return 1
	}
	defer watcher.Close()

	srcPath := argv[0]
	watched := make(map[string]struct{})
	for {
		files := cmd.rebuild(ctx, srcPath)
		for _, dir := range watchDirs(srcPath, files) {
			if _, ok := watched[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				printError(err)
				continue
			}
			watched[dir] = struct{}{}
			logf("Watching %s", dir)
		}

		if !waitForChange(ctx, watcher) {
			return 0
		}
	}
}

// rebuild compiles the file, and generates code if any generators are
// set. It returns the files the compiler read.
func (cmd *cmdWatch) rebuild(ctx context.Context, srcPath string) []string {
	result, cfg, rc := cmd.compile(srcPath)
	if result == nil {
		return nil
	}
	files := result.Files()
	if rc != 0 {
		return files
	}
	defer result.Close()

	if len(cmd.gens) == 0 {
		logf("No errors")
		return files
	}
	outDir := cmd.outDir
	if outDir == "" {
		outDir = cfg.Output()
	}
	if outDir == "" {
		usageError("No output directory specified (set --output=)")
		return files
	}
	if err := cmd.generate(ctx, result, cfg, outDir); err != nil {
		printError(err)
	}
	return files
}

func watchDirs(srcPath string, files []string) []string {
	dirs := []string{filepath.Dir(srcPath)}
	for _, file := range files {
		dirs = append(dirs, filepath.Dir(filepath.FromSlash(file)))
	}
	return dirs
}

func isWatchedFile(name string) bool {
	return strings.HasSuffix(name, ".thrift") || filepath.Base(name) == config.FileName
}

// waitForChange blocks until a relevant file changes, then waits for the
// events to settle. It returns false once ctx is done.
func waitForChange(ctx context.Context, watcher *fsnotify.Watcher) bool {
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-watcher.Events:
			if !ok {
				return false
			}
			if !isWatchedFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logf("Changed: %s", ev.Name)
			settle = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return false
			}
			printError(err)
		case <-settle:
			return true
		}
	}
}
