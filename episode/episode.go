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

// Package episode reads and writes "episode" files, which map the modules
// generated for a package of Thrift programs to their import paths.
//
// An episode file is UTF-8 text with one "moduleName:importPath" entry per
// line. There is no escaping.
package episode

import (
	"bytes"
	"io/fs"
	"path"
	"slices"
	"strings"
	"unicode/utf8"
)

// FileName is the name of the episode file written to the root of a
// package output directory.
const FileName = "thrift.js.episode"

type Entry struct {
	Module     string
	ImportPath string
}

// Parse reads the entries of an episode file. The file name is used only
// in error messages.
func Parse(src []byte, file string) ([]Entry, error) {
	text := string(src)
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	entries := make([]Entry, 0, len(lines))
	for ii, line := range lines {
		lineNo := ii + 1
		if !utf8.ValidString(line) {
			return nil, errInvalidUTF8(file, lineNo)
		}
		module, importPath, ok := strings.Cut(line, ":")
		if !ok {
			return nil, errMissingSeparator(file, lineNo, line)
		}
		if module == "" {
			return nil, errEmptyModule(file, lineNo)
		}
		if importPath == "" {
			return nil, errEmptyImportPath(file, lineNo)
		}
		entries = append(entries, Entry{Module: module, ImportPath: importPath})
	}
	return entries, nil
}

// Load reads dir/thrift.js.episode from fsys.
func Load(fsys fs.FS, dir string) ([]Entry, error) {
	file := path.Join(dir, FileName)
	src, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, errReadFile(file, err)
	}
	return Parse(src, file)
}

// Imports maps module names to import paths, merged from the episode files
// of several packages.
type Imports struct {
	paths map[string]string
}

// LoadImports reads the episode file of each package directory. Import
// paths are prefixed with the last element of their package directory. A
// module provided by more than one package is an error.
func LoadImports(fsys fs.FS, dirs []string) (*Imports, error) {
	imports := &Imports{paths: make(map[string]string)}
	for _, dir := range dirs {
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			return nil, errEmptyDir("import path")
		}
		entries, err := Load(fsys, dir)
		if err != nil {
			return nil, err
		}
		prefix := path.Base(dir)
		for _, entry := range entries {
			importPath := prefix + "/" + entry.ImportPath
			if prev, dupe := imports.paths[entry.Module]; dupe {
				return nil, errDuplicateProvider(entry.Module, importPath, prev)
			}
			imports.paths[entry.Module] = importPath
		}
	}
	return imports, nil
}

// Lookup returns the import path of a module, if any package provides it.
func (m *Imports) Lookup(module string) (string, bool) {
	if m == nil {
		return "", false
	}
	importPath, ok := m.paths[module]
	return importPath, ok
}

func (m *Imports) Len() int {
	if m == nil {
		return 0
	}
	return len(m.paths)
}

// Modules returns the provided module names in sorted order.
func (m *Imports) Modules() []string {
	if m == nil {
		return nil
	}
	modules := make([]string, 0, len(m.paths))
	for module := range m.paths {
		modules = append(modules, module)
	}
	slices.Sort(modules)
	return modules
}

// Writer accumulates the entries of an episode file for modules generated
// under a package output directory.
type Writer struct {
	prefix string
	buf    bytes.Buffer
}

// NewWriter returns a Writer for the given package output directory. One
// trailing slash is removed; an empty directory is an error.
func NewWriter(packageOutputDir string) (*Writer, error) {
	prefix := strings.TrimSuffix(packageOutputDir, "/")
	if prefix == "" {
		return nil, errEmptyDir("package output directory")
	}
	return &Writer{prefix: prefix}, nil
}

func (w *Writer) Prefix() string {
	return w.prefix
}

// Add records a generated module as "module:prefix/module".
func (w *Writer) Add(module string) {
	w.buf.WriteString(module)
	w.buf.WriteByte(':')
	w.buf.WriteString(w.prefix)
	w.buf.WriteByte('/')
	w.buf.WriteString(module)
	w.buf.WriteByte('\n')
}

func (w *Writer) Bytes() []byte {
	return slices.Clone(w.buf.Bytes())
}
