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
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidateOutputPath rejects output paths that could escape the output
// directory.
func ValidateOutputPath(parts []string) error {
	if len(parts) == 0 {
		return errInvalidOutputPath(parts, "empty")
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return errInvalidOutputPath(parts, "bad path component "+strconv.Quote(part))
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return errInvalidOutputPath(parts, "absolute path component "+strconv.Quote(part))
		}
		if strings.ContainsAny(part, `/\`) {
			return errInvalidOutputPath(parts, "component "+strconv.Quote(part)+" contains a path separator")
		}
	}
	return nil
}

// WriteFiles writes generated files below outDir, creating directories as
// needed.
func WriteFiles(outDir string, files []OutputFile) error {
	for _, file := range files {
		if err := ValidateOutputPath(file.Path); err != nil {
			return err
		}
		outPath := filepath.Join(append([]string{outDir}, file.Path...)...)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(outPath, file.Content, 0o644); err != nil {
			return err
		}
	}
	return nil
}
