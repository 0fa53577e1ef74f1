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

package episode

import (
	"fmt"
)

type Error struct {
	code    uint32
	message string
	file    string
	line    int
	cause   error
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// File is the episode file the error was found in, if any.
func (err *Error) File() string {
	return err.file
}

// Line is the 1-based line number of a malformed entry, or zero.
func (err *Error) Line() int {
	return err.line
}

func (err *Error) Unwrap() error {
	return err.cause
}

func errMissingSeparator(file string, line int, text string) *Error {
	return &Error{
		code: 5000,
		message: fmt.Sprintf(
			"the episode file '%s' is malformed, line %d %q does not have a key:value separator ':'",
			file, line, text,
		),
		file: file,
		line: line,
	}
}

func errEmptyModule(file string, line int) *Error {
	return &Error{
		code:    5001,
		message: fmt.Sprintf("the episode file '%s' is malformed, the module name on line %d is empty", file, line),
		file:    file,
		line:    line,
	}
}

func errInvalidUTF8(file string, line int) *Error {
	return &Error{
		code:    5006,
		message: fmt.Sprintf("the episode file '%s' is malformed, line %d is not valid UTF-8", file, line),
		file:    file,
		line:    line,
	}
}

func errEmptyImportPath(file string, line int) *Error {
	return &Error{
		code:    5002,
		message: fmt.Sprintf("the episode file '%s' is malformed, the import path on line %d is empty", file, line),
		file:    file,
		line:    line,
	}
}

func errDuplicateProvider(module, importPath, prevPath string) *Error {
	return &Error{
		code: 5003,
		message: fmt.Sprintf(
			"multiple providers of import path found for %s\n\t%s\n\t%s",
			module, importPath, prevPath,
		),
	}
}

func errEmptyDir(what string) *Error {
	return &Error{
		code:    5004,
		message: fmt.Sprintf("the %s must not be empty", what),
	}
}

func errReadFile(file string, err error) *Error {
	return &Error{
		code:    5005,
		message: fmt.Sprintf("failed to open the file '%s': %v", file, err),
		file:    file,
		cause:   err,
	}
}
