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
	"fmt"
)

type Error struct {
	code    uint32
	message string
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

func (err *Error) Unwrap() error {
	return err.cause
}

func errUnknownGenerator(name string) *Error {
	return &Error{
		code:    6000,
		message: fmt.Sprintf("No generator named '%s' is known", name),
	}
}

func errInvalidOutputPath(parts []string, reason string) *Error {
	return &Error{
		code:    6001,
		message: fmt.Sprintf("Invalid output path %#v: %s", parts, reason),
	}
}

func errPluginLoad(path string, err error) *Error {
	return &Error{
		code:    6002,
		message: fmt.Sprintf("Failed to load codegen plugin %s: %v", path, err),
		cause:   err,
	}
}

func errPluginCall(name, function string, err error) *Error {
	return &Error{
		code:    6003,
		message: fmt.Sprintf("Codegen plugin %s: call to %s failed: %v", name, function, err),
		cause:   err,
	}
}

func errPluginFailed(name, message string) *Error {
	return &Error{
		code:    6004,
		message: fmt.Sprintf("Codegen plugin %s failed: %s", name, message),
	}
}

func errPluginResponse(name string, err error) *Error {
	return &Error{
		code:    6005,
		message: fmt.Sprintf("Codegen plugin %s sent an invalid response: %v", name, err),
		cause:   err,
	}
}

func errGenerate(generator, program string, err error) *Error {
	return &Error{
		code:    6006,
		message: fmt.Sprintf("%s generator failed for %s: %v", generator, program, err),
		cause:   err,
	}
}

// ErrInvalidParam reports a generator parameter with a bad value.
func ErrInvalidParam(generator, key, reason string) error {
	return &Error{
		code:    6007,
		message: fmt.Sprintf("Invalid parameter %s:%s: %s", generator, key, reason),
	}
}
