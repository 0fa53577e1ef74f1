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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cmdCheck struct {
	compileFlags
}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check THRIFT_FILE",
		summary: "Compile a file and its includes, reporting any diagnostics",
		args:    cobra.ExactArgs(1),
	}
}

func (cmd *cmdCheck) flags(flags *pflag.FlagSet) {
	cmd.compileFlags.register(flags)
}

func (cmd *cmdCheck) run(ctx context.Context, argv []string) int {
	result, _, rc := cmd.compile(argv[0])
	if rc != 0 {
		return rc
	}
	result.Close()
	return 0
}
