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
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.thriftc.dev/thriftc"
	"go.thriftc.dev/thriftc/codegen"
)

type cmdVersion struct{}

func (*cmdVersion) help() *commandHelp {
	return &commandHelp{
		usage:   "version",
		summary: "Print the compiler version and built-in generators",
		args:    cobra.NoArgs,
	}
}

func (*cmdVersion) flags(flags *pflag.FlagSet) {}

func (*cmdVersion) run(ctx context.Context, argv []string) int {
	fmt.Printf("thriftc %s (%s, %s/%s)\n", thriftc.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	for _, name := range codegen.Names() {
		fmt.Printf("  generator: %s\n", name)
	}
	return 0
}
