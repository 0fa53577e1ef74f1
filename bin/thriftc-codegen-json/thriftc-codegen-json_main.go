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

//go:build !wasip1

package main

import (
	"log"
	"os"

	"go.thriftc.dev/thriftc/codegen"
	"go.thriftc.dev/thriftc/compiler"
)

// Outside of WebAssembly the plugin runs as a standalone tool, compiling a
// file and writing its JSON to stdout.
func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		log.Fatalf("usage: %s THRIFT_FILE", os.Args[0])
	}
	srcPath := args[0]

	compiled := compiler.Compile(srcPath)
	for _, warn := range compiled.Warnings {
		log.Printf("[WARN ] %s: %v", warn.File(), warn)
	}
	if len(compiled.Errors) > 0 {
		for _, err := range compiled.Errors {
			log.Printf("[ERROR] %s: %v", err.File(), err)
		}
		os.Exit(1)
	}
	defer compiled.Close()

	request := codegen.BuildRequest("json", compiled.Program(), nil)
	response, err := generate(request)
	if err != nil {
		log.Fatal(err)
	}
	for _, file := range response.Files {
		if _, err := os.Stdout.Write(file.Content); err != nil {
			log.Fatal(err)
		}
	}
}
