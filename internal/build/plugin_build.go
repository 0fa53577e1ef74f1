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

// Command build compiles a codegen plugin to a WebAssembly reactor module,
// optionally shrinking it with wasm-opt.
//
//	go run ./internal/build -o thriftc-codegen-json.wasm ./bin/thriftc-codegen-json
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/pflag"
)

var (
	output   = pflag.StringP("output", "o", "", "Path of the .wasm file to write")
	chdir    = pflag.String("chdir", "", "Directory to build from")
	goSdkBin = pflag.String("go-sdk-bin", "", "Directory containing the go binary (default: $PATH)")
	wasmOpt  = pflag.String("wasm-opt", "", "Path to wasm-opt, run with -Oz after building")
)

func main() {
	pflag.Parse()
	if *output == "" || pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s -o OUTPUT PACKAGE\n", os.Args[0])
		os.Exit(2)
	}
	pwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	outPath := relativeTo(pwd, *output)

	goBin := "go"
	if *goSdkBin != "" {
		goBin = filepath.Join(relativeTo(pwd, *goSdkBin), "go")
	}
	goArgs := []string{"build", "-buildmode=c-shared", "-trimpath", "-o=" + outPath}
	goArgs = append(goArgs, pflag.Args()...)

	cmd := exec.Command(goBin, goArgs...)
	cmd.Env = append(os.Environ(), "GOOS=wasip1", "GOARCH=wasm")
	cmd.Dir = relativeTo(pwd, *chdir)
	if err := run(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *wasmOpt != "" {
		opt := exec.Command(relativeTo(pwd, *wasmOpt), "-Oz", "--enable-bulk-memory", "-o", outPath, outPath)
		if err := run(opt); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
}

// relativeTo resolves a flag path against dir unless it is already
// absolute.
func relativeTo(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func run(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
