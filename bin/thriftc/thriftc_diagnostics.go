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
	"bytes"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"go.thriftc.dev/thriftc/compiler"
	"go.thriftc.dev/thriftc/syntax"
)

var (
	warnPrefix  = color.New(color.FgYellow, color.Bold).Sprint("[WARN ]")
	errorPrefix = color.New(color.FgRed, color.Bold).Sprint("[ERROR]")
	caretColor  = color.New(color.FgGreen, color.Bold)
)

type diagnostic interface {
	Code() uint32
	Message() string
	File() string
	Span() syntax.Span
}

type diagnosticLine struct {
	prefix string
	code   string
	diag   diagnostic
}

// printDiagnostics writes warnings and errors sorted by file and offset,
// each followed by the source line it points into.
func printDiagnostics(result *compiler.CompileResult) {
	lines := make([]diagnosticLine, 0, len(result.Warnings)+len(result.Errors))
	for _, warn := range result.Warnings {
		lines = append(lines, diagnosticLine{warnPrefix, fmt.Sprintf("W%d", warn.Code()), warn})
	}
	for _, err := range result.Errors {
		lines = append(lines, diagnosticLine{errorPrefix, fmt.Sprintf("E%d", err.Code()), err})
	}
	slices.SortStableFunc(lines, func(a, b diagnosticLine) int {
		if c := strings.Compare(a.diag.File(), b.diag.File()); c != 0 {
			return c
		}
		return int(a.diag.Span().Start()) - int(b.diag.Span().Start())
	})
	for _, line := range lines {
		printDiagnostic(line, result.Source(line.diag.File()))
	}
}

func printDiagnostic(line diagnosticLine, src []byte) {
	d := line.diag
	span := d.Span()
	if src == nil || int(span.End()) > len(src) || d.File() == "" {
		if d.File() == "" {
			log.Printf("%s %s: %s", line.prefix, line.code, d.Message())
		} else {
			log.Printf("%s %s: %s: %s", line.prefix, d.File(), line.code, d.Message())
		}
		return
	}

	start := int(span.Start())
	lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
	lineEnd := bytes.IndexByte(src[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += start
	}
	lineNo := bytes.Count(src[:start], []byte{'\n'}) + 1
	before := string(src[lineStart:start])
	col := runewidth.StringWidth(before) + 1

	log.Printf("%s %s:%d:%d: %s: %s", line.prefix, d.File(), lineNo, col, line.code, d.Message())

	text := string(src[lineStart:lineEnd])
	end := min(int(span.End()), lineEnd)
	width := max(1, runewidth.StringWidth(string(src[start:end])))
	fmt.Fprintf(os.Stderr, "    %s\n", text)
	fmt.Fprintf(os.Stderr, "    %s%s\n", caretIndent(before), caretColor.Sprint(strings.Repeat("^", width)))
}

// caretIndent lines a caret up under the end of text, keeping tabs so the
// terminal expands them the same way in both lines.
func caretIndent(text string) string {
	var buf strings.Builder
	for _, r := range text {
		if r == '\t' {
			buf.WriteByte('\t')
			continue
		}
		buf.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return buf.String()
}

func printError(err error) {
	log.Printf("%s %v", errorPrefix, err)
}
