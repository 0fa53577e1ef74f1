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
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"go.thriftc.dev/thriftc/codegen/wire"
)

type codegen struct {
	program *wire.Program
	params  map[string]string
	indent  string
	output  []byte
}

func newCodegen(request *wire.Request) (*codegen, error) {
	if request.Program == nil {
		return nil, fmt.Errorf("request has no program")
	}
	c := &codegen{
		program: request.Program,
		params:  request.Params,
		indent:  "  ",
	}
	for _, key := range slices.Sorted(maps.Keys(request.Params)) {
		value := request.Params[key]
		switch key {
		case "indent":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > 8 {
				return nil, fmt.Errorf("invalid parameter indent=%q: expected 0 to 8", value)
			}
			c.indent = strings.Repeat(" ", n)
		case "compact":
			c.indent = ""
		default:
			return nil, fmt.Errorf("unknown parameter %q", key)
		}
	}
	return c, nil
}

// emitProgram writes the program as JSON, using the same field names as
// the plugin request. Object keys are sorted.
func (c *codegen) emitProgram() error {
	body, err := msgpack.Marshal(c.program)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := msgpack.Unmarshal(body, &doc); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	c.output = buf.Bytes()
	return nil
}

func (c *codegen) outputFile() wire.OutputFile {
	return wire.OutputFile{
		Path:    []string{c.program.Name + ".json"},
		Content: c.output,
	}
}

// generate handles one plugin request. Failures are reported in the
// response as well as the returned error.
func generate(request *wire.Request) (*wire.Response, error) {
	c, err := newCodegen(request)
	if err == nil {
		err = c.emitProgram()
	}
	if err != nil {
		return &wire.Response{Error: err.Error()}, err
	}
	return &wire.Response{Files: []wire.OutputFile{c.outputFile()}}, nil
}
