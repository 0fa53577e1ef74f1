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

//go:build wasip1

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"go.thriftc.dev/thriftc/codegen/wire"
)

// Buffers handed to the host stay reachable until the instance is
// discarded.
var buffers = make(map[uint32][]byte)

func main() {}

func keep(buf []byte) uint32 {
	ptr := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	buffers[ptr] = buf
	return ptr
}

//go:wasmexport thriftc_codegen_allocate
func thriftcCodegenAllocate(size uint32) uint32 {
	if size == 0 || size > math.MaxInt32 {
		return 0
	}
	return keep(make([]byte, int(size)))
}

//go:wasmexport thriftc_codegen_generate
func thriftcCodegenGenerate(requestPtr uint32, responsePtrPtr uint32) uint32 {
	responsePtrBuf, ok := buffers[responsePtrPtr]
	if !ok || len(responsePtrBuf) < 4 {
		return 2
	}
	respond := func(response *wire.Response) {
		buf, err := wire.Marshal(response)
		if err != nil {
			buf, _ = wire.Marshal(&wire.Response{Error: fmt.Sprintf("Marshal[Response]: %v", err)})
		}
		binary.LittleEndian.PutUint32(responsePtrBuf, keep(buf))
	}

	requestBuf, ok := buffers[requestPtr]
	if !ok {
		respond(&wire.Response{Error: "request was not allocated by thriftc_codegen_allocate"})
		return 1
	}
	request := &wire.Request{}
	if err := wire.Unmarshal(requestBuf, request); err != nil {
		respond(&wire.Response{Error: fmt.Sprintf("Unmarshal[Request]: %v", err)})
		return 1
	}

	response, err := generate(request)
	respond(response)
	if err != nil {
		return 1
	}
	return 0
}
