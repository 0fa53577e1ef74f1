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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/vmihailenco/msgpack/v5"

	"go.thriftc.dev/thriftc/codegen/wire"
	"go.thriftc.dev/thriftc/model"
)

const (
	pluginAllocate = "thriftc_codegen_allocate"
	pluginGenerate = "thriftc_codegen_generate"

	// 1 GiB of 64 KiB pages.
	pluginMemoryLimitPages = 16384
)

// PluginPathEnv names the environment variable consulted by LocatePlugin
// when no search path is given.
const PluginPathEnv = "THRIFTC_CODEGEN_PLUGIN_PATH"

// Plugin is a generator implemented by a WebAssembly module.
//
// The module exports thriftc_codegen_allocate(len) -> ptr and
// thriftc_codegen_generate(request_ptr, response_ptr_ptr) -> rc. The
// request and response are length-prefixed wire messages; a non-zero rc
// means the response carries an error.
type Plugin struct {
	name  string
	bin   []byte
	cache wasm.CompilationCache
}

var _ Generator = (*Plugin)(nil)

// LocatePlugin searches a ':'-separated list of directories for
// thriftc-codegen-<name>.wasm.
func LocatePlugin(name, searchPath string) (string, error) {
	if searchPath == "" {
		searchPath = os.Getenv(PluginPathEnv)
	}
	if searchPath == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $%s", PluginPathEnv)
	}
	basename := fmt.Sprintf("thriftc-codegen-%s.wasm", name)
	for _, dir := range strings.Split(searchPath, ":") {
		if dir == "" {
			continue
		}
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path", basename)
}

// LoadPlugin reads a plugin module from disk.
func LoadPlugin(name, path string) (*Plugin, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, errPluginLoad(path, err)
	}
	return NewPlugin(name, bin), nil
}

func NewPlugin(name string, bin []byte) *Plugin {
	return &Plugin{
		name:  name,
		bin:   bin,
		cache: wasm.NewCompilationCache(),
	}
}

func (p *Plugin) Name() string {
	return p.name
}

// Close releases compiled code shared between calls.
func (p *Plugin) Close(ctx context.Context) error {
	return p.cache.Close(ctx)
}

// Generate runs the plugin in a fresh module instance, so concurrent calls
// do not share plugin memory.
func (p *Plugin) Generate(ctx context.Context, program *model.Program, opts *Options) ([]OutputFile, error) {
	requestBuf, err := wire.Marshal(BuildRequest(p.name, program, opts))
	if err != nil {
		return nil, err
	}
	response, err := p.call(ctx, requestBuf)
	if err != nil {
		return nil, err
	}
	if len(response.Files) == 0 {
		return nil, errPluginFailed(p.name, "plugin did not generate any output files")
	}
	return response.Files, nil
}

func (p *Plugin) call(ctx context.Context, requestBuf []byte) (*wire.Response, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter().
		WithMemoryLimitPages(pluginMemoryLimitPages).
		WithCompilationCache(p.cache)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, errPluginLoad(p.name, err)
	}
	pluginExe, err := runtime.CompileModule(ctx, p.bin)
	if err != nil {
		return nil, errPluginLoad(p.name, err)
	}
	moduleConfig := wasm.NewModuleConfig().
		WithName(p.name).
		WithStartFunctions("_initialize")
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, errPluginLoad(p.name, err)
	}

	wasmAlloc := plugin.ExportedFunction(pluginAllocate)
	wasmGenerate := plugin.ExportedFunction(pluginGenerate)
	mem := plugin.Memory()
	if wasmAlloc == nil || wasmGenerate == nil || mem == nil {
		return nil, errPluginLoad(p.name, fmt.Errorf(
			"module must export memory, %s and %s",
			pluginAllocate, pluginGenerate,
		))
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, errPluginCall(p.name, pluginAllocate, err)
	}
	requestPtr, err := safecast.Conv[uint32](results[0])
	if err != nil || requestPtr == 0 {
		return nil, errPluginCall(p.name, pluginAllocate, errors.New("allocation failed"))
	}
	if !mem.Write(requestPtr, requestBuf) {
		return nil, errPluginCall(p.name, pluginAllocate, errors.New("request out of bounds"))
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, errPluginCall(p.name, pluginAllocate, err)
	}
	responsePtrPtr, err := safecast.Conv[uint32](results[0])
	if err != nil || responsePtrPtr == 0 {
		return nil, errPluginCall(p.name, pluginAllocate, errors.New("allocation failed"))
	}

	results, err = wasmGenerate.Call(ctx, uint64(requestPtr), uint64(responsePtrPtr))
	if err != nil {
		return nil, errPluginCall(p.name, pluginGenerate, err)
	}
	rc := results[0]

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errPluginResponse(p.name, errors.New("failed to read response pointer"))
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, errPluginResponse(p.name, errors.New("failed to read response length"))
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, errPluginResponse(p.name, errors.New("failed to read response message"))
	}

	response := &wire.Response{}
	if err := msgpack.Unmarshal(responseBuf, response); err != nil {
		return nil, errPluginResponse(p.name, err)
	}
	if rc != 0 {
		return nil, errPluginFailed(p.name, strings.TrimSpace(response.Error))
	}
	return response, nil
}
