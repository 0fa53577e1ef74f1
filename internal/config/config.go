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

// Package config loads thriftc.toml project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

const FileName = "thriftc.toml"

type Config struct {
	// Path of the file the configuration was loaded from. Empty for a
	// configuration decoded from memory.
	Path string `toml:"-"`

	IncludeDirs      []string `toml:"include_dirs"`
	MaxResolvePasses int      `toml:"max_resolve_passes"`
	MinVersion       string   `toml:"min_version"`
	OutputDir        string   `toml:"output_dir"`

	Gen GenConfig `toml:"gen"`
}

type GenConfig struct {
	JS JSConfig `toml:"js"`
}

type JSConfig struct {
	TS               bool     `toml:"ts"`
	PackageOutputDir string   `toml:"package_output_dir"`
	Imports          []string `toml:"imports"`
}

// Find searches startDir and its parents for a thriftc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads a configuration file and checks it against the running
// compiler version.
func Load(path, version string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(src, path, version)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Decode parses a configuration. Unknown keys are rejected so that typos
// do not silently change the output.
func Decode(src []byte, name, version string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.Decode(string(src), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		slices.Sort(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	if cfg.MaxResolvePasses < 0 {
		return nil, fmt.Errorf("%s: max_resolve_passes must not be negative", name)
	}
	if err := CheckVersion(cfg.MinVersion, version); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// CheckVersion reports whether version satisfies a min_version entry. A
// bare version such as "0.2" means ">= 0.2"; anything else is read as a
// semver constraint.
func CheckVersion(minVersion, version string) error {
	expr := strings.TrimSpace(minVersion)
	if expr == "" {
		return nil
	}
	if _, err := semver.NewVersion(expr); err == nil {
		expr = ">= " + expr
	}
	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		return fmt.Errorf("invalid min_version %q: %w", minVersion, err)
	}
	current, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid compiler version %q: %w", version, err)
	}
	if ok, errs := constraint.Validate(current); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("thriftc %s does not satisfy min_version: %w", version, errs[0])
		}
		return fmt.Errorf("thriftc %s does not satisfy min_version %q", version, minVersion)
	}
	return nil
}

// Root is the directory relative paths in the configuration are resolved
// against.
func (c *Config) Root() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// IncludePaths returns the include directories, relative to Root.
func (c *Config) IncludePaths() []string {
	out := make([]string, 0, len(c.IncludeDirs))
	for _, dir := range c.IncludeDirs {
		out = append(out, c.resolve(dir))
	}
	return out
}

// Output returns the configured output directory, if any.
func (c *Config) Output() string {
	if c.OutputDir == "" {
		return ""
	}
	return c.resolve(c.OutputDir)
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(c.Root(), filepath.FromSlash(dir))
}

// Params returns the generator parameters configured for a generator.
// Parameters given on the command line take precedence.
func (c *Config) Params(generator string) map[string]string {
	params := make(map[string]string)
	switch generator {
	case "js":
		js := c.Gen.JS
		if js.TS {
			params["ts"] = "true"
		}
		if js.PackageOutputDir != "" {
			params["thrift_package_output_directory"] = js.PackageOutputDir
		}
		if len(js.Imports) > 0 {
			imports := make([]string, 0, len(js.Imports))
			for _, dir := range js.Imports {
				imports = append(imports, filepath.ToSlash(c.resolve(dir)))
			}
			params["imports"] = strings.Join(imports, ":")
		}
	}
	return params
}
