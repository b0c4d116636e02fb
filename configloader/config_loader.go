// Package configloader loads a typed configuration struct from layered
// sources: struct defaults, an optional JSON/YAML file, environment
// variables and command-line flags. Later sources override earlier ones in
// the order the options are given.
package configloader

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigLoader accumulates configuration sources for type T. The first
// source that fails sticks as the loader's error; Load reports it.
type ConfigLoader[T any] struct {
	k   *koanf.Koanf
	err error
}

// Option adds a configuration source to the loader.
type Option[T any] func(*ConfigLoader[T])

// NewConfigLoader creates a ConfigLoader for T with the given sources.
func NewConfigLoader[T any](opts ...Option[T]) *ConfigLoader[T] {
	loader := &ConfigLoader[T]{
		k: koanf.New("."),
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load unmarshals the merged sources into a T.
//
//nolint:ireturn // Returns generic type T which might be an interface
func (loader *ConfigLoader[T]) Load() (T, error) {
	var config T
	if loader.err != nil {
		return config, loader.err
	}

	//nolint:wrapcheck // Returning error from external package is intended
	if err := loader.k.Unmarshal("", &config); err != nil {
		return config, err
	}

	return config, nil
}

// WithDefaults seeds the loader with defaults, read from the struct's
// "koanf" tags.
func WithDefaults[T any](defaults T) Option[T] {
	return func(loader *ConfigLoader[T]) {
		if loader.err != nil {
			return
		}
		if err := loader.k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
			loader.err = err
		}
	}
}

// WithFile adds a file source, parsed as YAML for .yaml/.yml extensions
// and as JSON otherwise.
func WithFile[T any](path string) Option[T] {
	return func(loader *ConfigLoader[T]) {
		if loader.err != nil {
			return
		}

		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		default:
			parser = json.Parser()
		}

		if err := loader.k.Load(file.Provider(path), parser); err != nil {
			loader.err = err
		}
	}
}

// WithEnv adds an environment variable source. Variables starting with
// prefix map onto nested keys: APP_SERVER_PORT -> server.port.
func WithEnv[T any](prefix string) Option[T] {
	return func(loader *ConfigLoader[T]) {
		if loader.err != nil {
			return
		}

		err := loader.k.Load(env.Provider(prefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "_", ".")
		}), nil)

		if err != nil {
			loader.err = err
		}
	}
}

// WithFlatEnv adds an environment variable source whose variable names map
// directly onto lower-cased struct tags, with no prefix stripped and no
// underscore-to-dot nesting. Use this instead of WithEnv when T has no
// nested structure and the environment already names its fields verbatim
// (e.g. MAX_MEMORY_MB -> "max_memory_mb").
func WithFlatEnv[T any]() Option[T] {
	return func(loader *ConfigLoader[T]) {
		if loader.err != nil {
			return
		}

		// koanf nests flattened keys on the delimiter passed to env.Provider.
		// ":" never appears in a transformed env var name, so every key
		// stays at the top level instead of being split into a tree.
		err := loader.k.Load(env.Provider("", ":", strings.ToLower), nil)
		if err != nil {
			loader.err = err
		}
	}
}

// WithFlags adds a pflag command-line source, with the loader's current
// values supplying flag defaults.
func WithFlags[T any](flags *pflag.FlagSet) Option[T] {
	return func(loader *ConfigLoader[T]) {
		if loader.err != nil {
			return
		}

		if err := loader.k.Load(posflag.Provider(flags, ".", loader.k), nil); err != nil {
			loader.err = err
		}
	}
}
