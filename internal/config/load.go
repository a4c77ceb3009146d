package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadResult is a loaded configuration together with where each setting
// came from.
type LoadResult struct {
	Config  *Config
	Sources SourceMap
	Files   []string // every file read, in merge order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gateway", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus the per-setting source map.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from path and the files it includes. A missing
// file yields defaults. Validation errors carry the file position of the
// offending setting.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{visited: map[string]bool{}, sources: SourceMap{}}

	raw := RawConfig{}
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.visit(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.sources.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader merges a file after everything it includes, depth first.
type loader struct {
	visited map[string]bool
	chain   []string
	sources SourceMap
	files   []string
}

func (l *loader) visit(path string) (RawConfig, error) {
	file, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, err
	}
	for _, open := range l.chain {
		if open == file {
			return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
		}
	}
	if l.visited[file] {
		return RawConfig{}, nil
	}
	l.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}

	l.chain = append(l.chain, file)
	merged := RawConfig{}
	for _, ref := range includeRefs(&doc, file) {
		paths, err := ref.resolve()
		if err != nil {
			return RawConfig{}, ref.wrap(err)
		}
		for _, inc := range paths {
			raw, err := l.visit(inc)
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(raw)
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	own.Include = nil
	mine := SourceMap{}
	mine.record(&doc, file)
	l.sources.overlay(mine)
	l.files = append(l.files, file)
	return merged.merge(own), nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}
