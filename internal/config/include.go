package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type includeRef struct {
	Value  string
	Source Source
}

// includeRefs returns the include entries of a parsed file in order.
func includeRefs(doc *yaml.Node, file string) []includeRef {
	root := documentRoot(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var refs []includeRef
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{Value: item.Value, Source: fileSource(file, item)})
			}
		}
		return refs
	}
	return nil
}

// resolve turns one include entry into the files it names. A directory
// contributes its *.yaml and *.yml files in name order.
func (r includeRef) resolve() ([]string, error) {
	path, err := includePath(r.Source.File, r.Value)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r includeRef) wrap(err error) error {
	return fmt.Errorf("%s:%d:%d: include %q: %w", r.Source.File, r.Source.Line, r.Source.Column, r.Value, err)
}

// includePath resolves an include relative to the file naming it.
func includePath(from, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	include = expandHome(include)
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(from), include), nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}
