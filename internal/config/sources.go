package config

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source tells where a setting got its value.
type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

// SourceMap maps dotted setting paths such as window_gaps or
// stacks.1.max_items to the file position that last wrote them.
type SourceMap map[string]Source

// replacedWhole lists the settings a later file replaces as a unit.
var replacedWhole = []string{"stacks", "bindings"}

func fileSource(file string, node *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: node.Line, Column: node.Column}
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc != nil && doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// record notes the position of every key and sequence element of doc.
func (m SourceMap) record(doc *yaml.Node, file string) {
	root := documentRoot(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return
	}
	m.walk(root, file, "")
}

func (m SourceMap) walk(node *yaml.Node, file, prefix string) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := joinPath(prefix, node.Content[i].Value)
			val := node.Content[i+1]
			m[path] = fileSource(file, val)
			m.walk(val, file, path)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			path := joinPath(prefix, strconv.Itoa(i))
			m[path] = fileSource(file, item)
			m.walk(item, file, path)
		}
	}
}

// overlay applies the positions recorded for a later file. Element positions
// of a replaced list are dropped before the new ones land.
func (m SourceMap) overlay(later SourceMap) {
	for _, list := range replacedWhole {
		if _, ok := later[list]; !ok {
			continue
		}
		for path := range m {
			if path == list || strings.HasPrefix(path, list+".") {
				delete(m, path)
			}
		}
	}
	for path, src := range later {
		m[path] = src
	}
}

// nearest returns the source of path or of its closest recorded parent.
func (m SourceMap) nearest(path string) (Source, bool) {
	for path != "" {
		if src, ok := m[path]; ok {
			return src, true
		}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			break
		}
		path = path[:i]
	}
	return Source{}, false
}

// locate fills in the file position of a validation error.
func (m SourceMap) locate(err error) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil || verr.Path == "" {
		return err
	}
	if src, ok := m.nearest(verr.Path); ok {
		verr.Source = src
	}
	return verr
}
