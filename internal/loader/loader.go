// Package loader consumes the declaration stream the external parser produces
// for a module: tag declarations in order, then function definitions. It
// performs every load-time validation, then freezes the registry and table so
// the dispatch phase runs against read-only state.
//
// For the CLI, REPL and tests the same declarations can be decoded from a
// YAML manifest instead of being handed over programmatically.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"newt/internal/dispatch"
	"newt/internal/tag"

	"gopkg.in/yaml.v3"
)

type TagDecl struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

type FunctionDecl struct {
	Name   string        `yaml:"name"`
	Params []PatternDecl `yaml:"params"`
	Body   string        `yaml:"body"`
}

type Manifest struct {
	Tags      []TagDecl      `yaml:"tags"`
	Functions []FunctionDecl `yaml:"functions"`
}

// Result is a fully loaded, frozen program ready for dispatch.
type Result struct {
	Registry *tag.Registry
	Table    *dispatch.Table
}

// Load processes declarations in order and freezes the outcome. Any error
// aborts the whole module load.
func Load(m *Manifest) (*Result, error) {
	reg := tag.NewRegistry()

	for _, decl := range m.Tags {
		parent := decl.Parent
		if parent == "" {
			parent = tag.AnyName
		}
		if _, err := reg.DefineNamed(decl.Name, parent); err != nil {
			return nil, err
		}
	}

	table := dispatch.NewTable(reg)
	for _, decl := range m.Functions {
		compiled, err := compileParams(reg, decl.Params)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", decl.Name, err)
		}
		def := &dispatch.Definition{Name: decl.Name, Params: compiled, Body: decl.Body}
		if err := table.Add(def); err != nil {
			return nil, err
		}
	}

	reg.Freeze()
	table.Freeze()

	slog.Debug("module loaded",
		slog.Int("tags", len(m.Tags)),
		slog.Int("functions", len(m.Functions)))
	return &Result{Registry: reg, Table: table}, nil
}

// Parse decodes a manifest, rejecting unknown fields so declaration typos
// surface as load errors.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func LoadBytes(data []byte) (*Result, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Load(m)
}

func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}
