package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/meldgrid/pkg/mindmap"
	"github.com/matzehuels/meldgrid/pkg/schema"
)

// ParseTree validates data against the mind map schema and imports it into
// a new engine.
func ParseTree(data []byte, cfg mindmap.Config, opts ...mindmap.Option) (*mindmap.Engine, error) {
	if err := schema.ValidateMindmap(data); err != nil {
		return nil, err
	}
	e := mindmap.New(cfg, opts...)
	if err := e.Import(data); err != nil {
		return nil, err
	}
	return e, nil
}

// ReadTree decodes a mind map from r. ReadTree does not close r.
func ReadTree(r io.Reader, cfg mindmap.Config, opts ...mindmap.Option) (*mindmap.Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseTree(data, cfg, opts...)
}

// WriteTree encodes the map and its view as indented JSON.
func WriteTree(e *mindmap.Engine, w io.Writer) error {
	data, err := e.Export()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ImportTree reads a mind map file.
func ImportTree(path string, cfg mindmap.Config, opts ...mindmap.Option) (*mindmap.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f, cfg, opts...)
}

// ExportTree writes the map to path.
func ExportTree(e *mindmap.Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTree(e, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
