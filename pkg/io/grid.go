package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/grid"
	"github.com/matzehuels/meldgrid/pkg/schema"
)

// ParseGrid validates data against the grid schema and decodes it.
func ParseGrid(data []byte) (grid.Snapshot, error) {
	if err := schema.ValidateGrid(data); err != nil {
		return grid.Snapshot{}, err
	}
	return grid.DecodeSnapshot(data)
}

// ReadGrid decodes a grid layout from r and loads it into a new engine
// configured with the layout's options. ReadGrid does not close r.
func ReadGrid(r io.Reader, opts ...grid.Option) (*grid.Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	s, err := ParseGrid(data)
	if err != nil {
		return nil, err
	}
	return grid.FromSnapshot(s, opts...)
}

// WriteGrid encodes the engine's layout as indented JSON.
func WriteGrid(e *grid.Engine, w io.Writer) error {
	return writeSnapshot(e.GetLayout(), w)
}

func writeSnapshot(s grid.Snapshot, w io.Writer) error {
	if s.Items == nil {
		s.Items = []grid.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode grid layout")
	}
	return nil
}

// MarshalGrid returns the engine's layout as indented JSON.
func MarshalGrid(e *grid.Engine) ([]byte, error) {
	s := e.GetLayout()
	if s.Items == nil {
		s.Items = []grid.Item{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode grid layout")
	}
	return data, nil
}

// ImportGrid reads a grid layout file.
func ImportGrid(path string, opts ...grid.Option) (*grid.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGrid(f, opts...)
}

// ExportGrid writes the engine's layout to path.
func ExportGrid(e *grid.Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGrid(e, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
