package grid

import (
	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
)

// Defaults for a new grid. They match the classic 12-column dashboard.
const (
	DefaultColumns   = 12
	DefaultRowHeight = 50
	DefaultGap       = 10
)

// Config describes the grid. It is immutable once an Engine is built.
type Config struct {
	// Columns is the number of grid columns; all placement math depends on it.
	Columns int `json:"columns" toml:"columns" yaml:"columns"`

	// MinItemW and MinItemH are the smallest spans an item may be given by
	// AddItem or a resize.
	MinItemW int `json:"minItemW" toml:"min_item_w" yaml:"min_item_w"`
	MinItemH int `json:"minItemH" toml:"min_item_h" yaml:"min_item_h"`

	// RowHeight and Gap are pixel sizes used only to quantize pointer
	// deltas and to render; they never affect collision logic.
	RowHeight float64 `json:"rowHeight" toml:"row_height" yaml:"row_height"`
	Gap       float64 `json:"gap" toml:"gap" yaml:"gap"`
}

// DefaultConfig returns a 12-column grid with 1×1 minimum items.
func DefaultConfig() Config {
	return Config{
		Columns:   DefaultColumns,
		MinItemW:  1,
		MinItemH:  1,
		RowHeight: DefaultRowHeight,
		Gap:       DefaultGap,
	}
}

// Validate reports whether c can back an Engine.
func (c Config) Validate() error {
	if c.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "columns must be >= 1, got %d", c.Columns)
	}
	if c.MinItemW < 1 || c.MinItemH < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "minimum item size must be >= 1, got %dx%d", c.MinItemW, c.MinItemH)
	}
	if c.Columns > geom.MaxCoord || c.MinItemH > geom.MaxCoord {
		return errors.New(errors.ErrCodeInvalidConfig, "columns and minimum item height must be <= %d", geom.MaxCoord)
	}
	if c.MinItemW > c.Columns {
		return errors.New(errors.ErrCodeInvalidConfig, "minimum item width %d exceeds %d columns", c.MinItemW, c.Columns)
	}
	if c.RowHeight < 0 || c.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "row height and gap must not be negative")
	}
	return nil
}

// withDefaults fills zero pixel sizes so quantization never divides by zero.
func (c Config) withDefaults() Config {
	if c.RowHeight == 0 {
		c.RowHeight = DefaultRowHeight
	}
	return c
}
