package mindmap

import (
	"github.com/google/uuid"

	"github.com/matzehuels/meldgrid/pkg/errors"
)

// Layout constants used by DefaultConfig.
const (
	DefaultNodeWidth         = 180
	DefaultNodeHeight        = 60
	DefaultHorizontalSpacing = 80
	DefaultVerticalSpacing   = 40
	DefaultGridSize          = 20
)

// Text and color given to nodes created by the engine.
const (
	DefaultRootText = "Central node"
	DefaultNodeText = "New node"
	DefaultColor    = "#ffffff"
)

// Config holds the layout geometry. All values are in layout pixels.
type Config struct {
	NodeWidth  float64 `json:"nodeWidth" toml:"node_width" yaml:"node_width"`
	NodeHeight float64 `json:"nodeHeight" toml:"node_height" yaml:"node_height"`

	// LeafHeight is the subtree height of a leaf or collapsed node.
	LeafHeight float64 `json:"leafHeight" toml:"leaf_height" yaml:"leaf_height"`

	HorizontalSpacing float64 `json:"horizontalSpacing" toml:"horizontal_spacing" yaml:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"verticalSpacing" toml:"vertical_spacing" yaml:"vertical_spacing"`

	// GridSize is the snap step on drop and the extra clearance added to
	// every collision push.
	GridSize float64 `json:"gridSize" toml:"grid_size" yaml:"grid_size"`

	// OriginX and OriginY place the root after CalculateLayout.
	OriginX float64 `json:"originX" toml:"origin_x" yaml:"origin_x"`
	OriginY float64 `json:"originY" toml:"origin_y" yaml:"origin_y"`
}

// DefaultConfig returns the standard node geometry.
func DefaultConfig() Config {
	return Config{
		NodeWidth:         DefaultNodeWidth,
		NodeHeight:        DefaultNodeHeight,
		LeafHeight:        DefaultNodeHeight,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		GridSize:          DefaultGridSize,
	}
}

// Validate reports whether c describes a usable geometry.
func (c Config) Validate() error {
	if c.NodeWidth <= 0 || c.NodeHeight <= 0 || c.LeafHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node size must be positive")
	}
	if c.HorizontalSpacing < 0 || c.VerticalSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "spacing must not be negative")
	}
	if c.GridSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid size must be positive, got %v", c.GridSize)
	}
	return nil
}

// withDefaults replaces zero sizes with the defaults. A zero Config becomes
// DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c == (Config{}) {
		return d
	}
	if c.NodeWidth == 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.LeafHeight == 0 {
		c.LeafHeight = c.NodeHeight
	}
	if c.GridSize == 0 {
		c.GridSize = d.GridSize
	}
	return c
}

// IDFunc generates node identifiers. It must not repeat.
type IDFunc func() string

// DefaultIDFunc returns random UUIDs.
func DefaultIDFunc() string { return uuid.NewString() }
