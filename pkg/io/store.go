package io

import (
	"context"

	"github.com/matzehuels/meldgrid/pkg/grid"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// LoadGrid reads the grid stored under key. When there is none, it returns
// an empty engine built from cfg and found is false.
func LoadGrid(ctx context.Context, s store.Store, key string, cfg grid.Config, opts ...grid.Option) (e *grid.Engine, found bool, err error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		e, err = grid.New(cfg, opts...)
		return e, false, err
	}
	snap, err := ParseGrid(data)
	if err != nil {
		return nil, true, err
	}
	e, err = grid.FromSnapshot(snap, opts...)
	return e, true, err
}

// SaveGrid stores the engine's layout under key.
func SaveGrid(ctx context.Context, s store.Store, key string, e *grid.Engine) error {
	data, err := MarshalGrid(e)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data)
}

// LoadTree reads the mind map stored under key. When there is none, it
// returns a new map with just a root node and found is false.
func LoadTree(ctx context.Context, s store.Store, key string, cfg mindmap.Config, opts ...mindmap.Option) (e *mindmap.Engine, found bool, err error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		e = mindmap.New(cfg, opts...)
		e.NewMap()
		return e, false, nil
	}
	e, err = ParseTree(data, cfg, opts...)
	return e, true, err
}

// SaveTree stores the map under key.
func SaveTree(ctx context.Context, s store.Store, key string, e *mindmap.Engine) error {
	data, err := e.Export()
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data)
}
