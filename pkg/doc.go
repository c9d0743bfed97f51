// Package pkg holds the libraries behind meldgrid.
//
// # Overview
//
// Meldgrid lays out two kinds of documents: grid dashboards, where
// rectangular items snap to cells and never overlap, and mind maps, laid
// out as left-to-right trees. The packages are organized as:
//
//  1. [geom] - Cell rectangles, pixel points and boxes
//  2. [grid] - The grid placement engine with drag and resize interactions
//  3. [mindmap] - The tree layout engine with node drag and reparenting
//  4. [schema], [io] - Document validation, JSON import and export
//  5. [store] - Document persistence (file, SQLite, Redis, MongoDB)
//  6. [render] - SVG, Graphviz DOT and PNG/PDF output
//  7. [config], [errors], [observability], [buildinfo] - Shared plumbing
//
// # Quick Start
//
// Place two items; the second is pushed below the first:
//
//	e, _ := grid.New(grid.DefaultConfig())
//	e.AddItem(geom.R(1, 1, 4, 2), nil)
//	id, _ := e.AddItem(geom.R(1, 1, 4, 2), nil)
//	it, _ := e.Item(id) // it.Layout is (1,3 4x2)
//
// Grow a mind map and lay it out:
//
//	m := mindmap.New(mindmap.DefaultConfig())
//	m.NewMap()
//	child, _ := m.AddNode(m.Root(), mindmap.AddChild)
//	m.CalculateLayout()
//	svg := svg.Tree(m)
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/geom
// [grid]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/grid
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/mindmap
// [schema]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/schema
// [io]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/io
// [store]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/store
// [render]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/meldgrid/pkg/buildinfo
package pkg
