// Package io reads and writes grid layouts and mind maps as JSON documents.
//
// # Overview
//
// Every path that brings a document into an engine goes through this
// package, so input is always checked against the embedded JSON Schemas in
// [schema] before it is decoded. Documents come from three places:
//
//   - Readers and writers ([ReadGrid], [WriteGrid], [ReadTree], [WriteTree])
//   - Files ([ImportGrid], [ExportGrid], [ImportTree], [ExportTree])
//   - A [store.Store] ([LoadGrid], [SaveGrid], [LoadTree], [SaveTree])
//
// # Grid Format
//
//	{
//	  "items": [
//	    {"id": 1, "config": {"title": "Sales"}, "layout": {"x": 1, "y": 1, "w": 6, "h": 2}}
//	  ],
//	  "itemIdCounter": 1,
//	  "options": {"columns": 12, "minItemW": 1, "minItemH": 1, "rowHeight": 50, "gap": 10}
//	}
//
// Loading re-adds every item through the placement engine, so overlapping
// or out-of-range layouts in hand-written files are repaired, not rejected.
//
// # Mind Map Format
//
//	{
//	  "tree": {"id": "root", "text": "Central node", "x": 0, "y": 0, "children": []},
//	  "view": {"scale": 1, "pan": {"x": 0, "y": 0}}
//	}
//
// A bare tree object is accepted too. Trees without coordinates are laid
// out on import.
//
// [schema]: github.com/matzehuels/meldgrid/pkg/schema
// [store.Store]: github.com/matzehuels/meldgrid/pkg/store#Store
package io
