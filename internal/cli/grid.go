package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/grid"
	mgio "github.com/matzehuels/meldgrid/pkg/io"
	"github.com/matzehuels/meldgrid/pkg/render/svg"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// gridEvents lists every event the apply command reports.
var gridEvents = []grid.EventType{
	grid.EventItemAdded,
	grid.EventItemRemoved,
	grid.EventItemMoved,
	grid.EventItemResized,
	grid.EventItemLayoutUpdated,
	grid.EventItemLayoutUpdateFailed,
	grid.EventItemPayloadUpdated,
	grid.EventLayoutLoaded,
}

// gridCommand creates the grid command group.
func (c *CLI) gridCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Edit and render grid layouts",
	}

	cmd.AddCommand(c.gridApplyCommand())
	cmd.AddCommand(c.gridShowCommand())
	cmd.AddCommand(c.gridSVGCommand())

	return cmd
}

// gridDoc names where a grid command reads and writes its layout: a stored
// document when name is set, otherwise the file at path.
type gridDoc struct {
	path string
	name string
}

func (d gridDoc) String() string {
	if d.name != "" {
		return "store:" + d.name
	}
	return d.path
}

// loadGrid reads the layout. A missing document yields an empty grid built
// from the configured options when allowMissing is set.
func (c *CLI) loadGrid(ctx context.Context, d gridDoc, allowMissing bool) (*grid.Engine, error) {
	opts := []grid.Option{grid.WithLogger(c.Logger)}
	if d.name != "" {
		if err := errors.ValidateName(d.name); err != nil {
			return nil, err
		}
		var e *grid.Engine
		err := c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
			var found bool
			var err error
			e, found, err = mgio.LoadGrid(ctx, s, keys.GridKey(d.name), c.Config.Grid, opts...)
			if err == nil && !found && !allowMissing {
				err = errors.New(errors.ErrCodeNotFound, "grid %q not found", d.name)
			}
			return err
		})
		return e, err
	}
	if d.path == "" {
		return grid.New(c.Config.Grid, opts...)
	}
	if _, err := os.Stat(d.path); os.IsNotExist(err) && allowMissing {
		return grid.New(c.Config.Grid, opts...)
	}
	return mgio.ImportGrid(d.path, opts...)
}

// saveGrid writes the layout back. An empty doc writes to w.
func (c *CLI) saveGrid(ctx context.Context, d gridDoc, e *grid.Engine, w io.Writer) error {
	switch {
	case d.name != "":
		return c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
			return mgio.SaveGrid(ctx, s, keys.GridKey(d.name), e)
		})
	case d.path != "":
		return mgio.ExportGrid(e, d.path)
	default:
		return mgio.WriteGrid(e, w)
	}
}

// =============================================================================
// grid apply
// =============================================================================

// gridOp is one step of an apply script.
type gridOp struct {
	Op      string          `json:"op"`
	ID      int             `json:"id,omitempty"`
	Layout  *geom.Rect      `json:"layout,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	X       int             `json:"x,omitempty"`
	Y       int             `json:"y,omitempty"`
	Handle  string          `json:"handle,omitempty"`
	DX      int             `json:"dx,omitempty"`
	DY      int             `json:"dy,omitempty"`
}

// Script operations.
const (
	opAdd     = "add"
	opRemove  = "remove"
	opUpdate  = "update"
	opPayload = "payload"
	opMove    = "move"
	opResize  = "resize"
)

// parseScript accepts {"ops": [...]} or a bare array of ops.
func parseScript(data []byte) ([]gridOp, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var ops []gridOp
		return ops, decodeStrict(data, &ops)
	}
	var s struct {
		Ops []gridOp `json:"ops"`
	}
	err := decodeStrict(data, &s)
	return s.Ops, err
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode script")
	}
	return nil
}

// applyOp runs one script step. Engine refusals that leave the grid intact
// are reported on w; malformed steps are errors.
func applyOp(e *grid.Engine, op gridOp, w io.Writer) error {
	switch op.Op {
	case opAdd:
		if op.Layout == nil {
			return errors.New(errors.ErrCodeInvalidInput, "add needs a layout")
		}
		_, err := e.AddItem(*op.Layout, op.Payload)
		return err
	case opRemove:
		if !e.RemoveItem(op.ID) {
			fmt.Fprintf(w, "remove #%d: not found\n", op.ID)
		}
	case opUpdate:
		if op.Layout == nil {
			return errors.New(errors.ErrCodeInvalidInput, "update needs a layout")
		}
		e.UpdateItemLayout(op.ID, *op.Layout)
	case opPayload:
		if !e.UpdateItemPayload(op.ID, op.Payload) {
			fmt.Fprintf(w, "payload #%d: not found\n", op.ID)
		}
	case opMove:
		res, ok := e.MoveItem(op.ID, op.X, op.Y)
		if !ok {
			fmt.Fprintf(w, "move #%d: not found\n", op.ID)
			return nil
		}
		if !res.Moved {
			fmt.Fprintf(w, "move #%d: %s at %s\n", op.ID, res.Outcome, res.Layout)
		}
	case opResize:
		h, err := grid.ParseHandle(op.Handle)
		if err != nil {
			return err
		}
		rs, ok := e.BeginResize(op.ID, h, geom.Point{})
		if !ok {
			fmt.Fprintf(w, "resize #%d: not found\n", op.ID)
			return nil
		}
		rs.MoveBy(op.DX, op.DY)
		if final, resized := rs.End(); !resized {
			fmt.Fprintf(w, "resize #%d: unchanged at %s\n", op.ID, final)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown op %q", op.Op)
	}
	return nil
}

// formatEvent renders a grid event as one line.
func formatEvent(ev grid.Event) string {
	switch ev.Type {
	case grid.EventLayoutLoaded:
		return fmt.Sprintf("%s %d items", ev.Type, ev.Count)
	case grid.EventItemLayoutUpdateFailed:
		return fmt.Sprintf("%s #%d %s", ev.Type, ev.ItemID, ev.Reason)
	case grid.EventItemMoved, grid.EventItemResized, grid.EventItemLayoutUpdated:
		return fmt.Sprintf("%s #%d %s -> %s", ev.Type, ev.ItemID, ev.Previous, ev.Layout)
	default:
		return fmt.Sprintf("%s #%d %s", ev.Type, ev.ItemID, ev.Layout)
	}
}

func (c *CLI) gridApplyCommand() *cobra.Command {
	var doc gridDoc
	var output string

	cmd := &cobra.Command{
		Use:   "apply <script.json>",
		Short: "Replay an op script against a grid layout",
		Long: `Replay a JSON script of grid operations and print the resulting events.

The script is a list of ops, either bare or as {"ops": [...]}:

  {"op": "add", "layout": {"x": 1, "y": 1, "w": 4, "h": 2}, "payload": {"title": "CPU"}}
  {"op": "remove", "id": 1}
  {"op": "update", "id": 1, "layout": {"x": 5, "y": 1, "w": 4, "h": 2}}
  {"op": "payload", "id": 1, "payload": {"title": "Memory"}}
  {"op": "move", "id": 1, "x": 3, "y": 2}
  {"op": "resize", "id": 1, "handle": "se", "dx": 1, "dy": 1}

The script starts from --layout (or the stored grid named by --store) and
writes the result back there. Without either it starts empty and prints the
snapshot to stdout, or to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			ops, err := parseScript(data)
			if err != nil {
				return err
			}

			e, err := c.loadGrid(ctx, doc, true)
			if err != nil {
				return err
			}

			out := doc
			if output != "" {
				out = gridDoc{path: output}
			}
			events := cmd.OutOrStdout()
			if out.path == "" && out.name == "" {
				events = cmd.ErrOrStderr()
			}
			for _, t := range gridEvents {
				e.On(t, func(ev grid.Event) { fmt.Fprintln(events, formatEvent(ev)) })
			}

			prog := newProgress(logger)
			for i, op := range ops {
				if err := applyOp(e, op, events); err != nil {
					return fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
				}
			}
			prog.done(fmt.Sprintf("Applied %d ops", len(ops)))

			if err := c.saveGrid(ctx, out, e, cmd.OutOrStdout()); err != nil {
				return err
			}
			if out.path != "" || out.name != "" {
				printSuccess("Grid has %d items", e.Len())
				printFile(out.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&doc.path, "layout", "", "layout file to start from and update")
	cmd.Flags().StringVar(&doc.name, "store", "", "stored grid name to start from and update")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead")
	cmd.MarkFlagsMutuallyExclusive("layout", "store")

	return cmd
}

// =============================================================================
// grid show
// =============================================================================

func (c *CLI) gridShowCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "show [layout.json]",
		Short: "View and edit a grid layout interactively",
		Long: `Open a terminal view of a grid layout.

Arrow keys drag the selected item one cell, shift+arrows resize it, tab
cycles the selection, "a" adds an item, "x" removes one and "s" saves back
to the layout file or stored grid. A missing layout starts empty.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc := gridDoc{name: name}
			if len(args) == 1 {
				doc.path = args[0]
			}
			if doc.path == "" && doc.name == "" {
				return errors.New(errors.ErrCodeInvalidInput, "need a layout file or --store")
			}
			e, err := c.loadGrid(ctx, doc, true)
			if err != nil {
				return err
			}

			m := NewGridViewModel(e, func(e *grid.Engine) error {
				return c.saveGrid(ctx, doc, e, nil)
			})
			if err := runGridViewer(m, tea.WithAltScreen(), tea.WithContext(ctx)); err != nil {
				return fmt.Errorf("grid viewer: %w", err)
			}
			if m.Dirty {
				printWarning("Unsaved changes to %s discarded", doc)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "store", "", "edit a stored grid")

	return cmd
}

// =============================================================================
// grid svg
// =============================================================================

func (c *CLI) gridSVGCommand() *cobra.Command {
	var (
		name       string
		output     string
		width      float64
		background string
	)

	cmd := &cobra.Command{
		Use:   "svg [layout.json]",
		Short: "Render a grid layout to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc := gridDoc{name: name}
			if len(args) == 1 {
				doc.path = args[0]
			}
			if doc.path == "" && doc.name == "" {
				return errors.New(errors.ErrCodeInvalidInput, "need a layout file or --store")
			}
			e, err := c.loadGrid(ctx, doc, false)
			if err != nil {
				return err
			}
			if width > 0 {
				e.SetContainerWidth(width)
			}

			var opts []svg.Option
			if background != "" {
				opts = append(opts, svg.WithBackground(background))
			}
			out := svg.Grid(e.GetLayout(), e.Metrics(), opts...)
			return writeOutput(cmd, output, out)
		},
	}

	cmd.Flags().StringVar(&name, "store", "", "render a stored grid")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&width, "width", 0, "container width in pixels (default: square cells)")
	cmd.Flags().StringVar(&background, "background", "", "background color")

	return cmd
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Rendered %d bytes", len(data))
	printFile(path)
	return nil
}
