package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meldgrid/pkg/errors"
	mgio "github.com/matzehuels/meldgrid/pkg/io"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
	"github.com/matzehuels/meldgrid/pkg/render"
	"github.com/matzehuels/meldgrid/pkg/render/dot"
	"github.com/matzehuels/meldgrid/pkg/render/svg"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// Render formats for tree render beyond those of pkg/render.
const (
	formatDOT         = "dot"
	formatGraphvizSVG = "graphviz-svg"
)

var treeFormats = []string{render.FormatSVG, formatDOT, formatGraphvizSVG, render.FormatPNG, render.FormatPDF}

// treeDoc names the mind map a tree command works on: a stored document
// when stored is set, otherwise a JSON file.
type treeDoc struct {
	arg    string
	stored bool
}

func (d treeDoc) String() string {
	if d.stored {
		return "store:" + d.arg
	}
	return d.arg
}

func (c *CLI) treeOptions() []mindmap.Option {
	return []mindmap.Option{mindmap.WithLogger(c.Logger)}
}

// loadTree reads an existing mind map.
func (c *CLI) loadTree(ctx context.Context, d treeDoc) (*mindmap.Engine, error) {
	if !d.stored {
		if _, err := os.Stat(d.arg); os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "%s does not exist (create it with tree new)", d.arg)
		}
		return mgio.ImportTree(d.arg, c.Config.Tree, c.treeOptions()...)
	}
	if err := errors.ValidateName(d.arg); err != nil {
		return nil, err
	}
	var e *mindmap.Engine
	err := c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
		var found bool
		var err error
		e, found, err = mgio.LoadTree(ctx, s, keys.TreeKey(d.arg), c.Config.Tree, c.treeOptions()...)
		if err == nil && !found {
			err = errors.New(errors.ErrCodeNotFound, "tree %q not found (create it with tree new)", d.arg)
		}
		return err
	})
	return e, err
}

// saveTree writes the mind map back.
func (c *CLI) saveTree(ctx context.Context, d treeDoc, e *mindmap.Engine) error {
	if !d.stored {
		return mgio.ExportTree(e, d.arg)
	}
	return c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
		return mgio.SaveTree(ctx, s, keys.TreeKey(d.arg), e)
	})
}

// treeExists reports whether the document is already there.
func (c *CLI) treeExists(ctx context.Context, d treeDoc) (bool, error) {
	if !d.stored {
		_, err := os.Stat(d.arg)
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	}
	var found bool
	err := c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
		var err error
		_, found, err = s.Get(ctx, keys.TreeKey(d.arg))
		return err
	})
	return found, err
}

// editTree loads the document, applies fn and saves it when fn succeeds.
func (c *CLI) editTree(ctx context.Context, d treeDoc, fn func(e *mindmap.Engine) error) error {
	e, err := c.loadTree(ctx, d)
	if err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return err
	}
	return c.saveTree(ctx, d, e)
}

// treeCommand creates the tree command group.
func (c *CLI) treeCommand() *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Create, edit and render mind maps",
		Long: `Create, edit and render mind maps.

Every subcommand takes the document as its first argument: a JSON file, or
with --store the name of a stored mind map.`,
	}
	cmd.PersistentFlags().BoolVar(&stored, "store", false, "treat the document argument as a stored mind map name")

	doc := func(arg string) treeDoc { return treeDoc{arg: arg, stored: stored} }

	cmd.AddCommand(c.treeNewCommand(doc))
	cmd.AddCommand(c.treeAddCommand(doc))
	cmd.AddCommand(c.treeDeleteCommand(doc))
	cmd.AddCommand(c.treeToggleCommand(doc))
	cmd.AddCommand(c.treeEditCommand(doc))
	cmd.AddCommand(c.treeLayoutCommand(doc))
	cmd.AddCommand(c.treeOutlineCommand(doc))
	cmd.AddCommand(c.treeRenderCommand(doc))

	return cmd
}

func (c *CLI) treeNewCommand(doc func(string) treeDoc) *cobra.Command {
	var (
		text  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new <doc>",
		Short: "Create a mind map with a single root node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := doc(args[0])
			if d.stored {
				if err := errors.ValidateName(d.arg); err != nil {
					return err
				}
			}
			if !force {
				exists, err := c.treeExists(ctx, d)
				if err != nil {
					return err
				}
				if exists {
					return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to replace it)", d)
				}
			}

			e := mindmap.New(c.Config.Tree, c.treeOptions()...)
			e.NewMap()
			if text != "" {
				f, _ := e.Editable(e.Root())
				f.Text = text
				e.Edit(e.Root(), f)
			}
			if err := c.saveTree(ctx, d, e); err != nil {
				return err
			}
			printSuccess("Created mind map")
			printFile(d.String())
			printKeyValue("root", e.Root())
			printNextStep("Add a node", fmt.Sprintf("%s tree add %s --ref %s", appName, args[0], e.Root()))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "root node text")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing document")

	return cmd
}

func (c *CLI) treeAddCommand(doc func(string) treeDoc) *cobra.Command {
	var (
		ref, kind   string
		text, color string
	)

	cmd := &cobra.Command{
		Use:   "add <doc>",
		Short: "Add a child or sibling node",
		Long: `Add a node next to --ref (default: the root) and print its id.

A child starts one column to the right of the reference, a sibling one row
below it. The new node is then pushed clear of overlapping nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := mindmap.ParseAddKind(kind)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "kind must be child or sibling, got %q", kind)
			}
			if err := errors.ValidateColor(color); err != nil {
				return err
			}
			var id string
			err := c.editTree(cmd.Context(), doc(args[0]), func(e *mindmap.Engine) error {
				r := ref
				if r == "" {
					r = e.Root()
				}
				var err error
				id, err = e.AddNode(r, k)
				if err != nil {
					return err
				}
				if text != "" || color != "" {
					f, _ := e.Editable(id)
					if text != "" {
						f.Text = text
					}
					if color != "" {
						f.Color = color
					}
					e.Edit(id, f)
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "reference node id (default: root)")
	cmd.Flags().StringVar(&kind, "kind", "child", "child or sibling")
	cmd.Flags().StringVar(&text, "text", "", "node text")
	cmd.Flags().StringVar(&color, "color", "", "node color (#rgb or #rrggbb)")

	return cmd
}

func (c *CLI) treeDeleteCommand(doc func(string) treeDoc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doc> <id>",
		Short: "Delete a node and its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			var removed int
			err := c.editTree(cmd.Context(), doc(args[0]), func(e *mindmap.Engine) error {
				if id == e.Root() {
					return errors.New(errors.ErrCodeInvalidInput, "the root node cannot be deleted")
				}
				removed = len(e.Descendants(id)) + 1
				if !e.DeleteNode(id) {
					return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted %d nodes", removed)
			return nil
		},
	}
}

func (c *CLI) treeToggleCommand(doc func(string) treeDoc) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <doc> <id>",
		Short: "Collapse or expand a node's children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			var collapsed bool
			err := c.editTree(cmd.Context(), doc(args[0]), func(e *mindmap.Engine) error {
				if !e.ToggleCollapse(id) {
					return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
				}
				n, _ := e.Node(id)
				collapsed = n.Collapsed
				return nil
			})
			if err != nil {
				return err
			}
			state := "expanded"
			if collapsed {
				state = "collapsed"
			}
			printSuccess("Node %s %s", id, state)
			return nil
		},
	}
}

func (c *CLI) treeEditCommand(doc func(string) treeDoc) *cobra.Command {
	var text, color string

	cmd := &cobra.Command{
		Use:   "edit <doc> <id>",
		Short: "Change a node's text or color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			if !cmd.Flags().Changed("text") && !cmd.Flags().Changed("color") {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to edit: pass --text or --color")
			}
			return c.editTree(cmd.Context(), doc(args[0]), func(e *mindmap.Engine) error {
				f, ok := e.Editable(id)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
				}
				if cmd.Flags().Changed("text") {
					f.Text = text
				}
				if cmd.Flags().Changed("color") {
					f.Color = color
				}
				if err := errors.ValidateColor(f.Color); err != nil {
					return err
				}
				e.Edit(id, f)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "node text")
	cmd.Flags().StringVar(&color, "color", "", "node color (#rgb or #rrggbb)")

	return cmd
}

func (c *CLI) treeLayoutCommand(doc func(string) treeDoc) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <doc>",
		Short: "Lay the mind map out again from its root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			var n int
			err := c.editTree(cmd.Context(), doc(args[0]), func(e *mindmap.Engine) error {
				e.CalculateLayout()
				n = e.Len()
				return nil
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Laid out %d nodes", n))
			return nil
		},
	}
}

func (c *CLI) treeOutlineCommand(doc func(string) treeDoc) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "outline <doc>",
		Short: "Print the mind map as an indented outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadTree(cmd.Context(), doc(args[0]))
			if err != nil {
				return err
			}
			writeOutline(cmd.OutOrStdout(), e, showIDs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "show node ids")

	return cmd
}

// writeOutline prints the tree depth first. Children of collapsed nodes are
// summarized by count.
func writeOutline(w io.Writer, e *mindmap.Engine, showIDs bool) {
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := e.Node(id)
		if !ok {
			return
		}
		line := strings.Repeat("  ", depth) + "- " + n.Text
		if showIDs {
			line += " " + StyleDim.Render("("+n.ID+")")
		}
		if n.Collapsed && len(n.Children) > 0 {
			line += " " + StyleDim.Render(fmt.Sprintf("[+%d]", len(e.Descendants(id))))
			fmt.Fprintln(w, line)
			return
		}
		fmt.Fprintln(w, line)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(e.Root(), 0)
}

func (c *CLI) treeRenderCommand(doc func(string) treeDoc) *cobra.Command {
	var (
		format     string
		output     string
		showIDs    bool
		background string
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "render <doc>",
		Short: "Render a mind map to SVG, DOT, PNG or PDF",
		Long: `Render a mind map.

Formats:
  svg           the engine layout drawn as SVG (default)
  dot           Graphviz DOT source
  graphviz-svg  the DOT source laid out by Graphviz
  png, pdf      the SVG converted with rsvg-convert`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !validFormat(format) {
				return errors.New(errors.ErrCodeInvalidInput, "format must be one of %s, got %q", strings.Join(treeFormats, ", "), format)
			}
			e, err := c.loadTree(ctx, doc(args[0]))
			if err != nil {
				return err
			}
			out, err := renderTree(ctx, e, format, renderTreeOptions{showIDs: showIDs, background: background, scale: scale})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatSVG, "output format: "+strings.Join(treeFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "include node ids in DOT labels")
	cmd.Flags().StringVar(&background, "background", "", "SVG background color")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")

	return cmd
}

func validFormat(f string) bool {
	for _, v := range treeFormats {
		if v == f {
			return true
		}
	}
	return false
}

type renderTreeOptions struct {
	showIDs    bool
	background string
	scale      float64
}

// renderTree produces the bytes for one output format.
func renderTree(ctx context.Context, e *mindmap.Engine, format string, o renderTreeOptions) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot.ToDOT(e, dot.Options{ShowIDs: o.showIDs})), nil
	case formatGraphvizSVG:
		return dot.RenderSVG(ctx, dot.ToDOT(e, dot.Options{ShowIDs: o.showIDs}))
	}

	var opts []svg.Option
	if o.background != "" {
		opts = append(opts, svg.WithBackground(o.background))
	}
	doc := svg.Tree(e, append(opts, svg.WithoutHandles())...)
	switch format {
	case render.FormatSVG:
		return doc, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, doc, o.scale)
	default:
		return render.Convert(ctx, doc, format)
	}
}
