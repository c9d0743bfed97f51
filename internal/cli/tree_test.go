package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/meldgrid/pkg/errors"
	mgio "github.com/matzehuels/meldgrid/pkg/io"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
)

func readTree(t *testing.T, path string) *mindmap.Engine {
	t.Helper()
	e, err := mgio.ImportTree(path, mindmap.DefaultConfig())
	if err != nil {
		t.Fatalf("import %s: %v", path, err)
	}
	return e
}

// addNode runs tree add and returns the printed id.
func addNode(t *testing.T, args ...string) string {
	t.Helper()
	res := mustRun(t, append([]string{"tree", "add"}, args...)...)
	id := strings.TrimSpace(res.out)
	if id == "" {
		t.Fatalf("tree add %v printed no id", args)
	}
	return id
}

func TestTreeLifecycle(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "plan.json")

	res := mustRun(t, "tree", "new", doc, "--text", "Plan")
	if !strings.Contains(res.ui, "Created mind map") {
		t.Errorf("tree new status = %q", res.ui)
	}
	root := readTree(t, doc).Root()
	if !strings.Contains(res.ui, root) {
		t.Errorf("tree new does not print the root id %s: %q", root, res.ui)
	}

	goals := addNode(t, doc, "--text", "Goals")
	q1 := addNode(t, doc, "--ref", goals, "--text", "Q1", "--color", "#f00")
	addNode(t, doc, "--ref", goals, "--kind", "sibling", "--text", "Risks")

	e := readTree(t, doc)
	if e.Len() != 4 {
		t.Fatalf("tree has %d nodes, want 4", e.Len())
	}
	if n, _ := e.Node(q1); n.Parent != goals || n.Color != "#f00" {
		t.Errorf("Q1 = %+v", n)
	}

	res = mustRun(t, "tree", "outline", doc)
	want := "- Plan\n  - Goals\n    - Q1\n  - Risks\n"
	if res.out != want {
		t.Errorf("outline =\n%s\nwant\n%s", res.out, want)
	}

	res = mustRun(t, "tree", "toggle", doc, goals)
	if !strings.Contains(res.ui, "collapsed") {
		t.Errorf("toggle status = %q", res.ui)
	}
	res = mustRun(t, "tree", "outline", doc)
	if !strings.Contains(res.out, "- Goals [+1]") || strings.Contains(res.out, "Q1") {
		t.Errorf("collapsed outline =\n%s", res.out)
	}
	mustRun(t, "tree", "toggle", doc, goals)

	mustRun(t, "tree", "edit", doc, q1, "--text", "First quarter")
	if n, _ := readTree(t, doc).Node(q1); n.Text != "First quarter" || n.Color != "#f00" {
		t.Errorf("after edit: %+v", n)
	}

	mustRun(t, "tree", "layout", doc)

	res = mustRun(t, "tree", "delete", doc, goals)
	if !strings.Contains(res.ui, "Deleted 2 nodes") {
		t.Errorf("delete status = %q", res.ui)
	}
	if n := readTree(t, doc).Len(); n != 2 {
		t.Errorf("after delete: %d nodes, want 2", n)
	}
}

func TestTreeErrors(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "plan.json")
	mustRun(t, "tree", "new", doc)
	root := readTree(t, doc).Root()

	tests := map[string]struct {
		args []string
		code errors.Code
	}{
		"new exists":       {args: []string{"tree", "new", doc}, code: errors.ErrCodeInvalidInput},
		"missing doc":      {args: []string{"tree", "outline", filepath.Join(dir, "nope.json")}, code: errors.ErrCodeNotFound},
		"bad kind":         {args: []string{"tree", "add", doc, "--kind", "cousin"}, code: errors.ErrCodeInvalidInput},
		"bad add color":    {args: []string{"tree", "add", doc, "--color", "red"}, code: errors.ErrCodeInvalidInput},
		"unknown ref":      {args: []string{"tree", "add", doc, "--ref", "nope"}, code: errors.ErrCodeNotFound},
		"delete root":      {args: []string{"tree", "delete", doc, root}, code: errors.ErrCodeInvalidInput},
		"delete unknown":   {args: []string{"tree", "delete", doc, "nope"}, code: errors.ErrCodeNotFound},
		"toggle unknown":   {args: []string{"tree", "toggle", doc, "nope"}, code: errors.ErrCodeNotFound},
		"edit nothing":     {args: []string{"tree", "edit", doc, root}, code: errors.ErrCodeInvalidInput},
		"edit bad color":   {args: []string{"tree", "edit", doc, root, "--color", "blue"}, code: errors.ErrCodeInvalidInput},
		"edit unknown":     {args: []string{"tree", "edit", doc, "nope", "--text", "x"}, code: errors.ErrCodeNotFound},
		"render bad":       {args: []string{"tree", "render", doc, "-f", "gif"}, code: errors.ErrCodeInvalidInput},
		"stored bad name":  {args: []string{"tree", "outline", "--store", "a/b"}, code: errors.ErrCodeInvalidName},
		"stored not found": {args: []string{"tree", "outline", "--store", "ghost"}, code: errors.ErrCodeNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			expectCode(t, err, tt.code)
		})
	}

	// Failed edits leave the document untouched.
	if n := readTree(t, doc).Len(); n != 1 {
		t.Errorf("tree has %d nodes after failed commands, want 1", n)
	}

	mustRun(t, "tree", "new", doc, "--force", "--text", "Fresh")
	if n, _ := readTree(t, doc).Node(readTree(t, doc).Root()); n.Text != "Fresh" {
		t.Errorf("forced new root text = %q", n.Text)
	}
}

func TestTreeRender(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "plan.json")
	mustRun(t, "tree", "new", doc, "--text", "Plan")
	child := addNode(t, doc, "--text", "Goals", "--color", "#336699")

	res := mustRun(t, "tree", "render", doc, "-f", "dot", "--ids")
	for _, want := range []string{"digraph G", "rankdir=LR", `fillcolor="#336699"`, child} {
		if !strings.Contains(res.out, want) {
			t.Errorf("dot output missing %q:\n%s", want, res.out)
		}
	}

	out := filepath.Join(dir, "plan.svg")
	mustRun(t, "tree", "render", doc, "-o", out, "--background", "#000")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "Goals") || !strings.Contains(svg, `fill="#000"`) {
		t.Errorf("svg output:\n%s", svg)
	}
}

func TestTreeStore(t *testing.T) {
	isolate(t)

	mustRun(t, "tree", "new", "--store", "roadmap", "--text", "Roadmap")
	addNode(t, "--store", "roadmap", "--text", "Launch")

	res := mustRun(t, "tree", "outline", "--store", "roadmap")
	if res.out != "- Roadmap\n  - Launch\n" {
		t.Errorf("stored outline = %q", res.out)
	}

	res = mustRun(t, "store", "list", "tree")
	if !strings.Contains(res.out, "roadmap") {
		t.Errorf("store list does not show the tree:\n%s", res.out)
	}

	_, err := runCLI(t, "tree", "new", "--store", "roadmap")
	expectCode(t, err, errors.ErrCodeInvalidInput)
}
