package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
	pkgio "github.com/matzehuels/meldgrid/pkg/io"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
	"github.com/matzehuels/meldgrid/pkg/render/dot"
	"github.com/matzehuels/meldgrid/pkg/render/svg"
	"github.com/matzehuels/meldgrid/pkg/store"
)

type nodeBody struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Color     string   `json:"color,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Parent    string   `json:"parent,omitempty"`
	Children  []string `json:"children"`
}

func toNodeBody(n mindmap.Node) nodeBody {
	children := n.Children
	if children == nil {
		children = []string{}
	}
	return nodeBody{
		ID:        n.ID,
		Text:      n.Text,
		Color:     n.Color,
		Collapsed: n.Collapsed,
		X:         n.X,
		Y:         n.Y,
		Parent:    n.Parent,
		Children:  children,
	}
}

type addNodeRequest struct {
	Ref  string `json:"ref"`
	Kind string `json:"kind"`
}

type editNodeRequest struct {
	Text  *string `json:"text,omitempty"`
	Color *string `json:"color,omitempty"`
}

type toggleResponse struct {
	ID        string `json:"id"`
	Collapsed bool   `json:"collapsed"`
}

// treeOp is one operation on a loaded mind map, shaped like gridOp.
type treeOp func(e *mindmap.Engine, found bool) (status int, body any, save bool, err error)

func (s *Server) withTree(w http.ResponseWriter, r *http.Request, op treeOp) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	key := s.keys.TreeKey(name)
	unlock := s.locks.Lock(key)
	defer unlock()

	ctx := r.Context()
	e, found, err := pkgio.LoadTree(ctx, s.store, key, s.cfg.Tree, s.treeOpts()...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, body, save, err := op(e, found)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if save {
		if err := pkgio.SaveTree(ctx, s.store, key, e); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	respond(w, status, body)
}

func (s *Server) treeOpts() []mindmap.Option {
	opts := []mindmap.Option{mindmap.WithLogger(s.logger)}
	if s.ids != nil {
		opts = append(opts, mindmap.WithIDFunc(s.ids))
	}
	return opts
}

func treeMissing(r *http.Request) error {
	return notFound("tree %q not found", chi.URLParam(r, "name"))
}

func exportTree(e *mindmap.Engine) (any, error) {
	data, err := e.Export()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, treeMissing(r)
		}
		body, err := exportTree(e)
		return http.StatusOK, body, false, err
	})
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		next, err := pkgio.ParseTree(data, s.cfg.Tree, s.treeOpts()...)
		if err != nil {
			return 0, nil, false, err
		}
		if err := pkgio.SaveTree(r.Context(), s.store, s.keys.TreeKey(chi.URLParam(r, "name")), next); err != nil {
			return 0, nil, false, err
		}
		body, err := exportTree(next)
		status := http.StatusOK
		if !found {
			status = http.StatusCreated
		}
		return status, body, false, err
	})
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	s.withTree(w, r, func(_ *mindmap.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, treeMissing(r)
		}
		if err := s.store.Delete(r.Context(), s.keys.TreeKey(chi.URLParam(r, "name"))); err != nil {
			return 0, nil, false, err
		}
		return http.StatusNoContent, nil, false, nil
	})
}

// handleAddNode adds a child or sibling. An empty ref means the root, which
// also lets clients create a map with its first child in one call.
func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, ok := mindmap.ParseAddKind(strings.ToLower(req.Kind))
	if !ok {
		s.writeError(w, r, badRequest("kind must be child or sibling, got %q", req.Kind))
		return
	}
	s.withTree(w, r, func(e *mindmap.Engine, _ bool) (int, any, bool, error) {
		ref := req.Ref
		if ref == "" {
			ref = e.Root()
		}
		id, err := e.AddNode(ref, kind)
		if err != nil {
			return 0, nil, false, err
		}
		n, _ := e.Node(id)
		return http.StatusCreated, toNodeBody(n), true, nil
	})
}

func (s *Server) handleEditNode(w http.ResponseWriter, r *http.Request) {
	var req editNodeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		f, ok := e.Editable(id)
		if !found || !ok {
			return 0, nil, false, notFound("node %q not found", id)
		}
		if req.Text != nil {
			f.Text = *req.Text
		}
		if req.Color != nil {
			f.Color = *req.Color
		}
		if err := errors.ValidateColor(f.Color); err != nil {
			return 0, nil, false, err
		}
		e.Edit(id, f)
		n, _ := e.Node(id)
		return http.StatusOK, toNodeBody(n), true, nil
	})
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		if found && id == e.Root() {
			return 0, nil, false, badRequest("the root node cannot be deleted")
		}
		if !found || !e.DeleteNode(id) {
			return 0, nil, false, notFound("node %q not found", id)
		}
		return http.StatusNoContent, nil, true, nil
	})
}

func (s *Server) handleToggleNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		if !found || !e.ToggleCollapse(id) {
			return 0, nil, false, notFound("node %q not found", id)
		}
		n, _ := e.Node(id)
		return http.StatusOK, toggleResponse{ID: id, Collapsed: n.Collapsed}, true, nil
	})
}

// handleMoveNode drags a node, with its subtree, so that its center lands on
// the requested point, then snaps and resolves collisions as a drop would.
func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var req geom.Point
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		n, ok := e.Node(id)
		if !found || !ok {
			return 0, nil, false, notFound("node %q not found", id)
		}
		d, ok := e.BeginDrag(id, n.Position())
		if !ok {
			return 0, nil, false, errors.New(errors.ErrCodeInternal, "drag of %q could not start", id)
		}
		d.Move(req)
		d.End()
		n, _ = e.Node(id)
		return http.StatusOK, toNodeBody(n), true, nil
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, treeMissing(r)
		}
		e.CalculateLayout()
		body, err := exportTree(e)
		return http.StatusOK, body, true, err
	})
}

func (s *Server) handleTreeSVG(w http.ResponseWriter, r *http.Request) {
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, treeMissing(r)
		}
		return http.StatusOK, blob{contentType: contentTypeSVG, data: svg.Tree(e)}, false, nil
	})
}

// handleTreeDOT returns Graphviz source, or the Graphviz rendering with
// ?format=svg.
func (s *Server) handleTreeDOT(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "dot" && format != "svg" {
		s.writeError(w, r, badRequest("format must be dot or svg, got %q", format))
		return
	}
	s.withTree(w, r, func(e *mindmap.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, treeMissing(r)
		}
		src := dot.ToDOT(e, dot.Options{})
		if format != "svg" {
			return http.StatusOK, blob{contentType: contentTypeDOT, data: []byte(src)}, false, nil
		}
		out, err := dot.RenderSVG(r.Context(), src)
		if err != nil {
			return 0, nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render graphviz")
		}
		return http.StatusOK, blob{contentType: contentTypeSVG, data: out}, false, nil
	})
}

// listHandler lists the document names of one kind.
func (s *Server) listHandler(kindPrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := s.keys.GridKey("")
		if kindPrefix == store.TreePrefix {
			prefix = s.keys.TreeKey("")
		}
		keys, err := s.store.List(r.Context(), prefix)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			if name, ok := store.NameFromKey(k, kindPrefix); ok {
				names = append(names, name)
			}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"names": names})
	}
}
