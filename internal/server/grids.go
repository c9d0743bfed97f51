package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/grid"
	pkgio "github.com/matzehuels/meldgrid/pkg/io"
	"github.com/matzehuels/meldgrid/pkg/render/svg"
)

type itemBody struct {
	ID      int             `json:"id"`
	Layout  geom.Rect       `json:"layout"`
	Payload json.RawMessage `json:"config,omitempty"`
}

type addItemRequest struct {
	Layout  geom.Rect       `json:"layout"`
	Payload json.RawMessage `json:"config,omitempty"`
}

type updateItemRequest struct {
	Layout  *geom.Rect      `json:"layout,omitempty"`
	Payload json.RawMessage `json:"config,omitempty"`
}

type moveItemRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type moveItemResponse struct {
	ID      int       `json:"id"`
	Layout  geom.Rect `json:"layout"`
	Moved   bool      `json:"moved"`
	Outcome string    `json:"outcome"`
}

type resizeItemRequest struct {
	Handle string `json:"handle"`
	DX     int    `json:"dx"`
	DY     int    `json:"dy"`
}

type resizeItemResponse struct {
	ID      int       `json:"id"`
	Layout  geom.Rect `json:"layout"`
	Resized bool      `json:"resized"`
}

// gridOp is one operation on a loaded grid. It returns the status and body
// to send; save reports whether the grid must be written back.
type gridOp func(e *grid.Engine, found bool) (status int, body any, save bool, err error)

// withGrid runs op on the named grid while holding its lock.
func (s *Server) withGrid(w http.ResponseWriter, r *http.Request, op gridOp) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	key := s.keys.GridKey(name)
	unlock := s.locks.Lock(key)
	defer unlock()

	ctx := r.Context()
	e, found, err := pkgio.LoadGrid(ctx, s.store, key, s.cfg.Grid, grid.WithLogger(s.logger))
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
		if err := pkgio.SaveGrid(ctx, s.store, key, e); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	respond(w, status, body)
}

func itemID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, badRequest("item id must be a positive integer, got %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	s.withGrid(w, r, func(e *grid.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, notFound("grid %q not found", chi.URLParam(r, "name"))
		}
		data, err := pkgio.MarshalGrid(e)
		return http.StatusOK, data, false, err
	})
}

func (s *Server) handlePutGrid(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	snap, err := pkgio.ParseGrid(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGrid(w, r, func(_ *grid.Engine, found bool) (int, any, bool, error) {
		e, err := grid.FromSnapshot(snap, grid.WithLogger(s.logger))
		if err != nil {
			return 0, nil, false, err
		}
		if err := pkgio.SaveGrid(r.Context(), s.store, s.keys.GridKey(chi.URLParam(r, "name")), e); err != nil {
			return 0, nil, false, err
		}
		out, err := pkgio.MarshalGrid(e)
		status := http.StatusOK
		if !found {
			status = http.StatusCreated
		}
		return status, out, false, err
	})
}

func (s *Server) handleDeleteGrid(w http.ResponseWriter, r *http.Request) {
	s.withGrid(w, r, func(_ *grid.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, notFound("grid %q not found", chi.URLParam(r, "name"))
		}
		if err := s.store.Delete(r.Context(), s.keys.GridKey(chi.URLParam(r, "name"))); err != nil {
			return 0, nil, false, err
		}
		return http.StatusNoContent, nil, false, nil
	})
}

func (s *Server) handleGridSVG(w http.ResponseWriter, r *http.Request) {
	var width float64
	if v := r.URL.Query().Get("width"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			s.writeError(w, r, badRequest("width must be a non-negative number"))
			return
		}
		width = f
	}
	s.withGrid(w, r, func(e *grid.Engine, found bool) (int, any, bool, error) {
		if !found {
			return 0, nil, false, notFound("grid %q not found", chi.URLParam(r, "name"))
		}
		e.SetContainerWidth(width)
		return http.StatusOK, blob{contentType: contentTypeSVG, data: svg.Grid(e.GetLayout(), e.Metrics())}, false, nil
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGrid(w, r, func(e *grid.Engine, _ bool) (int, any, bool, error) {
		id, err := e.AddItem(req.Layout, req.Payload)
		if err != nil {
			return 0, nil, false, err
		}
		it, _ := e.Item(id)
		return http.StatusCreated, itemBody{ID: id, Layout: it.Layout, Payload: it.Payload}, true, nil
	})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req updateItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Layout == nil && req.Payload == nil {
		s.writeError(w, r, badRequest("nothing to update: set layout or config"))
		return
	}
	s.withGrid(w, r, func(e *grid.Engine, _ bool) (int, any, bool, error) {
		it, ok := e.Item(id)
		if !ok {
			return 0, nil, false, notFound("item %d not found", id)
		}
		if l := req.Layout; l != nil && !e.UpdateItemLayout(id, *l) {
			if !l.Valid() || !l.FitsColumns(e.Config().Columns) {
				return 0, nil, false, errors.New(errors.ErrCodeInvalidLayout, "layout %s does not fit the grid", l)
			}
			return 0, nil, false, errors.New(errors.ErrCodeCollision, "layout %s collides with another item", l)
		}
		if req.Payload != nil {
			e.UpdateItemPayload(id, req.Payload)
		}
		it, _ = e.Item(id)
		return http.StatusOK, itemBody{ID: id, Layout: it.Layout, Payload: it.Payload}, true, nil
	})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGrid(w, r, func(e *grid.Engine, _ bool) (int, any, bool, error) {
		if !e.RemoveItem(id) {
			return 0, nil, false, notFound("item %d not found", id)
		}
		return http.StatusNoContent, nil, true, nil
	})
}

// handleMoveItem runs a complete drag to the requested cell: the candidate
// is clamped to the grid and a colliding drop is pushed down or reverted.
func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req moveItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGrid(w, r, func(e *grid.Engine, _ bool) (int, any, bool, error) {
		res, ok := e.MoveItem(id, req.X, req.Y)
		if !ok {
			return 0, nil, false, notFound("item %d not found", id)
		}
		return http.StatusOK, moveItemResponse{ID: id, Layout: res.Layout, Moved: res.Moved, Outcome: res.Outcome}, res.Moved, nil
	})
}

func (s *Server) handleResizeItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req resizeItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := grid.ParseHandle(req.Handle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGrid(w, r, func(e *grid.Engine, _ bool) (int, any, bool, error) {
		rs, ok := e.BeginResize(id, h, geom.Point{})
		if !ok {
			return 0, nil, false, notFound("item %d not found", id)
		}
		rs.MoveBy(req.DX, req.DY)
		final, resized := rs.End()
		return http.StatusOK, resizeItemResponse{ID: id, Layout: final, Resized: resized}, resized, nil
	})
}
