package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexora/casemap/pkg/buildinfo"
	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/pipeline"
	"github.com/lexora/casemap/pkg/render/svg"
	"github.com/lexora/casemap/pkg/session"
	"github.com/lexora/casemap/pkg/view"
	"github.com/lexora/casemap/pkg/viewport"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(s.logger, w, http.StatusOK, map[string]any{
		"status":   "ok",
		"build":    buildinfo.Get(),
		"sessions": s.sessions.Len(),
	})
}

// =============================================================================
// Stateless pipeline
// =============================================================================

// layout handles POST /api/layout: Graph in, positioned Graph out.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	g, err := s.readGraph(w, r)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	out, err := s.runner.Layout(r.Context(), g, s.pipelineOptions())
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, out)
}

// render handles POST /api/render?format=svg&engine=native&viewbox=x,y,w,h.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	g, err := s.readGraph(w, r)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := s.pipelineOptions()
	opts.Formats = []string{format}
	opts.Engine = q.Get("engine")
	opts.Selected = q.Get("selected")
	opts.Title = q.Get("title")
	if raw := q.Get("viewbox"); raw != "" {
		vb, err := viewport.ParseViewbox(raw)
		if err != nil {
			respondError(s.logger, w, err)
			return
		}
		opts.Viewbox = &vb
	}

	res, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// caseMindMap handles GET /api/cases/{caseID}/mindmap.
func (s *Server) caseMindMap(w http.ResponseWriter, r *http.Request) {
	if s.runner.Source == nil {
		respondError(s.logger, w, errors.New(errors.ErrCodeNotFound, "no case source configured"))
		return
	}
	g, err := s.runner.Load(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	out, err := s.runner.Layout(r.Context(), g, s.pipelineOptions())
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, out)
}

// =============================================================================
// Sessions
// =============================================================================

// createSession handles POST /api/sessions. The body is a Graph, a
// {"case_id": "..."} reference, or empty for the empty state.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	g, err := s.readSessionGraph(w, r)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	sess, err := s.sessions.Create(r.Context(), g)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	respondJSON(s.logger, w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(s.logger, w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		respondError(s.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionEvent handles POST /api/sessions/{id}/events.
func (s *Server) sessionEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev session.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)).Decode(&ev); err != nil {
		respondError(s.logger, w, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode event"))
		return
	}
	out, err := sess.Dispatch(r.Context(), ev)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, out)
}

// replaceGraph handles PUT /api/sessions/{id}/graph.
func (s *Server) replaceGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	g, err := s.readSessionGraph(w, r)
	if err != nil {
		respondError(s.logger, w, err)
		return
	}
	sess.SetGraph(g)
	respondJSON(s.logger, w, http.StatusOK, sess.Snapshot())
}

func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(s.logger, w, http.StatusOK, map[string]any{"viewbox": sess.Reset()})
}

// activateNode handles POST /api/sessions/{id}/nodes/{nodeID}/activate,
// the keyboard equivalent of clicking a node.
func (s *Server) activateNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "nodeID")
	n, found := sess.Activate(id)
	if !found {
		respondError(s.logger, w, errors.New(errors.ErrCodeNotFound, "node %q not found", id))
		return
	}
	respondJSON(s.logger, w, http.StatusOK, map[string]any{"activated": n})
}

// sessionSVG handles GET /api/sessions/{id}/svg?selected=ID.
func (s *Server) sessionSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var doc []byte
	if scene, ok := sess.Scene(); ok {
		var opts []svg.Option
		if sel := r.URL.Query().Get("selected"); sel != "" {
			opts = append(opts, svg.WithSelected(sel))
		}
		doc = svg.Render(scene, opts...)
	} else {
		doc = svg.RenderEmpty(view.EmptyMessage)
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(s.logger, w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (*mindmap.Graph, error) {
	g, err := mindmap.Decode(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, err
	}
	return g, s.checkSize(g)
}

// readSessionGraph accepts a Graph, a case reference or an empty body.
func (s *Server) readSessionGraph(w http.ResponseWriter, r *http.Request) (*mindmap.Graph, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) == 0 {
		return mindmap.Empty(), nil
	}

	var ref struct {
		CaseID string `json:"case_id"`
	}
	if err := json.Unmarshal(body, &ref); err == nil && ref.CaseID != "" {
		if s.runner.Source == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "no case source configured")
		}
		g, err := s.runner.Load(r.Context(), ref.CaseID)
		if err != nil {
			return nil, err
		}
		return g, s.checkSize(g)
	}

	g, err := mindmap.Unmarshal(body)
	if err != nil {
		return nil, err
	}
	return g, s.checkSize(g)
}

func (s *Server) checkSize(g *mindmap.Graph) error {
	max := s.opts.MaxNodes
	if max == 0 {
		max = pipeline.DefaultMaxNodes
	}
	return errors.ValidateNodeCount(g.NodeCount(), max)
}
