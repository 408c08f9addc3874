package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/document"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

const maxBodySize = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"types":     len(s.catalog.Names()),
		"instances": len(s.instances.list()),
	})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, s.catalog.Types())
}

func (s *Server) schema(name string) (metadata.Schema, error) {
	schema, ok := s.catalog.Schema(name)
	if !ok {
		// scene.New carries the suggestions for unknown names
		_, err := scene.New(name)
		return nil, err
	}
	return schema, nil
}

func (s *Server) handleGetType(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schema(chi.URLParam(r, "name"))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, schema.Describe())
}

// dependencyResponse is the body of the deps endpoint
type dependencyResponse struct {
	Nodes  map[string]*metadata.DependencyNode `json:"nodes"`
	Edges  []metadata.DependencyEdge           `json:"edges"`
	Cycles [][]string                          `json:"cycles,omitempty"`
}

func (s *Server) handleTypeDeps(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := s.schema(name); err != nil {
		renderError(w, err)
		return
	}

	opts := metadata.DependencyOptions{Reverse: cast.ToBool(r.URL.Query().Get("reverse"))}
	if depth := r.URL.Query().Get("depth"); depth != "" {
		d, err := cast.ToIntE(depth)
		if err != nil || d < 0 {
			renderError(w, fmt.Errorf("%w: invalid depth %q", errBadRequest, depth))
			return
		}
		opts.Depth = d
	}

	sub, err := s.catalog.Dependencies(name, opts)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, dependencyResponse{
		Nodes:  sub.Nodes,
		Edges:  sub.Edges,
		Cycles: metadata.DetectCycles(sub),
	})
}

func (s *Server) handleListInstances(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, s.instances.list())
}

// CreateInstanceRequest is the body of POST /api/instances
type CreateInstanceRequest struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

func (s *Server) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	var req CreateInstanceRequest
	if err := decodeBody(r, &req); err != nil {
		renderError(w, err)
		return
	}
	if req.Type == "" {
		renderError(w, fmt.Errorf("%w: type is required", errBadRequest))
		return
	}

	li, err := s.instances.create(req.Type, req.ID)
	if err != nil {
		renderError(w, err)
		return
	}
	s.logger.Debug("instance created", zap.String("id", li.id), zap.String("type", req.Type))
	renderJSON(w, http.StatusCreated, li.info())
}

func (s *Server) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	if err := s.instances.remove(chi.URLParam(r, "id")); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) instance(w http.ResponseWriter, r *http.Request) (*liveInstance, bool) {
	li, err := s.instances.get(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, err)
		return nil, false
	}
	return li, true
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	li, ok := s.instance(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	format := document.FormatJSON
	if f := query.Get("format"); f != "" {
		parsed, err := document.ParseFormat(f)
		if err != nil {
			renderError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		format = parsed
	}
	var opts []metadata.SerializeOption
	if cast.ToBool(query.Get("recursive")) {
		opts = append(opts, metadata.Recursive())
	}

	doc := li.document(opts...)
	if format == document.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	if err := doc.Encode(w, format, 2); err != nil {
		s.logger.Error("failed to encode document", zap.String("instance", li.id), zap.Error(err))
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	li, ok := s.instance(w, r)
	if !ok {
		return
	}
	msg, err := li.edit(s.config.Style, scene.Inputs{OpenAll: cast.ToBool(r.URL.Query().Get("open_all"))})
	if err != nil {
		renderError(w, err)
		return
	}
	s.frameDrawn(li, msg.Frame)
	renderJSON(w, http.StatusOK, msg)
}

func (s *Server) handleEdits(w http.ResponseWriter, r *http.Request) {
	li, ok := s.instance(w, r)
	if !ok {
		return
	}
	var in scene.Inputs
	if err := decodeBody(r, &in); err != nil {
		renderError(w, err)
		return
	}

	msg, err := s.apply(li, in)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, msg)
}

// apply edits li and pushes the new frame to its live clients. A frame is
// broadcast even when some inputs went unused.
func (s *Server) apply(li *liveInstance, in scene.Inputs) (FrameMessage, error) {
	msg, err := li.edit(s.config.Style, in)
	s.frameDrawn(li, msg.Frame)
	li.broadcast(msg)
	return msg, err
}

func (s *Server) frameDrawn(li *liveInstance, frame widget.Frame) {
	if s.metrics == nil {
		return
	}
	typeName := li.inst.TypeName()
	s.metrics.FrameDrawn(typeName)
	changed := 0
	for _, op := range frame.Ops {
		if op.Changed {
			changed++
		}
	}
	s.metrics.FieldsEdited(typeName, changed)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	li, ok := s.instance(w, r)
	if !ok {
		return
	}
	var opts []metadata.SerializeOption
	if cast.ToBool(r.URL.Query().Get("recursive")) {
		opts = append(opts, metadata.Recursive())
	}

	data, err := json.Marshal(li.document(opts...))
	if err != nil {
		renderError(w, err)
		return
	}
	snap := store.NewSnapshot(li.inst.TypeName(), data)
	if err := s.store.Save(r.Context(), snap); err != nil {
		renderError(w, fmt.Errorf("failed to save snapshot: %w", err))
		return
	}
	if s.metrics != nil {
		s.metrics.SnapshotSaved(snap.Type)
	}
	s.logger.Info("snapshot saved", zap.String("id", snap.ID), zap.String("instance", li.id))
	renderJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		renderError(w, err)
		return
	}
	if snaps == nil {
		snaps = []*store.Snapshot{}
	}
	renderJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}
