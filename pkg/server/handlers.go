package server

import (
	"net/http"

	"github.com/matzehuels/umlsync/pkg/buildinfo"
	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/patch"
	"github.com/matzehuels/umlsync/pkg/pipeline"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

// DocumentRequest is the common request shape: a document plus optional
// canvas positions.
type DocumentRequest struct {
	Text       string                     `json:"text"`
	Positions  map[string]layout.Position `json:"positions,omitempty"`
	FromAnswer bool                       `json:"from_answer,omitempty"`

	MinGap         float64 `json:"min_gap,omitempty"`
	KeepTransitive bool    `json:"keep_transitive,omitempty"`
	Format         string  `json:"format,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"`
}

// EntitiesResponse is the body of POST /v1/entities.
type EntitiesResponse struct {
	Entities    []diagram.Entity     `json:"entities"`
	Diagnostics []diagram.Diagnostic `json:"diagnostics,omitempty"`
}

// ApplyResponse is the body of POST /v1/layout/apply.
type ApplyResponse struct {
	Text        string               `json:"text"`
	Changed     bool                 `json:"changed"`
	Constraints []string             `json:"constraints"`
	Warnings    []patch.Warning      `json:"warnings,omitempty"`
	Diagnostics []diagram.Diagnostic `json:"diagnostics,omitempty"`
	Stats       pipeline.Stats       `json:"stats"`
}

// URLResponse is the body of POST /v1/url.
type URLResponse struct {
	URL string `json:"url"`
}

// parse decodes and validates a DocumentRequest and derives the pipeline
// options and snapshot for it. The returned options always name at least
// one format.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) (DocumentRequest, pipeline.Options, layout.Snapshot, error) {
	var req DocumentRequest
	if err := decode(w, r, &req); err != nil {
		return req, pipeline.Options{}, layout.Snapshot{}, err
	}
	if err := errors.ValidateDocument(req.Text); err != nil {
		return req, pipeline.Options{}, layout.Snapshot{}, err
	}
	snap, err := pipeline.SnapshotFromPositions(req.Positions)
	if err != nil {
		return req, pipeline.Options{}, layout.Snapshot{}, err
	}

	opts := s.base
	opts.Logger = s.logger
	opts.FromAnswer = req.FromAnswer
	opts.Refresh = req.Refresh
	if req.MinGap != 0 {
		opts.Layout.MinGap = req.MinGap
	}
	if req.KeepTransitive {
		opts.Layout.KeepTransitive = true
	}
	if req.Format != "" {
		f, err := plantuml.ParseFormat(req.Format)
		if err != nil {
			return req, pipeline.Options{}, layout.Snapshot{}, err
		}
		opts.Formats = []string{string(f)}
	}
	if err := pipeline.CheckOptions(opts); err != nil {
		return req, pipeline.Options{}, layout.Snapshot{}, err
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	return req, opts, snap, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	req, opts, _, err := s.parse(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ex := diagram.Extract(opts.Source(req.Text))
	s.writeJSON(w, http.StatusOK, EntitiesResponse{
		Entities:    nonNil(ex.Entities),
		Diagnostics: ex.Diagnostics,
	})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	req, opts, snap, err := s.parse(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seed, err := s.runner.Reseed(r.Context(), req.Text, snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seed.Nodes = nonNil(seed.Nodes)
	s.writeJSON(w, http.StatusOK, seed)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	req, opts, snap, err := s.parse(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.ApplyLayout(r.Context(), req.Text, snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	statements := make([]string, len(res.Constraints))
	for i, c := range res.Constraints {
		statements[i] = c.Statement()
	}
	s.writeJSON(w, http.StatusOK, ApplyResponse{
		Text:        res.Text,
		Changed:     res.Changed,
		Constraints: statements,
		Warnings:    res.Warnings,
		Diagnostics: res.Diagnostics,
		Stats:       res.Stats,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, opts, snap, err := s.parse(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.runner.Preview(r.Context(), req.Text, snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeImage(w, opts.Formats[0], data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, opts, _, err := s.parse(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	opts.Formats = opts.Formats[:1]
	artifacts, err := s.runner.Render(r.Context(), req.Text, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeImage(w, format, artifacts[format])
}

func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	req, opts, _, err := s.parse(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	url, err := s.runner.URL(req.Text, opts.Formats[0], opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, URLResponse{URL: url})
}

func (s *Server) writeImage(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", plantuml.Format(format).ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
