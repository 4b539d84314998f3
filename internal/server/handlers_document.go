package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// handleGetDocument returns the current document snapshot
func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Snapshot())
}

// handleReplaceDocument replaces the whole document with a schema-valid import
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.failure(w, r, &ErrInvalidBody{Cause: err})
		return
	}

	if err := schemas.ValidateDocument(body); err != nil {
		s.metrics.ObserveMutation("document", "replace", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}

	var doc types.CVDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		s.metrics.ObserveMutation("document", "replace", metrics.OutcomeInvalid)
		s.failure(w, r, &ErrInvalidBody{Cause: err})
		return
	}

	s.store.Load(doc)
	s.metrics.ObserveMutation("document", "replace", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusOK, s.store.Snapshot())
}

// handleStatus returns the document's completion summary
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Snapshot().Completion())
}

// handleUpdatePersonalInfo replaces the personal info block
func (s *Server) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	var info types.PersonalInfo
	if err := decodeJSON(w, r, &info); err != nil {
		s.failure(w, r, err)
		return
	}

	if err := validation.PersonalInfo(info); err != nil {
		s.metrics.ObserveMutation("personal_info", "replace", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}

	s.store.ReplacePersonalInfo(info)
	s.metrics.ObserveMutation("personal_info", "replace", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusOK, info)
}
