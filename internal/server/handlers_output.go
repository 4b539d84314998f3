package server

import (
	"fmt"
	"net/http"
	"strconv"
)

// handleRender returns the current document as styled HTML
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	markup, _, err := s.exporter.Render(s.store.Snapshot())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(markup)); err != nil {
		s.logger.Error().Err(err).Msg("failed to write rendered document")
	}
}

// handleExport prints the current document to PDF and returns it as an attachment
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.exporter.PDF(r.Context(), s.store.Snapshot())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.PDF); err != nil {
		s.logger.Error().Err(err).Msg("failed to write exported document")
	}
}
