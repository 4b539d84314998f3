package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

const (
	collectionExperiences = "experience"
	collectionEducation   = "education"
	collectionSkills      = "skill"
)

// SkillRequest is the body for creating or updating a skill. Name is trimmed before use.
type SkillRequest struct {
	Name  string           `json:"name"`
	Level types.SkillLevel `json:"level"`
}

// handleCreateExperience appends an experience, assigning an unused id when the client omits one
func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	var exp types.Experience
	if err := decodeJSON(w, r, &exp); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := validation.Experience(exp); err != nil {
		s.metrics.ObserveMutation(collectionExperiences, "add", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}
	if exp.ID == "" {
		exp.ID = s.newID()
		for !s.store.TryAddExperience(exp) {
			exp.ID = s.newID()
		}
	} else if !s.store.TryAddExperience(exp) {
		s.metrics.ObserveMutation(collectionExperiences, "add", metrics.OutcomeConflict)
		s.failure(w, r, &ErrDuplicateID{Collection: collectionExperiences, ID: exp.ID})
		return
	}

	s.metrics.ObserveMutation(collectionExperiences, "add", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusCreated, exp)
}

// handleUpdateExperience replaces the experience with the path id
func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var exp types.Experience
	if err := decodeJSON(w, r, &exp); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := validation.Experience(exp); err != nil {
		s.metrics.ObserveMutation(collectionExperiences, "update", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}

	if !s.store.UpdateExperience(id, exp) {
		s.metrics.ObserveMutation(collectionExperiences, "update", metrics.OutcomeNotFound)
		s.failure(w, r, &ErrNotFound{Collection: collectionExperiences, ID: id})
		return
	}

	exp.ID = id
	s.metrics.ObserveMutation(collectionExperiences, "update", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusOK, exp)
}

// handleDeleteExperience removes the experience with the path id
func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteExperience(id) {
		s.metrics.ObserveMutation(collectionExperiences, "delete", metrics.OutcomeNotFound)
		s.failure(w, r, &ErrNotFound{Collection: collectionExperiences, ID: id})
		return
	}
	s.metrics.ObserveMutation(collectionExperiences, "delete", metrics.OutcomeApplied)
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateEducation appends an education entry, assigning an unused id when the client omits one
func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	var edu types.Education
	if err := decodeJSON(w, r, &edu); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := validation.Education(edu); err != nil {
		s.metrics.ObserveMutation(collectionEducation, "add", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}
	if edu.ID == "" {
		edu.ID = s.newID()
		for !s.store.TryAddEducation(edu) {
			edu.ID = s.newID()
		}
	} else if !s.store.TryAddEducation(edu) {
		s.metrics.ObserveMutation(collectionEducation, "add", metrics.OutcomeConflict)
		s.failure(w, r, &ErrDuplicateID{Collection: collectionEducation, ID: edu.ID})
		return
	}

	s.metrics.ObserveMutation(collectionEducation, "add", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusCreated, edu)
}

// handleUpdateEducation replaces the education entry with the path id
func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var edu types.Education
	if err := decodeJSON(w, r, &edu); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := validation.Education(edu); err != nil {
		s.metrics.ObserveMutation(collectionEducation, "update", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}

	if !s.store.UpdateEducation(id, edu) {
		s.metrics.ObserveMutation(collectionEducation, "update", metrics.OutcomeNotFound)
		s.failure(w, r, &ErrNotFound{Collection: collectionEducation, ID: id})
		return
	}

	edu.ID = id
	s.metrics.ObserveMutation(collectionEducation, "update", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusOK, edu)
}

// handleDeleteEducation removes the education entry with the path id
func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteEducation(id) {
		s.metrics.ObserveMutation(collectionEducation, "delete", metrics.OutcomeNotFound)
		s.failure(w, r, &ErrNotFound{Collection: collectionEducation, ID: id})
		return
	}
	s.metrics.ObserveMutation(collectionEducation, "delete", metrics.OutcomeApplied)
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateSkill appends a skill; the store always generates its id
func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Skill(req.Name, req.Level); err != nil {
		s.metrics.ObserveMutation(collectionSkills, "add", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}

	skill := s.store.AddSkill(req.Name, req.Level)
	s.metrics.ObserveMutation(collectionSkills, "add", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusCreated, skill)
}

// handleUpdateSkill changes the name and level of the skill with the path id
func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SkillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Skill(req.Name, req.Level); err != nil {
		s.metrics.ObserveMutation(collectionSkills, "update", metrics.OutcomeInvalid)
		s.failure(w, r, err)
		return
	}

	if !s.store.UpdateSkill(id, req.Name, req.Level) {
		s.metrics.ObserveMutation(collectionSkills, "update", metrics.OutcomeNotFound)
		s.failure(w, r, &ErrNotFound{Collection: collectionSkills, ID: id})
		return
	}

	s.metrics.ObserveMutation(collectionSkills, "update", metrics.OutcomeApplied)
	s.jsonResponse(w, http.StatusOK, types.Skill{ID: id, Name: req.Name, Level: req.Level})
}

// handleDeleteSkill removes the skill with the path id
func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.RemoveSkill(id) {
		s.metrics.ObserveMutation(collectionSkills, "delete", metrics.OutcomeNotFound)
		s.failure(w, r, &ErrNotFound{Collection: collectionSkills, ID: id})
		return
	}
	s.metrics.ObserveMutation(collectionSkills, "delete", metrics.OutcomeApplied)
	w.WriteHeader(http.StatusNoContent)
}
