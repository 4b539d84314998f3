// Package store holds the single in-memory CV document for a session and serializes
// every mutation against it.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
)

// IDGenerator produces candidate record ids.
type IDGenerator func() string

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithIDGenerator overrides the generator used for skill ids.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *DocumentStore) {
		s.newID = gen
	}
}

// WithDocument seeds the store with an existing document instead of the empty default.
func WithDocument(doc types.CVDocument) Option {
	return func(s *DocumentStore) {
		s.doc = doc.Clone()
	}
}

// DocumentStore owns one CVDocument. All mutations take the write lock, so readers only
// ever observe fully applied changes. Update and delete operations report whether a
// record with the given id existed; a miss leaves the document untouched.
type DocumentStore struct {
	mu    sync.RWMutex
	doc   types.CVDocument
	newID IDGenerator
}

// New creates a store holding an empty document.
func New(opts ...Option) *DocumentStore {
	s := &DocumentStore{
		doc:   types.NewCVDocument(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current document.
func (s *DocumentStore) Snapshot() types.CVDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Load replaces the whole document.
func (s *DocumentStore) Load(doc types.CVDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
}

// ReplacePersonalInfo overwrites the personal info block. No validation is performed.
func (s *DocumentStore) ReplacePersonalInfo(info types.PersonalInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.PersonalInfo = info
}

// AddExperience appends exp. The caller supplies the id.
func (s *DocumentStore) AddExperience(exp types.Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Experiences = append(s.doc.Experiences, exp)
}

// TryAddExperience appends exp unless an experience already carries its id.
func (s *DocumentStore) TryAddExperience(exp types.Experience) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := indexByID(s.doc.Experiences, exp.ID, experienceID); taken {
		return false
	}
	s.doc.Experiences = append(s.doc.Experiences, exp)
	return true
}

// UpdateExperience replaces the first experience whose id matches, keeping its position.
// The stored record keeps id regardless of exp.ID.
func (s *DocumentStore) UpdateExperience(id string, exp types.Experience) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp.ID = id
	return replaceByID(s.doc.Experiences, id, exp, experienceID)
}

// DeleteExperience removes the first experience whose id matches.
func (s *DocumentStore) DeleteExperience(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.doc.Experiences, found = removeByID(s.doc.Experiences, id, experienceID)
	return found
}

// AddEducation appends edu. The caller supplies the id.
func (s *DocumentStore) AddEducation(edu types.Education) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Education = append(s.doc.Education, edu)
}

// TryAddEducation appends edu unless an education entry already carries its id.
func (s *DocumentStore) TryAddEducation(edu types.Education) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := indexByID(s.doc.Education, edu.ID, educationID); taken {
		return false
	}
	s.doc.Education = append(s.doc.Education, edu)
	return true
}

// UpdateEducation replaces the first education entry whose id matches, keeping its position.
// The stored record keeps id regardless of edu.ID.
func (s *DocumentStore) UpdateEducation(id string, edu types.Education) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	edu.ID = id
	return replaceByID(s.doc.Education, id, edu, educationID)
}

// DeleteEducation removes the first education entry whose id matches.
func (s *DocumentStore) DeleteEducation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.doc.Education, found = removeByID(s.doc.Education, id, educationID)
	return found
}

// AddSkill appends a new skill with a store generated id and returns it.
// The name is stored exactly as given.
func (s *DocumentStore) AddSkill(name string, level types.SkillLevel) types.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()

	skill := types.Skill{
		ID:    s.uniqueSkillID(),
		Name:  name,
		Level: level,
	}
	s.doc.Skills = append(s.doc.Skills, skill)
	return skill
}

// UpdateSkill sets name and level on the matching skill in place.
func (s *DocumentStore) UpdateSkill(id string, name string, level types.SkillLevel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replaceByID(s.doc.Skills, id, types.Skill{ID: id, Name: name, Level: level}, skillID)
}

// RemoveSkill removes the skill with a matching id.
func (s *DocumentStore) RemoveSkill(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.doc.Skills, found = removeByID(s.doc.Skills, id, skillID)
	return found
}

// uniqueSkillID draws ids until one is unused. Must be called with the write lock held.
func (s *DocumentStore) uniqueSkillID() string {
	for {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := indexByID(s.doc.Skills, id, skillID); !taken {
			return id
		}
	}
}

func experienceID(e types.Experience) string { return e.ID }
func educationID(e types.Education) string   { return e.ID }
func skillID(s types.Skill) string           { return s.ID }

func indexByID[T any](items []T, id string, key func(T) string) (int, bool) {
	for i := range items {
		if key(items[i]) == id {
			return i, true
		}
	}
	return -1, false
}

func replaceByID[T any](items []T, id string, item T, key func(T) string) bool {
	i, ok := indexByID(items, id, key)
	if !ok {
		return false
	}
	items[i] = item
	return true
}

// removeByID drops the first match and keeps the remaining items in order.
func removeByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	i, ok := indexByID(items, id, key)
	if !ok {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out, true
}
