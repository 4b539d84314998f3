package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SkillLevel is a closed, ordered proficiency scale.
type SkillLevel int

// Skill levels in ascending order. The zero value is not a valid level.
const (
	SkillLevelBasic SkillLevel = iota + 1
	SkillLevelIntermediate
	SkillLevelAdvanced
	SkillLevelExpert
)

var skillLevelNames = map[SkillLevel]string{
	SkillLevelBasic:        "Basic",
	SkillLevelIntermediate: "Intermediate",
	SkillLevelAdvanced:     "Advanced",
	SkillLevelExpert:       "Expert",
}

// SkillLevels returns all levels in ascending order.
func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillLevelBasic, SkillLevelIntermediate, SkillLevelAdvanced, SkillLevelExpert}
}

// skillLevelList joins the level names in ascending order.
func skillLevelList() string {
	levels := SkillLevels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}

// ParseSkillLevel converts a level name to a SkillLevel.
func ParseSkillLevel(s string) (SkillLevel, error) {
	for level, name := range skillLevelNames {
		if name == s {
			return level, nil
		}
	}
	return 0, &InvalidSkillLevelError{Value: s}
}

// Valid reports whether l is one of the four defined levels.
func (l SkillLevel) Valid() bool {
	_, ok := skillLevelNames[l]
	return ok
}

func (l SkillLevel) String() string {
	if name, ok := skillLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("SkillLevel(%d)", int(l))
}

// MarshalJSON encodes the level by name.
func (l SkillLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, &InvalidSkillLevelError{Value: l.String()}
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level name, rejecting anything outside the scale.
func (l *SkillLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("skill level must be a string: %w", err)
	}
	parsed, err := ParseSkillLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// InvalidSkillLevelError is returned when a value is not a known skill level.
type InvalidSkillLevelError struct {
	Value string
}

func (e *InvalidSkillLevelError) Error() string {
	return fmt.Sprintf("invalid skill level %q: must be one of %s", e.Value, skillLevelList())
}
