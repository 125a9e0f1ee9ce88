package criteria

import (
	"strings"

	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
)

// SubjectRule keeps teachers away from exams in a subject they teach.
//
// Exclusion:
//   - Excludes a teacher if any of their subject tokens matches the slot's subject label
//   - Matching is case-insensitive substring matching in either direction, so "Math"
//     matches "Math II" and "Mathematics" matches "Math"
//   - Empty tokens and empty labels never match
type SubjectRule struct{}

// NewSubjectRule creates a new SubjectRule
func NewSubjectRule() *SubjectRule {
	return &SubjectRule{}
}

func (r *SubjectRule) Name() string {
	return "Subject"
}

func (r *SubjectRule) Excludes(state *allocator.State, invigilator *allocator.Invigilator, slot *allocator.Slot) bool {
	return SubjectMatches(invigilator.Teacher.Subjects, slot.Subject)
}

// SubjectMatches reports whether any taught subject token matches the subject label
func SubjectMatches(subjects []string, label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}

	for _, subject := range subjects {
		token := strings.ToLower(strings.TrimSpace(subject))
		if token == "" {
			continue
		}
		if strings.Contains(label, token) || strings.Contains(token, label) {
			return true
		}
	}
	return false
}
