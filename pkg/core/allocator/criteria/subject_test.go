package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
)

func TestSubjectRule_Name(t *testing.T) {
	assert.Equal(t, "Subject", NewSubjectRule().Name())
}

func TestSubjectRule_ExcludesTaughtSubject(t *testing.T) {
	rule := NewSubjectRule()
	state := &allocator.State{}

	inv := newInvigilator(&allocator.Teacher{Name: "Park", Subjects: []string{"English", "Math"}})
	slot := &allocator.Slot{Room: allocator.Room{Grade: 2, Section: 1}, Subject: "Math"}

	assert.True(t, rule.Excludes(state, inv, slot))
}

func TestSubjectRule_AllowsOtherSubjects(t *testing.T) {
	rule := NewSubjectRule()
	state := &allocator.State{}

	inv := newInvigilator(&allocator.Teacher{Name: "Park", Subjects: []string{"English"}})
	slot := &allocator.Slot{Room: allocator.Room{Grade: 2, Section: 1}, Subject: "Science"}

	assert.False(t, rule.Excludes(state, inv, slot))
}

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		label    string
		expected bool
	}{
		{"exact", []string{"Math"}, "Math", true},
		{"case insensitive", []string{"math"}, "MATH", true},
		{"token inside label", []string{"Math"}, "Math II", true},
		{"label inside token", []string{"Mathematics"}, "Math", true},
		{"korean labels", []string{"수학"}, "수학Ⅰ", true},
		{"no match", []string{"History"}, "Physics", false},
		{"empty token ignored", []string{"", "  "}, "Physics", false},
		{"empty label", []string{"Math"}, "", false},
		{"no subjects", nil, "Math", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SubjectMatches(tt.subjects, tt.label))
		})
	}
}
