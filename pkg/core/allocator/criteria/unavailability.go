package criteria

import (
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
)

// UnavailabilityRule honours the exclusions teachers declared in advance.
//
// Exclusion:
//   - Excludes a teacher from every room of a (grade, period) they declared unavailable for
//   - Grade and period must match exactly
type UnavailabilityRule struct{}

// NewUnavailabilityRule creates a new UnavailabilityRule
func NewUnavailabilityRule() *UnavailabilityRule {
	return &UnavailabilityRule{}
}

func (r *UnavailabilityRule) Name() string {
	return "Unavailability"
}

func (r *UnavailabilityRule) Excludes(state *allocator.State, invigilator *allocator.Invigilator, slot *allocator.Slot) bool {
	return invigilator.Teacher.IsUnavailable(slot.Session())
}
