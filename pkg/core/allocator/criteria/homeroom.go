package criteria

import (
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
)

// HomeroomRule keeps homeroom teachers out of their own class's room.
//
// Exclusion:
//   - Excludes a teacher from every slot held in the room they are homeroom teacher of
//   - Teachers without a homeroom are never excluded by this rule
type HomeroomRule struct{}

// NewHomeroomRule creates a new HomeroomRule
func NewHomeroomRule() *HomeroomRule {
	return &HomeroomRule{}
}

func (r *HomeroomRule) Name() string {
	return "Homeroom"
}

func (r *HomeroomRule) Excludes(state *allocator.State, invigilator *allocator.Invigilator, slot *allocator.Slot) bool {
	return invigilator.Teacher.IsHomeroomOf(slot.Room)
}
