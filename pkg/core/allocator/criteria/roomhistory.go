package criteria

import (
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
)

// RoomHistoryRule stops a teacher from supervising the same room twice.
//
// Exclusion:
//   - Excludes a teacher from a slot if they were already assigned (in either role) to the
//     slot's room earlier in the pass, whatever the period
//   - Stateful: the result depends on the assignments made so far in the current pass
type RoomHistoryRule struct{}

// NewRoomHistoryRule creates a new RoomHistoryRule
func NewRoomHistoryRule() *RoomHistoryRule {
	return &RoomHistoryRule{}
}

func (r *RoomHistoryRule) Name() string {
	return "RoomHistory"
}

func (r *RoomHistoryRule) Excludes(state *allocator.State, invigilator *allocator.Invigilator, slot *allocator.Slot) bool {
	return invigilator.HasSupervised(slot.Room)
}
