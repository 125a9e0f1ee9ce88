package criteria

import (
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
)

// Default returns the standard set of exclusion rules applied to every slot
func Default() []allocator.ExclusionRule {
	return []allocator.ExclusionRule{
		NewHomeroomRule(),
		NewSubjectRule(),
		NewUnavailabilityRule(),
		NewRoomHistoryRule(),
	}
}
