package allocator

import (
	"fmt"
)

// InitInvigilators creates one fresh Invigilator per teacher, preserving roster order.
// Returns an error if two teachers share a name.
func InitInvigilators(teachers []*Teacher) ([]*Invigilator, error) {
	seen := make(map[string]bool)
	invigilators := make([]*Invigilator, 0, len(teachers))

	for _, teacher := range teachers {
		if teacher == nil {
			return nil, fmt.Errorf("nil teacher in roster")
		}
		if seen[teacher.Name] {
			return nil, fmt.Errorf("duplicate teacher name %q", teacher.Name)
		}
		seen[teacher.Name] = true

		invigilators = append(invigilators, &Invigilator{
			Teacher:         teacher,
			SupervisedRooms: make(map[Room]bool),
		})
	}

	return invigilators, nil
}

// CalculateTarget returns the per-role fairness target:
// floor(supervisedSlots / teacherCount), or 0 when there are no teachers
func CalculateTarget(supervisedSlots, teacherCount int) int {
	if teacherCount <= 0 {
		return 0
	}
	return supervisedSlots / teacherCount
}

// InitState builds a fresh allocation context for the given teachers and slots.
// Slots are kept in the given order; Allocate shuffles them before the pass.
func InitState(teachers []*Teacher, slots []*Slot) (*State, error) {
	invigilators, err := InitInvigilators(teachers)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if slot == nil {
			return nil, fmt.Errorf("nil slot in timetable")
		}
	}

	state := &State{
		Slots:        append([]*Slot(nil), slots...),
		Invigilators: invigilators,
		UsedPairs:    make(map[Pair]bool),
		Assignments:  make([]*Assignment, 0, len(slots)),
	}

	target := CalculateTarget(state.SupervisedSlotCount(), len(invigilators))
	state.TargetPrimary = target
	state.TargetSecondary = target

	return state, nil
}

// InitAllocation validates the configuration and creates an Allocator with a fresh state
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	if config.Rand == nil {
		return nil, fmt.Errorf("allocation requires a random source")
	}

	state, err := InitState(config.Teachers, config.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise allocation state: %w", err)
	}

	return &Allocator{
		rules: config.Rules,
		rand:  config.Rand,
		state: state,
	}, nil
}
