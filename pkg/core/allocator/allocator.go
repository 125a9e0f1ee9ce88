package allocator

import "math/rand/v2"

// Allocator runs a single greedy assignment pass over the slots
type Allocator struct {
	rules []ExclusionRule
	rand  *rand.Rand
	state *State
}

// AllocationConfig contains the configuration for creating a new Allocator
type AllocationConfig struct {
	// Teachers is the full teacher pool in roster order
	Teachers []*Teacher

	// Slots is the expanded timetable, one slot per (room, period)
	Slots []*Slot

	// Rules are the exclusion rules to apply to every slot (merged as a union)
	Rules []ExclusionRule

	// Rand drives every shuffle in the pass. Runs with the same seed and inputs are identical.
	Rand *rand.Rand
}

// AllocationOutcome represents the result of one allocation pass
type AllocationOutcome struct {
	// State is the final allocation state after the pass
	State *State

	// Success indicates every slot was staffed and no invariant was violated
	Success bool

	// UnassignableSlots contains the slots that received the unassignable sentinel
	UnassignableSlots []*Slot

	// ValidationErrors contains any invariant violations found in the final state
	ValidationErrors []SlotValidationError
}

// Allocate runs the assignment pass: the slots are shuffled once, then each slot is
// processed exactly once in that order. There is no backtracking; a slot that cannot be
// staffed is recorded as unassignable and the pass continues.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	slots := allocator.state.Slots
	allocator.rand.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})

	for _, slot := range slots {
		allocator.allocateSlot(slot)
	}

	return allocator.buildOutcome(), nil
}

// allocateSlot resolves the eligible pool for the slot, picks invigilators and records the assignment
func (a *Allocator) allocateSlot(slot *Slot) {
	excluded := ExcludedInvigilators(a.state, slot, a.rules)

	eligible := make([]*Invigilator, 0, len(a.state.Invigilators))
	for _, invigilator := range a.state.Invigilators {
		if !excluded[invigilator] {
			eligible = append(eligible, invigilator)
		}
	}

	// Randomised tie-break: no candidate is preferred by roster position
	a.rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	assignment := &Assignment{
		Slot:     slot,
		Excluded: excludedNames(excluded),
	}

	if slot.SelfStudy {
		if primary := SelectSelfStudyInvigilator(eligible); primary != nil {
			assignment.Primary = primary
			a.recordSelfStudy(primary, slot)
		}
	} else {
		if primary, secondary, ok := SelectPair(a.state, eligible); ok {
			assignment.Primary = primary
			assignment.Secondary = secondary
			a.recordPair(primary, secondary, slot)
		}
	}

	a.state.Assignments = append(a.state.Assignments, assignment)
}

func (a *Allocator) recordSelfStudy(primary *Invigilator, slot *Slot) {
	primary.PrimaryCount++
	primary.SupervisedRooms[slot.Room] = true
}

func (a *Allocator) recordPair(primary, secondary *Invigilator, slot *Slot) {
	primary.PrimaryCount++
	secondary.SecondaryCount++
	primary.SupervisedRooms[slot.Room] = true
	secondary.SupervisedRooms[slot.Room] = true
	a.state.UsedPairs[NewPair(primary.Name(), secondary.Name())] = true
}

// buildOutcome creates the final allocation outcome report
func (a *Allocator) buildOutcome() *AllocationOutcome {
	// Initialize with empty slices (not nil) for easier consumption
	outcome := &AllocationOutcome{
		State:             a.state,
		UnassignableSlots: []*Slot{},
		ValidationErrors:  []SlotValidationError{},
	}

	for _, assignment := range a.state.UnassignableAssignments() {
		outcome.UnassignableSlots = append(outcome.UnassignableSlots, assignment.Slot)
	}

	outcome.ValidationErrors = append(outcome.ValidationErrors, ValidateState(a.state)...)

	outcome.Success = len(outcome.UnassignableSlots) == 0 && len(outcome.ValidationErrors) == 0

	return outcome
}
