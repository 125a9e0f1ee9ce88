package allocator

import "fmt"

// Check names reported in SlotValidationError.Check
const (
	CheckSlotCoverage   = "SlotCoverage"
	CheckExclusion      = "Exclusion"
	CheckDistinctPair   = "DistinctPair"
	CheckSelfStudyRoles = "SelfStudyRoles"
	CheckPairReuse      = "PairReuse"
	CheckRoomRepeat     = "RoomRepeat"
)

// ValidateState re-checks the pass invariants on a finished allocation state.
// Returns a slice of validation errors for any violation; an empty slice means the state is valid.
// Unassignable slots are an accepted outcome and are not reported here.
func ValidateState(state *State) []SlotValidationError {
	var errors []SlotValidationError

	errors = append(errors, validateSlotCoverage(state)...)

	usedPairs := make(map[Pair]int)
	roomVisits := make(map[string]map[Room]int)

	for _, assignment := range state.Assignments {
		slot := assignment.Slot
		newError := func(check, description string) SlotValidationError {
			return SlotValidationError{
				SlotIndex:   slot.Index,
				Room:        slot.Room.String(),
				Period:      slot.Period,
				Check:       check,
				Description: description,
			}
		}

		if assignment.IsUnassignable() {
			if assignment.Secondary != nil {
				errors = append(errors, newError(CheckDistinctPair, "secondary assigned without a primary"))
			}
			continue
		}

		for _, invigilator := range []*Invigilator{assignment.Primary, assignment.Secondary} {
			if invigilator == nil {
				continue
			}
			if assignment.IsExcluded(invigilator.Name()) {
				errors = append(errors, newError(CheckExclusion,
					fmt.Sprintf("%s is excluded from this slot but was assigned", invigilator.Name())))
			}

			if roomVisits[invigilator.Name()] == nil {
				roomVisits[invigilator.Name()] = make(map[Room]int)
			}
			roomVisits[invigilator.Name()][slot.Room]++
			if roomVisits[invigilator.Name()][slot.Room] == 2 {
				errors = append(errors, newError(CheckRoomRepeat,
					fmt.Sprintf("%s supervises room %s more than once", invigilator.Name(), slot.Room)))
			}
		}

		if slot.SelfStudy {
			if assignment.Secondary != nil {
				errors = append(errors, newError(CheckSelfStudyRoles,
					fmt.Sprintf("self-study slot has a secondary invigilator (%s)", assignment.Secondary.Name())))
			}
			continue
		}

		if assignment.Secondary == nil {
			errors = append(errors, newError(CheckDistinctPair, "supervised slot has a primary but no secondary"))
			continue
		}

		if assignment.Primary.Name() == assignment.Secondary.Name() {
			errors = append(errors, newError(CheckDistinctPair,
				fmt.Sprintf("%s is both primary and secondary", assignment.Primary.Name())))
			continue
		}

		pair := NewPair(assignment.Primary.Name(), assignment.Secondary.Name())
		usedPairs[pair]++
		if usedPairs[pair] == 2 {
			errors = append(errors, newError(CheckPairReuse,
				fmt.Sprintf("pair %s is assigned together more than once", pair)))
		}
	}

	return errors
}

// validateSlotCoverage checks that every slot received exactly one assignment
func validateSlotCoverage(state *State) []SlotValidationError {
	var errors []SlotValidationError

	counts := make(map[*Slot]int)
	for _, assignment := range state.Assignments {
		counts[assignment.Slot]++
	}

	for _, slot := range state.Slots {
		if counts[slot] != 1 {
			errors = append(errors, SlotValidationError{
				SlotIndex:   slot.Index,
				Room:        slot.Room.String(),
				Period:      slot.Period,
				Check:       CheckSlotCoverage,
				Description: fmt.Sprintf("slot was processed %d times (expected exactly once)", counts[slot]),
			})
		}
	}

	return errors
}
