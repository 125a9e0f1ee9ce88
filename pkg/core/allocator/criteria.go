package allocator

import "sort"

// SlotValidationError represents an invariant violation found on a finished allocation
type SlotValidationError struct {
	SlotIndex   int
	Room        string
	Period      string
	Check       string
	Description string
}

// ExclusionRule decides whether a teacher may supervise a slot.
// Rules are merged as a union: a teacher excluded by ANY rule is ineligible.
type ExclusionRule interface {
	// Name returns a human-readable identifier for this rule
	Name() string

	// Excludes returns true if the invigilator must not supervise the slot.
	// Rules may read the allocation state (e.g. room history) but must not modify it.
	Excludes(state *State, invigilator *Invigilator, slot *Slot) bool
}

// ExcludedInvigilators returns the set of invigilators excluded from the slot by any rule
func ExcludedInvigilators(state *State, slot *Slot, rules []ExclusionRule) map[*Invigilator]bool {
	excluded := make(map[*Invigilator]bool)
	for _, invigilator := range state.Invigilators {
		for _, rule := range rules {
			if rule.Excludes(state, invigilator, slot) {
				excluded[invigilator] = true
				break
			}
		}
	}
	return excluded
}

// EligibleInvigilators returns the invigilators not excluded from the slot, in roster order
func EligibleInvigilators(state *State, slot *Slot, rules []ExclusionRule) []*Invigilator {
	excluded := ExcludedInvigilators(state, slot, rules)

	eligible := make([]*Invigilator, 0, len(state.Invigilators)-len(excluded))
	for _, invigilator := range state.Invigilators {
		if !excluded[invigilator] {
			eligible = append(eligible, invigilator)
		}
	}
	return eligible
}

// ExplainExclusions returns, for every excluded teacher, the names of all the rules excluding them.
// Teachers that are eligible are absent from the map.
func ExplainExclusions(state *State, slot *Slot, rules []ExclusionRule) map[string][]string {
	reasons := make(map[string][]string)
	for _, invigilator := range state.Invigilators {
		for _, rule := range rules {
			if rule.Excludes(state, invigilator, slot) {
				reasons[invigilator.Name()] = append(reasons[invigilator.Name()], rule.Name())
			}
		}
	}
	return reasons
}

// excludedNames returns the sorted names of the excluded invigilators
func excludedNames(excluded map[*Invigilator]bool) []string {
	names := make([]string, 0, len(excluded))
	for invigilator := range excluded {
		names = append(names, invigilator.Name())
	}
	sort.Strings(names)
	return names
}
