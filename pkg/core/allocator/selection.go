package allocator

// SelectSelfStudyInvigilator picks the first candidate of the (already shuffled) eligible pool.
// Returns nil if the pool is empty.
func SelectSelfStudyInvigilator(eligible []*Invigilator) *Invigilator {
	if len(eligible) == 0 {
		return nil
	}
	return eligible[0]
}

// SelectPair scans every ordered pair (primary, secondary) of the shuffled eligible pool,
// outer loop over the primary, and returns the first one where:
//   - the two teachers have never been assigned together (in either order)
//   - the primary's primary count is <= the primary target
//   - the secondary's secondary count is <= the secondary target
//
// This is first-fit, not an optimal matching: a later pair is never considered once an
// earlier one qualifies. Returns ok=false if no pair in the cross product qualifies.
func SelectPair(state *State, eligible []*Invigilator) (primary, secondary *Invigilator, ok bool) {
	for i, a := range eligible {
		if a.PrimaryCount > state.TargetPrimary {
			continue
		}
		for j, b := range eligible {
			if i == j {
				continue
			}
			if b.SecondaryCount > state.TargetSecondary {
				continue
			}
			if state.IsPairUsed(a, b) {
				continue
			}
			return a, b, true
		}
	}
	return nil, nil, false
}
