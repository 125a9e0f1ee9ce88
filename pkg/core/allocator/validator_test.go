package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checksOf(errors []SlotValidationError) []string {
	checks := make([]string, len(errors))
	for i, err := range errors {
		checks[i] = err.Check
	}
	return checks
}

func TestValidateState_ValidAllocation(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B", "C", "D"),
		Slots:    buildSlots(1, 2, []string{"P1"}, "Math", false),
		Rules:    []ExclusionRule{historyRule{}},
		Rand:     newTestRand(11),
	})
	require.NoError(t, err)

	assert.Empty(t, ValidateState(outcome.State))
}

func TestValidateState_ExcludedTeacherAssigned(t *testing.T) {
	invs := buildInvigilators("A", "B")
	slot := &Slot{Index: 0, Room: Room{Grade: 1, Section: 1}, Period: "P1"}
	state := &State{
		Slots:        []*Slot{slot},
		Invigilators: invs,
		Assignments: []*Assignment{
			{Slot: slot, Primary: invs[0], Secondary: invs[1], Excluded: []string{"A"}},
		},
	}

	errors := ValidateState(state)
	require.Len(t, errors, 1)
	assert.Equal(t, CheckExclusion, errors[0].Check)
	assert.Equal(t, "1-1", errors[0].Room)
	assert.Equal(t, "P1", errors[0].Period)
}

func TestValidateState_SameTeacherBothRoles(t *testing.T) {
	invs := buildInvigilators("A")
	slot := &Slot{Index: 0, Room: Room{Grade: 1, Section: 1}, Period: "P1"}
	state := &State{
		Slots:       []*Slot{slot},
		Assignments: []*Assignment{{Slot: slot, Primary: invs[0], Secondary: invs[0]}},
	}

	// Both the role check and the room repeat fire
	assert.ElementsMatch(t, []string{CheckRoomRepeat, CheckDistinctPair}, checksOf(ValidateState(state)))
}

func TestValidateState_PairReuseAndRoomRepeat(t *testing.T) {
	invs := buildInvigilators("A", "B")
	first := &Slot{Index: 0, Room: Room{Grade: 1, Section: 1}, Period: "P1"}
	second := &Slot{Index: 1, Room: Room{Grade: 1, Section: 2}, Period: "P1"}
	third := &Slot{Index: 2, Room: Room{Grade: 1, Section: 1}, Period: "P2"}
	state := &State{
		Slots: []*Slot{first, second, third},
		Assignments: []*Assignment{
			{Slot: first, Primary: invs[0], Secondary: invs[1]},
			{Slot: second, Primary: invs[1], Secondary: invs[0]},
			{Slot: third, Primary: nil},
		},
	}

	assert.Equal(t, []string{CheckPairReuse}, checksOf(ValidateState(state)))

	// Re-using room 1-1 for A trips the room check
	state.Assignments[2] = &Assignment{Slot: third, Primary: invs[0], Secondary: &Invigilator{Teacher: &Teacher{Name: "C"}}}
	assert.ElementsMatch(t, []string{CheckPairReuse, CheckRoomRepeat}, checksOf(ValidateState(state)))
}

func TestValidateState_SelfStudyWithSecondary(t *testing.T) {
	invs := buildInvigilators("A", "B")
	slot := &Slot{Index: 0, Room: Room{Grade: 1, Section: 1}, Period: "P1", SelfStudy: true}
	state := &State{
		Slots:       []*Slot{slot},
		Assignments: []*Assignment{{Slot: slot, Primary: invs[0], Secondary: invs[1]}},
	}

	assert.Equal(t, []string{CheckSelfStudyRoles}, checksOf(ValidateState(state)))
}

func TestValidateState_MissingSecondary(t *testing.T) {
	invs := buildInvigilators("A")
	slot := &Slot{Index: 0, Room: Room{Grade: 1, Section: 1}, Period: "P1"}
	state := &State{
		Slots:       []*Slot{slot},
		Assignments: []*Assignment{{Slot: slot, Primary: invs[0]}},
	}

	assert.Equal(t, []string{CheckDistinctPair}, checksOf(ValidateState(state)))
}

func TestValidateState_SlotCoverage(t *testing.T) {
	processedTwice := &Slot{Index: 0, Room: Room{Grade: 1, Section: 1}, Period: "P1"}
	neverProcessed := &Slot{Index: 1, Room: Room{Grade: 1, Section: 2}, Period: "P1"}
	state := &State{
		Slots: []*Slot{processedTwice, neverProcessed},
		Assignments: []*Assignment{
			{Slot: processedTwice},
			{Slot: processedTwice},
		},
	}

	errors := ValidateState(state)
	require.Len(t, errors, 2)
	for _, err := range errors {
		assert.Equal(t, CheckSlotCoverage, err.Check)
	}
}
