package allocator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRule excludes a fixed set of teacher names from a fixed set of rooms (all rooms if nil)
type mockRule struct {
	name     string
	teachers map[string]bool
	rooms    map[Room]bool
}

func (m *mockRule) Name() string {
	return m.name
}

func (m *mockRule) Excludes(state *State, invigilator *Invigilator, slot *Slot) bool {
	if m.rooms != nil && !m.rooms[slot.Room] {
		return false
	}
	return m.teachers[invigilator.Name()]
}

// historyRule mirrors the room-history rule so these tests don't depend on the criteria package
type historyRule struct{}

func (historyRule) Name() string { return "History" }

func (historyRule) Excludes(state *State, invigilator *Invigilator, slot *Slot) bool {
	return invigilator.HasSupervised(slot.Room)
}

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func buildTeachers(names ...string) []*Teacher {
	teachers := make([]*Teacher, len(names))
	for i, name := range names {
		teachers[i] = &Teacher{Name: name, Subjects: []string{"Subject " + name}}
	}
	return teachers
}

// buildSlots creates one slot per (section, period) for a single grade
func buildSlots(grade, rooms int, periods []string, subject string, selfStudy bool) []*Slot {
	slots := make([]*Slot, 0, rooms*len(periods))
	for _, period := range periods {
		for section := 1; section <= rooms; section++ {
			slots = append(slots, &Slot{
				Index:     len(slots),
				Room:      Room{Grade: grade, Section: section},
				Period:    period,
				Subject:   subject,
				SelfStudy: selfStudy,
			})
		}
	}
	return slots
}

func TestAllocate_RequiresRandomSource(t *testing.T) {
	_, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B"),
		Slots:    buildSlots(1, 1, []string{"P1"}, "Math", false),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "random source")
}

func TestAllocate_DuplicateTeacherName(t *testing.T) {
	_, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B", "A"),
		Slots:    buildSlots(1, 1, []string{"P1"}, "Math", false),
		Rand:     newTestRand(1),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate teacher name")
}

func TestAllocate_SingleSupervisedSlot(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B"),
		Slots:    buildSlots(1, 1, []string{"P1"}, "Math", false),
		Rules:    []ExclusionRule{historyRule{}},
		Rand:     newTestRand(7),
	})
	require.NoError(t, err)

	require.True(t, outcome.Success)
	require.Len(t, outcome.State.Assignments, 1)

	assignment := outcome.State.Assignments[0]
	require.NotNil(t, assignment.Primary)
	require.NotNil(t, assignment.Secondary)
	assert.NotEqual(t, assignment.Primary.Name(), assignment.Secondary.Name())

	// Counters, room history and the used pair are all recorded
	assert.Equal(t, 1, assignment.Primary.PrimaryCount)
	assert.Equal(t, 0, assignment.Primary.SecondaryCount)
	assert.Equal(t, 1, assignment.Secondary.SecondaryCount)
	assert.True(t, assignment.Primary.HasSupervised(Room{Grade: 1, Section: 1}))
	assert.True(t, assignment.Secondary.HasSupervised(Room{Grade: 1, Section: 1}))
	assert.True(t, outcome.State.UsedPairs[NewPair("A", "B")])
}

func TestAllocate_SelfStudySlotGetsOnlyPrimary(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B", "C"),
		Slots:    buildSlots(1, 1, []string{"P1"}, "Self-study", true),
		Rules:    []ExclusionRule{historyRule{}},
		Rand:     newTestRand(3),
	})
	require.NoError(t, err)

	require.True(t, outcome.Success)
	assignment := outcome.State.Assignments[0]
	require.NotNil(t, assignment.Primary)
	assert.Nil(t, assignment.Secondary)
	assert.Equal(t, 1, assignment.Primary.PrimaryCount)
	assert.Empty(t, outcome.State.UsedPairs)
}

func TestAllocate_SelfStudyWithNoEligibleTeacher(t *testing.T) {
	excludeAll := &mockRule{name: "all", teachers: map[string]bool{"A": true, "B": true}}

	outcome, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B"),
		Slots:    buildSlots(1, 1, []string{"P1"}, "Self-study", true),
		Rules:    []ExclusionRule{excludeAll},
		Rand:     newTestRand(1),
	})
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.ValidationErrors, "unassignable slots are not validation errors")
	require.Len(t, outcome.UnassignableSlots, 1)

	assignment := outcome.State.Assignments[0]
	assert.True(t, assignment.IsUnassignable())
	assert.Nil(t, assignment.Secondary)
	assert.Equal(t, []string{"A", "B"}, assignment.Excluded)
}

func TestAllocate_EmptyTeacherPool(t *testing.T) {
	slots := append(
		buildSlots(1, 2, []string{"P1"}, "Math", false),
		buildSlots(2, 1, []string{"P1"}, "Self-study", true)...,
	)
	for i, slot := range slots {
		slot.Index = i
	}

	outcome, err := Allocate(AllocationConfig{
		Teachers: []*Teacher{},
		Slots:    slots,
		Rand:     newTestRand(1),
	})
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Len(t, outcome.UnassignableSlots, 3)
	assert.Empty(t, outcome.ValidationErrors)
	assert.Equal(t, 0, outcome.State.TargetPrimary)
}

func TestAllocate_SupervisedSlotWithOneEligibleTeacher(t *testing.T) {
	onlyA := &mockRule{name: "onlyA", teachers: map[string]bool{"B": true, "C": true}}

	outcome, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B", "C"),
		Slots:    buildSlots(1, 1, []string{"P1"}, "Math", false),
		Rules:    []ExclusionRule{onlyA},
		Rand:     newTestRand(1),
	})
	require.NoError(t, err)

	require.Len(t, outcome.UnassignableSlots, 1)
	assignment := outcome.State.Assignments[0]
	assert.Nil(t, assignment.Primary)
	assert.Nil(t, assignment.Secondary)

	// Nobody's counters move on an unassignable slot
	for _, inv := range outcome.State.Invigilators {
		assert.Equal(t, 0, inv.TotalCount())
	}
}

func TestAllocate_EverySlotProcessedExactlyOnce(t *testing.T) {
	teachers := []string{"A", "B", "C", "D", "E", "F"}
	periods := []string{"P1", "P2", "P3"}

	for seed := uint64(0); seed < 50; seed++ {
		slots := buildSlots(1, 3, periods, "Math", false)
		outcome, err := Allocate(AllocationConfig{
			Teachers: buildTeachers(teachers...),
			Slots:    slots,
			Rules:    []ExclusionRule{historyRule{}},
			Rand:     newTestRand(seed),
		})
		require.NoError(t, err)

		require.Len(t, outcome.State.Assignments, len(slots), "seed %d", seed)
		seen := make(map[int]int)
		for _, assignment := range outcome.State.Assignments {
			seen[assignment.Slot.Index]++
		}
		for _, slot := range slots {
			assert.Equal(t, 1, seen[slot.Index], "seed %d slot %d", seed, slot.Index)
		}
		assert.Empty(t, outcome.ValidationErrors, "seed %d", seed)
	}
}

func TestAllocate_ExcludedTeacherNeverAssigned(t *testing.T) {
	room := Room{Grade: 1, Section: 1}
	rule := &mockRule{name: "noA", teachers: map[string]bool{"A": true}, rooms: map[Room]bool{room: true}}

	for seed := uint64(0); seed < 50; seed++ {
		outcome, err := Allocate(AllocationConfig{
			Teachers: buildTeachers("A", "B", "C", "D"),
			Slots:    buildSlots(1, 2, []string{"P1", "P2"}, "Math", false),
			Rules:    []ExclusionRule{rule, historyRule{}},
			Rand:     newTestRand(seed),
		})
		require.NoError(t, err)

		for _, assignment := range outcome.State.Assignments {
			if assignment.Slot.Room != room {
				continue
			}
			assert.True(t, assignment.IsExcluded("A"))
			if assignment.Primary != nil {
				assert.NotEqual(t, "A", assignment.Primary.Name(), "seed %d", seed)
			}
			if assignment.Secondary != nil {
				assert.NotEqual(t, "A", assignment.Secondary.Name(), "seed %d", seed)
			}
		}
	}
}

func TestAllocate_PairsNeverRepeat(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		outcome, err := Allocate(AllocationConfig{
			Teachers: buildTeachers("A", "B", "C", "D", "E"),
			Slots:    buildSlots(1, 4, []string{"P1", "P2", "P3"}, "Math", false),
			Rules:    []ExclusionRule{historyRule{}},
			Rand:     newTestRand(seed),
		})
		require.NoError(t, err)

		pairs := make(map[Pair]int)
		for _, assignment := range outcome.State.Assignments {
			if assignment.IsUnassignable() {
				continue
			}
			pairs[NewPair(assignment.Primary.Name(), assignment.Secondary.Name())]++
		}
		for pair, count := range pairs {
			assert.Equal(t, 1, count, "seed %d pair %s", seed, pair)
		}
	}
}

func TestAllocate_TargetsAreSoftCeilings(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		slots := buildSlots(1, 6, []string{"P1", "P2", "P3", "P4"}, "Math", false)
		outcome, err := Allocate(AllocationConfig{
			Teachers: buildTeachers("A", "B", "C", "D", "E", "F", "G", "H"),
			Slots:    slots,
			Rules:    []ExclusionRule{historyRule{}},
			Rand:     newTestRand(seed),
		})
		require.NoError(t, err)

		state := outcome.State
		assert.Equal(t, 3, state.TargetPrimary) // floor(24 / 8)
		for _, inv := range state.Invigilators {
			assert.LessOrEqual(t, inv.PrimaryCount, state.TargetPrimary+1, "seed %d teacher %s", seed, inv.Name())
			assert.LessOrEqual(t, inv.SecondaryCount, state.TargetSecondary+1, "seed %d teacher %s", seed, inv.Name())
		}
	}
}

func TestAllocate_SameSeedSameResult(t *testing.T) {
	run := func(seed uint64) []string {
		outcome, err := Allocate(AllocationConfig{
			Teachers: buildTeachers("A", "B", "C", "D", "E"),
			Slots:    buildSlots(2, 3, []string{"P1", "P2"}, "Math", false),
			Rules:    []ExclusionRule{historyRule{}},
			Rand:     newTestRand(seed),
		})
		require.NoError(t, err)
		return summarizeAssignments(outcome.State)
	}

	assert.Equal(t, run(99), run(99))
}

func TestAllocate_DoesNotReorderCallerSlots(t *testing.T) {
	slots := buildSlots(1, 3, []string{"P1", "P2"}, "Math", false)

	_, err := Allocate(AllocationConfig{
		Teachers: buildTeachers("A", "B", "C", "D"),
		Slots:    slots,
		Rand:     newTestRand(5),
	})
	require.NoError(t, err)

	for i, slot := range slots {
		assert.Equal(t, i, slot.Index)
	}
}

func summarizeAssignments(state *State) []string {
	lines := make([]string, 0, len(state.Assignments))
	for _, assignment := range state.Assignments {
		primary, secondary := "-", "-"
		if assignment.Primary != nil {
			primary = assignment.Primary.Name()
		}
		if assignment.Secondary != nil {
			secondary = assignment.Secondary.Name()
		}
		lines = append(lines, fmt.Sprintf("%d:%s:%s", assignment.Slot.Index, primary, secondary))
	}
	return lines
}
