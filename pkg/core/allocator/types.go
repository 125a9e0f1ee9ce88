package allocator

import (
	"fmt"
	"slices"
)

// Room identifies an examination room by grade and section (class) number
type Room struct {
	Grade   int
	Section int
}

func (r Room) String() string {
	return fmt.Sprintf("%d-%d", r.Grade, r.Section)
}

// Session is a (grade, period) pair. Teachers declare unavailability per session.
type Session struct {
	Grade  int
	Period string
}

// Teacher is the static identity of a potential invigilator
type Teacher struct {
	// Name uniquely identifies the teacher
	Name string

	// Subjects are the normalized subject tokens the teacher teaches
	Subjects []string

	// Homeroom is the room this teacher is homeroom teacher of (nil if none)
	Homeroom *Room

	// Unavailable contains the sessions the teacher declared they cannot supervise
	Unavailable map[Session]bool
}

// IsUnavailable returns true if the teacher declared an exclusion for the session
func (t *Teacher) IsUnavailable(session Session) bool {
	return t.Unavailable[session]
}

// IsHomeroomOf returns true if the teacher is the homeroom teacher of the room
func (t *Teacher) IsHomeroomOf(room Room) bool {
	return t.Homeroom != nil && *t.Homeroom == room
}

// Slot is a single (room, period, subject) that needs supervising
type Slot struct {
	// Index is the position of the slot in the expanded timetable (stable across shuffles)
	Index int

	Room    Room
	Period  string
	Subject string

	// SelfStudy slots need exactly one primary invigilator and no secondary
	SelfStudy bool
}

// Session returns the (grade, period) the slot belongs to
func (s *Slot) Session() Session {
	return Session{Grade: s.Room.Grade, Period: s.Period}
}

// Invigilator tracks one teacher's running state during a single allocation pass.
// Counters only ever increase and SupervisedRooms only ever grows.
type Invigilator struct {
	Teacher *Teacher

	PrimaryCount   int
	SecondaryCount int

	// SupervisedRooms holds every room this teacher has already been assigned to in this pass
	SupervisedRooms map[Room]bool
}

// Name returns the teacher's name
func (inv *Invigilator) Name() string {
	return inv.Teacher.Name
}

// TotalCount returns the number of slots supervised in either role
func (inv *Invigilator) TotalCount() int {
	return inv.PrimaryCount + inv.SecondaryCount
}

// HasSupervised returns true if the teacher was already assigned to the room
func (inv *Invigilator) HasSupervised(room Room) bool {
	return inv.SupervisedRooms[room]
}

// Pair is an unordered pair of teacher names
type Pair struct {
	first  string
	second string
}

// NewPair returns the pair for two teachers regardless of argument order
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{first: a, second: b}
}

func (p Pair) String() string {
	return p.first + " & " + p.second
}

// Assignment is the outcome of processing a single slot
type Assignment struct {
	Slot *Slot

	// Primary is nil when the slot was unassignable
	Primary *Invigilator

	// Secondary is nil for self-study slots and for unassignable slots
	Secondary *Invigilator

	// Excluded lists the names of the teachers excluded from the slot at the time it was processed (sorted)
	Excluded []string
}

// IsUnassignable returns true if the slot could not be staffed
func (a *Assignment) IsUnassignable() bool {
	return a.Primary == nil
}

// IsExcluded returns true if the named teacher was excluded from the slot
func (a *Assignment) IsExcluded(name string) bool {
	_, found := slices.BinarySearch(a.Excluded, name)
	return found
}

// State is the mutable allocation context for one pass.
// A fresh State is built for every pass so passes never share counters.
type State struct {
	// Slots in processing order (shuffled at the start of the pass)
	Slots []*Slot

	// Invigilators in roster order
	Invigilators []*Invigilator

	// UsedPairs records every (primary, secondary) pair already assigned together
	UsedPairs map[Pair]bool

	// TargetPrimary and TargetSecondary are the soft per-teacher ceilings for each role.
	// A teacher qualifies for a role while its count is <= the target, so a teacher can
	// end the pass at most one above the target.
	TargetPrimary   int
	TargetSecondary int

	// Assignments in processing order, one per slot
	Assignments []*Assignment
}

// SupervisedSlotCount returns the number of slots that need a primary and a secondary
func (s *State) SupervisedSlotCount() int {
	count := 0
	for _, slot := range s.Slots {
		if !slot.SelfStudy {
			count++
		}
	}
	return count
}

// IsPairUsed returns true if the two teachers were already assigned together (in either order)
func (s *State) IsPairUsed(a, b *Invigilator) bool {
	return s.UsedPairs[NewPair(a.Name(), b.Name())]
}

// UnassignableAssignments returns the assignments whose slot could not be staffed
func (s *State) UnassignableAssignments() []*Assignment {
	result := make([]*Assignment, 0)
	for _, assignment := range s.Assignments {
		if assignment.IsUnassignable() {
			result = append(result, assignment)
		}
	}
	return result
}
