package model

// Unassignable is written in place of a teacher name when no eligible
// teacher (or no qualifying pair) could be found for a slot
const Unassignable = "unassignable"

// TeacherRecord is one row of the teacher roster as read from the workbook
type TeacherRecord struct {
	Name     string
	Subjects string // Raw subject cell, may list several subjects ("Math, Physics")
	Homeroom string // Raw homeroom cell ("1-3", "Grade 1 Class 3"), empty if none
}

// TimetableEntry is one (grade, period) exam in the timetable.
// It applies to every room of the grade.
type TimetableEntry struct {
	Grade   int
	Period  string
	Subject string
}

// ExclusionRecord declares a teacher unavailable for one (grade, period)
type ExclusionRecord struct {
	Teacher string
	Grade   int
	Period  string
}

// AssignmentRow is one row of the assignment table handed to exporters
type AssignmentRow struct {
	Grade     int
	Room      int
	Period    string
	Subject   string
	Primary   string // Teacher name or Unassignable
	Secondary string // Teacher name, Unassignable, or empty for self-study
}

// StatisticsRow is one row of the per-teacher statistics table
type StatisticsRow struct {
	Teacher   string
	Primary   int
	Secondary int
	Total     int
}
