package roster

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
)

// roomPattern matches the first two numbers of a homeroom cell: "1-3", "1학년 3반", "Grade 1 Class 3"
var roomPattern = regexp.MustCompile(`(\d+)\D+(\d+)`)

// subjectSeparators split a subject cell listing several subjects
const subjectSeparators = ",/;·|"

// Directory is the normalized teacher roster:
// teacher name -> subjects taught, and room -> homeroom teacher
type Directory struct {
	// Teachers in roster order
	Teachers []*allocator.Teacher

	byName    map[string]*allocator.Teacher
	homerooms map[allocator.Room]*allocator.Teacher
}

// Normalize converts raw roster rows into a Directory.
// Rows with an empty name are skipped.
//
// Returns an error if:
//   - two rows share a teacher name
//   - a teacher lists no subjects
//   - a homeroom cell can't be parsed as (grade, section)
//   - two teachers claim the same homeroom
func Normalize(records []model.TeacherRecord) (*Directory, error) {
	directory := &Directory{
		Teachers:  make([]*allocator.Teacher, 0, len(records)),
		byName:    make(map[string]*allocator.Teacher),
		homerooms: make(map[allocator.Room]*allocator.Teacher),
	}

	for i, record := range records {
		name := strings.TrimSpace(record.Name)
		if name == "" {
			continue
		}

		if _, exists := directory.byName[name]; exists {
			return nil, fmt.Errorf("duplicate teacher %q in roster row %d", name, i+1)
		}

		subjects := ParseSubjects(record.Subjects)
		if len(subjects) == 0 {
			return nil, fmt.Errorf("teacher %q has no subjects", name)
		}

		homeroom, err := ParseRoom(record.Homeroom)
		if err != nil {
			return nil, fmt.Errorf("invalid homeroom for teacher %q: %w", name, err)
		}

		teacher := &allocator.Teacher{
			Name:        name,
			Subjects:    subjects,
			Homeroom:    homeroom,
			Unavailable: make(map[allocator.Session]bool),
		}

		if homeroom != nil {
			if other, taken := directory.homerooms[*homeroom]; taken {
				return nil, fmt.Errorf("room %s has two homeroom teachers: %q and %q", homeroom, other.Name, name)
			}
			directory.homerooms[*homeroom] = teacher
		}

		directory.Teachers = append(directory.Teachers, teacher)
		directory.byName[name] = teacher
	}

	return directory, nil
}

// Teacher looks up a teacher by name
func (d *Directory) Teacher(name string) (*allocator.Teacher, bool) {
	teacher, ok := d.byName[strings.TrimSpace(name)]
	return teacher, ok
}

// HomeroomTeacher returns the homeroom teacher of a room, if it has one
func (d *Directory) HomeroomTeacher(room allocator.Room) (*allocator.Teacher, bool) {
	teacher, ok := d.homerooms[room]
	return teacher, ok
}

// CheckHomerooms returns an error if a homeroom names a room that isn't in roomCounts
func (d *Directory) CheckHomerooms(roomCounts map[int]int) error {
	for _, teacher := range d.Teachers {
		if teacher.Homeroom == nil {
			continue
		}
		if teacher.Homeroom.Section > roomCounts[teacher.Homeroom.Grade] {
			return fmt.Errorf("homeroom %s of teacher %q is not a configured room (grade %d has %d rooms)",
				teacher.Homeroom, teacher.Name, teacher.Homeroom.Grade, roomCounts[teacher.Homeroom.Grade])
		}
	}
	return nil
}

// ApplyExclusions records each declared (grade, period) unavailability on its teacher.
// Returns an error if an exclusion names a teacher who isn't on the roster.
func (d *Directory) ApplyExclusions(records []model.ExclusionRecord) error {
	for i, record := range records {
		teacher, ok := d.Teacher(record.Teacher)
		if !ok {
			return fmt.Errorf("exclusion %d names unknown teacher %q", i+1, record.Teacher)
		}

		session := allocator.Session{Grade: record.Grade, Period: strings.TrimSpace(record.Period)}
		teacher.Unavailable[session] = true
	}
	return nil
}

// ParseSubjects splits a raw subject cell into trimmed, de-duplicated subject tokens
func ParseSubjects(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(subjectSeparators, r)
	})

	subjects := make([]string, 0, len(parts))
	for _, part := range parts {
		subject := strings.TrimSpace(part)
		if subject == "" || slices.Contains(subjects, subject) {
			continue
		}
		subjects = append(subjects, subject)
	}
	return subjects
}

// ParseRoom parses a homeroom cell into a Room.
// Returns nil (and no error) for an empty cell.
func ParseRoom(raw string) (*allocator.Room, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	match := roomPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, fmt.Errorf("cannot parse room %q: expected grade and section numbers", raw)
	}

	grade, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, fmt.Errorf("cannot parse grade in %q: %w", raw, err)
	}
	section, err := strconv.Atoi(match[2])
	if err != nil {
		return nil, fmt.Errorf("cannot parse section in %q: %w", raw, err)
	}

	if grade < 1 || section < 1 {
		return nil, fmt.Errorf("room %q must have positive grade and section", raw)
	}

	return &allocator.Room{Grade: grade, Section: section}, nil
}
