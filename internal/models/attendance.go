package models

import "time"

// AttendanceStatus represents the status for attendance entries.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// AttendanceEntry is one student's recorded status for one date. A student
// has at most one entry per (class, date); a date with no entry for the
// student does not count toward their summary total.
type AttendanceEntry struct {
	ID        string           `db:"id" json:"id"`
	ClassID   string           `db:"class_id" json:"class_id"`
	SectionID string           `db:"section_id" json:"section_id"`
	StudentID string           `db:"student_id" json:"student_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceSummary aggregates a student's counted days over a semester.
// Rate treats LATE as attending but reports it separately.
type AttendanceSummary struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Rate    float64 `json:"rate"`
}
