package models

import "time"

// SemesterStatus tracks where a semester sits in the academic calendar.
type SemesterStatus string

const (
	SemesterStatusActive    SemesterStatus = "ACTIVE"
	SemesterStatusUpcoming  SemesterStatus = "UPCOMING"
	SemesterStatusCompleted SemesterStatus = "COMPLETED"
)

// Semester models a bounded academic term within an academic year. Its date
// window scopes attendance aggregation; its ID scopes completed exams.
type Semester struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	AcademicYearID string         `db:"academic_year_id" json:"academic_year_id"`
	StartDate      time.Time      `db:"start_date" json:"start_date"`
	EndDate        time.Time      `db:"end_date" json:"end_date"`
	Status         SemesterStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// SemesterDetail carries the academic-year name for report headers.
type SemesterDetail struct {
	Semester
	AcademicYearName string `db:"academic_year_name" json:"academic_year_name"`
}
