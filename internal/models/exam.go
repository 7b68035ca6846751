package models

import (
	"math"
	"time"
)

// ExamStatus represents the lifecycle state of an exam.
type ExamStatus string

const (
	ExamStatusUpcoming  ExamStatus = "UPCOMING"
	ExamStatusCompleted ExamStatus = "COMPLETED"
	ExamStatusCancelled ExamStatus = "CANCELLED"
)

// Exam models a single assessment for a class within a semester. Only
// COMPLETED exams contribute to report cards.
type Exam struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	SubjectID    string     `db:"subject_id" json:"subject_id"`
	ClassID      string     `db:"class_id" json:"class_id"`
	SemesterID   string     `db:"semester_id" json:"semester_id"`
	TotalMarks   float64    `db:"total_marks" json:"total_marks"`
	PassingMarks *float64   `db:"passing_marks" json:"passing_marks,omitempty"`
	Status       ExamStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ExamDetail extends the exam row with subject metadata for grouping.
type ExamDetail struct {
	Exam
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}

// EffectivePassingMarks resolves the pass threshold, defaulting to
// ceil(totalMarks * 0.4) when no explicit value is stored.
func (e Exam) EffectivePassingMarks() float64 {
	if e.PassingMarks != nil {
		return *e.PassingMarks
	}
	return math.Ceil(e.TotalMarks * 0.4)
}

// ExamResult stores one student's outcome for one exam. Uniqueness of the
// (exam, student) pair is enforced by the store.
type ExamResult struct {
	ID            string    `db:"id" json:"id"`
	ExamID        string    `db:"exam_id" json:"exam_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	MarksObtained float64   `db:"marks_obtained" json:"marks_obtained"`
	Percentage    float64   `db:"percentage" json:"percentage"`
	Passed        bool      `db:"passed" json:"passed"`
	Grade         *string   `db:"grade" json:"grade,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
