package models

import "time"

// StudentStatus tracks the enrollment lifecycle of a student.
type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "ACTIVE"
	StudentStatusInactive    StudentStatus = "INACTIVE"
	StudentStatusGraduated   StudentStatus = "GRADUATED"
	StudentStatusTransferred StudentStatus = "TRANSFERRED"
)

// Student represents a learner registered in the institution.
type Student struct {
	ID        string        `db:"id" json:"id"`
	Code      string        `db:"code" json:"code"`
	FullName  string        `db:"full_name" json:"full_name"`
	ClassID   string        `db:"class_id" json:"class_id"`
	SectionID string        `db:"section_id" json:"section_id"`
	ParentID  *string       `db:"parent_id" json:"parent_id,omitempty"`
	Status    StudentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentDetail contains student information with class/section context.
type StudentDetail struct {
	Student
	ClassName   string `db:"class_name" json:"class_name"`
	SectionName string `db:"section_name" json:"section_name"`
}
