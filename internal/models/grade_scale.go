package models

import "time"

// GradeScaleBand maps a non-overlapping percentage interval to a letter
// grade and GPA value. Bands together cover [0,100] without ambiguity: for
// any percentage at most one band matches.
type GradeScaleBand struct {
	ID          string    `db:"id" json:"id"`
	Grade       string    `db:"grade" json:"grade"`
	MinScore    float64   `db:"min_score" json:"min_score"`
	MaxScore    float64   `db:"max_score" json:"max_score"`
	GPAPoints   float64   `db:"gpa_points" json:"gpa_points"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GradeResolution is the outcome of matching a percentage against the scale.
// The zero resolution (grade "-", 0 points, empty description) doubles as the
// no-match sentinel.
type GradeResolution struct {
	Grade       string  `json:"grade"`
	GPAPoints   float64 `json:"gpa_points"`
	Description string  `json:"description"`
}

// UnresolvedGrade is returned when no band matches a percentage.
var UnresolvedGrade = GradeResolution{Grade: "-", GPAPoints: 0, Description: ""}
