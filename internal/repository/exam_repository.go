package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/classforge/report-card-api/internal/models"
)

// ExamRepository manages persistence for exam records.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// ListByClassAndSemester returns exams for a class/semester scope filtered
// by status, with subject metadata for grouping.
func (r *ExamRepository) ListByClassAndSemester(ctx context.Context, classID, semesterID string, status models.ExamStatus) ([]models.ExamDetail, error) {
	const query = `SELECT e.id, e.name, e.subject_id, e.class_id, e.semester_id, e.total_marks, e.passing_marks, e.status, e.created_at, e.updated_at,
        sub.name AS subject_name, sub.code AS subject_code
        FROM exams e
        JOIN subjects sub ON sub.id = e.subject_id
        WHERE e.class_id = $1 AND e.semester_id = $2 AND e.status = $3
        ORDER BY e.created_at`
	var exams []models.ExamDetail
	if err := r.db.SelectContext(ctx, &exams, query, classID, semesterID, status); err != nil {
		return nil, err
	}
	return exams, nil
}
