package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/classforge/report-card-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student with class and section names resolved.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	const query = `SELECT s.id, s.code, s.full_name, s.class_id, s.section_id, s.parent_id, s.status, s.created_at, s.updated_at,
        c.name AS class_name, sec.name AS section_name
        FROM students s
        JOIN classes c ON c.id = s.class_id
        JOIN sections sec ON sec.id = s.section_id
        WHERE s.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListActiveByClass returns the ACTIVE roster of a class ordered by code.
func (r *StudentRepository) ListActiveByClass(ctx context.Context, classID string) ([]models.Student, error) {
	const query = `SELECT id, code, full_name, class_id, section_id, parent_id, status, created_at, updated_at
        FROM students
        WHERE class_id = $1 AND status = $2
        ORDER BY code`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID, models.StudentStatusActive); err != nil {
		return nil, err
	}
	return students, nil
}
