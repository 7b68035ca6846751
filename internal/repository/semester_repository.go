package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/classforge/report-card-api/internal/models"
)

// SemesterRepository manages persistence for semester records.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs a SemesterRepository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// FindByID fetches a semester with its academic-year name resolved.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.SemesterDetail, error) {
	const query = `SELECT s.id, s.name, s.academic_year_id, s.start_date, s.end_date, s.status, s.created_at, s.updated_at,
        y.name AS academic_year_name
        FROM semesters s
        JOIN academic_years y ON y.id = s.academic_year_id
        WHERE s.id = $1`
	var detail models.SemesterDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}
