package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classforge/report-card-api/internal/models"
)

// GradeScaleRepository manages persistence for grade scale bands.
type GradeScaleRepository struct {
	db *sqlx.DB
}

// NewGradeScaleRepository constructs a GradeScaleRepository.
func NewGradeScaleRepository(db *sqlx.DB) *GradeScaleRepository {
	return &GradeScaleRepository{db: db}
}

const gradeScaleColumns = "id, grade, min_score, max_score, gpa_points, description, created_at, updated_at"

// ListOrdered returns all bands sorted descending by min score.
func (r *GradeScaleRepository) ListOrdered(ctx context.Context) ([]models.GradeScaleBand, error) {
	query := fmt.Sprintf(`SELECT %s FROM grade_scales ORDER BY min_score DESC`, gradeScaleColumns)
	var bands []models.GradeScaleBand
	if err := r.db.SelectContext(ctx, &bands, query); err != nil {
		return nil, fmt.Errorf("list grade scales: %w", err)
	}
	return bands, nil
}

// FindByID fetches a single band.
func (r *GradeScaleRepository) FindByID(ctx context.Context, id string) (*models.GradeScaleBand, error) {
	query := fmt.Sprintf(`SELECT %s FROM grade_scales WHERE id = $1`, gradeScaleColumns)
	var band models.GradeScaleBand
	if err := r.db.GetContext(ctx, &band, query, id); err != nil {
		return nil, err
	}
	return &band, nil
}

// Create inserts a new band.
func (r *GradeScaleRepository) Create(ctx context.Context, band *models.GradeScaleBand) error {
	if band.ID == "" {
		band.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	band.CreatedAt = now
	band.UpdatedAt = now
	const query = `INSERT INTO grade_scales (id, grade, min_score, max_score, gpa_points, description, created_at, updated_at)
        VALUES (:id, :grade, :min_score, :max_score, :gpa_points, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, band); err != nil {
		return fmt.Errorf("create grade scale: %w", err)
	}
	return nil
}

// Update rewrites an existing band.
func (r *GradeScaleRepository) Update(ctx context.Context, band *models.GradeScaleBand) error {
	band.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grade_scales SET grade = :grade, min_score = :min_score, max_score = :max_score,
        gpa_points = :gpa_points, description = :description, updated_at = :updated_at
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, band)
	if err != nil {
		return fmt.Errorf("update grade scale: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("grade scale %s not found", band.ID)
	}
	return nil
}

// Delete removes a band.
func (r *GradeScaleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grade_scales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade scale: %w", err)
	}
	return nil
}
