package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classforge/report-card-api/internal/models"
)

// AttendanceRepository manages persistence for attendance entries.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByClassAndDateRange returns every entry for a class whose date falls
// within [from, to] inclusive.
func (r *AttendanceRepository) ListByClassAndDateRange(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceEntry, error) {
	const query = `SELECT id, class_id, section_id, student_id, date, status, created_at, updated_at
        FROM attendance_entries
        WHERE class_id = $1 AND date >= $2 AND date <= $3
        ORDER BY date`
	var entries []models.AttendanceEntry
	if err := r.db.SelectContext(ctx, &entries, query, classID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return entries, nil
}

// BulkUpsert records a batch of entries, replacing prior statuses for the
// same (class, student, date).
func (r *AttendanceRepository) BulkUpsert(ctx context.Context, entries []models.AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO attendance_entries (id, class_id, section_id, student_id, date, status, created_at, updated_at)
        VALUES (:id, :class_id, :section_id, :student_id, :date, :status, :created_at, :updated_at)
        ON CONFLICT (class_id, student_id, date)
        DO UPDATE SET status = EXCLUDED.status, section_id = EXCLUDED.section_id, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		entries[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert attendance entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance entries: %w", err)
	}
	return nil
}
