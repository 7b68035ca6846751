package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classforge/report-card-api/internal/models"
)

// ExamResultRepository manages persistence for exam result records.
type ExamResultRepository struct {
	db *sqlx.DB
}

// NewExamResultRepository constructs an ExamResultRepository.
func NewExamResultRepository(db *sqlx.DB) *ExamResultRepository {
	return &ExamResultRepository{db: db}
}

const examResultColumns = "id, exam_id, student_id, marks_obtained, percentage, passed, grade, created_at, updated_at"

// ListByStudentAndExams returns one student's results restricted to the
// provided exam set.
func (r *ExamResultRepository) ListByStudentAndExams(ctx context.Context, studentID string, examIDs []string) ([]models.ExamResult, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(examIDs))
	args := make([]interface{}, len(examIDs)+1)
	args[0] = studentID
	for i, id := range examIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args[i+1] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM exam_results WHERE student_id = $1 AND exam_id IN (%s)`,
		examResultColumns, strings.Join(placeholders, ","))
	var results []models.ExamResult
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results by student: %w", err)
	}
	return results, nil
}

// ListByExams returns every result recorded for the provided exam set.
func (r *ExamResultRepository) ListByExams(ctx context.Context, examIDs []string) ([]models.ExamResult, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(examIDs))
	args := make([]interface{}, len(examIDs))
	for i, id := range examIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM exam_results WHERE exam_id IN (%s)`,
		examResultColumns, strings.Join(placeholders, ","))
	var results []models.ExamResult
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results by exams: %w", err)
	}
	return results, nil
}

// Upsert writes a result, replacing any previous entry for the same
// (exam, student) pair.
func (r *ExamResultRepository) Upsert(ctx context.Context, result *models.ExamResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	const query = `INSERT INTO exam_results (id, exam_id, student_id, marks_obtained, percentage, passed, grade, created_at, updated_at)
        VALUES (:id, :exam_id, :student_id, :marks_obtained, :percentage, :passed, :grade, :created_at, :updated_at)
        ON CONFLICT (exam_id, student_id)
        DO UPDATE SET marks_obtained = EXCLUDED.marks_obtained, percentage = EXCLUDED.percentage, passed = EXCLUDED.passed, grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at`
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert exam result: %w", err)
	}
	return nil
}

// BulkUpsert writes a batch of results in a single transaction.
func (r *ExamResultRepository) BulkUpsert(ctx context.Context, results []models.ExamResult) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO exam_results (id, exam_id, student_id, marks_obtained, percentage, passed, grade, created_at, updated_at)
        VALUES (:id, :exam_id, :student_id, :marks_obtained, :percentage, :passed, :grade, :created_at, :updated_at)
        ON CONFLICT (exam_id, student_id)
        DO UPDATE SET marks_obtained = EXCLUDED.marks_obtained, percentage = EXCLUDED.percentage, passed = EXCLUDED.passed, grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range results {
		if results[i].ID == "" {
			results[i].ID = uuid.NewString()
		}
		if results[i].CreatedAt.IsZero() {
			results[i].CreatedAt = now
		}
		results[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, results[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("bulk upsert exam result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exam results: %w", err)
	}
	return nil
}

// FindExam loads the parent exam used to derive percentage and pass state.
func (r *ExamResultRepository) FindExam(ctx context.Context, examID string) (*models.Exam, error) {
	const query = `SELECT id, name, subject_id, class_id, semester_id, total_marks, passing_marks, status, created_at, updated_at
        FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, examID); err != nil {
		return nil, err
	}
	return &exam, nil
}
