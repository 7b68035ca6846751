package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classforge/report-card-api/internal/models"
)

func examResultRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "exam_id", "student_id", "marks_obtained", "percentage", "passed", "grade", "created_at", "updated_at"})
}

func TestExamResultRepositoryListByStudentAndExams(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewExamResultRepository(db)

	rows := examResultRows().
		AddRow("r1", "e1", "stu-1", 80.0, 80.0, true, "A", time.Now(), time.Now()).
		AddRow("r2", "e2", "stu-1", 45.0, 90.0, true, "A", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, exam_id, student_id.+FROM exam_results WHERE student_id = \$1 AND exam_id IN \(\$2,\$3\)`).
		WithArgs("stu-1", "e1", "e2").
		WillReturnRows(rows)

	results, err := repo.ListByStudentAndExams(context.Background(), "stu-1", []string{"e1", "e2"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamResultRepositoryListByStudentEmptyExamSet(t *testing.T) {
	db, _, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewExamResultRepository(db)

	results, err := repo.ListByStudentAndExams(context.Background(), "stu-1", nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestExamResultRepositoryListByExams(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewExamResultRepository(db)

	rows := examResultRows().
		AddRow("r1", "e1", "stu-1", 80.0, 80.0, true, nil, time.Now(), time.Now()).
		AddRow("r2", "e1", "stu-2", 90.0, 90.0, true, nil, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, exam_id, student_id.+FROM exam_results WHERE exam_id IN \(\$1\)`).
		WithArgs("e1").
		WillReturnRows(rows)

	results, err := repo.ListByExams(context.Background(), []string{"e1"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Nil(t, results[0].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewExamResultRepository(db)

	mock.ExpectExec(`INSERT INTO exam_results.+ON CONFLICT \(exam_id, student_id\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.ExamResult{ExamID: "e1", StudentID: "stu-1", MarksObtained: 80, Percentage: 80, Passed: true}
	require.NoError(t, repo.Upsert(context.Background(), result))
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamResultRepositoryBulkUpsertTransactional(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewExamResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO exam_results.+ON CONFLICT \(exam_id, student_id\)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO exam_results.+ON CONFLICT \(exam_id, student_id\)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	results := []models.ExamResult{
		{ExamID: "e1", StudentID: "stu-1", MarksObtained: 80},
		{ExamID: "e1", StudentID: "stu-2", MarksObtained: 70},
	}
	require.NoError(t, repo.BulkUpsert(context.Background(), results))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamResultRepositoryFindExam(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewExamResultRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "subject_id", "class_id", "semester_id", "total_marks", "passing_marks", "status", "created_at", "updated_at"}).
		AddRow("e1", "Midterm", "sub-math", "class-1", "sem-1", 100.0, nil, "COMPLETED", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, name, subject_id.+FROM exams WHERE id = \$1`).
		WithArgs("e1").
		WillReturnRows(rows)

	exam, err := repo.FindExam(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, exam.TotalMarks)
	assert.Nil(t, exam.PassingMarks)
	assert.Equal(t, 40.0, exam.EffectivePassingMarks())
	assert.NoError(t, mock.ExpectationsWereMet())
}
