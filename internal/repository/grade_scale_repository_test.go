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

func TestGradeScaleRepositoryListOrdered(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeScaleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "grade", "min_score", "max_score", "gpa_points", "description", "created_at", "updated_at"}).
		AddRow("a", "A", 80.0, 100.0, 4.0, "Excellent", time.Now(), time.Now()).
		AddRow("b", "B", 60.0, 79.99, 3.0, "Good", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, grade, min_score.+FROM grade_scales ORDER BY min_score DESC`).
		WillReturnRows(rows)

	bands, err := repo.ListOrdered(context.Background())
	require.NoError(t, err)
	require.Len(t, bands, 2)
	assert.Equal(t, "A", bands[0].Grade)
	assert.Equal(t, 80.0, bands[0].MinScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeScaleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeScaleRepository(db)

	mock.ExpectExec(`INSERT INTO grade_scales`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	band := &models.GradeScaleBand{Grade: "A", MinScore: 80, MaxScore: 100, GPAPoints: 4, Description: "Excellent"}
	require.NoError(t, repo.Create(context.Background(), band))
	assert.NotEmpty(t, band.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeScaleRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeScaleRepository(db)

	mock.ExpectExec(`UPDATE grade_scales SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.GradeScaleBand{ID: "missing", Grade: "A", MinScore: 80, MaxScore: 100})
	assert.Error(t, err)
}

func TestGradeScaleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeScaleRepository(db)

	mock.ExpectExec(`DELETE FROM grade_scales WHERE id = \$1`).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "a"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
