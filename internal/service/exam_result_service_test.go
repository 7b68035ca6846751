package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classforge/report-card-api/internal/models"
)

type mockExamResultStore struct {
	exams    map[string]*models.Exam
	upserted []models.ExamResult
}

func (m *mockExamResultStore) Upsert(ctx context.Context, result *models.ExamResult) error {
	m.upserted = append(m.upserted, *result)
	return nil
}

func (m *mockExamResultStore) BulkUpsert(ctx context.Context, results []models.ExamResult) error {
	m.upserted = append(m.upserted, results...)
	return nil
}

func (m *mockExamResultStore) FindExam(ctx context.Context, examID string) (*models.Exam, error) {
	if exam, ok := m.exams[examID]; ok {
		return exam, nil
	}
	return nil, sql.ErrNoRows
}

func newExamResultFixture() (*mockExamResultStore, *ExamResultService) {
	store := &mockExamResultStore{exams: map[string]*models.Exam{
		"e1": {ID: "e1", Name: "Midterm", SubjectID: "sub-math", ClassID: "class-1", SemesterID: "sem-1", TotalMarks: 100, Status: models.ExamStatusCompleted},
		"e2": {ID: "e2", Name: "Quiz", SubjectID: "sub-math", ClassID: "class-1", SemesterID: "sem-1", TotalMarks: 50, PassingMarks: ptrFloat(30), Status: models.ExamStatusCompleted},
		"e3": {ID: "e3", Name: "Cancelled", SubjectID: "sub-sci", ClassID: "class-1", SemesterID: "sem-1", TotalMarks: 100, Status: models.ExamStatusCancelled},
	}}
	svc := NewExamResultService(store, &mockScaleReader{bands: testBands()}, nil, validator.New(), zap.NewNop())
	return store, svc
}

func TestExamResultUpsertDerivesFields(t *testing.T) {
	store, svc := newExamResultFixture()

	result, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e1", StudentID: "stu-1", MarksObtained: 85})
	require.NoError(t, err)
	assert.Equal(t, 85.0, result.Percentage)
	assert.True(t, result.Passed)
	require.NotNil(t, result.Grade)
	assert.Equal(t, "A", *result.Grade)
	require.Len(t, store.upserted, 1)
}

func TestExamResultDefaultPassingMarks(t *testing.T) {
	_, svc := newExamResultFixture()

	// e1 has no explicit passing marks, so ceil(100*0.4)=40 applies.
	result, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e1", StudentID: "stu-1", MarksObtained: 40})
	require.NoError(t, err)
	assert.True(t, result.Passed)

	result, err = svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e1", StudentID: "stu-1", MarksObtained: 39})
	require.NoError(t, err)
	assert.False(t, result.Passed)
}

func TestExamResultExplicitPassingMarks(t *testing.T) {
	_, svc := newExamResultFixture()

	result, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e2", StudentID: "stu-1", MarksObtained: 29})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 58.0, result.Percentage)
}

func TestExamResultRejectsMarksAboveTotal(t *testing.T) {
	_, svc := newExamResultFixture()

	_, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e2", StudentID: "stu-1", MarksObtained: 51})
	require.Error(t, err)
	assert.Equal(t, 400, errStatus(t, err))
}

func TestExamResultRejectsCancelledExam(t *testing.T) {
	_, svc := newExamResultFixture()

	_, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e3", StudentID: "stu-1", MarksObtained: 50})
	require.Error(t, err)
	assert.Equal(t, 400, errStatus(t, err))
}

func TestExamResultUnknownExam(t *testing.T) {
	_, svc := newExamResultFixture()

	_, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "missing", StudentID: "stu-1", MarksObtained: 50})
	require.Error(t, err)
	assert.Equal(t, 404, errStatus(t, err))
}

func TestExamResultGradeScaleFailureStillStores(t *testing.T) {
	store := &mockExamResultStore{exams: map[string]*models.Exam{
		"e1": {ID: "e1", TotalMarks: 100, Status: models.ExamStatusCompleted},
	}}
	svc := NewExamResultService(store, &mockScaleReader{err: errors.New("scale down")}, nil, validator.New(), zap.NewNop())

	result, err := svc.Upsert(context.Background(), UpsertExamResultRequest{ExamID: "e1", StudentID: "stu-1", MarksObtained: 85})
	require.NoError(t, err)
	assert.Nil(t, result.Grade)
	assert.Equal(t, 85.0, result.Percentage)
	require.Len(t, store.upserted, 1)
}

func TestExamResultBulkUpsert(t *testing.T) {
	store, svc := newExamResultFixture()

	saved, err := svc.BulkUpsert(context.Background(), BulkExamResultsRequest{
		ExamID: "e1",
		Items: []BulkExamResultItem{
			{StudentID: "stu-1", MarksObtained: 80},
			{StudentID: "stu-2", MarksObtained: 35},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	require.Len(t, store.upserted, 2)
	assert.True(t, store.upserted[0].Passed)
	assert.False(t, store.upserted[1].Passed)
}

func TestExamResultBulkUpsertRejectsDuplicateStudent(t *testing.T) {
	_, svc := newExamResultFixture()

	_, err := svc.BulkUpsert(context.Background(), BulkExamResultsRequest{
		ExamID: "e1",
		Items: []BulkExamResultItem{
			{StudentID: "stu-1", MarksObtained: 80},
			{StudentID: "stu-1", MarksObtained: 70},
		},
	})
	require.Error(t, err)
	assert.Equal(t, 400, errStatus(t, err))
}
