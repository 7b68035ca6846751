package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classforge/report-card-api/internal/models"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
)

type examResultStore interface {
	Upsert(ctx context.Context, result *models.ExamResult) error
	BulkUpsert(ctx context.Context, results []models.ExamResult) error
	FindExam(ctx context.Context, examID string) (*models.Exam, error)
}

// UpsertExamResultRequest records one student's marks for one exam.
type UpsertExamResultRequest struct {
	ExamID        string  `json:"exam_id" validate:"required"`
	StudentID     string  `json:"student_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
}

// BulkExamResultItem is one student's marks within a bulk intake.
type BulkExamResultItem struct {
	StudentID     string  `json:"student_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
}

// BulkExamResultsRequest records a whole class's marks for one exam.
type BulkExamResultsRequest struct {
	ExamID string               `json:"exam_id" validate:"required"`
	Items  []BulkExamResultItem `json:"items" validate:"required,min=1,dive"`
}

// ExamResultService handles exam result intake, deriving percentage, pass
// state and letter grade from the parent exam and the grade scale.
type ExamResultService struct {
	results   examResultStore
	scales    gradeScaleReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamResultService constructs an ExamResultService.
func NewExamResultService(results examResultStore, scales gradeScaleReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ExamResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamResultService{results: results, scales: scales, cache: cache, validator: validate, logger: logger}
}

// Upsert writes a single result.
func (s *ExamResultService) Upsert(ctx context.Context, req UpsertExamResultRequest) (*models.ExamResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam result payload")
	}
	exam, err := s.loadExam(ctx, req.ExamID)
	if err != nil {
		return nil, err
	}
	result, err := s.buildResult(ctx, exam, req.StudentID, req.MarksObtained)
	if err != nil {
		return nil, err
	}
	if err := s.results.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert exam result")
	}
	s.invalidateReports(ctx)
	return result, nil
}

// BulkUpsert writes a batch of results for one exam atomically.
func (s *ExamResultService) BulkUpsert(ctx context.Context, req BulkExamResultsRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk results payload")
	}
	exam, err := s.loadExam(ctx, req.ExamID)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(req.Items))
	results := make([]models.ExamResult, 0, len(req.Items))
	for _, item := range req.Items {
		if _, dup := seen[item.StudentID]; dup {
			return 0, appErrors.Clone(appErrors.ErrValidation, "duplicate result for student "+item.StudentID)
		}
		seen[item.StudentID] = struct{}{}
		result, err := s.buildResult(ctx, exam, item.StudentID, item.MarksObtained)
		if err != nil {
			return 0, err
		}
		results = append(results, *result)
	}
	if err := s.results.BulkUpsert(ctx, results); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk upsert exam results")
	}
	s.invalidateReports(ctx)
	return len(results), nil
}

func (s *ExamResultService) loadExam(ctx context.Context, examID string) (*models.Exam, error) {
	exam, err := s.results.FindExam(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if exam.Status == models.ExamStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot record results for a cancelled exam")
	}
	return exam, nil
}

func (s *ExamResultService) buildResult(ctx context.Context, exam *models.Exam, studentID string, marks float64) (*models.ExamResult, error) {
	if marks > exam.TotalMarks {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("marks %.2f exceed exam total %.2f", marks, exam.TotalMarks))
	}
	percentage := 0.0
	if exam.TotalMarks > 0 {
		percentage = roundTo2(marks / exam.TotalMarks * 100)
	}
	result := &models.ExamResult{
		ExamID:        exam.ID,
		StudentID:     studentID,
		MarksObtained: marks,
		Percentage:    percentage,
		Passed:        marks >= exam.EffectivePassingMarks(),
	}
	bands, err := s.scales.ListOrdered(ctx)
	if err != nil {
		s.logger.Warn("grade scale unavailable, storing result without letter grade", zap.Error(err))
		return result, nil
	}
	if resolution := ResolveGrade(percentage, bands); resolution.Grade != models.UnresolvedGrade.Grade {
		grade := resolution.Grade
		result.Grade = &grade
	}
	return result, nil
}

func (s *ExamResultService) invalidateReports(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, "reports:*")
	}
}
