package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classforge/report-card-api/internal/models"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
)

type attendanceStore interface {
	ListByClassAndDateRange(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceEntry, error)
	BulkUpsert(ctx context.Context, entries []models.AttendanceEntry) error
}

// RecordAttendanceItem is one student's status within a class/date intake.
type RecordAttendanceItem struct {
	StudentID string                  `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
}

// RecordAttendanceRequest records a whole class roster for one date.
type RecordAttendanceRequest struct {
	ClassID   string                 `json:"class_id" validate:"required"`
	SectionID string                 `json:"section_id" validate:"required"`
	Date      time.Time              `json:"date" validate:"required"`
	Entries   []RecordAttendanceItem `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceService computes per-student attendance summaries and handles
// attendance intake.
type AttendanceService struct {
	repo      attendanceStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Summarize aggregates a student's attendance over the semester date window.
// Dates without an entry for the student do not count toward the total. A
// failed fetch degrades to the zero-value summary so one subsystem's failure
// does not block the whole report.
func (s *AttendanceService) Summarize(ctx context.Context, studentID, classID string, from, to time.Time) models.AttendanceSummary {
	entries, err := s.repo.ListByClassAndDateRange(ctx, classID, from, to)
	if err != nil {
		s.logger.Warn("attendance fetch failed, returning empty summary",
			zap.String("student_id", studentID),
			zap.String("class_id", classID),
			zap.Error(err))
		return models.AttendanceSummary{}
	}

	summary := models.AttendanceSummary{}
	for _, entry := range entries {
		if entry.StudentID != studentID {
			continue
		}
		summary.Total++
		switch entry.Status {
		case models.AttendanceStatusPresent:
			summary.Present++
		case models.AttendanceStatusAbsent:
			summary.Absent++
		case models.AttendanceStatusLate:
			summary.Late++
		}
	}
	if summary.Total > 0 {
		summary.Rate = math.Round(float64(summary.Present+summary.Late)/float64(summary.Total)*1000) / 10
	}
	return summary
}

// Record persists a class/date attendance sheet and invalidates cached
// reports that may embed the affected summaries.
func (s *AttendanceService) Record(ctx context.Context, req RecordAttendanceRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	seen := make(map[string]struct{}, len(req.Entries))
	entries := make([]models.AttendanceEntry, 0, len(req.Entries))
	for _, item := range req.Entries {
		if !item.Status.Valid() {
			return 0, appErrors.Clone(appErrors.ErrValidation, "unsupported attendance status "+string(item.Status))
		}
		if _, dup := seen[item.StudentID]; dup {
			return 0, appErrors.Clone(appErrors.ErrValidation, "duplicate entry for student "+item.StudentID)
		}
		seen[item.StudentID] = struct{}{}
		entries = append(entries, models.AttendanceEntry{
			ClassID:   req.ClassID,
			SectionID: req.SectionID,
			StudentID: item.StudentID,
			Date:      req.Date,
			Status:    item.Status,
		})
	}
	if err := s.repo.BulkUpsert(ctx, entries); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, "reports:*")
	}
	return len(entries), nil
}
