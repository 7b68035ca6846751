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

type gradeScaleStore interface {
	ListOrdered(ctx context.Context) ([]models.GradeScaleBand, error)
	FindByID(ctx context.Context, id string) (*models.GradeScaleBand, error)
	Create(ctx context.Context, band *models.GradeScaleBand) error
	Update(ctx context.Context, band *models.GradeScaleBand) error
	Delete(ctx context.Context, id string) error
}

// UpsertGradeScaleRequest carries a band payload for create or update.
type UpsertGradeScaleRequest struct {
	Grade       string  `json:"grade" validate:"required"`
	MinScore    float64 `json:"min_score" validate:"gte=0,lte=100"`
	MaxScore    float64 `json:"max_score" validate:"gte=0,lte=100"`
	GPAPoints   float64 `json:"gpa_points" validate:"gte=0"`
	Description string  `json:"description"`
}

// GradeScaleService administers the grade scale, keeping the bands
// non-overlapping so that any percentage matches at most one band.
type GradeScaleService struct {
	repo      gradeScaleStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeScaleService constructs a GradeScaleService.
func NewGradeScaleService(repo gradeScaleStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GradeScaleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeScaleService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all bands sorted descending by min score.
func (s *GradeScaleService) List(ctx context.Context) ([]models.GradeScaleBand, error) {
	bands, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade scale")
	}
	return bands, nil
}

// Create validates and inserts a new band.
func (s *GradeScaleService) Create(ctx context.Context, req UpsertGradeScaleRequest) (*models.GradeScaleBand, error) {
	if err := s.validateBand(ctx, req, ""); err != nil {
		return nil, err
	}
	band := &models.GradeScaleBand{
		Grade:       req.Grade,
		MinScore:    req.MinScore,
		MaxScore:    req.MaxScore,
		GPAPoints:   req.GPAPoints,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, band); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade scale band")
	}
	s.invalidateReports(ctx)
	return band, nil
}

// Update validates and rewrites an existing band.
func (s *GradeScaleService) Update(ctx context.Context, id string, req UpsertGradeScaleRequest) (*models.GradeScaleBand, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade scale band not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale band")
	}
	if err := s.validateBand(ctx, req, existing.ID); err != nil {
		return nil, err
	}
	existing.Grade = req.Grade
	existing.MinScore = req.MinScore
	existing.MaxScore = req.MaxScore
	existing.GPAPoints = req.GPAPoints
	existing.Description = req.Description
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade scale band")
	}
	s.invalidateReports(ctx)
	return existing, nil
}

// Delete removes a band.
func (s *GradeScaleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade scale band not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale band")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade scale band")
	}
	s.invalidateReports(ctx)
	return nil
}

// Band edits change grades and GPAs in every cached report card.
func (s *GradeScaleService) invalidateReports(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, "reports:*")
	}
}

func (s *GradeScaleService) validateBand(ctx context.Context, req UpsertGradeScaleRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade scale payload")
	}
	if req.MinScore > req.MaxScore {
		return appErrors.Clone(appErrors.ErrValidation, "min_score must not exceed max_score")
	}
	existing, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale")
	}
	for _, band := range existing {
		if band.ID == excludeID {
			continue
		}
		if req.MinScore <= band.MaxScore && band.MinScore <= req.MaxScore {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("band overlaps existing grade %s (%.2f-%.2f)", band.Grade, band.MinScore, band.MaxScore))
		}
	}
	return nil
}
