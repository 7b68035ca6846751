package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classforge/report-card-api/internal/service"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
	"github.com/classforge/report-card-api/pkg/response"
)

// ExamResultHandler exposes exam result intake endpoints.
type ExamResultHandler struct {
	service *service.ExamResultService
}

// NewExamResultHandler constructs handler.
func NewExamResultHandler(svc *service.ExamResultService) *ExamResultHandler {
	return &ExamResultHandler{service: svc}
}

// Upsert godoc
// @Summary Record an exam result
// @Description Create or replace one student's marks for an exam
// @Tags Exam Results
// @Accept json
// @Produce json
// @Param payload body service.UpsertExamResultRequest true "Result payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exam-results [post]
func (h *ExamResultHandler) Upsert(c *gin.Context) {
	var req service.UpsertExamResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam result payload"))
		return
	}

	result, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// BulkUpsert godoc
// @Summary Record exam results in bulk
// @Description Create or replace marks for many students of one exam
// @Tags Exam Results
// @Accept json
// @Produce json
// @Param payload body service.BulkExamResultsRequest true "Results payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exam-results/bulk [post]
func (h *ExamResultHandler) BulkUpsert(c *gin.Context) {
	var req service.BulkExamResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam results payload"))
		return
	}

	saved, err := h.service.BulkUpsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"saved": saved}, nil)
}
