package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classforge/report-card-api/internal/service"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
	"github.com/classforge/report-card-api/pkg/response"
)

// GradeScaleHandler exposes grade scale management endpoints.
type GradeScaleHandler struct {
	service *service.GradeScaleService
}

// NewGradeScaleHandler constructs handler.
func NewGradeScaleHandler(svc *service.GradeScaleService) *GradeScaleHandler {
	return &GradeScaleHandler{service: svc}
}

// List godoc
// @Summary List grade scale bands
// @Tags Grade Scales
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grade-scales [get]
func (h *GradeScaleHandler) List(c *gin.Context) {
	bands, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bands, nil)
}

// Create godoc
// @Summary Create grade scale band
// @Tags Grade Scales
// @Accept json
// @Produce json
// @Param payload body service.UpsertGradeScaleRequest true "Band payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grade-scales [post]
func (h *GradeScaleHandler) Create(c *gin.Context) {
	var req service.UpsertGradeScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade scale payload"))
		return
	}

	band, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, band)
}

// Update godoc
// @Summary Update grade scale band
// @Tags Grade Scales
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param payload body service.UpsertGradeScaleRequest true "Band payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-scales/{id} [put]
func (h *GradeScaleHandler) Update(c *gin.Context) {
	var req service.UpsertGradeScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade scale payload"))
		return
	}

	band, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, band, nil)
}

// Delete godoc
// @Summary Delete grade scale band
// @Tags Grade Scales
// @Produce json
// @Param id path string true "Band ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grade-scales/{id} [delete]
func (h *GradeScaleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
