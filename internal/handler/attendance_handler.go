package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classforge/report-card-api/internal/service"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
	"github.com/classforge/report-card-api/pkg/response"
)

// AttendanceHandler exposes attendance intake endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Record godoc
// @Summary Record attendance
// @Description Record an attendance sheet for a class on one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.RecordAttendanceRequest true "Attendance sheet"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req service.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	recorded, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"recorded": recorded}, nil)
}
