package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/classforge/report-card-api/internal/service"
	"github.com/classforge/report-card-api/pkg/response"
)

// ReportCardHandler exposes report card endpoints.
type ReportCardHandler struct {
	reports *service.ReportCardService
	exports *service.ExportService
}

// NewReportCardHandler constructs handler.
func NewReportCardHandler(reports *service.ReportCardService, exports *service.ExportService) *ReportCardHandler {
	return &ReportCardHandler{reports: reports, exports: exports}
}

// StudentReportCard godoc
// @Summary Student report card
// @Description Assembled report card for one student in a semester
// @Tags Report Cards
// @Produce json
// @Param studentId path string true "Student ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /report-cards/student/{studentId} [get]
func (h *ReportCardHandler) StudentReportCard(c *gin.Context) {
	card, err := h.reports.StudentReportCard(c.Request.Context(), claimsFromContext(c), c.Param("studentId"), c.Query("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, card, nil)
}

// ClassReportSummary godoc
// @Summary Class report summary
// @Description Per-student totals and ranks for a class in a semester
// @Tags Report Cards
// @Produce json
// @Param classId path string true "Class ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /report-cards/class/{classId} [get]
func (h *ReportCardHandler) ClassReportSummary(c *gin.Context) {
	rows, meta, err := h.reports.ClassReportSummary(c.Request.Context(), c.Param("classId"), c.Query("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, meta)
}

// ExportStudentReportCard godoc
// @Summary Export student report card
// @Description Download a report card as CSV or PDF
// @Tags Report Cards
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Param semesterId query string true "Semester ID"
// @Param format query string false "csv or pdf" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /report-cards/student/{studentId}/export [get]
func (h *ReportCardHandler) ExportStudentReportCard(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatPDF)))
	download, err := h.exports.StudentReportCard(c.Request.Context(), claimsFromContext(c), c.Param("studentId"), c.Query("semesterId"), service.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Data(http.StatusOK, download.ContentType, download.Payload)
}

// AttendanceSummary godoc
// @Summary Attendance summary
// @Description Attendance counts and rate for one student in a semester
// @Tags Attendance
// @Produce json
// @Param studentId path string true "Student ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/summary/{studentId} [get]
func (h *ReportCardHandler) AttendanceSummary(c *gin.Context) {
	summary, err := h.reports.AttendanceSummary(c.Request.Context(), claimsFromContext(c), c.Param("studentId"), c.Query("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
