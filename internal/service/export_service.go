package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/classforge/report-card-api/internal/models"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
	"github.com/classforge/report-card-api/pkg/export"
)

// ExportFormat selects the rendered output format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type reportCardProvider interface {
	StudentReportCard(ctx context.Context, claims *models.JWTClaims, studentID, semesterID string) (*models.StudentReportCard, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportDownload is a rendered report ready to stream.
type ExportDownload struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// ExportService renders assembled report cards as CSV or PDF downloads.
type ExportService struct {
	reports reportCardProvider
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportCardProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{reports: reports, csv: csv, pdf: pdf, logger: logger}
}

// StudentReportCard renders one student's report card. Access control is
// delegated to the report provider, so exports obey the same ownership
// rules as the JSON endpoint.
func (s *ExportService) StudentReportCard(ctx context.Context, claims *models.JWTClaims, studentID, semesterID string, format ExportFormat) (*ExportDownload, error) {
	card, err := s.reports.StudentReportCard(ctx, claims, studentID, semesterID)
	if err != nil {
		return nil, err
	}

	dataset := buildReportCardDataset(card)
	title := fmt.Sprintf("Report Card %s (%s %s)", card.Student.FullName, card.Semester.Name, card.Semester.AcademicYear)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportDownload{
			Payload:     payload,
			Filename:    fmt.Sprintf("report-card-%s-%s.csv", card.Student.Code, semesterID),
			ContentType: "text/csv",
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportDownload{
			Payload:     payload,
			Filename:    fmt.Sprintf("report-card-%s-%s.pdf", card.Student.Code, semesterID),
			ContentType: "application/pdf",
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func buildReportCardDataset(card *models.StudentReportCard) export.Dataset {
	headers := []string{"Subject", "Code", "Marks", "Max Marks", "Percentage", "Grade", "GPA"}
	rows := make([]map[string]string, 0, len(card.Subjects)+2)
	for _, subject := range card.Subjects {
		rows = append(rows, map[string]string{
			"Subject":    subject.SubjectName,
			"Code":       subject.SubjectCode,
			"Marks":      formatMarks(subject.TotalMarks),
			"Max Marks":  formatMarks(subject.TotalMaxMarks),
			"Percentage": fmt.Sprintf("%.2f", subject.Percentage),
			"Grade":      subject.Grade,
			"GPA":        fmt.Sprintf("%.1f", subject.GPA),
		})
	}
	rows = append(rows, map[string]string{
		"Subject":    "TOTAL",
		"Code":       "",
		"Marks":      formatMarks(card.Summary.TotalMarks),
		"Max Marks":  formatMarks(card.Summary.TotalMaxMarks),
		"Percentage": fmt.Sprintf("%.2f", card.Summary.Percentage),
		"Grade":      card.Summary.Grade,
		"GPA":        fmt.Sprintf("%.2f", card.Summary.GPA),
	})
	rows = append(rows, map[string]string{
		"Subject":    "RANK",
		"Code":       fmt.Sprintf("%d/%d", card.Summary.Rank, card.Summary.TotalStudents),
		"Marks":      "Attendance",
		"Max Marks":  fmt.Sprintf("%d/%d", card.Attendance.Present+card.Attendance.Late, card.Attendance.Total),
		"Percentage": fmt.Sprintf("%.1f", card.Attendance.Rate),
		"Grade":      passLabel(card.Summary.Passed),
		"GPA":        "",
	})
	return export.Dataset{Headers: headers, Rows: rows}
}

func formatMarks(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func passLabel(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}
