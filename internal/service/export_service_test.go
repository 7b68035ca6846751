package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classforge/report-card-api/internal/models"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
)

type mockReportProvider struct {
	card *models.StudentReportCard
	err  error
}

func (m *mockReportProvider) StudentReportCard(ctx context.Context, claims *models.JWTClaims, studentID, semesterID string) (*models.StudentReportCard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.card, nil
}

func exportCard() *models.StudentReportCard {
	return &models.StudentReportCard{
		Student:  models.ReportStudentInfo{ID: "stu-1", Code: "S001", FullName: "Alice Carter", ClassName: "Grade 10"},
		Semester: models.ReportSemesterInfo{ID: "sem-1", Name: "Semester 1", AcademicYear: "2025/2026"},
		Subjects: []models.SubjectSummary{
			{SubjectID: "sub-math", SubjectName: "Mathematics", SubjectCode: "MATH", TotalMarks: 125, TotalMaxMarks: 150, Percentage: 83.33, Grade: "A", GPA: 4},
		},
		Summary:    models.ReportSummary{TotalMarks: 125, TotalMaxMarks: 150, Percentage: 83.33, Grade: "A", GPA: 4, Rank: 2, TotalStudents: 30, Passed: true},
		Attendance: models.AttendanceSummary{Total: 20, Present: 18, Late: 1, Absent: 1, Rate: 95},
	}
}

func TestExportStudentReportCardCSV(t *testing.T) {
	svc := NewExportService(&mockReportProvider{card: exportCard()}, nil, nil, zap.NewNop())

	download, err := svc.StudentReportCard(context.Background(), nil, "stu-1", "sem-1", ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", download.ContentType)
	assert.Equal(t, "report-card-S001-sem-1.csv", download.Filename)

	body := string(download.Payload)
	assert.True(t, strings.HasPrefix(body, "Subject,Code,Marks"))
	assert.Contains(t, body, "Mathematics,MATH,125,150,83.33,A,4.0")
	assert.Contains(t, body, "TOTAL")
	assert.Contains(t, body, "2/30")
	assert.Contains(t, body, "PASSED")
}

func TestExportStudentReportCardPDF(t *testing.T) {
	svc := NewExportService(&mockReportProvider{card: exportCard()}, nil, nil, zap.NewNop())

	download, err := svc.StudentReportCard(context.Background(), nil, "stu-1", "sem-1", ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", download.ContentType)
	assert.Equal(t, "report-card-S001-sem-1.pdf", download.Filename)
	assert.True(t, len(download.Payload) > 0)
	assert.Equal(t, "%PDF", string(download.Payload[:4]))
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&mockReportProvider{card: exportCard()}, nil, nil, zap.NewNop())

	_, err := svc.StudentReportCard(context.Background(), nil, "stu-1", "sem-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, 400, errStatus(t, err))
}

func TestExportPropagatesAccessErrors(t *testing.T) {
	svc := NewExportService(&mockReportProvider{err: appErrors.ErrForbidden}, nil, nil, zap.NewNop())

	_, err := svc.StudentReportCard(context.Background(), nil, "stu-1", "sem-1", ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}
