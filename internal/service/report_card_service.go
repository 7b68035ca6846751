package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/classforge/report-card-api/internal/models"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ListActiveByClass(ctx context.Context, classID string) ([]models.Student, error)
}

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.SemesterDetail, error)
}

type examReader interface {
	ListByClassAndSemester(ctx context.Context, classID, semesterID string, status models.ExamStatus) ([]models.ExamDetail, error)
}

type examResultReader interface {
	ListByStudentAndExams(ctx context.Context, studentID string, examIDs []string) ([]models.ExamResult, error)
	ListByExams(ctx context.Context, examIDs []string) ([]models.ExamResult, error)
}

type gradeScaleReader interface {
	ListOrdered(ctx context.Context) ([]models.GradeScaleBand, error)
}

type attendanceSummarizer interface {
	Summarize(ctx context.Context, studentID, classID string, from, to time.Time) models.AttendanceSummary
}

// ReportCardServiceConfig tunes report caching.
type ReportCardServiceConfig struct {
	CacheTTL time.Duration
}

// ReportCardService assembles student report cards and class report
// summaries from the read models at request time. It holds no state between
// calls; every report is recomputed from the store.
type ReportCardService struct {
	students   studentReader
	semesters  semesterReader
	exams      examReader
	results    examResultReader
	scales     gradeScaleReader
	attendance attendanceSummarizer
	cache      *CacheService
	logger     *zap.Logger
	cfg        ReportCardServiceConfig
}

// NewReportCardService constructs a ReportCardService.
func NewReportCardService(students studentReader, semesters semesterReader, exams examReader, results examResultReader, scales gradeScaleReader, attendance attendanceSummarizer, cache *CacheService, logger *zap.Logger, cfg ReportCardServiceConfig) *ReportCardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &ReportCardService{
		students:   students,
		semesters:  semesters,
		exams:      exams,
		results:    results,
		scales:     scales,
		attendance: attendance,
		cache:      cache,
		logger:     logger,
		cfg:        cfg,
	}
}

// StudentReportCard builds the full report card for one student and
// semester. Callers with the STUDENT role may only request their own card;
// PARENT callers only cards of their own children.
func (s *ReportCardService) StudentReportCard(ctx context.Context, claims *models.JWTClaims, studentID, semesterID string) (*models.StudentReportCard, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	if claims != nil && claims.Role == models.RoleStudent && claims.ProfileID != studentID {
		return nil, appErrors.ErrForbidden
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if claims != nil && claims.Role == models.RoleParent {
		if student.ParentID == nil || *student.ParentID != claims.ProfileID {
			return nil, appErrors.ErrForbidden
		}
	}

	cacheKey := fmt.Sprintf("reports:student:%s:%s", studentID, semesterID)
	if s.cache.Enabled() {
		var cached models.StudentReportCard
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	semester, err := s.semesters.FindByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	exams, err := s.exams.ListByClassAndSemester(ctx, student.ClassID, semesterID, models.ExamStatusCompleted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	examIDs := examIDsOf(exams)

	results, err := s.results.ListByStudentAndExams(ctx, studentID, examIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam results")
	}

	bands, err := s.scales.ListOrdered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale")
	}

	subjects := aggregateSubjects(results, exams, bands)

	var totalMarks, totalMax, gpaSum float64
	for _, subject := range subjects {
		totalMarks += subject.TotalMarks
		totalMax += subject.TotalMaxMarks
		gpaSum += subject.GPA
	}
	overallPct := 0.0
	if totalMax > 0 {
		overallPct = roundTo2(totalMarks / totalMax * 100)
	}
	overallGPA := 0.0
	if len(subjects) > 0 {
		overallGPA = roundTo2(gpaSum / float64(len(subjects)))
	}
	overall := ResolveGrade(overallPct, bands)

	roster, err := s.students.ListActiveByClass(ctx, student.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	classResults, err := s.results.ListByExams(ctx, examIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class results")
	}
	ranking, totalStudents := rankClass(roster, classResults)

	attendance := s.attendance.Summarize(ctx, studentID, student.ClassID, semester.StartDate, semester.EndDate)

	// Pass threshold is additive across the completed-exam set, not
	// per-subject.
	passThreshold := 0.0
	for _, exam := range exams {
		passThreshold += exam.EffectivePassingMarks()
	}

	card := &models.StudentReportCard{
		Student: models.ReportStudentInfo{
			ID:          student.ID,
			Code:        student.Code,
			FullName:    student.FullName,
			ClassName:   student.ClassName,
			SectionName: student.SectionName,
		},
		Semester: models.ReportSemesterInfo{
			ID:           semester.ID,
			Name:         semester.Name,
			AcademicYear: semester.AcademicYearName,
		},
		Subjects: subjects,
		Summary: models.ReportSummary{
			TotalMarks:    totalMarks,
			TotalMaxMarks: totalMax,
			Percentage:    overallPct,
			Grade:         overall.Grade,
			GPA:           overallGPA,
			Rank:          ranking[studentID].Rank,
			TotalStudents: totalStudents,
			Passed:        totalMarks >= passThreshold,
		},
		Attendance: attendance,
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, card, s.cfg.CacheTTL)
	}
	return card, nil
}

// ClassReportSummary builds the rank-ordered summary rows for a whole class.
func (s *ReportCardService) ClassReportSummary(ctx context.Context, classID, semesterID string) ([]models.ClassReportRow, *models.ClassReportMeta, error) {
	if semesterID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}

	cacheKey := fmt.Sprintf("reports:class:%s:%s", classID, semesterID)
	if s.cache.Enabled() {
		var cached classReportPayload
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return cached.Rows, cached.Meta, nil
		}
	}

	roster, err := s.students.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	exams, err := s.exams.ListByClassAndSemester(ctx, classID, semesterID, models.ExamStatusCompleted)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	examIDs := examIDsOf(exams)
	classResults, err := s.results.ListByExams(ctx, examIDs)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class results")
	}
	bands, err := s.scales.ListOrdered(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale")
	}

	var totalMax, passThreshold float64
	for _, exam := range exams {
		totalMax += exam.TotalMarks
		passThreshold += exam.EffectivePassingMarks()
	}

	ranking, totalStudents := rankClass(roster, classResults)

	rows := make([]models.ClassReportRow, 0, len(roster))
	for _, student := range roster {
		entry := ranking[student.ID]
		pct := 0.0
		if totalMax > 0 {
			pct = roundTo2(entry.Total / totalMax * 100)
		}
		rows = append(rows, models.ClassReportRow{
			StudentID:     student.ID,
			FullName:      student.FullName,
			Code:          student.Code,
			TotalMarks:    entry.Total,
			TotalMaxMarks: totalMax,
			Percentage:    pct,
			Grade:         ResolveGrade(pct, bands).Grade,
			Rank:          entry.Rank,
			Passed:        entry.Total >= passThreshold,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Rank == 0 {
			return false
		}
		if rows[j].Rank == 0 {
			return true
		}
		return rows[i].Rank < rows[j].Rank
	})

	meta := &models.ClassReportMeta{
		ClassID:       classID,
		SemesterID:    semesterID,
		TotalStudents: totalStudents,
		TotalExams:    len(exams),
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, classReportPayload{Rows: rows, Meta: meta}, s.cfg.CacheTTL)
	}
	return rows, meta, nil
}

// AttendanceSummary exposes the semester attendance aggregation with the
// same ownership rules as the student report card.
func (s *ReportCardService) AttendanceSummary(ctx context.Context, claims *models.JWTClaims, studentID, semesterID string) (*models.AttendanceSummary, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	if claims != nil && claims.Role == models.RoleStudent && claims.ProfileID != studentID {
		return nil, appErrors.ErrForbidden
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if claims != nil && claims.Role == models.RoleParent {
		if student.ParentID == nil || *student.ParentID != claims.ProfileID {
			return nil, appErrors.ErrForbidden
		}
	}
	semester, err := s.semesters.FindByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	summary := s.attendance.Summarize(ctx, studentID, student.ClassID, semester.StartDate, semester.EndDate)
	return &summary, nil
}

type classReportPayload struct {
	Rows []models.ClassReportRow `json:"rows"`
	Meta *models.ClassReportMeta `json:"meta"`
}

type rankEntry struct {
	Rank  int
	Total float64
}

// aggregateSubjects groups a student's results by the subject of their
// parent exam, sums marks and maximum marks, and resolves the per-subject
// grade. Subjects appear in first-seen exam order.
func aggregateSubjects(results []models.ExamResult, exams []models.ExamDetail, bands []models.GradeScaleBand) []models.SubjectSummary {
	examIndex := make(map[string]models.ExamDetail, len(exams))
	for _, exam := range exams {
		examIndex[exam.ID] = exam
	}

	order := make([]string, 0)
	groups := make(map[string]*models.SubjectSummary)
	for _, result := range results {
		exam, ok := examIndex[result.ExamID]
		if !ok {
			continue
		}
		summary, seen := groups[exam.SubjectID]
		if !seen {
			summary = &models.SubjectSummary{
				SubjectID:   exam.SubjectID,
				SubjectName: exam.SubjectName,
				SubjectCode: exam.SubjectCode,
			}
			groups[exam.SubjectID] = summary
			order = append(order, exam.SubjectID)
		}
		summary.Results = append(summary.Results, models.SubjectExamResult{
			ExamID:        exam.ID,
			ExamName:      exam.Name,
			MarksObtained: result.MarksObtained,
			TotalMarks:    exam.TotalMarks,
			Percentage:    result.Percentage,
			Passed:        result.Passed,
		})
		summary.TotalMarks += result.MarksObtained
		summary.TotalMaxMarks += exam.TotalMarks
	}

	subjects := make([]models.SubjectSummary, 0, len(order))
	for _, subjectID := range order {
		summary := groups[subjectID]
		if summary.TotalMaxMarks > 0 {
			summary.Percentage = roundTo2(summary.TotalMarks / summary.TotalMaxMarks * 100)
		}
		resolution := ResolveGrade(summary.Percentage, bands)
		summary.Grade = resolution.Grade
		summary.GPA = resolution.GPAPoints
		summary.Appreciation = resolution.Description
		subjects = append(subjects, *summary)
	}
	return subjects
}

// rankClass sums semester marks per roster student (zero for students with
// no results) and assigns 1-based sequential ranks in descending total
// order. Ties are not shared: equal totals receive consecutive ranks, with
// student ID breaking the tie deterministically.
func rankClass(roster []models.Student, results []models.ExamResult) (map[string]rankEntry, int) {
	totals := make(map[string]float64, len(roster))
	for _, student := range roster {
		totals[student.ID] = 0
	}
	for _, result := range results {
		if _, ok := totals[result.StudentID]; ok {
			totals[result.StudentID] += result.MarksObtained
		}
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if totals[ids[i]] != totals[ids[j]] {
			return totals[ids[i]] > totals[ids[j]]
		}
		return ids[i] < ids[j]
	})

	ranking := make(map[string]rankEntry, len(ids))
	for i, id := range ids {
		ranking[id] = rankEntry{Rank: i + 1, Total: totals[id]}
	}
	return ranking, len(ids)
}

func examIDsOf(exams []models.ExamDetail) []string {
	ids := make([]string, 0, len(exams))
	for _, exam := range exams {
		ids = append(ids, exam.ID)
	}
	return ids
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
