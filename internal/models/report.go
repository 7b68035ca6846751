package models

// SubjectExamResult is one exam line within a subject summary.
type SubjectExamResult struct {
	ExamID        string  `json:"exam_id"`
	ExamName      string  `json:"exam_name"`
	MarksObtained float64 `json:"marks_obtained"`
	TotalMarks    float64 `json:"total_marks"`
	Percentage    float64 `json:"percentage"`
	Passed        bool    `json:"passed"`
}

// SubjectSummary aggregates a student's completed-exam results for one
// subject. Grouping is by subject ID; the name and code are display-only.
type SubjectSummary struct {
	SubjectID     string              `json:"subject_id"`
	SubjectName   string              `json:"subject_name"`
	SubjectCode   string              `json:"subject_code"`
	Results       []SubjectExamResult `json:"results"`
	TotalMarks    float64             `json:"total_marks"`
	TotalMaxMarks float64             `json:"total_max_marks"`
	Percentage    float64             `json:"percentage"`
	Grade         string              `json:"grade"`
	GPA           float64             `json:"gpa"`
	Appreciation  string              `json:"appreciation"`
}

// ReportSummary holds the overall totals of a student report card.
type ReportSummary struct {
	TotalMarks    float64 `json:"total_marks"`
	TotalMaxMarks float64 `json:"total_max_marks"`
	Percentage    float64 `json:"percentage"`
	Grade         string  `json:"grade"`
	GPA           float64 `json:"gpa"`
	Rank          int     `json:"rank"`
	TotalStudents int     `json:"total_students"`
	Passed        bool    `json:"passed"`
}

// ReportStudentInfo identifies the student on a report card.
type ReportStudentInfo struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	FullName    string `json:"full_name"`
	ClassName   string `json:"class_name"`
	SectionName string `json:"section_name"`
}

// ReportSemesterInfo identifies the semester on a report card.
type ReportSemesterInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
}

// StudentReportCard is the assembled per-student academic report. It is
// recomputed on every call and never persisted.
type StudentReportCard struct {
	Student    ReportStudentInfo  `json:"student"`
	Semester   ReportSemesterInfo `json:"semester"`
	Subjects   []SubjectSummary   `json:"subjects"`
	Summary    ReportSummary      `json:"summary"`
	Attendance AttendanceSummary  `json:"attendance"`
}

// ClassReportRow is one student's line in a class report summary.
type ClassReportRow struct {
	StudentID     string  `json:"student_id"`
	FullName      string  `json:"full_name"`
	Code          string  `json:"code"`
	TotalMarks    float64 `json:"total_marks"`
	TotalMaxMarks float64 `json:"total_max_marks"`
	Percentage    float64 `json:"percentage"`
	Grade         string  `json:"grade"`
	Rank          int     `json:"rank"`
	Passed        bool    `json:"passed"`
}

// ClassReportMeta accompanies the class report rows.
type ClassReportMeta struct {
	ClassID       string `json:"class_id"`
	SemesterID    string `json:"semester_id"`
	TotalStudents int    `json:"total_students"`
	TotalExams    int    `json:"total_exams"`
}
