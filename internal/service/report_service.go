package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/grading"
	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
	"github.com/acadify/acadify-api/pkg/export"
)

type reportEnrollmentRepo interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
}

// ReportCardRow is one class line on a report card.
type ReportCardRow struct {
	SubjectCode string   `json:"subject_code"`
	SubjectName string   `json:"subject_name"`
	Units       int      `json:"units"`
	FinalGrade  *float64 `json:"final_grade"`
	Standing    string   `json:"standing"`
}

// ReportCard is a student's term summary.
type ReportCard struct {
	Student    models.Student    `json:"student"`
	Term       models.TermContext `json:"term"`
	Rows       []ReportCardRow   `json:"rows"`
	GPA        *float64          `json:"gpa"`
	TotalUnits int               `json:"total_units"`
}

// ReportService assembles report cards and renders them for download.
type ReportService struct {
	students    studentRepo
	enrollments reportEnrollmentRepo
	classes     gradeClassReader
	gpa         *GPAService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(students studentRepo, enrollments reportEnrollmentRepo, classes gradeClassReader, gpa *GPAService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		students:    students,
		enrollments: enrollments,
		classes:     classes,
		gpa:         gpa,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Build assembles the report card for a student and term.
func (s *ReportService) Build(ctx context.Context, studentID string, term models.TermContext) (*ReportCard, error) {
	if term.SchoolYear == "" || term.Semester == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year and semester are required")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	details, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	card := &ReportCard{Student: *student, Term: term, Rows: []ReportCardRow{}}
	for _, d := range details {
		if d.Status == models.EnrollmentStatusDropped {
			continue
		}
		class, err := s.classes.FindByID(ctx, d.ClassID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
		}
		if class.SchoolYear != term.SchoolYear || class.Semester != term.Semester {
			continue
		}
		row := ReportCardRow{
			SubjectCode: class.SubjectCode,
			SubjectName: class.SubjectName,
			Units:       class.Units,
			FinalGrade:  d.FinalGrade,
			Standing:    "In Progress",
		}
		if d.FinalGrade != nil {
			passing := class.GradingFormula.PassingGrade
			if passing == 0 {
				passing = models.DefaultPassingGrade
			}
			if grading.Passed(*d.FinalGrade, passing) {
				row.Standing = "Passed"
			} else {
				row.Standing = "Failed"
			}
		}
		card.Rows = append(card.Rows, row)
		card.TotalUnits += class.Units
	}

	result, err := s.gpa.SemesterGPA(ctx, studentID, term, models.GPAWeighted)
	if err != nil {
		return nil, err
	}
	card.GPA = result.GPA
	return card, nil
}

// RenderCSV renders the report card as CSV.
func (s *ReportService) RenderCSV(ctx context.Context, studentID string, term models.TermContext) ([]byte, error) {
	card, err := s.Build(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(dataset(card))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// RenderPDF renders the report card as a PDF document.
func (s *ReportService) RenderPDF(ctx context.Context, studentID string, term models.TermContext) ([]byte, error) {
	card, err := s.Build(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Report Card %s %s", card.Term.SchoolYear, card.Term.Semester)
	summary := []string{
		fmt.Sprintf("Student: %s (%s)", card.Student.FullName(), card.Student.StudentNumber),
		fmt.Sprintf("Program: %s, Year %s", card.Student.Program, card.Student.YearLevel),
		fmt.Sprintf("Total Units: %d", card.TotalUnits),
		fmt.Sprintf("GPA: %s", formatGrade(card.GPA)),
	}
	data, err := s.pdf.Render(dataset(card), title, summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

func dataset(card *ReportCard) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Subject Code", "Subject", "Units", "Final Grade", "Standing"},
	}
	for _, row := range card.Rows {
		data.Rows = append(data.Rows, map[string]string{
			"Subject Code": row.SubjectCode,
			"Subject":      row.SubjectName,
			"Units":        fmt.Sprintf("%d", row.Units),
			"Final Grade":  formatGrade(row.FinalGrade),
			"Standing":     row.Standing,
		})
	}
	return data
}

func formatGrade(g *float64) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *g)
}
