package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/grading"
	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type enrollmentRepo interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.Enrollment, error)
	ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
	CountEnrolled(ctx context.Context, classID string) (int, error)
}

type enrollmentClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type enrollmentStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// EnrollmentStanding augments an enrollment with pass/fail status derived
// from the class's passing grade.
type EnrollmentStanding struct {
	models.EnrollmentDetail
	Status *string `json:"standing,omitempty"`
}

// EnrollmentService manages class rosters.
type EnrollmentService struct {
	enrollments enrollmentRepo
	classes     enrollmentClassReader
	students    enrollmentStudentReader
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentRepo, classes enrollmentClassReader, students enrollmentStudentReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, classes: classes, students: students, logger: logger}
}

// Enroll adds a student to a class roster, enforcing capacity and rejecting
// duplicates.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, classID string) (*models.Enrollment, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	existing, err := s.enrollments.FindByStudentAndClass(ctx, studentID, classID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if existing != nil {
		if existing.Status == models.EnrollmentStatusDropped {
			if err := s.enrollments.UpdateStatus(ctx, existing.ID, models.EnrollmentStatusEnrolled); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-enroll student")
			}
			existing.Status = models.EnrollmentStatusEnrolled
			return existing, nil
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "student is already enrolled in this class")
	}

	count, err := s.enrollments.CountEnrolled(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if class.MaxStudents > 0 && count >= class.MaxStudents {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class is full")
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		ClassID:   classID,
		Status:    models.EnrollmentStatusEnrolled,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("class_id", classID))
	return enrollment, nil
}

// Drop marks an enrollment dropped. Grade records stay, but the student can
// no longer be graded in the class.
func (s *EnrollmentService) Drop(ctx context.Context, studentID, classID string) error {
	enrollment, err := s.enrollments.FindByStudentAndClass(ctx, studentID, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status == models.EnrollmentStatusDropped {
		return appErrors.Clone(appErrors.ErrConflict, "enrollment already dropped")
	}
	if err := s.enrollments.UpdateStatus(ctx, enrollment.ID, models.EnrollmentStatusDropped); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop enrollment")
	}
	return nil
}

// ListByClass returns the roster of a class.
func (s *EnrollmentService) ListByClass(ctx context.Context, classID string) ([]EnrollmentStanding, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	details, err := s.enrollments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	passing := class.GradingFormula.PassingGrade
	if passing == 0 {
		passing = models.DefaultPassingGrade
	}
	out := make([]EnrollmentStanding, 0, len(details))
	for _, d := range details {
		out = append(out, withStanding(d, passing))
	}
	return out, nil
}

// ListByStudent returns every class a student is or was enrolled in.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]EnrollmentStanding, error) {
	details, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	out := make([]EnrollmentStanding, 0, len(details))
	for _, d := range details {
		class, err := s.classes.FindByID(ctx, d.ClassID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
		}
		passing := class.GradingFormula.PassingGrade
		if passing == 0 {
			passing = models.DefaultPassingGrade
		}
		out = append(out, withStanding(d, passing))
	}
	return out, nil
}

func withStanding(d models.EnrollmentDetail, passingGrade float64) EnrollmentStanding {
	standing := EnrollmentStanding{EnrollmentDetail: d}
	if d.FinalGrade != nil {
		label := "Failed"
		if grading.Passed(*d.FinalGrade, passingGrade) {
			label = "Passed"
		}
		standing.Status = &label
	}
	return standing
}
