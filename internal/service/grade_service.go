package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/grading"
	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type gradeRecordRepo interface {
	FindByStudentAndAssessment(ctx context.Context, studentID, assessmentID string) (*models.Grade, error)
	Save(ctx context.Context, grade *models.Grade) error
	ListFinalGradesByStudentAndClass(ctx context.Context, studentID, classID string) ([]float64, error)
}

type assessmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
}

type gradeClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type gradeEnrollmentRepo interface {
	FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.Enrollment, error)
	UpdateFinalGrade(ctx context.Context, studentID, classID string, finalGrade *float64) error
}

type gpaInvalidator interface {
	Invalidate(ctx context.Context, studentID string) error
}

// RecordScoreItemRequest appends one scored item to a component's ledger.
type RecordScoreItemRequest struct {
	Component string  `json:"component" validate:"required"`
	Score     float64 `json:"score"`
	Max       float64 `json:"max" validate:"required"`
	Label     string  `json:"label" validate:"required"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateScoreItemRequest partially updates an item in place.
type UpdateScoreItemRequest struct {
	Score *float64 `json:"score"`
	Max   *float64 `json:"max"`
	Label *string  `json:"label"`
	Date  *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// OverrideRequest replaces the computed final grade with a manual one.
type OverrideRequest struct {
	Grade  float64 `json:"grade" validate:"required,min=1,max=5"`
	Reason string  `json:"reason" validate:"required"`
}

// GradeService orchestrates the grade computation engine: it owns the score
// ledgers, keeps derived fields consistent with them, and propagates changes
// to enrollment averages and cached GPAs. Every mutation follows the same
// path: load the aggregate, change the ledger, recompute, save as a whole.
type GradeService struct {
	grades      gradeRecordRepo
	assessments assessmentReader
	classes     gradeClassReader
	enrollments gradeEnrollmentRepo
	gpa         gpaInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs GradeService. The GPA invalidator may be nil
// when caching is disabled.
func NewGradeService(grades gradeRecordRepo, assessments assessmentReader, classes gradeClassReader, enrollments gradeEnrollmentRepo, gpa gpaInvalidator, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		grades:      grades,
		assessments: assessments,
		classes:     classes,
		enrollments: enrollments,
		gpa:         gpa,
		validator:   validate,
		logger:      logger,
	}
}

// gradeScope bundles everything a ledger mutation needs.
type gradeScope struct {
	assessment *models.Assessment
	class      *models.Class
	grade      *models.Grade
}

// Get returns the grade record for a student on an assessment. A student with
// no recorded scores yet gets an empty record, not an error.
func (s *GradeService) Get(ctx context.Context, assessmentID, studentID string) (*models.Grade, error) {
	scope, err := s.loadScope(ctx, assessmentID, studentID)
	if err != nil {
		return nil, err
	}
	return scope.grade, nil
}

// RecordScoreItem appends a scored item and recomputes the record.
func (s *GradeService) RecordScoreItem(ctx context.Context, assessmentID, studentID, gradedBy string, req RecordScoreItemRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score item payload")
	}
	return s.mutate(ctx, assessmentID, studentID, gradedBy, func(scope *gradeScope) error {
		if !componentExists(scope.class.GradingFormula, req.Component) {
			return appErrors.Clone(appErrors.ErrValidation, "component is not part of the class formula")
		}
		_, err := grading.AddItem(scope.grade.ComponentScores, req.Component, req.Score, req.Max, req.Label, req.Date)
		return err
	})
}

// UpdateScoreItem updates the item at index within a component and
// recomputes the record.
func (s *GradeService) UpdateScoreItem(ctx context.Context, assessmentID, studentID, gradedBy, component string, index int, req UpdateScoreItemRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score item payload")
	}
	return s.mutate(ctx, assessmentID, studentID, gradedBy, func(scope *gradeScope) error {
		_, err := grading.UpdateItem(scope.grade.ComponentScores, component, index, grading.ItemUpdate{
			Score: req.Score,
			Max:   req.Max,
			Label: req.Label,
			Date:  req.Date,
		})
		return err
	})
}

// DeleteScoreItem removes the item at index within a component and
// recomputes the record.
func (s *GradeService) DeleteScoreItem(ctx context.Context, assessmentID, studentID, gradedBy, component string, index int) (*models.Grade, error) {
	return s.mutate(ctx, assessmentID, studentID, gradedBy, func(scope *gradeScope) error {
		return grading.DeleteItem(scope.grade.ComponentScores, component, index)
	})
}

// ComponentSummary returns the aggregate view of one component's items.
func (s *GradeService) ComponentSummary(ctx context.Context, assessmentID, studentID, component string) (*models.ComponentSummary, error) {
	scope, err := s.loadScope(ctx, assessmentID, studentID)
	if err != nil {
		return nil, err
	}
	summary := grading.Summarize(scope.grade.ComponentScores, component)
	if summary == nil {
		summary = &models.ComponentSummary{Items: grading.Items(scope.grade.ComponentScores, component)}
	}
	return summary, nil
}

// SetOverride pins the record's final grade to a manual value. The computed
// fields stay untouched so clearing the override restores them.
func (s *GradeService) SetOverride(ctx context.Context, assessmentID, studentID, gradedBy string, req OverrideRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload")
	}
	return s.mutate(ctx, assessmentID, studentID, gradedBy, func(scope *gradeScope) error {
		grade := grading.Round2(req.Grade)
		reason := req.Reason
		scope.grade.IsOverridden = true
		scope.grade.OverrideGrade = &grade
		scope.grade.OverrideReason = &reason
		return nil
	})
}

// ClearOverride removes a manual override, reverting to the computed grade.
func (s *GradeService) ClearOverride(ctx context.Context, assessmentID, studentID, gradedBy string) (*models.Grade, error) {
	return s.mutate(ctx, assessmentID, studentID, gradedBy, func(scope *gradeScope) error {
		scope.grade.IsOverridden = false
		scope.grade.OverrideGrade = nil
		scope.grade.OverrideReason = nil
		return nil
	})
}

// Recalculate recomputes the record's derived fields without touching the
// ledger, for when a class formula or conversion table changed.
func (s *GradeService) Recalculate(ctx context.Context, assessmentID, studentID, gradedBy string) (*models.Grade, error) {
	return s.mutate(ctx, assessmentID, studentID, gradedBy, func(*gradeScope) error { return nil })
}

// mutate runs the shared mutation path: load scope, apply the change,
// recompute derived fields, persist the whole aggregate, then roll the new
// final grade up into the enrollment average and drop cached GPAs.
func (s *GradeService) mutate(ctx context.Context, assessmentID, studentID, gradedBy string, apply func(*gradeScope) error) (*models.Grade, error) {
	scope, err := s.loadScope(ctx, assessmentID, studentID)
	if err != nil {
		return nil, err
	}
	if err := apply(scope); err != nil {
		return nil, err
	}

	s.recompute(scope)
	now := time.Now().UTC()
	scope.grade.GradedBy = &gradedBy
	scope.grade.GradedAt = &now

	if err := s.grades.Save(ctx, scope.grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade record")
	}

	if err := s.rollupEnrollment(ctx, studentID, scope.class.ID); err != nil {
		return nil, err
	}
	if s.gpa != nil {
		if err := s.gpa.Invalidate(ctx, studentID); err != nil {
			s.logger.Warn("failed to invalidate cached GPA", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return scope.grade, nil
}

func (s *GradeService) recompute(scope *gradeScope) {
	var table models.ConversionTable
	if scope.class.ConversionTable != nil {
		table = *scope.class.ConversionTable
	}
	formula := scope.class.GradingFormula
	if len(formula.Components) == 0 {
		formula = grading.DefaultFormula()
	}
	res := grading.Calculate(scope.grade.ComponentScores, formula, table)
	scope.grade.CalculatedPercentage = res.Percentage
	scope.grade.CalculatedGrade = res.Grade
	scope.grade.FinalGrade = grading.FinalGrade(res, scope.grade.IsOverridden, scope.grade.OverrideGrade)
}

// rollupEnrollment recomputes the enrollment's cached average as the simple
// mean of the student's final grades across the class's assessments.
func (s *GradeService) rollupEnrollment(ctx context.Context, studentID, classID string) error {
	finals, err := s.grades.ListFinalGradesByStudentAndClass(ctx, studentID, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final grades")
	}
	var avg *float64
	if len(finals) > 0 {
		sum := 0.0
		for _, g := range finals {
			sum += g
		}
		mean := grading.Round2(sum / float64(len(finals)))
		avg = &mean
	}
	if err := s.enrollments.UpdateFinalGrade(ctx, studentID, classID, avg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment average")
	}
	return nil
}

func (s *GradeService) loadScope(ctx context.Context, assessmentID, studentID string) (*gradeScope, error) {
	assessment, err := s.assessments.FindByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessment")
	}
	class, err := s.classes.FindByID(ctx, assessment.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	enrollment, err := s.enrollments.FindByStudentAndClass(ctx, studentID, class.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this class")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status == models.EnrollmentStatusDropped {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student has dropped this class")
	}

	grade, err := s.grades.FindByStudentAndAssessment(ctx, studentID, assessmentID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade record")
		}
		grade = &models.Grade{
			AssessmentID:    assessmentID,
			StudentID:       studentID,
			ComponentScores: models.ComponentScores{},
		}
	}
	if grade.ComponentScores == nil {
		grade.ComponentScores = models.ComponentScores{}
	}
	return &gradeScope{assessment: assessment, class: class, grade: grade}, nil
}

func componentExists(formula models.Formula, name string) bool {
	if len(formula.Components) == 0 {
		formula = grading.DefaultFormula()
	}
	for _, c := range formula.Components {
		if c.Name == name {
			return true
		}
	}
	return false
}
