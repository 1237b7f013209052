package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

func fp(v float64) *float64 { return &v }

type mockGradeRepo struct {
	grades map[string]models.Grade
	finals []float64
	saved  *models.Grade
}

func gradeKey(studentID, assessmentID string) string {
	return studentID + "/" + assessmentID
}

func (m *mockGradeRepo) FindByStudentAndAssessment(ctx context.Context, studentID, assessmentID string) (*models.Grade, error) {
	if g, ok := m.grades[gradeKey(studentID, assessmentID)]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeRepo) Save(ctx context.Context, grade *models.Grade) error {
	if m.grades == nil {
		m.grades = make(map[string]models.Grade)
	}
	m.grades[gradeKey(grade.StudentID, grade.AssessmentID)] = *grade
	m.saved = grade
	return nil
}

func (m *mockGradeRepo) ListFinalGradesByStudentAndClass(ctx context.Context, studentID, classID string) ([]float64, error) {
	return m.finals, nil
}

type mockAssessmentReader struct {
	assessments map[string]models.Assessment
}

func (m *mockAssessmentReader) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	if a, ok := m.assessments[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type mockGradeClassReader struct {
	classes map[string]models.Class
}

func (m *mockGradeClassReader) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockGradeEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	rolledUp    *float64
	rollupCalls int
}

func (m *mockGradeEnrollmentRepo) FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[studentID+"/"+classID]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeEnrollmentRepo) UpdateFinalGrade(ctx context.Context, studentID, classID string, finalGrade *float64) error {
	m.rolledUp = finalGrade
	m.rollupCalls++
	return nil
}

type mockGPAInvalidator struct {
	invalidated []string
	err         error
}

func (m *mockGPAInvalidator) Invalidate(ctx context.Context, studentID string) error {
	m.invalidated = append(m.invalidated, studentID)
	return m.err
}

type gradeFixture struct {
	svc         *GradeService
	grades      *mockGradeRepo
	enrollments *mockGradeEnrollmentRepo
	gpa         *mockGPAInvalidator
}

func newGradeFixture(class models.Class) *gradeFixture {
	grades := &mockGradeRepo{}
	enrollments := &mockGradeEnrollmentRepo{
		enrollments: map[string]models.Enrollment{
			"student-1/" + class.ID: {ID: "enroll-1", StudentID: "student-1", ClassID: class.ID, Status: models.EnrollmentStatusEnrolled},
		},
	}
	gpa := &mockGPAInvalidator{}
	svc := NewGradeService(
		grades,
		&mockAssessmentReader{assessments: map[string]models.Assessment{
			"assess-1": {ID: "assess-1", ClassID: class.ID, Title: "Periodical Exam"},
		}},
		&mockGradeClassReader{classes: map[string]models.Class{class.ID: class}},
		enrollments,
		gpa,
		validator.New(),
		zap.NewNop(),
	)
	return &gradeFixture{svc: svc, grades: grades, enrollments: enrollments, gpa: gpa}
}

func testClass() models.Class {
	return models.Class{
		ID: "class-1",
		GradingFormula: models.Formula{
			Components: []models.FormulaComponent{
				{Name: "Quizzes", Weight: 40},
				{Name: "Exams", Weight: 60},
			},
			PassingGrade:  3.0,
			UseConversion: true,
		},
	}
}

func TestRecordScoreItemCreatesRecordAndRollsUp(t *testing.T) {
	fx := newGradeFixture(testClass())
	fx.grades.finals = []float64{2.0, 3.0}

	grade, err := fx.svc.RecordScoreItem(context.Background(), "assess-1", "student-1", "teacher-1", RecordScoreItemRequest{
		Component: "Quizzes",
		Score:     90,
		Max:       100,
		Label:     "Quiz 1",
		Date:      "2026-02-10",
	})
	require.NoError(t, err)

	require.Len(t, grade.ComponentScores["Quizzes"].Items, 1)
	require.NotNil(t, grade.CalculatedPercentage)
	// only 40 of 100 weight has data, no renormalization
	assert.Equal(t, 36.0, *grade.CalculatedPercentage)
	require.NotNil(t, grade.FinalGrade)
	assert.Equal(t, 5.0, *grade.FinalGrade)
	require.NotNil(t, grade.GradedBy)
	assert.Equal(t, "teacher-1", *grade.GradedBy)
	assert.NotNil(t, grade.GradedAt)

	require.NotNil(t, fx.grades.saved)
	require.NotNil(t, fx.enrollments.rolledUp)
	assert.Equal(t, 2.5, *fx.enrollments.rolledUp)
	assert.Equal(t, []string{"student-1"}, fx.gpa.invalidated)
}

func TestRecordScoreItemRejectsUnknownComponent(t *testing.T) {
	fx := newGradeFixture(testClass())

	_, err := fx.svc.RecordScoreItem(context.Background(), "assess-1", "student-1", "teacher-1", RecordScoreItemRequest{
		Component: "Attendance",
		Score:     10,
		Max:       10,
		Label:     "Week 1",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, fx.grades.saved)
}

func TestRecordScoreItemRequiresEnrollment(t *testing.T) {
	fx := newGradeFixture(testClass())

	_, err := fx.svc.RecordScoreItem(context.Background(), "assess-1", "student-2", "teacher-1", RecordScoreItemRequest{
		Component: "Quizzes",
		Score:     8,
		Max:       10,
		Label:     "Quiz 1",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRecordScoreItemRejectsDroppedStudent(t *testing.T) {
	fx := newGradeFixture(testClass())
	e := fx.enrollments.enrollments["student-1/class-1"]
	e.Status = models.EnrollmentStatusDropped
	fx.enrollments.enrollments["student-1/class-1"] = e

	_, err := fx.svc.RecordScoreItem(context.Background(), "assess-1", "student-1", "teacher-1", RecordScoreItemRequest{
		Component: "Quizzes",
		Score:     8,
		Max:       10,
		Label:     "Quiz 1",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSetOverridePinsFinalGrade(t *testing.T) {
	fx := newGradeFixture(testClass())
	fx.grades.grades = map[string]models.Grade{
		gradeKey("student-1", "assess-1"): {
			ID:           "grade-1",
			AssessmentID: "assess-1",
			StudentID:    "student-1",
			ComponentScores: models.ComponentScores{
				"Quizzes": models.LegacyScore(85),
				"Exams":   models.LegacyScore(90),
			},
		},
	}

	grade, err := fx.svc.SetOverride(context.Background(), "assess-1", "student-1", "teacher-1", OverrideRequest{
		Grade:  1.75,
		Reason: "special project credit",
	})
	require.NoError(t, err)

	assert.True(t, grade.IsOverridden)
	require.NotNil(t, grade.FinalGrade)
	assert.Equal(t, 1.75, *grade.FinalGrade)
	// computed fields stay intact underneath the override
	require.NotNil(t, grade.CalculatedPercentage)
	assert.Equal(t, 88.0, *grade.CalculatedPercentage)
	require.NotNil(t, grade.CalculatedGrade)
	assert.Equal(t, 1.75, *grade.CalculatedGrade)
	require.NotNil(t, grade.OverrideReason)
	assert.Equal(t, "special project credit", *grade.OverrideReason)
}

func TestSetOverrideValidatesRange(t *testing.T) {
	fx := newGradeFixture(testClass())

	_, err := fx.svc.SetOverride(context.Background(), "assess-1", "student-1", "teacher-1", OverrideRequest{
		Grade:  6.0,
		Reason: "typo",
	})
	require.Error(t, err)

	_, err = fx.svc.SetOverride(context.Background(), "assess-1", "student-1", "teacher-1", OverrideRequest{
		Grade: 2.0,
	})
	require.Error(t, err, "reason is required")
}

func TestClearOverrideRestoresComputedGrade(t *testing.T) {
	fx := newGradeFixture(testClass())
	fx.grades.grades = map[string]models.Grade{
		gradeKey("student-1", "assess-1"): {
			ID:           "grade-1",
			AssessmentID: "assess-1",
			StudentID:    "student-1",
			ComponentScores: models.ComponentScores{
				"Quizzes": models.LegacyScore(85),
				"Exams":   models.LegacyScore(90),
			},
			IsOverridden:   true,
			OverrideGrade:  fp(1.0),
			OverrideReason: strPtr("incentive"),
		},
	}

	grade, err := fx.svc.ClearOverride(context.Background(), "assess-1", "student-1", "teacher-1")
	require.NoError(t, err)

	assert.False(t, grade.IsOverridden)
	assert.Nil(t, grade.OverrideGrade)
	assert.Nil(t, grade.OverrideReason)
	require.NotNil(t, grade.FinalGrade)
	assert.Equal(t, 1.75, *grade.FinalGrade)
}

func TestRecalculateUsesDefaultFormulaWhenClassHasNone(t *testing.T) {
	class := models.Class{ID: "class-1"}
	fx := newGradeFixture(class)
	fx.grades.grades = map[string]models.Grade{
		gradeKey("student-1", "assess-1"): {
			ID:           "grade-1",
			AssessmentID: "assess-1",
			StudentID:    "student-1",
			ComponentScores: models.ComponentScores{
				"Midterm": models.LegacyScore(80),
				"Final":   models.LegacyScore(90),
			},
		},
	}

	grade, err := fx.svc.Recalculate(context.Background(), "assess-1", "student-1", "teacher-1")
	require.NoError(t, err)
	require.NotNil(t, grade.CalculatedPercentage)
	assert.Equal(t, 85.0, *grade.CalculatedPercentage)
	require.NotNil(t, grade.FinalGrade)
	assert.Equal(t, 2.0, *grade.FinalGrade)
}

func TestMutateClearsRollupWhenNoFinalGrades(t *testing.T) {
	fx := newGradeFixture(testClass())
	fx.grades.finals = nil
	fx.grades.grades = map[string]models.Grade{
		gradeKey("student-1", "assess-1"): {
			ID:           "grade-1",
			AssessmentID: "assess-1",
			StudentID:    "student-1",
			ComponentScores: models.ComponentScores{
				"Quizzes": models.ItemScores(models.ScoreItem{Score: fp(8), Max: fp(10), Label: "Quiz 1", Date: "2026-02-10"}),
			},
		},
	}

	_, err := fx.svc.DeleteScoreItem(context.Background(), "assess-1", "student-1", "teacher-1", "Quizzes", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, fx.enrollments.rollupCalls)
	assert.Nil(t, fx.enrollments.rolledUp)
}

func TestMutateToleratesCacheInvalidationFailure(t *testing.T) {
	fx := newGradeFixture(testClass())
	fx.gpa.err = errors.New("redis down")

	_, err := fx.svc.RecordScoreItem(context.Background(), "assess-1", "student-1", "teacher-1", RecordScoreItemRequest{
		Component: "Exams",
		Score:     50,
		Max:       50,
		Label:     "Midterm",
	})
	require.NoError(t, err)
	assert.NotNil(t, fx.grades.saved)
}

func strPtr(s string) *string { return &s }
