package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	byClass     []models.EnrollmentDetail
	byStudent   []models.EnrollmentDetail
	enrolled    int
	created     *models.Enrollment
	statusSet   map[string]models.EnrollmentStatus
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "new-enroll"
	m.created = enrollment
	return nil
}

func (m *mockEnrollmentRepo) FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[studentID+"/"+classID]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	return m.byClass, nil
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return m.byStudent, nil
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	if m.statusSet == nil {
		m.statusSet = make(map[string]models.EnrollmentStatus)
	}
	m.statusSet[id] = status
	return nil
}

func (m *mockEnrollmentRepo) CountEnrolled(ctx context.Context, classID string) (int, error) {
	return m.enrolled, nil
}

type mockEnrollmentClassReader struct {
	classes map[string]models.Class
}

func (m *mockEnrollmentClassReader) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockEnrollmentStudentReader struct {
	students map[string]models.Student
}

func (m *mockEnrollmentStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentFixture(class models.Class) (*EnrollmentService, *mockEnrollmentRepo) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(
		repo,
		&mockEnrollmentClassReader{classes: map[string]models.Class{class.ID: class}},
		&mockEnrollmentStudentReader{students: map[string]models.Student{"student-1": {ID: "student-1"}}},
		zap.NewNop(),
	)
	return svc, repo
}

func TestEnrollCreatesEnrollment(t *testing.T) {
	svc, repo := newEnrollmentFixture(models.Class{ID: "class-1", MaxStudents: 40})

	enrollment, err := svc.Enroll(context.Background(), "student-1", "class-1")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
	require.NotNil(t, repo.created)
	assert.Equal(t, "student-1", repo.created.StudentID)
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	svc, repo := newEnrollmentFixture(models.Class{ID: "class-1", MaxStudents: 40})
	repo.enrollments = map[string]models.Enrollment{
		"student-1/class-1": {ID: "enroll-1", Status: models.EnrollmentStatusEnrolled},
	}

	_, err := svc.Enroll(context.Background(), "student-1", "class-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestEnrollReactivatesDroppedEnrollment(t *testing.T) {
	svc, repo := newEnrollmentFixture(models.Class{ID: "class-1", MaxStudents: 40})
	repo.enrollments = map[string]models.Enrollment{
		"student-1/class-1": {ID: "enroll-1", Status: models.EnrollmentStatusDropped},
	}

	enrollment, err := svc.Enroll(context.Background(), "student-1", "class-1")
	require.NoError(t, err)
	assert.Equal(t, "enroll-1", enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
	assert.Equal(t, models.EnrollmentStatusEnrolled, repo.statusSet["enroll-1"])
	assert.Nil(t, repo.created)
}

func TestEnrollEnforcesCapacity(t *testing.T) {
	svc, repo := newEnrollmentFixture(models.Class{ID: "class-1", MaxStudents: 30})
	repo.enrolled = 30

	_, err := svc.Enroll(context.Background(), "student-1", "class-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestEnrollUnknownStudentOrClass(t *testing.T) {
	svc, _ := newEnrollmentFixture(models.Class{ID: "class-1"})

	_, err := svc.Enroll(context.Background(), "ghost", "class-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	_, err = svc.Enroll(context.Background(), "student-1", "missing")
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDropEnrollment(t *testing.T) {
	svc, repo := newEnrollmentFixture(models.Class{ID: "class-1"})
	repo.enrollments = map[string]models.Enrollment{
		"student-1/class-1": {ID: "enroll-1", Status: models.EnrollmentStatusEnrolled},
	}

	require.NoError(t, svc.Drop(context.Background(), "student-1", "class-1"))
	assert.Equal(t, models.EnrollmentStatusDropped, repo.statusSet["enroll-1"])
}

func TestDropAlreadyDropped(t *testing.T) {
	svc, repo := newEnrollmentFixture(models.Class{ID: "class-1"})
	repo.enrollments = map[string]models.Enrollment{
		"student-1/class-1": {ID: "enroll-1", Status: models.EnrollmentStatusDropped},
	}

	err := svc.Drop(context.Background(), "student-1", "class-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestListByClassDerivesStanding(t *testing.T) {
	class := models.Class{
		ID:             "class-1",
		GradingFormula: models.Formula{PassingGrade: 3.0},
	}
	svc, repo := newEnrollmentFixture(class)
	repo.byClass = []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{ID: "e1", FinalGrade: fp(2.5)}},
		{Enrollment: models.Enrollment{ID: "e2", FinalGrade: fp(3.0)}},
		{Enrollment: models.Enrollment{ID: "e3", FinalGrade: fp(4.25)}},
		{Enrollment: models.Enrollment{ID: "e4"}},
	}

	roster, err := svc.ListByClass(context.Background(), "class-1")
	require.NoError(t, err)
	require.Len(t, roster, 4)
	assert.Equal(t, "Passed", *roster[0].Status)
	// passing threshold is inclusive on the lower-is-better scale
	assert.Equal(t, "Passed", *roster[1].Status)
	assert.Equal(t, "Failed", *roster[2].Status)
	assert.Nil(t, roster[3].Status)
}
