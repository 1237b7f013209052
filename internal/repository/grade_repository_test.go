package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadify/acadify-api/internal/models"
)

func newGradeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGradeRepositoryFindByStudentAndAssessment(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	ledger := []byte(`{"Quizzes":[{"score":18,"max":20,"label":"Quiz 1","date":"2026-02-10"}],"Exams":88}`)
	rows := sqlmock.NewRows([]string{
		"id", "assessment_id", "student_id", "component_scores", "calculated_percentage", "calculated_grade",
		"is_overridden", "override_grade", "override_reason", "final_grade", "graded_by", "graded_at",
		"created_at", "updated_at",
	}).AddRow("grade-1", "assess-1", "stu-1", ledger, 88.0, 1.75, false, nil, nil, 1.75, "teacher-1", nil, time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM grades WHERE student_id = \\$1 AND assessment_id = \\$2").
		WithArgs("stu-1", "assess-1").
		WillReturnRows(rows)

	grade, err := repo.FindByStudentAndAssessment(context.Background(), "stu-1", "assess-1")
	require.NoError(t, err)
	assert.Equal(t, "grade-1", grade.ID)
	require.Len(t, grade.ComponentScores, 2)
	assert.False(t, grade.ComponentScores["Quizzes"].IsLegacy())
	assert.True(t, grade.ComponentScores["Exams"].IsLegacy())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositorySaveUpserts(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec("INSERT INTO grades (.+) ON CONFLICT \\(student_id, assessment_id\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	grade := &models.Grade{
		AssessmentID:    "assess-1",
		StudentID:       "stu-1",
		ComponentScores: models.ComponentScores{"Exams": models.LegacyScore(90)},
	}
	require.NoError(t, repo.Save(context.Background(), grade))
	assert.NotEmpty(t, grade.ID)
	assert.False(t, grade.CreatedAt.IsZero())
	assert.False(t, grade.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListFinalGradesByStudentAndClass(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows([]string{"final_grade"}).AddRow(1.75).AddRow(2.25)
	mock.ExpectQuery("SELECT g.final_grade\\s+FROM grades g\\s+JOIN assessments a").
		WithArgs("stu-1", "class-1").
		WillReturnRows(rows)

	finals, err := repo.ListFinalGradesByStudentAndClass(context.Background(), "stu-1", "class-1")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.75, 2.25}, finals)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListGradedWithClass(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows([]string{"final_grade", "units", "is_major_subject", "school_year", "semester"}).
		AddRow(1.5, 3, true, "2025-2026", models.SemesterFirst).
		AddRow(2.5, 3, false, "2025-2026", models.SemesterFirst)
	mock.ExpectQuery("SELECT g.final_grade, c.units, c.is_major_subject, c.school_year, c.semester").
		WithArgs("stu-1").
		WillReturnRows(rows)

	graded, err := repo.ListGradedWithClass(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, graded, 2)
	assert.True(t, graded[0].IsMajorSubject)
	assert.Equal(t, 3, graded[1].Units)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryHasFinalGradeForClass(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	locked, err := repo.HasFinalGradeForClass(context.Background(), "class-1")
	require.NoError(t, err)
	assert.True(t, locked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryDeleteByAssessment(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades WHERE assessment_id = $1")).
		WithArgs("assess-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByAssessment(context.Background(), "assess-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
