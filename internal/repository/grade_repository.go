package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadify/acadify-api/internal/models"
)

// GradeRepository handles grade record persistence. A grade record is one
// whole aggregate (ledger plus derived fields), so every mutation is written
// back as a single statement: the ledger can never land without its recompute.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

const gradeColumns = `id, assessment_id, student_id, component_scores, calculated_percentage, calculated_grade,
        is_overridden, override_grade, override_reason, final_grade, graded_by, graded_at, created_at, updated_at`

// FindByStudentAndAssessment returns the grade record for a (student,
// assessment) pair.
func (r *GradeRepository) FindByStudentAndAssessment(ctx context.Context, studentID, assessmentID string) (*models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades WHERE student_id = $1 AND assessment_id = $2`, gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, studentID, assessmentID); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Save upserts the whole grade aggregate in one statement.
func (r *GradeRepository) Save(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, assessment_id, student_id, component_scores, calculated_percentage,
        calculated_grade, is_overridden, override_grade, override_reason, final_grade, graded_by, graded_at,
        created_at, updated_at)
        VALUES (:id, :assessment_id, :student_id, :component_scores, :calculated_percentage,
        :calculated_grade, :is_overridden, :override_grade, :override_reason, :final_grade, :graded_by, :graded_at,
        :created_at, :updated_at)
        ON CONFLICT (student_id, assessment_id)
        DO UPDATE SET component_scores = EXCLUDED.component_scores,
            calculated_percentage = EXCLUDED.calculated_percentage,
            calculated_grade = EXCLUDED.calculated_grade,
            is_overridden = EXCLUDED.is_overridden,
            override_grade = EXCLUDED.override_grade,
            override_reason = EXCLUDED.override_reason,
            final_grade = EXCLUDED.final_grade,
            graded_by = EXCLUDED.graded_by,
            graded_at = EXCLUDED.graded_at,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("save grade: %w", err)
	}
	return nil
}

// ListFinalGradesByStudentAndClass returns the non-null final grades of a
// student's grade records in one class, for the enrollment roll-up.
func (r *GradeRepository) ListFinalGradesByStudentAndClass(ctx context.Context, studentID, classID string) ([]float64, error) {
	const query = `SELECT g.final_grade
        FROM grades g
        JOIN assessments a ON a.id = g.assessment_id
        WHERE g.student_id = $1 AND a.class_id = $2 AND g.final_grade IS NOT NULL`
	var finals []float64
	if err := r.db.SelectContext(ctx, &finals, query, studentID, classID); err != nil {
		return nil, fmt.Errorf("list final grades: %w", err)
	}
	return finals, nil
}

// ListGradedWithClass returns every grade record of a student that has a
// non-null final grade, joined with its owning class, for GPA aggregation.
func (r *GradeRepository) ListGradedWithClass(ctx context.Context, studentID string) ([]models.GradeClassRow, error) {
	const query = `SELECT g.final_grade, c.units, c.is_major_subject, c.school_year, c.semester
        FROM grades g
        JOIN assessments a ON a.id = g.assessment_id
        JOIN classes c ON c.id = a.class_id
        WHERE g.student_id = $1 AND g.final_grade IS NOT NULL`
	var rows []models.GradeClassRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list graded with class: %w", err)
	}
	return rows, nil
}

// HasFinalGradeForClass reports whether any grade record in the class carries
// a non-null final grade. This keys the formula edit-lock.
func (r *GradeRepository) HasFinalGradeForClass(ctx context.Context, classID string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM grades g
        JOIN assessments a ON a.id = g.assessment_id
        WHERE a.class_id = $1 AND g.final_grade IS NOT NULL)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, classID); err != nil {
		return false, fmt.Errorf("check final grades for class: %w", err)
	}
	return exists, nil
}

// DeleteByAssessment removes grade records when their assessment goes away.
func (r *GradeRepository) DeleteByAssessment(ctx context.Context, assessmentID string) error {
	const query = `DELETE FROM grades WHERE assessment_id = $1`
	if _, err := r.db.ExecContext(ctx, query, assessmentID); err != nil {
		return fmt.Errorf("delete grades by assessment: %w", err)
	}
	return nil
}
