package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadify/acadify-api/internal/models"
)

// ClassRepository handles class persistence, including the JSONB grading
// formula and conversion table columns.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, teacher_id, subject_code, subject_name, units, is_major_subject, section, schedule, room,
        school_year, semester, max_students, grading_formula, conversion_table, created_at, updated_at`

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, teacher_id, subject_code, subject_name, units, is_major_subject, section,
        schedule, room, school_year, semester, max_students, grading_formula, conversion_table, created_at, updated_at)
        VALUES (:id, :teacher_id, :subject_code, :subject_name, :units, :is_major_subject, :section,
        :schedule, :room, :school_year, :semester, :max_students, :grading_formula, :conversion_table, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// FindByID returns the class with the given ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE id = $1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// List returns classes matching the filter ordered by subject code.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE 1=1`, classColumns)
	var args []interface{}
	if filter.TeacherID != "" {
		query += fmt.Sprintf(" AND teacher_id = $%d", len(args)+1)
		args = append(args, filter.TeacherID)
	}
	if filter.SchoolYear != "" {
		query += fmt.Sprintf(" AND school_year = $%d", len(args)+1)
		args = append(args, filter.SchoolYear)
	}
	if filter.Semester != "" {
		query += fmt.Sprintf(" AND semester = $%d", len(args)+1)
		args = append(args, filter.Semester)
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (subject_code ILIKE $%d OR subject_name ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	query += " ORDER BY subject_code ASC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// UpdateFormula replaces the grading formula of a class.
func (r *ClassRepository) UpdateFormula(ctx context.Context, classID string, formula models.Formula) error {
	const query = `UPDATE classes SET grading_formula = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, classID, formula, time.Now().UTC()); err != nil {
		return fmt.Errorf("update formula: %w", err)
	}
	return nil
}

// UpdateConversionTable replaces the custom conversion table of a class; nil
// clears it so the default scale applies again.
func (r *ClassRepository) UpdateConversionTable(ctx context.Context, classID string, table *models.ConversionTable) error {
	const query = `UPDATE classes SET conversion_table = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, classID, table, time.Now().UTC()); err != nil {
		return fmt.Errorf("update conversion table: %w", err)
	}
	return nil
}
