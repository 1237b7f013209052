package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadify/acadify-api/internal/models"
)

// AssessmentRepository handles assessment persistence.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a new assessment.
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	assessment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO assessments (id, class_id, title, description, held_on, created_at)
        VALUES (:id, :class_id, :title, :description, :held_on, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assessment); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// FindByID returns the assessment with the given ID.
func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	const query = `SELECT id, class_id, title, description, held_on, created_at FROM assessments WHERE id = $1`
	var assessment models.Assessment
	if err := r.db.GetContext(ctx, &assessment, query, id); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// ListByClass returns a class's assessments ordered by date.
func (r *AssessmentRepository) ListByClass(ctx context.Context, classID string) ([]models.Assessment, error) {
	const query = `SELECT id, class_id, title, description, held_on, created_at
        FROM assessments WHERE class_id = $1 ORDER BY held_on ASC NULLS LAST, created_at ASC`
	var assessments []models.Assessment
	if err := r.db.SelectContext(ctx, &assessments, query, classID); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

// Delete removes an assessment; grade records cascade at the database level.
func (r *AssessmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM assessments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete assessment: no rows")
	}
	return nil
}
