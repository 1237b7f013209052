package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type assessmentRepo interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
	ListByClass(ctx context.Context, classID string) ([]models.Assessment, error)
	Delete(ctx context.Context, id string) error
}

type assessmentGradeRepo interface {
	DeleteByAssessment(ctx context.Context, assessmentID string) error
}

// CreateAssessmentRequest opens a gradable unit within a class.
type CreateAssessmentRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	HeldOn      *string `json:"held_on" validate:"omitempty,datetime=2006-01-02"`
}

// AssessmentService manages the gradable units grade records attach to.
type AssessmentService struct {
	assessments assessmentRepo
	grades      assessmentGradeRepo
	classes     gradeClassReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssessmentService constructs AssessmentService.
func NewAssessmentService(assessments assessmentRepo, grades assessmentGradeRepo, classes gradeClassReader, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{assessments: assessments, grades: grades, classes: classes, validator: validate, logger: logger}
}

// Create adds an assessment to a class.
func (s *AssessmentService) Create(ctx context.Context, classID string, req CreateAssessmentRequest) (*models.Assessment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	assessment := &models.Assessment{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.HeldOn != nil {
		heldOn, err := time.Parse(models.ItemDateLayout, *req.HeldOn)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "held_on must be a valid date")
		}
		assessment.HeldOn = &heldOn
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assessment")
	}
	return assessment, nil
}

// ListByClass returns the class's assessments.
func (s *AssessmentService) ListByClass(ctx context.Context, classID string) ([]models.Assessment, error) {
	assessments, err := s.assessments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assessments")
	}
	return assessments, nil
}

// Delete removes an assessment together with its grade records.
func (s *AssessmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.assessments.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessment")
	}
	if err := s.grades.DeleteByAssessment(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade records")
	}
	if err := s.assessments.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assessment")
	}
	s.logger.Info("assessment deleted", zap.String("assessment_id", id))
	return nil
}
