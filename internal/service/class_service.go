package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/grading"
	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type classRepo interface {
	Create(ctx context.Context, class *models.Class) error
	FindByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
}

// CreateClassRequest carries the payload for opening a new class.
type CreateClassRequest struct {
	SubjectCode    string                    `json:"subject_code" validate:"required"`
	SubjectName    string                    `json:"subject_name" validate:"required"`
	Units          int                       `json:"units" validate:"required,min=1,max=12"`
	IsMajorSubject bool                      `json:"is_major_subject"`
	Section        *string                   `json:"section"`
	Schedule       *string                   `json:"schedule"`
	Room           *string                   `json:"room"`
	MaxStudents    int                       `json:"max_students" validate:"omitempty,min=1,max=500"`
	Components     []models.FormulaComponent `json:"components"`
	PassingGrade   float64                   `json:"passing_grade"`
	UseConversion  *bool                     `json:"use_conversion"`
}

// ClassService manages class offerings.
type ClassService struct {
	classes   classRepo
	terms     *TermService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(classes classRepo, terms *TermService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, terms: terms, validator: validate, logger: logger}
}

// Create opens a class for the current term under the given teacher. When no
// formula components are supplied the class starts on the default formula.
func (s *ClassService) Create(ctx context.Context, teacherID string, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	formula := grading.DefaultFormula()
	if len(req.Components) > 0 {
		formula.Components = req.Components
	}
	if req.PassingGrade > 0 {
		formula.PassingGrade = req.PassingGrade
	}
	if req.UseConversion != nil {
		formula.UseConversion = *req.UseConversion
	}
	if err := grading.ValidateFormula(formula); err != nil {
		return nil, err
	}

	term, err := s.terms.Current(ctx)
	if err != nil {
		return nil, err
	}

	maxStudents := req.MaxStudents
	if maxStudents == 0 {
		maxStudents = 50
	}

	class := &models.Class{
		TeacherID:      teacherID,
		SubjectCode:    req.SubjectCode,
		SubjectName:    req.SubjectName,
		Units:          req.Units,
		IsMajorSubject: req.IsMajorSubject,
		Section:        req.Section,
		Schedule:       req.Schedule,
		Room:           req.Room,
		SchoolYear:     term.SchoolYear,
		Semester:       term.Semester,
		MaxStudents:    maxStudents,
		GradingFormula: formula,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.logger.Info("class created",
		zap.String("class_id", class.ID),
		zap.String("subject_code", class.SubjectCode),
		zap.String("teacher_id", teacherID))
	return class, nil
}

// Get returns a class by ID.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// List returns classes matching the filter.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	classes, err := s.classes.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}
