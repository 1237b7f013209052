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

type formulaClassRepo interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	UpdateFormula(ctx context.Context, classID string, formula models.Formula) error
	UpdateConversionTable(ctx context.Context, classID string, table *models.ConversionTable) error
}

type finalGradeChecker interface {
	HasFinalGradeForClass(ctx context.Context, classID string) (bool, error)
}

// UpdateFormulaRequest replaces a class's grading formula wholesale.
type UpdateFormulaRequest struct {
	Components    []models.FormulaComponent `json:"components" validate:"required,min=1,dive"`
	PassingGrade  float64                   `json:"passing_grade"`
	UseConversion *bool                     `json:"use_conversion"`
}

// FormulaEditability reports whether a class formula can still change.
type FormulaEditability struct {
	CanEdit bool   `json:"can_edit"`
	Reason  string `json:"reason,omitempty"`
}

// FormulaService manages per-class grading formulas and conversion tables.
// A formula locks once any grade record in the class carries a final grade:
// changing weights under recorded grades would silently rewrite their meaning.
type FormulaService struct {
	classes   formulaClassRepo
	grades    finalGradeChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFormulaService constructs FormulaService.
func NewFormulaService(classes formulaClassRepo, grades finalGradeChecker, validate *validator.Validate, logger *zap.Logger) *FormulaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormulaService{classes: classes, grades: grades, validator: validate, logger: logger}
}

// Get returns the class's effective formula. Classes predating per-class
// formulas fall back to the default split.
func (s *FormulaService) Get(ctx context.Context, classID string) (*models.Formula, error) {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	formula := class.GradingFormula
	if len(formula.Components) == 0 {
		formula = grading.DefaultFormula()
	}
	return &formula, nil
}

// CanEdit reports whether the formula is still editable.
func (s *FormulaService) CanEdit(ctx context.Context, classID string) (*FormulaEditability, error) {
	if _, err := s.loadClass(ctx, classID); err != nil {
		return nil, err
	}
	locked, err := s.grades.HasFinalGradeForClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check recorded grades")
	}
	if locked {
		return &FormulaEditability{CanEdit: false, Reason: "grades have already been recorded for this class"}, nil
	}
	return &FormulaEditability{CanEdit: true}, nil
}

// Update replaces the class formula. Fails once any final grade exists.
func (s *FormulaService) Update(ctx context.Context, classID string, req UpdateFormulaRequest) (*models.Formula, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid formula payload")
	}

	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	locked, err := s.grades.HasFinalGradeForClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check recorded grades")
	}
	if locked {
		return nil, appErrors.Clone(appErrors.ErrEditLocked, "")
	}

	formula := models.Formula{
		Components:    req.Components,
		PassingGrade:  class.GradingFormula.PassingGrade,
		UseConversion: class.GradingFormula.UseConversion,
	}
	if formula.PassingGrade == 0 {
		formula.PassingGrade = models.DefaultPassingGrade
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

	if err := s.classes.UpdateFormula(ctx, classID, formula); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update formula")
	}
	s.logger.Info("grading formula updated", zap.String("class_id", classID), zap.Int("components", len(formula.Components)))
	return &formula, nil
}

// GetConversionTable returns the table used for this class, falling back to
// the standard scale when no custom table is stored.
func (s *FormulaService) GetConversionTable(ctx context.Context, classID string) (models.ConversionTable, error) {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.ConversionTable != nil && len(*class.ConversionTable) > 0 {
		return *class.ConversionTable, nil
	}
	return grading.DefaultTable(), nil
}

// SetConversionTable stores a custom conversion table for the class, or
// clears it back to the standard scale when table is nil.
func (s *FormulaService) SetConversionTable(ctx context.Context, classID string, table *models.ConversionTable) error {
	if _, err := s.loadClass(ctx, classID); err != nil {
		return err
	}
	if table != nil {
		if err := validateConversionTable(*table); err != nil {
			return err
		}
	}
	if err := s.classes.UpdateConversionTable(ctx, classID, table); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update conversion table")
	}
	return nil
}

func (s *FormulaService) loadClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

func validateConversionTable(table models.ConversionTable) error {
	if len(table) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "conversion table cannot be empty")
	}
	for _, r := range table {
		if r.Min > r.Max {
			return appErrors.Clone(appErrors.ErrValidation, "conversion range min cannot exceed max")
		}
		if r.Grade < 1.0 || r.Grade > 5.0 {
			return appErrors.Clone(appErrors.ErrValidation, "converted grades must lie between 1.0 and 5.0")
		}
	}
	return nil
}
